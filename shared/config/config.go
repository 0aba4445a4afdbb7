// shared/config/config.go
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// CommonConfig holds the fields shared by both services.
type CommonConfig struct {
	RedisAddrs              []string      // Redis server addresses (e.g., "redis-cluster:6379")
	RedisPassword           string        // Redis password, empty for none
	HeartbeatInterval       time.Duration // How often a service heartbeats to the registry
	HeartbeatTTL            time.Duration // How long an instance counts as alive without a heartbeat
	RegistryCleanupInterval time.Duration // How often stale registry entries are purged
	ServiceIP               string        // The IP this service advertises for registration
	ServicePort             int           // The port this service listens on, used for registration
}

// RecordStoreConfig configures the record-store backend service.
type RecordStoreConfig struct {
	CommonConfig
	ListenAddr      string // Address for the HTTP server (e.g., ":8090")
	MongoDBConnStr  string // MongoDB connection string, or "memory" for the in-memory store
	MongoDBDatabase string // MongoDB database name
}

// ScoringConfig configures the scoring service.
type ScoringConfig struct {
	CommonConfig
	ListenAddr            string        // Address for the HTTP server (e.g., ":8091")
	RecordStoreURL        string        // Base URL of the record store backend
	ReassignPacing        time.Duration // Delay between per-player writes during team reformation
	ScorePacing           time.Duration // Delay between writes during a batch score save
	StandingsSyncInterval time.Duration // How often the standings snapshot job runs
	StandingsCacheTTL     time.Duration // TTL of the cached standings snapshot in Redis
}

// LoadCommonConfig loads the shared configuration from environment variables.
func LoadCommonConfig() (CommonConfig, error) {
	cfg := CommonConfig{}
	var err error

	redisAddrsStr := os.Getenv("REDIS_ADDRS")
	if redisAddrsStr == "" {
		cfg.RedisAddrs = []string{"localhost:6379"}
	} else {
		for _, addr := range strings.Split(redisAddrsStr, ",") {
			cfg.RedisAddrs = append(cfg.RedisAddrs, strings.TrimSpace(addr))
		}
	}
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	cfg.HeartbeatInterval, err = getDuration("SERVICE_HEARTBEAT_INTERVAL", 5*time.Second)
	if err != nil {
		return cfg, err
	}
	cfg.HeartbeatTTL, err = getDuration("SERVICE_HEARTBEAT_TTL", 15*time.Second)
	if err != nil {
		return cfg, err
	}
	cfg.RegistryCleanupInterval, err = getDuration("SERVICE_REGISTRY_CLEANUP_INTERVAL", 30*time.Second)
	if err != nil {
		return cfg, err
	}

	cfg.ServiceIP = os.Getenv("POD_IP")
	if cfg.ServiceIP == "" {
		cfg.ServiceIP = "0.0.0.0"
	}

	return cfg, nil
}

// LoadRecordStoreConfig loads configuration for the record-store service.
func LoadRecordStoreConfig() (*RecordStoreConfig, error) {
	common, err := LoadCommonConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load common config for recordstore: %w", err)
	}

	cfg := &RecordStoreConfig{
		CommonConfig:    common,
		ListenAddr:      os.Getenv("RECORDSTORE_LISTEN_ADDR"),
		MongoDBConnStr:  os.Getenv("MONGODB_CONN_STR"),
		MongoDBDatabase: os.Getenv("MONGODB_DATABASE"),
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8090"
	}
	if cfg.MongoDBConnStr == "" {
		cfg.MongoDBConnStr = "mongodb://localhost:27017"
	}
	if cfg.MongoDBDatabase == "" {
		cfg.MongoDBDatabase = "birthday_games"
	}

	cfg.ServicePort, err = extractPort(cfg.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to extract port from RECORDSTORE_LISTEN_ADDR %q: %w", cfg.ListenAddr, err)
	}

	return cfg, nil
}

// LoadScoringConfig loads configuration for the scoring service.
func LoadScoringConfig() (*ScoringConfig, error) {
	common, err := LoadCommonConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load common config for scoring: %w", err)
	}

	cfg := &ScoringConfig{
		CommonConfig:   common,
		ListenAddr:     os.Getenv("SCORING_LISTEN_ADDR"),
		RecordStoreURL: os.Getenv("RECORDSTORE_URL"),
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8091"
	}
	if cfg.RecordStoreURL == "" {
		cfg.RecordStoreURL = "http://localhost:8090"
	}

	// Pacing keeps bulk flows gentle on the backend; tests set these to zero.
	cfg.ReassignPacing, err = getDuration("SCORING_REASSIGN_PACING", 120*time.Millisecond)
	if err != nil {
		return nil, err
	}
	cfg.ScorePacing, err = getDuration("SCORING_SCORE_PACING", 100*time.Millisecond)
	if err != nil {
		return nil, err
	}
	cfg.StandingsSyncInterval, err = getDuration("SCORING_STANDINGS_SYNC_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.StandingsCacheTTL, err = getDuration("SCORING_STANDINGS_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg.ServicePort, err = extractPort(cfg.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to extract port from SCORING_LISTEN_ADDR %q: %w", cfg.ListenAddr, err)
	}

	return cfg, nil
}

// getDuration parses a duration env var, falling back to a default.
func getDuration(envKey string, defaultVal time.Duration) (time.Duration, error) {
	valStr := os.Getenv(envKey)
	if valStr == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format for %s: %w", envKey, err)
	}
	return d, nil
}

// extractPort extracts the numeric port from a listen address
// (e.g., ":8090" -> 8090, "0.0.0.0:8090" -> 8090).
func extractPort(listenAddr string) (int, error) {
	_, portStr, err := net.SplitHostPort(listenAddr)
	if err != nil {
		if strings.HasPrefix(listenAddr, ":") {
			portStr = strings.TrimPrefix(listenAddr, ":")
		} else {
			return 0, fmt.Errorf("invalid listen address for port extraction: %w", err)
		}
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid port number %q: %w", portStr, err)
	}
	return port, nil
}
