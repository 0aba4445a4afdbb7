// scoring/syncer/standings_syncer.go
package syncer

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/birthday-games/go-services/scoring/service"
	"github.com/birthday-games/go-services/shared/cluster"
	"github.com/birthday-games/go-services/shared/config"
	"github.com/birthday-games/go-services/shared/registry"
	"github.com/redis/go-redis/v9"

	redisu "github.com/birthday-games/go-services/shared/redis"
)

// standingsSyncTaskKey is the single cluster-wide task handled by the elected
// leader. Every instance hashes the same key, so exactly one owns it.
const standingsSyncTaskKey = "global_standings_sync_task"

// StandingsSyncer periodically recomputes the standings from the record store
// and caches the JSON snapshot in Redis, so read-heavy scoreboard screens can
// be served without touching the record store on every poll. It uses
// ServiceAssignmentManager to ensure only one instance in the cluster performs
// the refresh.
type StandingsSyncer struct {
	config            *config.ScoringConfig
	standingsService  *service.StandingsService
	redisClient       *redis.ClusterClient
	assignmentManager *cluster.ServiceAssignmentManager
	ctx               context.Context
	cancel            context.CancelFunc
}

// NewStandingsSyncer creates a new StandingsSyncer instance. Leadership for
// the refresh task is decided by a ServiceAssignmentManager built over the
// service registry.
func NewStandingsSyncer(
	cfg *config.ScoringConfig,
	standingsService *service.StandingsService,
	redisClient *redis.ClusterClient,
	registryClient *registry.RegistryClient,
	serviceRegistrar *registry.ServiceRegistrar,
) *StandingsSyncer {
	ctx, cancel := context.WithCancel(context.Background())

	assignmentManager := cluster.NewServiceAssignmentManager(
		registryClient,
		serviceRegistrar,
		cfg.HeartbeatInterval,
	)

	return &StandingsSyncer{
		config:            cfg,
		standingsService:  standingsService,
		redisClient:       redisClient,
		assignmentManager: assignmentManager,
		ctx:               ctx,
		cancel:            cancel,
	}
}

// Start initiates the refresh loop. This should be run in a goroutine.
func (ss *StandingsSyncer) Start() {
	log.Printf("INFO: Standings Syncer starting with sync interval: %v", ss.config.StandingsSyncInterval)
	ticker := time.NewTicker(ss.config.StandingsSyncInterval)
	defer ticker.Stop()

	go ss.assignmentManager.Start()

	for {
		select {
		case <-ss.ctx.Done():
			log.Println("INFO: Standings Syncer shutting down.")
			ss.assignmentManager.Stop()
			return
		case <-ticker.C:
			ss.refreshSnapshot()
		}
	}
}

// Stop gracefully stops the refresh loop.
func (ss *StandingsSyncer) Stop() {
	ss.cancel()
}

// refreshSnapshot recomputes the standings and writes the cached snapshot.
// Only the cluster leader for standingsSyncTaskKey does the work.
func (ss *StandingsSyncer) refreshSnapshot() {
	isLeader, err := ss.assignmentManager.IsResponsible(standingsSyncTaskKey)
	if err != nil {
		log.Printf("ERROR: StandingsSyncer: Failed to check leadership for task %q: %v", standingsSyncTaskKey, err)
		return
	}
	if !isLeader {
		return
	}

	refreshCtx, refreshCancel := context.WithTimeout(ss.ctx, ss.config.StandingsSyncInterval)
	defer refreshCancel()

	standings := ss.standingsService.ComputeStandings(refreshCtx)

	payload, err := json.Marshal(standings)
	if err != nil {
		log.Printf("ERROR: StandingsSyncer: Failed to marshal standings snapshot: %v", err)
		return
	}

	if err := ss.redisClient.Set(refreshCtx, redisu.StandingsSnapshotKey, payload, ss.config.StandingsCacheTTL).Err(); err != nil {
		log.Printf("ERROR: StandingsSyncer: Failed to cache standings snapshot in Redis: %v", err)
		return
	}

	log.Printf("INFO: StandingsSyncer: Cached standings snapshot for %d teams.", len(standings.Teams))
}

// Snapshot returns the cached standings snapshot, or redisu.ErrRedisKeyNotFound
// when no snapshot has been written yet.
func Snapshot(ctx context.Context, redisClient *redis.ClusterClient) (*service.Standings, error) {
	raw, err := redisClient.Get(ctx, redisu.StandingsSnapshotKey).Bytes()
	if err == redis.Nil {
		return nil, redisu.ErrRedisKeyNotFound
	}
	if err != nil {
		return nil, err
	}

	var standings service.Standings
	if err := json.Unmarshal(raw, &standings); err != nil {
		return nil, err
	}
	return &standings, nil
}
