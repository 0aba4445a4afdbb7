// scoring/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	scoringapi "github.com/birthday-games/go-services/scoring/api"
	"github.com/birthday-games/go-services/scoring/client"
	"github.com/birthday-games/go-services/scoring/service"
	"github.com/birthday-games/go-services/scoring/store"
	"github.com/birthday-games/go-services/scoring/syncer"
	"github.com/birthday-games/go-services/shared/api"
	"github.com/birthday-games/go-services/shared/config"
	redisu "github.com/birthday-games/go-services/shared/redis"
	"github.com/birthday-games/go-services/shared/registry"
)

func main() {
	cfg, err := config.LoadScoringConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	redisClient, err := redisu.NewRedisClusterClient(cfg.RedisAddrs, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("Failed to connect to Redis cluster: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("ERROR: Failed to close Redis client: %v", err)
		}
	}()

	recordStore := client.NewRecordStoreClient(cfg.RecordStoreURL, nil)

	rosterService := service.NewRosterService(recordStore)
	teamService := service.NewTeamService(recordStore, cfg.ReassignPacing)
	scoreService := service.NewScoreService(recordStore, cfg.ScorePacing)
	standingsService := service.NewStandingsService(recordStore, rosterService)
	identityStore := store.NewIdentityStore(redisClient)

	registrar := registry.NewServiceRegistrar(redisClient, "scoring-service", &cfg.CommonConfig)
	registrar.Start()
	defer registrar.Stop()

	registryClient := registry.NewRegistryClient(redisClient, cfg.HeartbeatTTL)

	standingsSyncer := syncer.NewStandingsSyncer(cfg, standingsService, redisClient, registryClient, registrar)
	go standingsSyncer.Start()
	defer standingsSyncer.Stop()

	handlers := scoringapi.NewScoringAPIHandlers(
		rosterService,
		teamService,
		scoreService,
		standingsService,
		identityStore,
		redisClient,
	)

	baseServer := api.NewBaseServer(cfg.ListenAddr, log.Default())
	handlers.RegisterRoutes(baseServer.Router)

	go func() {
		if err := baseServer.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed to start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down scoring service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := baseServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("HTTP server graceful shutdown failed: %v", err)
	}
	log.Println("Scoring service stopped.")
}
