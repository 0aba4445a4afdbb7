// recordstore/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	recordapi "github.com/birthday-games/go-services/recordstore/api"
	"github.com/birthday-games/go-services/recordstore/store"
	"github.com/birthday-games/go-services/shared/api"
	"github.com/birthday-games/go-services/shared/config"
	mongodbu "github.com/birthday-games/go-services/shared/mongodb"
	redisu "github.com/birthday-games/go-services/shared/redis"
	"github.com/birthday-games/go-services/shared/registry"
)

func main() {
	cfg, err := config.LoadRecordStoreConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var recordStore store.RecordStore
	if cfg.MongoDBConnStr == "memory" {
		log.Println("INFO: Using in-memory record store.")
		recordStore = store.NewMemoryStore()
	} else {
		mongoClient, err := mongodbu.NewClient(cfg.MongoDBConnStr, cfg.MongoDBDatabase)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				log.Printf("ERROR: Failed to disconnect from MongoDB: %v", err)
			}
		}()
		recordStore = store.NewMongoStore(mongoClient)
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

	handlers := recordapi.NewRecordStoreHandlers(recordStore)

	registrar := registry.NewServiceRegistrar(redisClient, "recordstore-service", &cfg.CommonConfig)
	registrar.Start()
	defer registrar.Stop()

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

	log.Println("Shutting down record store service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := baseServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("HTTP server graceful shutdown failed: %v", err)
	}
	log.Println("Record store service stopped.")
}
