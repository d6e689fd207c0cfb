package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/inkwell-io/backend/internal/config"
	"github.com/inkwell-io/backend/internal/ratelimit"
	"github.com/inkwell-io/backend/internal/server"
	"github.com/inkwell-io/backend/internal/storage"
)

func main() {
	// Load env if it exists
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	postgres, err := storage.NewPostgres(cfg.Postgres.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer postgres.Close()

	if err := postgres.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Connected to postgres successfully")

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Redis backs both the profile image cache and the admission
	// counters. Without it the counters fall back to process-local
	// memory, which is fine for a single instance.
	var redis *storage.RedisClient
	var counters ratelimit.CounterStore

	if cfg.Redis.Enabled {
		redis, err = storage.NewRedis(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redis.Close()

		counters = ratelimit.NewRedisStore(redis)
		log.Println("Connected to redis successfully")
	} else {
		counters = ratelimit.NewMemoryStore(rootCtx)
		log.Println("Redis disabled, using in-memory admission counters")
	}

	var objectStore *storage.ObjectStore
	if cfg.ObjectStore.AccountID != "" {
		objectStore, err = storage.NewObjectStore(
			rootCtx,
			cfg.ObjectStore.Endpoint(),
			cfg.ObjectStore.AccessKeyID,
			cfg.ObjectStore.SecretAccessKey,
			cfg.ObjectStore.Bucket,
			cfg.ObjectStore.PublicURL,
		)
		if err != nil {
			log.Fatalf("Failed to configure object store: %v", err)
		}
	}

	srv := server.New(cfg, postgres, redis, objectStore, counters)

	go func() {
		addr := ":" + cfg.Server.Port
		if err := srv.Run(addr); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
