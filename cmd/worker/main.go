package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/pawtally/pawtally/config"
	"github.com/pawtally/pawtally/internal/domain"
	"github.com/pawtally/pawtally/internal/repository/postgres"
	redisrepo "github.com/pawtally/pawtally/internal/repository/redis"
	"github.com/pawtally/pawtally/internal/worker"
	"github.com/pawtally/pawtally/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Initialize logger
	logger.Init(cfg.App.Environment)
	defer logger.Close()

	if cfg.App.IsDevelopment() {
		cfg.Print()
	}

	// Initialize Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	defer rdb.Close()

	queue := redisrepo.NewBallotQueue(rdb, cfg.Redis.QueueKey)

	// The worker owns the database lifecycle: it retries this connector
	// indefinitely until the store accepts a connection.
	connect := func(ctx context.Context) (domain.TallyRepository, error) {
		db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.GetDSN())
		if err != nil {
			return nil, err
		}
		db.SetMaxIdleConns(cfg.Database.MaxIdle)
		db.SetMaxOpenConns(cfg.Database.MaxOpen)
		db.SetConnMaxLifetime(cfg.Database.MaxLife)
		return postgres.NewTallyRepository(db), nil
	}

	tallyWorker := worker.NewTallyWorker(queue, connect, worker.Config{
		ConnectBackoff: cfg.Worker.ConnectBackoff,
		ErrorBackoff:   cfg.Worker.ErrorBackoff,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel the worker context on SIGINT/SIGTERM; there is no drain
	// step, in-flight queue entries stay queued for the next run.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.Info("Shutting down tally worker...")
		cancel()
	}()

	tallyWorker.Run(ctx)

	logger.Info("Worker exited")
}
