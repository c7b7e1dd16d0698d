package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/pawtally/pawtally/config"
	apihandler "github.com/pawtally/pawtally/internal/handler/api"
	redisrepo "github.com/pawtally/pawtally/internal/repository/redis"
	"github.com/pawtally/pawtally/pkg/logger"
	"github.com/pawtally/pawtally/pkg/observability"
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

	// Initialize Redis connection. The client dials lazily, so an
	// unreachable queue store at boot surfaces through /health rather
	// than preventing startup.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		logger.Warn("Queue store not reachable yet", logger.ErrorField(err))
	} else {
		logger.Info("Queue store connection established")
	}

	// Initialize queue repository and handler
	queue := redisrepo.NewBallotQueue(rdb, cfg.Redis.QueueKey)
	voteHandler := apihandler.NewVoteHandler(queue)

	// Set Gin mode
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize metrics handler
	metricsHandler := observability.NewMetricsHandler()

	// Create Gin router
	router := gin.New()
	router.Use(observability.ObservabilityMiddleware())
	router.Use(gin.Recovery())

	router.GET("/metrics", metricsHandler.MetricsEndpoint())
	router.GET("/live", metricsHandler.LivenessEndpoint())

	apihandler.SetupVoteRoutes(router, voteHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting vote intake server",
			logger.String("port", cfg.App.Port),
			logger.String("environment", cfg.App.Environment),
		)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down vote intake server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server exited")
}
