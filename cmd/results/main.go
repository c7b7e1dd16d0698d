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
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/pawtally/pawtally/config"
	apihandler "github.com/pawtally/pawtally/internal/handler/api"
	"github.com/pawtally/pawtally/internal/repository/postgres"
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

	// Initialize database connection
	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.Close()

	db.SetMaxIdleConns(cfg.Database.MaxIdle)
	db.SetMaxOpenConns(cfg.Database.MaxOpen)
	db.SetConnMaxLifetime(cfg.Database.MaxLife)

	logger.Info("Database connection established")

	// Initialize repository and handler
	tallyRepo := postgres.NewTallyRepository(db)
	resultsHandler := apihandler.NewResultsHandler(tallyRepo)

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

	apihandler.SetupResultsRoutes(router, resultsHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:    ":" + cfg.App.ResultsPort,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting results server",
			logger.String("port", cfg.App.ResultsPort),
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

	logger.Info("Shutting down results server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server exited")
}
