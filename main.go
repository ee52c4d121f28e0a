package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rifthouse/rifthouse/internal/config"
	"github.com/rifthouse/rifthouse/internal/database"
	"github.com/rifthouse/rifthouse/internal/dispatch"
	server "github.com/rifthouse/rifthouse/internal/http"
	"github.com/rifthouse/rifthouse/internal/launcher"
	"github.com/rifthouse/rifthouse/internal/match"
	"github.com/rifthouse/rifthouse/internal/metrics"
	"github.com/rifthouse/rifthouse/internal/pubsub"
	"github.com/rifthouse/rifthouse/internal/queue"
	"github.com/rifthouse/rifthouse/internal/registry"
	"github.com/rifthouse/rifthouse/internal/store"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	playerStore := registry.New(db)
	matchStore := store.New(db)
	pubsubClient := pubsub.New(cfg.ProjectID)
	gameLauncher := launcher.New(pubsubClient)

	playerQueue := queue.New(cfg.Queue.MatchSize, nil)
	dispatcher := dispatch.New(playerStore, playerQueue, dispatch.LogBroadcaster{}, pubsubClient, metricsSvc)

	opts, err := match.OptionsFromConfig(cfg.Queue, cfg.Draft)
	if err != nil {
		log.Fatalf("Invalid draft configuration: %s", err)
	}
	coordinator := match.New(matchStore, playerQueue, dispatcher, gameLauncher, metricsSvc, opts)
	playerQueue.SetActiveMatchChecker(coordinator)
	dispatcher.SetCoordinator(coordinator)

	// Rebuild live matches before admitting any commands.
	if err := coordinator.Restore(); err != nil {
		log.Fatalf("Failed to restore matches: %s", err)
	}
	coordinator.StartAudit(cfg.Queue.AuditInterval)
	defer coordinator.StopAudit()

	s := server.NewServer(
		dispatcher,
		metricsSvc,
		metricsHandler,
		cfg,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
