package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nbastats/refresher/internal/client"
	"nbastats/refresher/internal/config"
	"nbastats/refresher/internal/metrics"
	"nbastats/refresher/internal/pipeline"
	"nbastats/refresher/internal/scheduler"
	"nbastats/refresher/internal/server"
	"nbastats/refresher/internal/stats"
	"nbastats/refresher/internal/store"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logger
	setupLogger()

	log.Info().Msg("Starting NBA Stats Refresher Worker")

	// Load configuration
	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Str("season", cfg.Season).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	// Initialize NBA stats client
	nbaClient := client.NewClient(
		cfg.NBAStatsBaseURL,
		cfg.Season,
		cfg.SeasonType,
		cfg.NBAStatsTimeout,
	)
	log.Info().Msg("NBA stats client initialized")

	// Initialize snapshot store
	snapshots, err := store.NewSnapshotStore(ctx, store.Config{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Key:      cfg.SnapshotKey,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to snapshot store")
	}
	defer snapshots.Close()

	// Assemble the refresh pipeline
	ranker := stats.NewRandomRanker()
	refresher := pipeline.NewRefresher(pipeline.Config{
		Leaderboard: nbaClient,
		GameLogs:    nbaClient,
		Store:       snapshots,
		Ranker:      ranker,
		LeaderLimit: cfg.LeaderLimit,
		PacingDelay: cfg.PacingDelay,
	})

	// Start metrics HTTP server
	if cfg.EnableMetrics {
		go startMetricsServer(cfg.MetricsPort)
	}

	// Update system uptime metric
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Create and start scheduler
	sched := scheduler.NewScheduler(cfg, refresher)

	if cfg.EnableScheduler {
		log.Info().Msg("Starting scheduler...")
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	// Run initial refresh if enabled
	if cfg.InitialRefreshEnabled {
		log.Info().Msg("Running initial stats refresh...")
		if result, err := refresher.Run(ctx); err != nil {
			log.Error().Err(err).Msg("Initial refresh failed, continuing anyway...")
		} else {
			log.Info().
				Int("players_updated", result.PlayersUpdated).
				Msg("Initial refresh completed successfully")
		}
	}

	// Start API server
	api := server.New(cfg.RefreshSecret, refresher, snapshots, ranker)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: api.Handler(),
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("Starting API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("API server failed")
			cancel()
		}
	}()

	// Keep running until context is cancelled
	<-ctx.Done()

	// Graceful shutdown
	log.Info().Msg("Shutting down scheduler...")
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("API server shutdown failed")
	}

	log.Info().Msg("Worker shutdown complete")
}

// setupLogger configures the zerolog logger
func setupLogger() {
	// Pretty console logging in development
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	// Set log level
	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// startMetricsServer starts the Prometheus metrics HTTP server
func startMetricsServer(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	log.Info().Int("port", port).Msg("Starting metrics server")

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
