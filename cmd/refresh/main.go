// Command refresh runs a single stats refresh against the live
// upstream and exits. Useful for manual reruns and deploy smoke tests.
package main

import (
	"context"

	"nbastats/refresher/internal/client"
	"nbastats/refresher/internal/config"
	"nbastats/refresher/internal/pipeline"
	"nbastats/refresher/internal/stats"
	"nbastats/refresher/internal/store"

	"github.com/rs/zerolog/log"
)

func main() {
	ctx := context.Background()
	cfg := config.MustLoad()

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

	// Validate store health before spending upstream quota
	log.Info().Msg("Validating service health...")
	if err := snapshots.Health(ctx); err != nil {
		log.Fatal().Err(err).Msg("Snapshot store health check failed")
	}

	nbaClient := client.NewClient(
		cfg.NBAStatsBaseURL,
		cfg.Season,
		cfg.SeasonType,
		cfg.NBAStatsTimeout,
	)

	refresher := pipeline.NewRefresher(pipeline.Config{
		Leaderboard: nbaClient,
		GameLogs:    nbaClient,
		Store:       snapshots,
		Ranker:      stats.NewRandomRanker(),
		LeaderLimit: cfg.LeaderLimit,
		PacingDelay: cfg.PacingDelay,
	})

	result, err := refresher.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Refresh failed")
	}

	log.Info().
		Int("players_updated", result.PlayersUpdated).
		Time("timestamp", result.Timestamp).
		Msg("Manual refresh complete.")
}
