package scheduler

import (
	"context"
	"fmt"

	"nbastats/refresher/internal/config"
	"nbastats/refresher/internal/pipeline"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs the refresh pipeline on a cron schedule. Overlapping
// runs are not mutually excluded: the store is last-writer-wins and
// the expected trigger cadence is well above run duration.
type Scheduler struct {
	cfg       *config.Config
	refresher *pipeline.Refresher
	cron      *cron.Cron
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.Config, refresher *pipeline.Refresher) *Scheduler {
	return &Scheduler{
		cfg:       cfg,
		refresher: refresher,
		cron:      cron.New(),
	}
}

// Start schedules the refresh job and starts the cron runner
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.RefreshCron, func() {
		log.Info().Msg("Running scheduled stats refresh...")
		result, err := s.refresher.Run(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Scheduled refresh failed")
			return
		}
		log.Info().
			Int("players_updated", result.PlayersUpdated).
			Time("timestamp", result.Timestamp).
			Msg("Scheduled refresh complete")
	}); err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.RefreshCron).
		Msg("Stats refresh scheduled")

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	log.Info().Msg("Scheduler stopped")
}
