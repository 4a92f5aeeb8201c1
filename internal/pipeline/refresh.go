package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"nbastats/refresher/internal/client"
	"nbastats/refresher/internal/metrics"
	"nbastats/refresher/internal/models"
	"nbastats/refresher/internal/stats"

	"github.com/rs/zerolog/log"
)

// LeaderboardFetcher supplies the seed set of players to refresh.
type LeaderboardFetcher interface {
	FetchLeagueLeaders(ctx context.Context) ([]client.Leader, error)
}

// GameLogFetcher supplies one player's season game log, most recent
// game first.
type GameLogFetcher interface {
	FetchPlayerGameLogs(ctx context.Context, playerID int64) ([]models.GameRecord, error)
}

// SnapshotWriter persists the assembled document.
type SnapshotWriter interface {
	SaveDocument(ctx context.Context, doc *models.StatsDocument) error
}

// Config holds the Refresher's collaborators. Everything is explicit;
// the pipeline performs no ambient lookups.
type Config struct {
	Leaderboard LeaderboardFetcher
	GameLogs    GameLogFetcher
	Store       SnapshotWriter
	Ranker      stats.DefenseRanker

	// LeaderLimit caps how many leaderboard rows seed the refresh.
	LeaderLimit int

	// PacingDelay is slept unconditionally after every per-player
	// upstream call, success or failure, to respect upstream rate
	// limits. It is why players are processed strictly one at a time.
	PacingDelay time.Duration

	// Now overrides the clock in tests. Nil means time.Now.
	Now func() time.Time
}

// Result summarizes a completed refresh run.
type Result struct {
	PlayersUpdated int
	Timestamp      time.Time
}

// Refresher orchestrates one full stats refresh: leaderboard fetch,
// per-player game log fetch, aggregation, and atomic snapshot
// persistence. A single linear pass with no retries: per-player
// failures are skipped, leaderboard or store failures affect the whole
// run.
type Refresher struct {
	cfg Config
	now func() time.Time
}

// NewRefresher creates a new refresh pipeline
func NewRefresher(cfg Config) *Refresher {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Refresher{cfg: cfg, now: now}
}

// Run executes one refresh. If the leaderboard fetch fails the run
// persists the demo document instead and still reports success; a
// store failure is fatal and nothing is written.
func (r *Refresher) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	log.Info().Msg("Starting stats refresh")

	leaders, err := r.cfg.Leaderboard.FetchLeagueLeaders(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Leaderboard fetch failed, falling back to demo data")
		metrics.ErrorsTotal.WithLabelValues("pipeline", "leaderboard").Inc()
		return r.persistDemo(ctx)
	}

	if len(leaders) > r.cfg.LeaderLimit {
		leaders = leaders[:r.cfg.LeaderLimit]
	}
	log.Info().Int("count", len(leaders)).Msg("Leaderboard fetched")

	players := make([]models.PlayerSnapshot, 0, len(leaders))
	for _, leader := range leaders {
		snapshot, ok := r.refreshPlayer(ctx, leader)
		if ok {
			players = append(players, snapshot)
		}

		// Unconditional pacing between upstream calls. Deliberately a
		// plain sleep: a run in flight finishes its pacing even when
		// the context is cancelled.
		time.Sleep(r.cfg.PacingDelay)
	}

	sort.Slice(players, func(i, j int) bool {
		return players[i].Name < players[j].Name
	})

	doc := &models.StatsDocument{
		Players:     players,
		LastUpdated: r.now(),
		Source:      models.SourceLive,
	}

	if err := r.cfg.Store.SaveDocument(ctx, doc); err != nil {
		metrics.RefreshRunsTotal.WithLabelValues("error").Inc()
		metrics.ErrorsTotal.WithLabelValues("pipeline", "store").Inc()
		return Result{}, fmt.Errorf("failed to persist snapshot: %w", err)
	}

	metrics.RefreshRunsTotal.WithLabelValues("live").Inc()
	metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	metrics.PlayersUpdated.Set(float64(len(players)))
	metrics.LastSuccessfulRefresh.Set(float64(doc.LastUpdated.Unix()))

	log.Info().
		Int("players_updated", len(players)).
		Dur("duration", time.Since(start)).
		Msg("Stats refresh complete")

	return Result{PlayersUpdated: len(players), Timestamp: doc.LastUpdated}, nil
}

// refreshPlayer fetches and aggregates a single player. Failures are
// fully isolated: an empty or failed game log means the player is
// omitted from the document, never defaulted to zeros.
func (r *Refresher) refreshPlayer(ctx context.Context, leader client.Leader) (models.PlayerSnapshot, bool) {
	games, err := r.cfg.GameLogs.FetchPlayerGameLogs(ctx, leader.PlayerID)
	if err != nil {
		log.Warn().
			Err(err).
			Str("player", leader.Name).
			Msg("Game log fetch failed, skipping player")
		metrics.PlayersSkippedTotal.Inc()
		return models.PlayerSnapshot{}, false
	}
	if len(games) == 0 {
		log.Warn().
			Str("player", leader.Name).
			Msg("No games in log, skipping player")
		metrics.PlayersSkippedTotal.Inc()
		return models.PlayerSnapshot{}, false
	}

	schedule := stats.DeriveSchedule(games)

	return models.PlayerSnapshot{
		Name:                leader.Name,
		Team:                leader.Team,
		Stats:               stats.Summarize(games),
		LastGameDate:        schedule.LastGameDate,
		NextOpponent:        schedule.NextOpponent,
		NextIsHome:          schedule.NextIsHome,
		IsBackToBack:        schedule.IsBackToBack,
		OpponentDefenseRank: r.cfg.Ranker.Rank(schedule.NextOpponent),
	}, true
}

// persistDemo stores the demo document as the whole-run fallback. The
// stored document carries the demo tag so readers can always tell it
// apart from live data.
func (r *Refresher) persistDemo(ctx context.Context) (Result, error) {
	doc := BuildDemoDocument(r.cfg.Ranker, r.now())

	if err := r.cfg.Store.SaveDocument(ctx, doc); err != nil {
		metrics.RefreshRunsTotal.WithLabelValues("error").Inc()
		metrics.ErrorsTotal.WithLabelValues("pipeline", "store").Inc()
		return Result{}, fmt.Errorf("failed to persist demo snapshot: %w", err)
	}

	metrics.RefreshRunsTotal.WithLabelValues("demo").Inc()
	metrics.DemoFallbacksTotal.WithLabelValues("refresh").Inc()
	metrics.PlayersUpdated.Set(float64(len(doc.Players)))

	log.Info().
		Int("players_updated", len(doc.Players)).
		Msg("Demo snapshot persisted")

	return Result{PlayersUpdated: len(doc.Players), Timestamp: doc.LastUpdated}, nil
}
