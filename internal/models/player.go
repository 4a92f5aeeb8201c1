package models

import (
	"encoding/json"
	"time"
)

// Source tags a StatsDocument with where its contents came from.
// Demo documents are synthetic placeholders; callers must be able to
// tell them apart from live data even after persistence.
type Source string

const (
	SourceLive Source = "live"
	SourceDemo Source = "demo"
)

// GameRecord is one row of a player's game log, parsed from the
// upstream headers/rowSet response. Immutable once constructed.
type GameRecord struct {
	GameDate   time.Time
	Points     float64
	Rebounds   float64
	Assists    float64
	ThreesMade float64
	Matchup    string
}

// MetricSummary holds the mean and population standard deviation of a
// single metric, formatted to one decimal place. Values are recomputed
// fresh on every refresh, never merged with prior summaries.
type MetricSummary struct {
	Mean   string `json:"mean"`
	StdDev string `json:"stdDev"`
}

// PlayerStats aggregates the four tracked metrics over a player's
// analyzed games.
type PlayerStats struct {
	Points        MetricSummary `json:"points"`
	Rebounds      MetricSummary `json:"rebounds"`
	Assists       MetricSummary `json:"assists"`
	Threes        MetricSummary `json:"threes"`
	GamesAnalyzed int           `json:"gamesAnalyzed"`
}

// PlayerSnapshot is the per-player unit of the persisted document.
type PlayerSnapshot struct {
	Name         string      `json:"name"`
	Team         string      `json:"team"`
	Stats        PlayerStats `json:"stats"`
	LastGameDate time.Time   `json:"lastGameDate"`
	NextOpponent string      `json:"nextOpponent"`
	NextIsHome   bool        `json:"nextIsHome"`
	IsBackToBack bool        `json:"isBackToBack"`

	// OpponentDefenseRank is a placeholder in [1,30], not a real
	// ranking. Callers must not treat it as meaningful data.
	OpponentDefenseRank int `json:"opponentDefenseRank"`
}

// StatsDocument is the sole persisted artifact: the full snapshot of
// every tracked player, fully overwritten on each refresh. Players are
// always sorted by name ascending before persistence.
type StatsDocument struct {
	Players     []PlayerSnapshot `json:"players"`
	LastUpdated time.Time        `json:"lastUpdated"`
	Source      Source           `json:"source"`
}

// IsDemo reports whether the document holds placeholder data.
func (d *StatsDocument) IsDemo() bool {
	return d.Source == SourceDemo
}

// MarshalJSON emits the legacy isDemoData flag alongside the source tag
// so existing dashboard clients keep working.
func (d StatsDocument) MarshalJSON() ([]byte, error) {
	type alias StatsDocument
	return json.Marshal(struct {
		alias
		IsDemoData bool `json:"isDemoData"`
	}{
		alias:      alias(d),
		IsDemoData: d.Source == SourceDemo,
	})
}
