package pipeline

import (
	"sort"
	"time"

	"nbastats/refresher/internal/models"
	"nbastats/refresher/internal/stats"
)

// demoPlayer holds a preset per-game average line for the fixed demo
// dataset served when no live data can be produced.
type demoPlayer struct {
	name   string
	team   string
	avgPts float64
	avgReb float64
	avgAst float64
	avgFg3 float64
}

var demoPlayers = []demoPlayer{
	{name: "LeBron James", team: "LAL", avgPts: 25, avgReb: 7, avgAst: 8, avgFg3: 2},
	{name: "Stephen Curry", team: "GSW", avgPts: 27, avgReb: 5, avgAst: 6, avgFg3: 5},
	{name: "Giannis Antetokounmpo", team: "MIL", avgPts: 30, avgReb: 11, avgAst: 6, avgFg3: 1},
	{name: "Joel Embiid", team: "PHI", avgPts: 33, avgReb: 10, avgAst: 4, avgFg3: 1},
	{name: "Luka Doncic", team: "DAL", avgPts: 28, avgReb: 9, avgAst: 8, avgFg3: 3},
}

// BuildDemoDocument assembles the fixed 5-player placeholder document.
// Preset averages become synthetic summaries with stdDev = mean * 0.25
// and 20 games analyzed. The document is always tagged SourceDemo.
func BuildDemoDocument(ranker stats.DefenseRanker, now time.Time) *models.StatsDocument {
	players := make([]models.PlayerSnapshot, 0, len(demoPlayers))
	for _, p := range demoPlayers {
		players = append(players, models.PlayerSnapshot{
			Name: p.name,
			Team: p.team,
			Stats: models.PlayerStats{
				Points:        stats.SyntheticSummary(p.avgPts),
				Rebounds:      stats.SyntheticSummary(p.avgReb),
				Assists:       stats.SyntheticSummary(p.avgAst),
				Threes:        stats.SyntheticSummary(p.avgFg3),
				GamesAnalyzed: 20,
			},
			LastGameDate:        now,
			NextOpponent:        "TBD",
			NextIsHome:          false,
			IsBackToBack:        false,
			OpponentDefenseRank: ranker.Rank("TBD"),
		})
	}

	sort.Slice(players, func(i, j int) bool {
		return players[i].Name < players[j].Name
	})

	return &models.StatsDocument{
		Players:     players,
		LastUpdated: now,
		Source:      models.SourceDemo,
	}
}
