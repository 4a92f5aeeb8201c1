package stats

import (
	"math/rand"
	"regexp"
	"strings"
	"time"

	"nbastats/refresher/internal/models"
)

// Schedule is the derived scheduling context for a player, computed
// from their most recent games.
type Schedule struct {
	LastGameDate time.Time
	NextOpponent string
	NextIsHome   bool
	IsBackToBack bool
}

// Matchup strings look like "LAL vs. BOS" (home) or "LAL @ BOS" (away).
var opponentPattern = regexp.MustCompile(`(?:vs\.|@)\s*([A-Z]{3})`)

// DeriveSchedule derives scheduling context from a game log sorted
// descending by date.
//
// NextOpponent and NextIsHome are a heuristic, not a schedule lookup:
// the opponent is taken from the last played game and the venue is
// assumed to flip for the next one. If the matchup string is
// unparseable the opponent is "TBD".
//
// Precondition: games must be non-empty.
func DeriveSchedule(games []models.GameRecord) Schedule {
	last := games[0]

	isHome := strings.Contains(last.Matchup, "vs.")
	opponent := "TBD"
	if m := opponentPattern.FindStringSubmatch(last.Matchup); m != nil {
		opponent = m[1]
	}

	backToBack := false
	if len(games) > 1 {
		gap := last.GameDate.Sub(games[1].GameDate)
		if gap < 0 {
			gap = -gap
		}
		backToBack = gap <= 24*time.Hour
	}

	return Schedule{
		LastGameDate: last.GameDate,
		NextOpponent: opponent,
		NextIsHome:   !isHome,
		IsBackToBack: backToBack,
	}
}

// DefenseRanker supplies an opponent defense ranking in [1,30]. The
// default implementation is random; it exists so a real ranking
// computation can be plugged in without touching the pipeline.
type DefenseRanker interface {
	Rank(opponent string) int
}

// RandomRanker returns a random rank. It is an explicit stub: callers
// must not treat its output as meaningful data. Safe for concurrent
// use.
type RandomRanker struct{}

// NewRandomRanker creates a RandomRanker.
func NewRandomRanker() *RandomRanker {
	return &RandomRanker{}
}

// Rank returns a random rank in [1,30] regardless of opponent.
func (r *RandomRanker) Rank(string) int {
	return rand.Intn(30) + 1
}
