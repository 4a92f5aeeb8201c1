package stats

import (
	"fmt"
	"math"

	"nbastats/refresher/internal/models"
)

// Summarize computes per-metric mean and population standard deviation
// (divide by N, not N-1) over a player's game log, rounded to one
// decimal place.
//
// Precondition: games must be non-empty. Callers filter out players
// with empty logs before ever reaching the calculator.
func Summarize(games []models.GameRecord) models.PlayerStats {
	points := make([]float64, len(games))
	rebounds := make([]float64, len(games))
	assists := make([]float64, len(games))
	threes := make([]float64, len(games))

	for i, g := range games {
		points[i] = g.Points
		rebounds[i] = g.Rebounds
		assists[i] = g.Assists
		threes[i] = g.ThreesMade
	}

	return models.PlayerStats{
		Points:        summarize(points),
		Rebounds:      summarize(rebounds),
		Assists:       summarize(assists),
		Threes:        summarize(threes),
		GamesAnalyzed: len(games),
	}
}

func summarize(values []float64) models.MetricSummary {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))

	return models.MetricSummary{
		Mean:   format1(mean),
		StdDev: format1(math.Sqrt(variance)),
	}
}

// SyntheticSummary builds a MetricSummary from a preset per-game
// average, approximating the spread as a quarter of the mean. Used for
// the demo dataset where no real game log exists.
func SyntheticSummary(avg float64) models.MetricSummary {
	return models.MetricSummary{
		Mean:   format1(avg),
		StdDev: format1(avg * 0.25),
	}
}

// format1 rounds half away from zero to one decimal place.
func format1(v float64) string {
	return fmt.Sprintf("%.1f", math.Round(v*10)/10)
}
