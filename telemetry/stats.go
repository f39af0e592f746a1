// Package telemetry provides round statistics, frame timing, bookmarks and CSV output.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// RoundStats holds aggregated statistics for one round.
type RoundStats struct {
	Round    int    `csv:"round"`
	Tier     string `csv:"tier"`
	Grid     string `csv:"grid"`
	Palette  string `csv:"palette"`
	Complete bool   `csv:"complete"`

	Score      int     `csv:"score"`
	ElapsedSec float64 `csv:"elapsed_sec"`

	// Selection events
	Pairs      int     `csv:"pairs"` // Pairs on the grid
	Matches    int     `csv:"matches"`
	Mismatches int     `csv:"mismatches"`
	Ignored    int     `csv:"ignored"`  // Clicks the engine ignored
	Resolved   int     `csv:"resolved"` // Mismatches hidden again
	Accuracy   float64 `csv:"accuracy"` // Matches / attempts

	// Seconds between completed attempts
	TurnMean float64 `csv:"turn_mean"`
	TurnStd  float64 `csv:"turn_std"`
	TurnP10  float64 `csv:"turn_p10"`
	TurnP50  float64 `csv:"turn_p50"`
	TurnP90  float64 `csv:"turn_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeTurnStats calculates mean, std, and percentiles from turn durations.
func ComputeTurnStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s RoundStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("round", s.Round),
		slog.String("tier", s.Tier),
		slog.String("grid", s.Grid),
		slog.String("palette", s.Palette),
		slog.Bool("complete", s.Complete),
		slog.Int("score", s.Score),
		slog.Float64("elapsed_sec", s.ElapsedSec),
		slog.Int("pairs", s.Pairs),
		slog.Int("matches", s.Matches),
		slog.Int("mismatches", s.Mismatches),
		slog.Int("ignored", s.Ignored),
		slog.Int("resolved", s.Resolved),
		slog.Float64("accuracy", s.Accuracy),
		slog.Float64("turn_mean", s.TurnMean),
		slog.Float64("turn_p50", s.TurnP50),
	)
}

// LogStats logs the round stats using slog.
func (s RoundStats) LogStats() {
	slog.Info("round_stats", "stats", s)
}
