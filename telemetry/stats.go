// Package telemetry records per-generation statistics and training output.
package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/neuralcar/neural"
)

// GenerationStats summarizes one finished trial.
type GenerationStats struct {
	Generation int `csv:"generation"`
	Restarts   int `csv:"restarts"`
	Population int `csv:"population"`
	Ticks      int `csv:"ticks"`

	// Distance distribution over the population
	BestDistance float64 `csv:"best_distance"`
	MeanDistance float64 `csv:"mean_distance"`
	StdDistance  float64 `csv:"std_distance"`
	P50Distance  float64 `csv:"p50_distance"`
	P90Distance  float64 `csv:"p90_distance"`

	BestFitness float64 `csv:"best_fitness"` // best distance / mean distance
	LeaderLaps  int     `csv:"leader_laps"`
	ActiveCars  int     `csv:"active_cars"` // cars still driving when the trial ended
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

// ComputeGenerationStats fills the distance distribution for a scored population.
// Trial-level fields (ticks, laps, restarts) are left for the caller.
func ComputeGenerationStats(generation int, population []*neural.Genotype) GenerationStats {
	s := GenerationStats{Generation: generation, Population: len(population)}
	if len(population) == 0 {
		return s
	}

	distances := make([]float64, len(population))
	for i, g := range population {
		distances[i] = g.Distance
	}

	mean, std := stat.MeanStdDev(distances, nil)
	if math.IsNaN(std) {
		std = 0
	}
	s.MeanDistance = mean
	s.StdDistance = std
	s.BestDistance = floats.Max(distances)
	if mean != 0 {
		s.BestFitness = s.BestDistance / mean
	}

	sort.Float64s(distances)
	s.P50Distance = Percentile(distances, 0.50)
	s.P90Distance = Percentile(distances, 0.90)
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("restarts", s.Restarts),
		slog.Int("ticks", s.Ticks),
		slog.Float64("best_distance", s.BestDistance),
		slog.Float64("mean_distance", s.MeanDistance),
		slog.Float64("std_distance", s.StdDistance),
		slog.Float64("p50_distance", s.P50Distance),
		slog.Float64("best_fitness", s.BestFitness),
		slog.Int("leader_laps", s.LeaderLaps),
	)
}
