package game

import (
	"log/slog"

	"github.com/pthm-cable/neuralcar/storage"
	"github.com/pthm-cable/neuralcar/telemetry"
)

// logGeneration logs a finished generation with its timing.
func logGeneration(stats telemetry.GenerationStats, perf telemetry.PerfStats) {
	slog.Info("generation",
		"stats", stats,
		"perf", perf,
	)
}

// logExamination logs one examination drive.
func logExamination(stats telemetry.GenerationStats) {
	slog.Info("examination",
		"trial", stats.Generation,
		"distance", stats.BestDistance,
		"laps", stats.LeaderLaps,
		"ticks", stats.Ticks,
	)
}

// logRestart logs a reseed after an epoch without any completed lap.
func logRestart(generation, restarts, seeded int) {
	slog.Warn("no lap completed, restarting training",
		"generation", generation,
		"restarts", restarts,
		"seeded_from_hall", seeded,
	)
}

// logChampion logs the genotype that reached the target laps.
func logChampion(c storage.Champion) {
	slog.Info("target laps reached",
		"generation", c.Generation,
		"laps", c.Laps,
		"distance", c.Genotype.Distance,
		"genes", c.Genotype.Len(),
	)
}
