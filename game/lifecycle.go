package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/neuralcar/components"
	"github.com/pthm-cable/neuralcar/neural"
	"github.com/pthm-cable/neuralcar/storage"
	"github.com/pthm-cable/neuralcar/telemetry"
)

// StartTrial resets every genotype, builds one network per genotype and places
// all cars at the start line.
func (g *Game) StartTrial() error {
	if g.examination != nil {
		g.population = []*neural.Genotype{g.examination}
	} else {
		g.population = g.ga.Population()
	}

	for _, e := range g.entities {
		g.carMapper.Remove(e)
	}
	g.entities = g.entities[:0]
	g.brains = g.brains[:0]

	startX, startY, heading := g.track.MidlinePose(g.cfg.Derived.StartAngle)

	for i, genotype := range g.population {
		genotype.Reset()
		brain, err := neural.NewNetworkFromGenotype(g.cfg.Network.Layers, genotype)
		if err != nil {
			return fmt.Errorf("building network %d: %w", i, err)
		}
		g.brains = append(g.brains, brain)

		pos := components.Position{X: startX, Y: startY}
		rot := components.Rotation{Heading: heading}
		vel := components.Velocity{}
		sensors := components.Sensors{Rays: make([]float64, len(g.cfg.Derived.RayAngles))}
		ctl := components.Controls{}
		car := components.Car{Index: i, Active: true}
		g.entities = append(g.entities, g.carMapper.NewEntity(&pos, &rot, &vel, &sensors, &ctl, &car))
	}

	g.tick = 0
	g.active = len(g.population)
	g.leader = -1
	g.perf.Reset()
	return nil
}

// EndTrial scores the population from the finished trial, records it, and
// either finishes training, restarts it, or advances to the next generation.
func (g *Game) EndTrial(ctx context.Context) error {
	leaderLaps, lapped := g.collectScores()
	generation := g.Generation()
	g.trials++

	stats := telemetry.ComputeGenerationStats(generation, g.population)
	stats.Ticks = g.tick
	stats.LeaderLaps = leaderLaps
	stats.Restarts = g.restarts
	stats.ActiveCars = g.active
	g.recordGeneration(ctx, stats)

	if g.examination != nil {
		logExamination(stats)
		return nil
	}

	g.hallOfFame.ConsiderAll(g.population, generation)

	if leaderLaps >= g.cfg.Training.TargetLaps {
		return g.finish(ctx, leaderLaps, generation)
	}
	if limit := g.cfg.Training.MaxGenerations; limit > 0 && generation >= limit {
		slog.Info("generation limit reached", "generation", generation, "best_distance", g.hallOfFame.TopDistance())
		g.finished = true
		return g.output.WriteHallOfFame(g.hallOfFame)
	}

	g.epochGenerations++
	if lapped > 0 {
		g.epochLapSeen = true
	}
	if !g.epochLapSeen && g.epochGenerations >= g.cfg.Training.RestartAfterGenerations {
		return g.restart(generation)
	}

	if err := g.ga.Advance(); err != nil {
		return fmt.Errorf("advancing generation %d: %w", generation, err)
	}
	return nil
}

// collectScores writes every car's distance into its genotype. It returns the
// leader's completed laps and how many cars completed at least one lap.
func (g *Game) collectScores() (leaderLaps, lapped int) {
	g.updateLeader()
	for i, e := range g.entities {
		car := g.carMap.Get(e)
		g.population[i].Distance = car.Distance
		if car.Laps > 0 {
			lapped++
		}
	}
	if g.leader >= 0 {
		leaderLaps = g.carMap.Get(g.entities[g.leader]).Laps
	}
	return leaderLaps, lapped
}

// finish records the leader as champion and stops training.
func (g *Game) finish(ctx context.Context, laps, generation int) error {
	leader := g.population[g.leader]
	g.champion = &storage.Champion{Genotype: leader.Clone(), Generation: generation, Laps: laps}
	g.finished = true

	logChampion(*g.champion)

	if err := g.output.WriteChampion(g.champion.Genotype); err != nil {
		return err
	}
	if err := g.output.WriteHallOfFame(g.hallOfFame); err != nil {
		return err
	}
	if g.store != nil {
		if err := g.store.SaveChampion(ctx, g.runID, *g.champion); err != nil {
			return fmt.Errorf("saving champion: %w", err)
		}
	}
	return nil
}

// restart reseeds the population from the hall of fame plus fresh random
// genotypes after an epoch without a single completed lap.
func (g *Game) restart(generation int) error {
	seeds := g.hallOfFame.Sample(g.rng, g.cfg.Training.ReseedCount)
	if err := g.ga.Reseed(seeds); err != nil {
		return fmt.Errorf("reseeding: %w", err)
	}
	g.restarts++
	g.epochGenerations = 0
	g.epochLapSeen = false
	logRestart(generation, g.restarts, len(seeds))
	return nil
}

// RunTrial drives one full trial and scores it.
func (g *Game) RunTrial(ctx context.Context) error {
	if err := g.StartTrial(); err != nil {
		return err
	}
	for !g.TrialDone() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := g.Step(); err != nil {
			return err
		}
	}
	return g.EndTrial(ctx)
}

// Run loops trials until training finishes or ctx is cancelled. In examination
// mode maxTrials bounds the number of trials (0 = until ctx is cancelled);
// training ignores it and stops on its own conditions.
func (g *Game) Run(ctx context.Context, maxTrials int) error {
	if err := g.output.WriteConfig(g.cfg); err != nil {
		return err
	}

	for !g.finished {
		if err := g.RunTrial(ctx); err != nil {
			return err
		}
		if g.examination != nil && maxTrials > 0 && g.trials >= maxTrials {
			break
		}
	}
	return nil
}

// recordGeneration sends stats to every configured sink. Sink failures are
// logged, not fatal.
func (g *Game) recordGeneration(ctx context.Context, stats telemetry.GenerationStats) {
	perfStats := g.perf.Stats()

	if every := g.cfg.Telemetry.LogEvery; every > 0 && stats.Generation%every == 0 {
		logGeneration(stats, perfStats)
	}

	if err := g.output.WriteGeneration(stats); err != nil {
		slog.Error("failed to write generation", "error", err)
	}
	if err := g.output.WritePerf(perfStats, stats.Generation); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	if g.store != nil {
		if err := g.store.SaveGeneration(ctx, g.runID, stats); err != nil {
			slog.Error("failed to store generation", "error", err)
		}
	}
	if g.onGeneration != nil {
		g.onGeneration(stats)
	}
}
