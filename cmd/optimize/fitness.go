package main

import (
	"context"
	"math"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/pthm-cable/neuralcar/config"
	"github.com/pthm-cable/neuralcar/game"
	"github.com/pthm-cable/neuralcar/systems"
	"github.com/pthm-cable/neuralcar/telemetry"
)

// FitnessEvaluator runs headless training and scores how quickly it succeeds.
type FitnessEvaluator struct {
	params         *ParamVector
	maxGenerations int
	seeds          []int64
	baseConfig     *config.Config

	// Best run tracking
	mu             sync.Mutex
	bestFitness    float64
	bestHallOfFame *telemetry.HallOfFame
	bestHistory    []telemetry.GenerationStats
	lastSolved     float64 // fraction of seeds that produced a champion in the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxGenerations int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:         params,
		maxGenerations: maxGenerations,
		seeds:          seeds,
		baseConfig:     baseCfg,
		bestFitness:    math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// BestHistory returns the per-generation stats of the run that produced the best hall of fame.
func (fe *FitnessEvaluator) BestHistory() []telemetry.GenerationStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHistory
}

// LastSolved returns the solved fraction from the most recent evaluation.
func (fe *FitnessEvaluator) LastSolved() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSolved
}

// runResult holds the results from a single training run.
type runResult struct {
	solved       bool
	generation   int     // generation the champion appeared in, or the last one run
	bestDistance float64 // best distance any car drove
	hallOfFame   *telemetry.HallOfFame
	history      []telemetry.GenerationStats
}

// Evaluate computes fitness for a parameter vector (lower = better).
// All seeds run concurrently.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]*runResult, len(fe.seeds))
	p := pool.New().WithErrors()
	for i, seed := range fe.seeds {
		p.Go(func() error {
			r, err := fe.runTraining(x, seed)
			results[i] = r
			return err
		})
	}
	if err := p.Wait(); err != nil {
		// An invalid parameter set is as bad as it gets.
		return fe.worstFitness()
	}

	var totalFitness, solved float64
	var bestSeedFitness = math.Inf(1)
	var bestSeed *runResult

	for _, r := range results {
		f := fe.computeFitness(r)
		totalFitness += f
		if r.solved {
			solved++
		}
		if f < bestSeedFitness {
			bestSeedFitness = f
			bestSeed = r
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestHallOfFame = bestSeed.hallOfFame
		fe.bestHistory = bestSeed.history
	}
	fe.lastSolved = solved / n
	fe.mu.Unlock()

	return avgFitness
}

// runTraining executes a single headless training run with the generation budget.
func (fe *FitnessEvaluator) runTraining(x []float64, seed int64) (*runResult, error) {
	cfg, err := fe.copyConfig()
	if err != nil {
		return nil, err
	}
	fe.params.ApplyToConfig(cfg, x)
	cfg.Training.MaxGenerations = fe.maxGenerations
	cfg.Telemetry.LogEvery = 0

	result := &runResult{}
	g, err := game.NewGame(game.Options{
		Config: cfg,
		Seed:   seed,
		OnGeneration: func(stats telemetry.GenerationStats) {
			result.history = append(result.history, stats)
		},
	})
	if err != nil {
		return nil, err
	}
	if err := g.Run(context.Background(), 0); err != nil {
		return nil, err
	}

	result.generation = g.Generation()
	result.bestDistance = g.HallOfFame().TopDistance()
	result.hallOfFame = g.HallOfFame()
	if champion, ok := g.Champion(); ok {
		result.solved = true
		result.generation = champion.Generation
	}
	return result, nil
}

// copyConfig copies the base config. Slices are shared; nothing below writes to them.
func (fe *FitnessEvaluator) copyConfig() (*config.Config, error) {
	cfg := *fe.baseConfig
	if err := cfg.Refresh(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// computeFitness maps a run to a scalar (lower = better).
// Solved runs score generation/budget in (0, 1]; unsolved runs score in
// [1, 2] by how far short of the target distance the best car fell.
func (fe *FitnessEvaluator) computeFitness(r *runResult) float64 {
	if r.solved {
		return float64(r.generation) / float64(fe.maxGenerations)
	}
	goal := fe.goalDistance()
	if goal <= 0 {
		return fe.worstFitness()
	}
	return 2 - clamp01(r.bestDistance/goal)
}

// goalDistance is the midline length of the target laps.
func (fe *FitnessEvaluator) goalDistance() float64 {
	cfg := fe.baseConfig
	return systems.NewTrack(cfg.Track).LapLength() * float64(cfg.Training.TargetLaps)
}

func (fe *FitnessEvaluator) worstFitness() float64 {
	return 2
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
