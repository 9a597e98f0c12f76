package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/neuralcar/config"
	"github.com/pthm-cable/neuralcar/game"
	"github.com/pthm-cable/neuralcar/neural"
	"github.com/pthm-cable/neuralcar/storage"
	"github.com/pthm-cable/neuralcar/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	mode := flag.String("mode", "train", "train evolves a population, exam drives saved weights")
	weightsPath := flag.String("weights", "weights.json", "Weights file written after training or read for exam")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxGenerations := flag.Int("max-generations", -1, "Stop training after N generations (-1 = use config, 0 = unlimited)")
	maxTrials := flag.Int("max-trials", 0, "Stop exam after N trials (0 = until interrupted)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	storeKind := flag.String("store", "memory", "Run history backend: memory or sqlite")
	dbPath := flag.String("db", "neuralcar.db", "SQLite database path for -store=sqlite")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(*configPath, *mode, *weightsPath, *seed, *maxGenerations, *maxTrials, *outputDir, *storeKind, *dbPath); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, mode, weightsPath string, seed int64, maxGenerations, maxTrials int, outputDir, storeKind, dbPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if maxGenerations >= 0 {
		cfg.Training.MaxGenerations = maxGenerations
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	output, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return err
	}
	defer output.Close()

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return err
	}
	if err := store.Init(ctx); err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}
	defer store.Close()

	configYAML, err := cfg.Bytes()
	if err != nil {
		return err
	}
	runID, err := store.CreateRun(ctx, string(configYAML), seed)
	if err != nil {
		return fmt.Errorf("creating run: %w", err)
	}

	opts := game.Options{
		Config: cfg,
		Seed:   seed,
		Output: output,
		Store:  store,
		RunID:  runID,
	}

	switch mode {
	case "train":
		return train(ctx, opts, weightsPath)
	case "exam":
		return examine(ctx, opts, weightsPath, maxTrials)
	default:
		return fmt.Errorf("unknown mode %q (want train or exam)", mode)
	}
}

func train(ctx context.Context, opts game.Options, weightsPath string) error {
	g, err := game.NewGame(opts)
	if err != nil {
		return err
	}

	slog.Info("starting training",
		"seed", opts.Seed,
		"run_id", opts.RunID,
		"population", opts.Config.Genetics.PopulationSize,
		"layers", opts.Config.Network.Layers,
		"genes", opts.Config.Derived.GeneCount,
	)

	runErr := g.Run(ctx, 0)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	// Save the champion, or the best genotype seen if training stopped early.
	best := g.HallOfFame().Best()
	if champion, ok := g.Champion(); ok {
		best = champion.Genotype
	}
	if best == nil {
		slog.Warn("no genotype scored above zero, nothing to save")
		return nil
	}
	if err := neural.SaveWeights(weightsPath, best); err != nil {
		return err
	}
	slog.Info("weights saved",
		"path", weightsPath,
		"distance", best.Distance,
		"generation", g.Generation(),
		"interrupted", runErr != nil,
	)
	return nil
}

func examine(ctx context.Context, opts game.Options, weightsPath string, maxTrials int) error {
	genotype, err := neural.LoadWeights(weightsPath)
	if err != nil {
		return err
	}

	g, err := game.NewExamination(opts, genotype)
	if err != nil {
		return err
	}

	slog.Info("starting examination", "weights", weightsPath, "max_trials", maxTrials)

	if err := g.Run(ctx, maxTrials); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
