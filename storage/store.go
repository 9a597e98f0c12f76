// Package storage persists training runs: per-generation statistics and the
// champion genotype.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/pthm-cable/neuralcar/neural"
	"github.com/pthm-cable/neuralcar/telemetry"
)

// ErrUnknownRun is returned when a run ID was never created.
var ErrUnknownRun = errors.New("unknown run")

var errNoGenotype = errors.New("champion has no genotype")

// Run describes one training run.
type Run struct {
	ID        string
	CreatedAt time.Time
	Config    string // effective configuration as YAML
	Seed      int64
}

// Champion is the best genotype recorded for a run.
type Champion struct {
	Genotype   *neural.Genotype
	Generation int
	Laps       int
}

// Store defines persistence operations for training runs.
type Store interface {
	Init(ctx context.Context) error
	CreateRun(ctx context.Context, configYAML string, seed int64) (string, error)
	GetRun(ctx context.Context, runID string) (Run, bool, error)
	SaveGeneration(ctx context.Context, runID string, stats telemetry.GenerationStats) error
	ListGenerations(ctx context.Context, runID string) ([]telemetry.GenerationStats, error)
	SaveChampion(ctx context.Context, runID string, champion Champion) error
	GetChampion(ctx context.Context, runID string) (Champion, bool, error)
	Close() error
}
