package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/neuralcar/telemetry"
)

// MemoryStore keeps everything in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	runs        map[string]Run
	generations map[string]map[int]telemetry.GenerationStats
	champions   map[string]Champion
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = make(map[string]Run)
	s.generations = make(map[string]map[int]telemetry.GenerationStats)
	s.champions = make(map[string]Champion)
	return nil
}

func (s *MemoryStore) CreateRun(_ context.Context, configYAML string, seed int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runs == nil {
		return "", errNotInitialized
	}
	id := uuid.NewString()
	s.runs[id] = Run{ID: id, CreatedAt: time.Now().UTC(), Config: configYAML, Seed: seed}
	s.generations[id] = make(map[int]telemetry.GenerationStats)
	return id, nil
}

func (s *MemoryStore) GetRun(_ context.Context, runID string) (Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	return run, ok, nil
}

func (s *MemoryStore) SaveGeneration(_ context.Context, runID string, stats telemetry.GenerationStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	gens, ok := s.generations[runID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRun, runID)
	}
	gens[stats.Generation] = stats
	return nil
}

func (s *MemoryStore) ListGenerations(_ context.Context, runID string) ([]telemetry.GenerationStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	gens, ok := s.generations[runID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRun, runID)
	}
	out := make([]telemetry.GenerationStats, 0, len(gens))
	for _, g := range gens {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Generation < out[j].Generation })
	return out, nil
}

func (s *MemoryStore) SaveChampion(_ context.Context, runID string, champion Champion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if champion.Genotype == nil {
		return errNoGenotype
	}
	if _, ok := s.runs[runID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRun, runID)
	}
	champion.Genotype = champion.Genotype.Clone()
	s.champions[runID] = champion
	return nil
}

func (s *MemoryStore) GetChampion(_ context.Context, runID string) (Champion, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	champion, ok := s.champions[runID]
	if !ok {
		return Champion{}, false, nil
	}
	champion.Genotype = champion.Genotype.Clone()
	return champion, true, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
