package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/neuralcar/neural"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	g := cfg.Genetics
	if g.PopulationSize != 20 || g.MinGene != -3 || g.MaxGene != 3 ||
		g.CrossoverProbability != 0.6 || g.MutationProbability != 0.1 || g.EliteCount != 2 {
		t.Errorf("unexpected genetics defaults: %+v", g)
	}
	if cfg.Derived.GeneCount != 34 {
		t.Errorf("GeneCount = %d, want 34", cfg.Derived.GeneCount)
	}
	if len(cfg.Derived.RayAngles) != 5 {
		t.Fatalf("got %d ray angles, want 5", len(cfg.Derived.RayAngles))
	}
	if math.Abs(cfg.Derived.RayAngles[0]-math.Pi/2) > 1e-12 {
		t.Errorf("first ray = %v, want pi/2", cfg.Derived.RayAngles[0])
	}
	if cfg.Track.HalfLength != 30 || cfg.Track.InnerRadius != 6 || cfg.Track.OuterRadius != 14 {
		t.Errorf("unexpected track defaults: %+v", cfg.Track)
	}
	if math.Abs(cfg.Derived.StartAngle+math.Pi/2) > 1e-12 {
		t.Errorf("StartAngle = %v, want -pi/2", cfg.Derived.StartAngle)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := writeFile(t, `
genetics:
  population_size: 40
  mutation_probability: 0.2
network:
  layers: [5, 8, 2]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Genetics.PopulationSize != 40 {
		t.Errorf("PopulationSize = %d, want 40", cfg.Genetics.PopulationSize)
	}
	if cfg.Genetics.MutationProbability != 0.2 {
		t.Errorf("MutationProbability = %v, want 0.2", cfg.Genetics.MutationProbability)
	}
	// untouched keys keep their defaults
	if cfg.Genetics.CrossoverProbability != 0.6 {
		t.Errorf("CrossoverProbability = %v, want 0.6", cfg.Genetics.CrossoverProbability)
	}
	if cfg.Derived.GeneCount != 6*8+9*2 {
		t.Errorf("GeneCount = %d, want %d", cfg.Derived.GeneCount, 6*8+9*2)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"odd breeding pool", "genetics: {population_size: 21}"},
		{"probability out of range", "genetics: {crossover_probability: 1.5}"},
		{"input width mismatch", "network: {layers: [4, 4, 2]}"},
		{"wrong output width", "network: {layers: [5, 3]}"},
		{"single layer", "network: {layers: [5]}"},
		{"inverted track", "track: {inner_radius: 30, outer_radius: 10}"},
		{"negative straight", "track: {half_length: -1}"},
		{"zero dt", "physics: {dt: 0}"},
		{"no ticks", "training: {max_trial_ticks: 0}"},
		{"zero target laps", "training: {target_laps: 0}"},
		{"restart every generation", "training: {restart_after_generations: 0}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, neural.ErrConfiguration) {
				t.Errorf("error %v does not wrap ErrConfiguration", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Genetics.MaxGene = 5
	cfg.Training.TargetLaps = 3

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Genetics.MaxGene != 5 || loaded.Training.TargetLaps != 3 {
		t.Errorf("round trip lost values: %+v %+v", loaded.Genetics, loaded.Training)
	}
}

func TestRefresh(t *testing.T) {
	cfg := Default()
	cfg.Network.Layers = []int{5, 2}
	if err := cfg.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if cfg.Derived.GeneCount != 12 {
		t.Errorf("GeneCount = %d, want 12", cfg.Derived.GeneCount)
	}

	cfg.Car.RayAnglesDeg = []float64{0}
	if err := cfg.Refresh(); !errors.Is(err, neural.ErrConfiguration) {
		t.Errorf("Refresh with 1 ray = %v, want ErrConfiguration", err)
	}
}
