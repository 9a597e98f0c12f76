package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/neuralcar/config"
	"github.com/pthm-cable/neuralcar/neural"
)

func TestNilOutputManager(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v", om, err)
	}
	if err := om.WriteGeneration(GenerationStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteChampion(&neural.Genotype{Genes: []float64{1}}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("nil manager should have no dir")
	}
}

func TestOutputManagerWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	for gen := 1; gen <= 3; gen++ {
		if err := om.WriteGeneration(GenerationStats{Generation: gen, BestDistance: float64(gen)}); err != nil {
			t.Fatalf("WriteGeneration: %v", err)
		}
	}
	if err := om.WritePerf(PerfStats{Ticks: 10}, 1); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	champion := &neural.Genotype{Genes: []float64{0.5, -1}}
	if err := om.WriteChampion(champion); err != nil {
		t.Fatalf("WriteChampion: %v", err)
	}
	hof := NewHallOfFame(2)
	hof.Consider(&neural.Genotype{Genes: []float64{3}, Distance: 11}, 2)
	if err := om.WriteHallOfFame(hof); err != nil {
		t.Fatalf("WriteHallOfFame: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "generations.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("generations.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "generation,") {
		t.Errorf("unexpected header %q", lines[0])
	}

	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml does not load: %v", err)
	}

	loaded, err := neural.LoadWeights(filepath.Join(dir, "champion.json"))
	if err != nil {
		t.Fatalf("LoadWeights: %v", err)
	}
	if len(loaded.Genes) != 2 || loaded.Genes[0] != 0.5 || loaded.Genes[1] != -1 {
		t.Errorf("champion genes = %v", loaded.Genes)
	}

	data, err = os.ReadFile(filepath.Join(dir, "hall_of_fame.json"))
	if err != nil {
		t.Fatal(err)
	}
	var entries []hallEntryJSON
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("hall_of_fame.json: %v", err)
	}
	if len(entries) != 1 || entries[0].Distance != 11 || entries[0].Generation != 2 {
		t.Errorf("hall entries = %+v", entries)
	}
}
