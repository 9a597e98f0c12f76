package neural

import (
	"errors"
	"math/rand"
	"path/filepath"
	"testing"
)

func TestNewRandomGenotype(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g := NewRandomGenotype(rng, 500, -3, 3)

	if g.Len() != 500 {
		t.Fatalf("got %d genes, want 500", g.Len())
	}
	for i, v := range g.Genes {
		if v < -3 || v > 3 {
			t.Errorf("gene %d = %v outside [-3, 3]", i, v)
		}
	}
	if g.Distance != 0 || g.Fitness != 0 {
		t.Error("fresh genotype should have zero distance and fitness")
	}
}

func TestNewRandomGenotypeSeeded(t *testing.T) {
	a := NewRandomGenotype(rand.New(rand.NewSource(1)), 10, -1, 1)
	b := NewRandomGenotype(rand.New(rand.NewSource(1)), 10, -1, 1)
	for i := range a.Genes {
		if a.Genes[i] != b.Genes[i] {
			t.Fatal("same seed produced different genes")
		}
	}
}

func TestNewGenotype(t *testing.T) {
	genes := []float64{1, 2, 3}
	g, err := NewGenotype(genes)
	if err != nil {
		t.Fatalf("NewGenotype failed: %v", err)
	}
	if g.Len() != 3 || g.Genes[2] != 3 {
		t.Errorf("genes = %v, want %v", g.Genes, genes)
	}

	if _, err := NewGenotype(nil); !errors.Is(err, ErrConfiguration) {
		t.Errorf("NewGenotype(nil) error = %v, want ErrConfiguration", err)
	}
}

func TestGenotypeReset(t *testing.T) {
	g, _ := NewGenotype([]float64{0.5, -0.5})
	g.Distance = 12
	g.Fitness = 1.4

	g.Reset()
	g.Reset()

	if g.Distance != 0 || g.Fitness != 0 {
		t.Errorf("after Reset: distance=%v fitness=%v", g.Distance, g.Fitness)
	}
	if g.Genes[0] != 0.5 || g.Genes[1] != -0.5 {
		t.Error("Reset modified genes")
	}
}

func TestGenotypeClone(t *testing.T) {
	g, _ := NewGenotype([]float64{1, 2})
	g.Distance = 3
	clone := g.Clone()

	if clone.Distance != 3 || clone.Genes[1] != 2 {
		t.Error("clone differs from original")
	}

	clone.Genes[0] = 999
	if g.Genes[0] == 999 {
		t.Error("clone is not independent")
	}
}

func TestWeightsRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g := NewRandomGenotype(rng, 34, -3, 3)
	g.Distance = 40
	g.Fitness = 1.2

	path := filepath.Join(t.TempDir(), "weights.json")
	if err := SaveWeights(path, g); err != nil {
		t.Fatalf("SaveWeights failed: %v", err)
	}

	loaded, err := LoadWeights(path)
	if err != nil {
		t.Fatalf("LoadWeights failed: %v", err)
	}

	if loaded.Len() != g.Len() {
		t.Fatalf("loaded %d genes, want %d", loaded.Len(), g.Len())
	}
	for i := range g.Genes {
		if loaded.Genes[i] != g.Genes[i] {
			t.Errorf("gene %d = %v, want %v", i, loaded.Genes[i], g.Genes[i])
		}
	}
	if loaded.Distance != 0 || loaded.Fitness != 0 {
		t.Error("loaded genotype should start unscored")
	}
}

func TestDecodeWeightsFormat(t *testing.T) {
	g, err := DecodeWeights([]byte(`{"weights": [0.25, -1.5, 3]}`))
	if err != nil {
		t.Fatalf("DecodeWeights failed: %v", err)
	}
	if g.Len() != 3 || g.Genes[1] != -1.5 {
		t.Errorf("genes = %v", g.Genes)
	}

	if _, err := DecodeWeights([]byte(`{"weights": []}`)); !errors.Is(err, ErrConfiguration) {
		t.Errorf("empty weights error = %v, want ErrConfiguration", err)
	}
	if _, err := DecodeWeights([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed document")
	}
}
