package telemetry

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/neuralcar/neural"
)

func TestHallOfFameConsider(t *testing.T) {
	hof := NewHallOfFame(3)
	pop := scored(5, 0, 9, 1, 7, 3)
	added := hof.ConsiderAll(pop, 1)

	if added != 4 {
		t.Errorf("added = %d, want 4 (zero distance never enters)", added)
	}
	if hof.Size() != 3 {
		t.Fatalf("size = %d, want 3", hof.Size())
	}
	want := []float64{9, 7, 5}
	for i, e := range hof.Entries() {
		if e.Distance != want[i] {
			t.Errorf("entry %d distance = %v, want %v", i, e.Distance, want[i])
		}
	}

	if hof.Consider(&neural.Genotype{Genes: []float64{1}, Distance: 2}, 2) {
		t.Error("a worse genotype entered a full hall")
	}
	if !hof.Consider(&neural.Genotype{Genes: []float64{1}, Distance: 8}, 2) {
		t.Error("a better genotype was rejected")
	}
	if hof.TopDistance() != 9 || hof.Entries()[1].Generation != 2 {
		t.Errorf("unexpected entries after insert: %+v", hof.Entries())
	}
}

func TestHallOfFameKeepsClones(t *testing.T) {
	hof := NewHallOfFame(2)
	g := &neural.Genotype{Genes: []float64{1, 2}, Distance: 4}
	hof.Consider(g, 1)

	g.Genes[0] = 99
	g.Distance = 0

	best := hof.Best()
	if best.Genes[0] != 1 || best.Distance != 4 {
		t.Errorf("hall entry changed with the source: %+v", best)
	}

	best.Genes[1] = 42
	if hof.Best().Genes[1] != 2 {
		t.Error("Best returned the stored genotype instead of a clone")
	}
}

func TestHallOfFameEmpty(t *testing.T) {
	hof := NewHallOfFame(3)
	if hof.Best() != nil {
		t.Error("Best on empty hall should be nil")
	}
	if got := hof.Sample(rand.New(rand.NewSource(1)), 2); got != nil {
		t.Errorf("Sample on empty hall = %v", got)
	}
	if hof.TopDistance() != 0 {
		t.Error("TopDistance on empty hall should be 0")
	}
}

func TestHallOfFameSample(t *testing.T) {
	hof := NewHallOfFame(5)
	hof.ConsiderAll(scored(1, 2, 3, 4, 5), 1)
	rng := rand.New(rand.NewSource(3))

	got := hof.Sample(rng, 3)
	if len(got) != 3 {
		t.Fatalf("sampled %d, want 3", len(got))
	}
	seen := make(map[float64]bool)
	for _, g := range got {
		if seen[g.Distance] {
			t.Errorf("entry with distance %v sampled twice", g.Distance)
		}
		seen[g.Distance] = true
	}

	// asking for more than the hall holds returns everything once
	if all := hof.Sample(rng, 10); len(all) != 5 {
		t.Errorf("sampled %d, want 5", len(all))
	}
}
