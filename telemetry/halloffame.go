package telemetry

import (
	"math/rand"
	"sort"

	"github.com/pthm-cable/neuralcar/neural"
)

// HallEntry is a genotype that drove far enough to be remembered.
type HallEntry struct {
	Genotype   *neural.Genotype
	Distance   float64
	Generation int
}

// HallOfFame keeps the best genotypes seen across generations, best first,
// for reseeding after a restart.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
}

// NewHallOfFame creates a hall holding at most maxSize entries.
func NewHallOfFame(maxSize int) *HallOfFame {
	return &HallOfFame{
		entries: make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider offers a scored genotype to the hall. The hall keeps a clone, so
// later changes to g do not leak in. Returns true if it was added.
func (hof *HallOfFame) Consider(g *neural.Genotype, generation int) bool {
	if hof.maxSize <= 0 || g.Distance <= 0 {
		return false
	}

	// Find insertion point (sorted descending by distance, older entries first on ties)
	idx := sort.Search(len(hof.entries), func(i int) bool {
		return hof.entries[i].Distance < g.Distance
	})
	if idx >= hof.maxSize {
		return false
	}

	entry := HallEntry{Genotype: g.Clone(), Distance: g.Distance, Generation: generation}
	hof.entries = append(hof.entries, HallEntry{})
	copy(hof.entries[idx+1:], hof.entries[idx:])
	hof.entries[idx] = entry

	if len(hof.entries) > hof.maxSize {
		hof.entries = hof.entries[:hof.maxSize]
	}
	return true
}

// ConsiderAll offers every genotype of a population.
func (hof *HallOfFame) ConsiderAll(population []*neural.Genotype, generation int) int {
	added := 0
	for _, g := range population {
		if hof.Consider(g, generation) {
			added++
		}
	}
	return added
}

// Best returns a clone of the top genotype, or nil if the hall is empty.
func (hof *HallOfFame) Best() *neural.Genotype {
	if len(hof.entries) == 0 {
		return nil
	}
	return hof.entries[0].Genotype.Clone()
}

// Sample picks up to n distinct entries using tournament selection with k=3
// and returns clones. The hall is not modified.
func (hof *HallOfFame) Sample(rng *rand.Rand, n int) []*neural.Genotype {
	if n > len(hof.entries) {
		n = len(hof.entries)
	}
	if n <= 0 {
		return nil
	}

	const tournamentSize = 3
	taken := make([]bool, len(hof.entries))
	out := make([]*neural.Genotype, 0, n)
	for len(out) < n {
		best := -1
		for i := 0; i < tournamentSize; i++ {
			idx := rng.Intn(len(hof.entries))
			if taken[idx] {
				continue
			}
			// entries are sorted, so a lower index is a better candidate
			if best == -1 || idx < best {
				best = idx
			}
		}
		if best == -1 {
			// every draw hit a taken entry; fall back to the best remaining
			for i := range taken {
				if !taken[i] {
					best = i
					break
				}
			}
		}
		taken[best] = true
		out = append(out, hof.entries[best].Genotype.Clone())
	}
	return out
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int {
	return len(hof.entries)
}

// TopDistance returns the best distance in the hall, or 0 if it is empty.
func (hof *HallOfFame) TopDistance() float64 {
	if len(hof.entries) == 0 {
		return 0
	}
	return hof.entries[0].Distance
}

// Entries returns the entries, best first. The slice must not be modified.
func (hof *HallOfFame) Entries() []HallEntry {
	return hof.entries
}
