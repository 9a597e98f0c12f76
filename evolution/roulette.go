package evolution

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/neuralcar/neural"
)

// RouletteSelector samples parents with probability proportional to fitness.
type RouletteSelector struct {
	rng *rand.Rand
}

// NewRouletteSelector creates a selector drawing from rng.
func NewRouletteSelector(rng *rand.Rand) *RouletteSelector {
	return &RouletteSelector{rng: rng}
}

// Select draws k genotypes with replacement. A population whose fitness sums
// to zero is sampled uniformly.
func (r *RouletteSelector) Select(population []*neural.Genotype, k int) []*neural.Genotype {
	if len(population) == 0 || k <= 0 {
		return nil
	}

	bounds := Wheel(population)
	parents := make([]*neural.Genotype, 0, k)
	for i := 0; i < k; i++ {
		parents = append(parents, population[Spin(bounds, r.rng.Float64())])
	}
	return parents
}

// Wheel returns the upper bound of each genotype's segment on [0, 1], in
// population order. Segment widths are fitness / Σ fitness, or 1/n each when
// the sum is zero. Negative fitness counts as zero.
func Wheel(population []*neural.Genotype) []float64 {
	n := len(population)
	widths := make([]float64, n)
	for i, g := range population {
		widths[i] = math.Max(g.Fitness, 0)
	}

	sum := floats.Sum(widths)
	if sum > 0 && !math.IsInf(sum, 1) {
		floats.Scale(1/sum, widths)
	} else {
		for i := range widths {
			widths[i] = 1 / float64(n)
		}
	}

	bounds := make([]float64, n)
	floats.CumSum(bounds, widths)
	return bounds
}

// Spin returns the index of the first segment whose upper bound is >= sample.
func Spin(bounds []float64, sample float64) int {
	i := sort.SearchFloat64s(bounds, sample)
	if i >= len(bounds) {
		// Rounding can leave the last bound a hair below 1.
		i = len(bounds) - 1
	}
	return i
}
