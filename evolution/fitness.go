package evolution

import (
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/neuralcar/neural"
)

// NormalizeFitness sets each genotype's fitness to its distance divided by the
// population's mean distance. When every member scored zero the mean is zero
// and all fitness values are set to zero instead.
func NormalizeFitness(population []*neural.Genotype) {
	if len(population) == 0 {
		return
	}

	distances := make([]float64, len(population))
	for i, g := range population {
		distances[i] = g.Distance
	}
	mean := floats.Sum(distances) / float64(len(population))

	for _, g := range population {
		if mean == 0 {
			g.Fitness = 0
			continue
		}
		g.Fitness = g.Distance / mean
	}
}
