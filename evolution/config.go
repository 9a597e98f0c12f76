package evolution

import (
	"fmt"

	"github.com/pthm-cable/neuralcar/neural"
)

// Config holds the genetic algorithm parameters.
type Config struct {
	PopulationSize       int     `yaml:"population_size"`
	MinGene              float64 `yaml:"min_gene"`
	MaxGene              float64 `yaml:"max_gene"`
	CrossoverProbability float64 `yaml:"crossover_probability"` // Per-gene swap chance in uniform crossover
	MutationProbability  float64 `yaml:"mutation_probability"`  // Per-offspring chance of one point mutation
	EliteCount           int     `yaml:"elite_count"`
}

// DefaultConfig returns the parameters the car trainer was tuned with.
func DefaultConfig() Config {
	return Config{
		PopulationSize:       20,
		MinGene:              -3,
		MaxGene:              3,
		CrossoverProbability: 0.6,
		MutationProbability:  0.1,
		EliteCount:           2,
	}
}

// Validate rejects parameter sets the algorithm cannot run with. The number of
// non-elite slots must be even so that pairing fills them exactly and the
// population keeps its size from one generation to the next.
func (c Config) Validate() error {
	if c.PopulationSize < 3 {
		return fmt.Errorf("%w: population size %d is below 3", neural.ErrConfiguration, c.PopulationSize)
	}
	if c.EliteCount < 0 || c.EliteCount+1 > c.PopulationSize {
		return fmt.Errorf("%w: elite count %d leaves no offspring slot in a population of %d",
			neural.ErrConfiguration, c.EliteCount, c.PopulationSize)
	}
	if (c.PopulationSize-c.EliteCount)%2 != 0 {
		return fmt.Errorf("%w: population size %d minus elite count %d must be even",
			neural.ErrConfiguration, c.PopulationSize, c.EliteCount)
	}
	if c.MinGene > c.MaxGene {
		return fmt.Errorf("%w: min gene %v exceeds max gene %v", neural.ErrConfiguration, c.MinGene, c.MaxGene)
	}
	if c.CrossoverProbability < 0 || c.CrossoverProbability > 1 {
		return fmt.Errorf("%w: crossover probability %v outside [0, 1]", neural.ErrConfiguration, c.CrossoverProbability)
	}
	if c.MutationProbability < 0 || c.MutationProbability > 1 {
		return fmt.Errorf("%w: mutation probability %v outside [0, 1]", neural.ErrConfiguration, c.MutationProbability)
	}
	return nil
}
