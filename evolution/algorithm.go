// Package evolution implements the generational genetic algorithm that evolves
// network weight vectors against a host-supplied distance score.
package evolution

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/neuralcar/neural"
)

// GeneticAlgorithm owns a population and produces successive generations.
// A generation moves from seeded to scored (the host writes every Distance)
// to advanced; there is no terminal state.
type GeneticAlgorithm struct {
	cfg       Config
	rng       *rand.Rand
	selector  *RouletteSelector
	geneCount int

	population []*neural.Genotype
	generation int
}

// New validates cfg and seeds a random population of cfg.PopulationSize
// genotypes with geneCount genes each. All randomness comes from rng.
func New(cfg Config, geneCount int, rng *rand.Rand) (*GeneticAlgorithm, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if geneCount <= 0 {
		return nil, fmt.Errorf("%w: gene count %d must be positive", neural.ErrConfiguration, geneCount)
	}

	ga := &GeneticAlgorithm{
		cfg:        cfg,
		rng:        rng,
		selector:   NewRouletteSelector(rng),
		geneCount:  geneCount,
		generation: 1,
	}
	ga.population = ga.randomPopulation(cfg.PopulationSize)
	return ga, nil
}

// Population returns the current generation in insertion order.
func (ga *GeneticAlgorithm) Population() []*neural.Genotype {
	return ga.population
}

// Generation returns the 1-based generation counter.
func (ga *GeneticAlgorithm) Generation() int {
	return ga.generation
}

// GeneCount returns the number of genes per genotype.
func (ga *GeneticAlgorithm) GeneCount() int {
	return ga.geneCount
}

// Config returns the parameters the algorithm runs with.
func (ga *GeneticAlgorithm) Config() Config {
	return ga.cfg
}

// Reseed replaces the population with clones of seeds followed by fresh random
// genotypes up to the configured size. Scores are cleared and the reseeded
// population counts as a new generation.
func (ga *GeneticAlgorithm) Reseed(seeds []*neural.Genotype) error {
	if len(seeds) > ga.cfg.PopulationSize {
		seeds = seeds[:ga.cfg.PopulationSize]
	}
	for i, s := range seeds {
		if s.Len() != ga.geneCount {
			return fmt.Errorf("%w: seed %d has %d genes, want %d", neural.ErrConfiguration, i, s.Len(), ga.geneCount)
		}
	}

	population := make([]*neural.Genotype, 0, ga.cfg.PopulationSize)
	for _, s := range seeds {
		clone := s.Clone()
		clone.Reset()
		population = append(population, clone)
	}
	population = append(population, ga.randomPopulation(ga.cfg.PopulationSize-len(population))...)
	ga.population = population
	ga.generation++
	return nil
}

// Advance replaces the held population with the next generation. Call it only
// after the host has scored every member.
func (ga *GeneticAlgorithm) Advance() error {
	next, err := ga.AdvanceGeneration(ga.population)
	if err != nil {
		return err
	}
	ga.population = next
	ga.generation++
	return nil
}

// AdvanceGeneration turns a scored population into the next one:
// fitness normalization, elitism, roulette selection of parents, random
// pairing, uniform crossover and point mutation. Offspring come first in the
// result, followed by the unchanged elite. An odd parent pool leaves one parent
// unpaired, so the result is one shorter in that case.
func (ga *GeneticAlgorithm) AdvanceGeneration(population []*neural.Genotype) ([]*neural.Genotype, error) {
	if err := ga.checkPopulation(population); err != nil {
		return nil, err
	}

	NormalizeFitness(population)

	elite := SelectElite(population, ga.cfg.EliteCount)
	slots := len(population) - len(elite)

	parents := ga.selector.Select(population, slots)
	offspring := ga.interbreed(parents, slots)

	for _, child := range offspring {
		MutateGenes(ga.rng, child.Genes, ga.cfg.MutationProbability, ga.cfg.MinGene, ga.cfg.MaxGene)
	}

	next := make([]*neural.Genotype, 0, len(offspring)+len(elite))
	next = append(next, offspring...)
	next = append(next, elite...)
	return next, nil
}

// interbreed crosses random parent pairs until slots offspring exist or the
// pool is exhausted.
func (ga *GeneticAlgorithm) interbreed(parents []*neural.Genotype, slots int) []*neural.Genotype {
	offspring := make([]*neural.Genotype, 0, slots)
	for _, pair := range PairParents(ga.rng, parents) {
		a, b := UniformCrossover(ga.rng, pair[0].Genes, pair[1].Genes, ga.cfg.CrossoverProbability)
		for _, genes := range [][]float64{a, b} {
			if len(offspring) < slots {
				offspring = append(offspring, &neural.Genotype{Genes: genes})
			}
		}
	}
	return offspring
}

func (ga *GeneticAlgorithm) checkPopulation(population []*neural.Genotype) error {
	if len(population) < 3 || len(population) < ga.cfg.EliteCount+1 {
		return fmt.Errorf("%w: population of %d cannot hold %d elite plus offspring",
			neural.ErrConfiguration, len(population), ga.cfg.EliteCount)
	}
	for i, g := range population {
		if g.Len() != ga.geneCount {
			return fmt.Errorf("%w: genotype %d has %d genes, want %d", neural.ErrConfiguration, i, g.Len(), ga.geneCount)
		}
	}
	return nil
}

func (ga *GeneticAlgorithm) randomPopulation(n int) []*neural.Genotype {
	population := make([]*neural.Genotype, n)
	for i := range population {
		population[i] = neural.NewRandomGenotype(ga.rng, ga.geneCount, ga.cfg.MinGene, ga.cfg.MaxGene)
	}
	return population
}
