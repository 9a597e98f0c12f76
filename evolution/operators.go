package evolution

import (
	"math/rand"
	"sort"

	"github.com/pthm-cable/neuralcar/neural"
)

// SelectElite returns the n fittest genotypes, best first. Ties keep population order.
func SelectElite(population []*neural.Genotype, n int) []*neural.Genotype {
	ranked := make([]*neural.Genotype, len(population))
	copy(ranked, population)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Fitness > ranked[j].Fitness
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// PairParents splits the parent pool into random disjoint pairs, drawing two
// unused positions at a time. With an odd pool one parent is left out.
func PairParents(rng *rand.Rand, parents []*neural.Genotype) [][2]*neural.Genotype {
	unused := make([]int, len(parents))
	for i := range unused {
		unused[i] = i
	}

	pairs := make([][2]*neural.Genotype, 0, len(parents)/2)
	for len(unused) >= 2 {
		a := takeRandom(rng, &unused)
		b := takeRandom(rng, &unused)
		pairs = append(pairs, [2]*neural.Genotype{parents[a], parents[b]})
	}
	return pairs
}

// takeRandom removes and returns a random element of unused.
func takeRandom(rng *rand.Rand, unused *[]int) int {
	idx := rng.Intn(len(*unused))
	v := (*unused)[idx]
	*unused = append((*unused)[:idx], (*unused)[idx+1:]...)
	return v
}

// UniformCrossover builds two children gene by gene. With the given probability
// a position is swapped (child1 takes parent2's gene and child2 parent1's);
// otherwise each child keeps its own parent's gene.
func UniformCrossover(rng *rand.Rand, parent1, parent2 []float64, probability float64) (child1, child2 []float64) {
	child1 = make([]float64, len(parent1))
	child2 = make([]float64, len(parent1))

	for i := range parent1 {
		if rng.Float64() < probability {
			child1[i] = parent2[i]
			child2[i] = parent1[i]
		} else {
			child1[i] = parent1[i]
			child2[i] = parent2[i]
		}
	}
	return child1, child2
}

// MutateGenes, with the given probability, overwrites one uniformly chosen gene
// with a fresh draw from [minGene, maxGene]. Returns true if a gene was replaced.
func MutateGenes(rng *rand.Rand, genes []float64, probability, minGene, maxGene float64) bool {
	if len(genes) == 0 || rng.Float64() >= probability {
		return false
	}
	genes[rng.Intn(len(genes))] = neural.RandomGene(rng, minGene, maxGene)
	return true
}
