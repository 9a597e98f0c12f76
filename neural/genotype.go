package neural

import (
	"fmt"
	"math/rand"
)

// Genotype is one member of a population: a fixed-length weight vector plus the
// score it earned in the current trial.
type Genotype struct {
	Genes []float64

	// Distance is the raw performance written by the host once per trial.
	Distance float64
	// Fitness is Distance relative to the population mean, written by NormalizeFitness.
	Fitness float64
}

// NewRandomGenotype draws geneCount genes independently and uniformly from [minGene, maxGene].
func NewRandomGenotype(rng *rand.Rand, geneCount int, minGene, maxGene float64) *Genotype {
	genes := make([]float64, geneCount)
	for i := range genes {
		genes[i] = RandomGene(rng, minGene, maxGene)
	}
	return &Genotype{Genes: genes}
}

// NewGenotype wraps an existing gene vector as-is. The slice is not copied.
func NewGenotype(genes []float64) (*Genotype, error) {
	if len(genes) == 0 {
		return nil, fmt.Errorf("%w: genotype needs at least one gene", ErrConfiguration)
	}
	return &Genotype{Genes: genes}, nil
}

// RandomGene returns a uniform draw from [minGene, maxGene].
func RandomGene(rng *rand.Rand, minGene, maxGene float64) float64 {
	return minGene + rng.Float64()*(maxGene-minGene)
}

// Reset zeroes Distance and Fitness at the start of a trial. Genes are untouched.
func (g *Genotype) Reset() {
	g.Distance = 0
	g.Fitness = 0
}

// Len returns the number of genes.
func (g *Genotype) Len() int {
	return len(g.Genes)
}

// Clone creates a deep copy of the genotype, scores included.
func (g *Genotype) Clone() *Genotype {
	genes := make([]float64, len(g.Genes))
	copy(genes, g.Genes)
	return &Genotype{
		Genes:    genes,
		Distance: g.Distance,
		Fitness:  g.Fitness,
	}
}
