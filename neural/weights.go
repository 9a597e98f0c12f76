package neural

import (
	"encoding/json"
	"fmt"
	"os"
)

// GenotypeWeights is the persisted form of a genotype: its genes as a flat list.
type GenotypeWeights struct {
	Weights []float64 `json:"weights"`
}

// MarshalWeights copies the genotype's genes for serialization.
func MarshalWeights(g *Genotype) GenotypeWeights {
	w := GenotypeWeights{Weights: make([]float64, len(g.Genes))}
	copy(w.Weights, g.Genes)
	return w
}

// Genotype rebuilds a genotype from persisted weights with zero distance and fitness.
func (w GenotypeWeights) Genotype() (*Genotype, error) {
	return NewGenotype(w.Weights)
}

// EncodeWeights serializes the genotype's genes as {"weights": [...]}.
func EncodeWeights(g *Genotype) ([]byte, error) {
	data, err := json.Marshal(MarshalWeights(g))
	if err != nil {
		return nil, fmt.Errorf("encoding weights: %w", err)
	}
	return data, nil
}

// DecodeWeights parses a {"weights": [...]} document into a fresh genotype.
func DecodeWeights(data []byte) (*Genotype, error) {
	var w GenotypeWeights
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding weights: %w", err)
	}
	return w.Genotype()
}

// SaveWeights writes the genotype's genes to path.
func SaveWeights(path string, g *Genotype) error {
	data, err := EncodeWeights(g)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing weights file: %w", err)
	}
	return nil
}

// LoadWeights reads a weights file written by SaveWeights.
func LoadWeights(path string) (*Genotype, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading weights file: %w", err)
	}
	return DecodeWeights(data)
}
