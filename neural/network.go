// Package neural provides genotypes and the feedforward networks built from them.
package neural

import "fmt"

// Neuron holds fan-out weights, one per neuron in the next layer.
type Neuron struct {
	Weights []float64
}

// Layer is a set of neurons plus one bias neuron, all connected to every
// neuron of the next layer.
type Layer struct {
	Neurons []Neuron
	Bias    Neuron
}

// NumNeurons returns the width of the layer, bias excluded.
func (l *Layer) NumNeurons() int {
	return len(l.Neurons)
}

// NumOutputs returns the width of the layer this one feeds.
func (l *Layer) NumOutputs() int {
	return len(l.Bias.Weights)
}

// Process computes softsign(Σ w_ij·x_i + b_j) for each output j.
func (l *Layer) Process(inputs []float64) []float64 {
	out := make([]float64, l.NumOutputs())
	for j := range out {
		var sum float64
		for i := range l.Neurons {
			sum += l.Neurons[i].Weights[j] * inputs[i]
		}
		sum += l.Bias.Weights[j]
		out[j] = Softsign(sum)
	}
	return out
}

// Network is a feedforward network parameterised entirely by a genotype's genes.
// It is rebuilt from genes whenever needed and never persisted.
type Network struct {
	Layers []Layer
	sizes  []int
}

// GeneCount returns the number of genes a network with the given layer widths
// consumes: Σ (n_i + 1) × n_{i+1}, the +1 being the bias neuron.
func GeneCount(layerSizes []int) (int, error) {
	if len(layerSizes) < 2 {
		return 0, fmt.Errorf("%w: need at least 2 layers, got %d", ErrConfiguration, len(layerSizes))
	}
	total := 0
	for i, n := range layerSizes {
		if n <= 0 {
			return 0, fmt.Errorf("%w: layer %d has non-positive width %d", ErrConfiguration, i, n)
		}
		if i+1 < len(layerSizes) {
			total += (n + 1) * layerSizes[i+1]
		}
	}
	return total, nil
}

// NewNetwork partitions genes into per-layer weight blocks. Within a block of
// (n_i+1)×n_{i+1} genes, each regular neuron takes n_{i+1} consecutive weights
// and the last n_{i+1} belong to the bias neuron.
func NewNetwork(layerSizes []int, genes []float64) (*Network, error) {
	want, err := GeneCount(layerSizes)
	if err != nil {
		return nil, err
	}
	if len(genes) != want {
		return nil, fmt.Errorf("%w: layers %v need %d genes, got %d", ErrConfiguration, layerSizes, want, len(genes))
	}

	nn := &Network{
		Layers: make([]Layer, 0, len(layerSizes)-1),
		sizes:  append([]int(nil), layerSizes...),
	}

	k := 0
	for i := 0; i < len(layerSizes)-1; i++ {
		n, next := layerSizes[i], layerSizes[i+1]
		layer := Layer{Neurons: make([]Neuron, n)}
		for j := 0; j <= n; j++ {
			weights := make([]float64, next)
			copy(weights, genes[k:k+next])
			k += next
			if j == n {
				layer.Bias = Neuron{Weights: weights}
			} else {
				layer.Neurons[j] = Neuron{Weights: weights}
			}
		}
		nn.Layers = append(nn.Layers, layer)
	}

	return nn, nil
}

// NewNetworkFromGenotype is shorthand for NewNetwork(layerSizes, g.Genes).
func NewNetworkFromGenotype(layerSizes []int, g *Genotype) (*Network, error) {
	return NewNetwork(layerSizes, g.Genes)
}

// NumInputs returns the width of the input layer.
func (nn *Network) NumInputs() int {
	return nn.sizes[0]
}

// NumOutputs returns the width of the output layer.
func (nn *Network) NumOutputs() int {
	return nn.sizes[len(nn.sizes)-1]
}

// Sizes returns a copy of the layer widths the network was built with.
func (nn *Network) Sizes() []int {
	return append([]int(nil), nn.sizes...)
}

// Evaluate runs inputs through every layer and returns the output layer's values,
// each in (-1, 1). No state is kept between calls.
func (nn *Network) Evaluate(inputs []float64) ([]float64, error) {
	if len(inputs) != nn.NumInputs() {
		return nil, fmt.Errorf("expected %d inputs, got %d", nn.NumInputs(), len(inputs))
	}

	values := inputs
	for i := range nn.Layers {
		values = nn.Layers[i].Process(values)
	}
	return values, nil
}
