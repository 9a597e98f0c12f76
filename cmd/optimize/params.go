// Package main provides CMA-ES optimization for the genetic algorithm parameters.
package main

import (
	"math"

	"github.com/pthm-cable/neuralcar/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "crossover_probability", Path: "genetics.crossover_probability", Min: 0.05, Max: 0.95, Default: 0.6},
			{Name: "mutation_probability", Path: "genetics.mutation_probability", Min: 0.0, Max: 0.6, Default: 0.1},
			// min_gene follows as -max_gene
			{Name: "max_gene", Path: "genetics.max_gene", Min: 0.5, Max: 6.0, Default: 3.0},
		},
	}
}

// span is the width of the parameter's range.
func (s ParamSpec) span() float64 {
	return s.Max - s.Min
}

// clamp limits v to the parameter's range.
func (s ParamSpec) clamp(v float64) float64 {
	return math.Min(math.Max(v, s.Min), s.Max)
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	return pv.each(nil, func(s ParamSpec, _ float64) float64 { return s.Default })
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	return pv.each(raw, func(s ParamSpec, v float64) float64 { return (v - s.Min) / s.span() })
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	return pv.each(normalized, func(s ParamSpec, v float64) float64 { return s.Min + v*s.span() })
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	return pv.each(v, func(s ParamSpec, x float64) float64 { return s.clamp(x) })
}

// each maps every spec and its value in v (0 when v is nil) into a new slice.
func (pv *ParamVector) each(v []float64, f func(ParamSpec, float64) float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		var x float64
		if v != nil {
			x = v[i]
		}
		out[i] = f(spec, x)
	}
	return out
}

// ApplyToConfig writes clamped parameter values into cfg. Order must match Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Genetics.CrossoverProbability = clamped[0]
	cfg.Genetics.MutationProbability = clamped[1]
	cfg.Genetics.MaxGene = clamped[2]
	cfg.Genetics.MinGene = -clamped[2]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Genetics.CrossoverProbability,
		cfg.Genetics.MutationProbability,
		cfg.Genetics.MaxGene,
	}
}
