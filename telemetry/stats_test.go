package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/neuralcar/neural"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func scored(distances ...float64) []*neural.Genotype {
	pop := make([]*neural.Genotype, len(distances))
	for i, d := range distances {
		pop[i] = &neural.Genotype{Genes: []float64{float64(i)}, Distance: d}
	}
	return pop
}

func TestComputeGenerationStats(t *testing.T) {
	s := ComputeGenerationStats(7, scored(30, 10, 40, 20))

	if s.Generation != 7 || s.Population != 4 {
		t.Errorf("generation/population = %d/%d", s.Generation, s.Population)
	}
	checks := []struct {
		name      string
		got, want float64
	}{
		{"best", s.BestDistance, 40},
		{"mean", s.MeanDistance, 25},
		{"std", s.StdDistance, math.Sqrt(500.0 / 3)},
		{"p50", s.P50Distance, 25},
		{"p90", s.P90Distance, 37},
		{"best fitness", s.BestFitness, 1.6},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestComputeGenerationStatsDegenerate(t *testing.T) {
	s := ComputeGenerationStats(1, scored(0, 0, 0))
	if s.BestFitness != 0 || s.MeanDistance != 0 || s.StdDistance != 0 {
		t.Errorf("all-zero stats = %+v", s)
	}

	s = ComputeGenerationStats(1, scored(12))
	if s.StdDistance != 0 || s.BestDistance != 12 || s.BestFitness != 1 {
		t.Errorf("single stats = %+v", s)
	}

	s = ComputeGenerationStats(3, nil)
	if s.Population != 0 || s.BestDistance != 0 {
		t.Errorf("empty stats = %+v", s)
	}
}
