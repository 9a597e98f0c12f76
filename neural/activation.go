package neural

import "math"

// Softsign squashes x into (-1, 1). It is bounded and defined everywhere, so a
// network built from finite weights always produces finite outputs.
func Softsign(x float64) float64 {
	return x / (1 + math.Abs(x))
}
