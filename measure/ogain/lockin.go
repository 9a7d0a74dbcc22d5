package ogain

import "gonum.org/v1/gonum/floats"

// demodulate returns the in-phase and quadrature sums of x against unit
// references: re = Σ x·cos, im = Σ x·sin. All slices have the same length.
func demodulate(x, sin, cos []float64) (re, im float64) {
	if len(x) == 0 {
		return 0, 0
	}
	return floats.Dot(x, cos), floats.Dot(x, sin)
}
