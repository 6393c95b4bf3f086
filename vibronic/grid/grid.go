// Package grid generates nonuniform sample lattices for quadrature and
// interpolation tables.
//
// The logarithmic lattice concentrates points near the origin, where the
// sampled functions are least smooth, while growing only logarithmically in
// the overall bound. It is the abscissa rule behind the persisted spectral
// cache: a snapshot stores the (bound, spacing, shape) triple and the reader
// regenerates the identical lattice from it.
package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Validate reports whether (bound, spacing, shape) describe a usable lattice.
func Validate(bound, spacing, shape float64) error {
	if !(bound > 0) {
		return fmt.Errorf("grid: bound must be > 0: %v", bound)
	}
	if !(spacing > 0) || spacing >= bound {
		return fmt.Errorf("grid: spacing must be in (0, bound): %v", spacing)
	}
	if !(shape > 0) {
		return fmt.Errorf("grid: shape must be > 0: %v", shape)
	}
	return nil
}

// Count returns the number of points Logarithmic produces for the triple.
func Count(bound, spacing, shape float64) int {
	return int(math.Log(1+bound/shape)/math.Log(1+spacing/shape)) + 1
}

// Logarithmic returns a lattice of points on [0, bound] whose local density
// falls off as 1/(1 + x/shape). Near the origin the points are spaced roughly
// by spacing; far out the spacing grows linearly with x.
//
// The lattice is obtained by inverting the cumulative distribution
// F(x) = ln(1+x/shape)/ln(1+bound/shape) sampled evenly on [0, 1], so the
// first point is exactly 0 and the last exactly bound.
func Logarithmic(bound, spacing, shape float64) []float64 {
	n := Count(bound, spacing, shape)
	if n < 2 {
		n = 2
	}
	pts := floats.Span(make([]float64, n), 0, 1)
	ratio := 1 + bound/shape
	for i, f := range pts {
		pts[i] = shape * (math.Pow(ratio, f) - 1)
	}
	// Guard against round-off on the endpoints; the cache codec relies on
	// bit-exact regeneration of the boundary values.
	pts[0] = 0
	pts[n-1] = bound
	return pts
}
