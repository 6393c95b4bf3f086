package phi

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/cwbudde/algo-vibronic/internal/fermimath"
	"github.com/cwbudde/algo-vibronic/vibronic/grid"
)

// Window around the removable singularity at z = x inside which the
// integrand is replaced by its quadratic Taylor expansion.
const taylorWindow = 1e-4

// Build computes the phi0 table by direct quadrature: for every lattice
// point x it integrates (n(z) - n(x))/(x - z) over [-Z0, Z0].
//
// This is the slow path; production callers should persist the result with
// [Cache.WriteSnapshot] and go through [LoadOrBuild] afterwards.
func Build(p BuildParams) (*Cache, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	xs := grid.Logarithmic(p.Bound, p.Spacing, p.Shape)
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = rawPhi0(x, p.Z0)
	}
	return newCache(p, ys)
}

// rawPhi0 integrates the difference quotient of the Fermi occupation about x.
// Within taylorWindow of the singularity the quotient is replaced by its
// Taylor expansion, with coefficients from the first three derivatives of n.
func rawPhi0(x, z0 float64) float64 {
	nx := fermimath.Occupation(x)
	y0 := -fermimath.D1(x)
	m := -fermimath.D2(x) / 2
	k := -fermimath.D3(x) / 6

	f := func(z float64) float64 {
		d := x - z
		if math.Abs(d) < taylorWindow {
			// z - x = -d
			return y0 - m*d + k*d*d
		}
		return (fermimath.Occupation(z) - nx) / d
	}

	// Composite Gauss-Legendre: a narrow panel straddling the singularity,
	// wide panels for the smooth remainder.
	cuts := [4]float64{-z0, x - 1, x + 1, z0}
	if cuts[1] < -z0 {
		cuts[1] = -z0
	}
	if cuts[2] > z0 {
		cuts[2] = z0
	}

	var total float64
	for i := 0; i < 3; i++ {
		lo, hi := cuts[i], cuts[i+1]
		if hi <= lo {
			continue
		}
		total += quad.Fixed(f, lo, hi, panelNodes(hi-lo), nil, 0)
	}
	return total
}

// panelNodes scales the Legendre order with the panel width so that the
// scale-one structure of the occupation function stays resolved.
func panelNodes(width float64) int {
	n := 64 + int(8*width)
	if n > 4096 {
		n = 4096
	}
	return n
}
