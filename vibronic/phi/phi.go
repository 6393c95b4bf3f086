package phi

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/cwbudde/algo-vibronic/internal/fermimath"
	"github.com/cwbudde/algo-vibronic/vibronic/grid"
)

// Asymptotic expansion coefficients: c1/x^2 + c2/x^4 beyond the table bound.
var (
	c1 = math.Pi * math.Pi / 6
	c2 = 7 * math.Pi * math.Pi * math.Pi * math.Pi / 60
)

// BuildParams describes a cache table: the reference ratio Z0 the quadrature
// integrates against, and the (Bound, Spacing, Shape) triple of the
// logarithmic sample lattice on [0, Bound].
type BuildParams struct {
	Z0      float64
	Bound   float64
	Spacing float64
	Shape   float64
}

// DefaultBuildParams returns the reference table parameters. They cover
// |x| < 150 against Z0 = 200 with near-origin spacing 0.001, which is
// sufficient for lead temperatures down to a few percent of the level
// broadening scale.
func DefaultBuildParams() BuildParams {
	return BuildParams{Z0: 200, Bound: 150, Spacing: 0.001, Shape: 2}
}

func (p BuildParams) validate() error {
	if !(p.Z0 > 0) {
		return fmt.Errorf("phi: reference ratio Z0 must be > 0: %v", p.Z0)
	}
	return grid.Validate(p.Bound, p.Spacing, p.Shape)
}

// Cache holds the sampled mid-range table of phi0 at the reference ratio Z0
// together with a linear interpolant over the lattice. It is read-only after
// construction.
type Cache struct {
	z0      float64
	bound   float64
	spacing float64
	shape   float64
	xs, ys  []float64
	pl      interp.PiecewiseLinear
}

func newCache(p BuildParams, ys []float64) (*Cache, error) {
	xs := grid.Logarithmic(p.Bound, p.Spacing, p.Shape)
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("phi: %d values for a %d-point lattice: %w", len(ys), len(xs), ErrSnapshot)
	}
	c := &Cache{
		z0:      p.Z0,
		bound:   p.Bound,
		spacing: p.Spacing,
		shape:   p.Shape,
		xs:      xs,
		ys:      ys,
	}
	if err := c.pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("phi: fitting interpolant: %w", err)
	}
	return c, nil
}

// Z0 returns the reference bandwidth ratio the table was built against.
func (c *Cache) Z0() float64 { return c.z0 }

// Bound returns the largest |x| covered by the table; beyond it Eval switches
// to the asymptotic expansion.
func (c *Cache) Bound() float64 { return c.bound }

// Params returns the build parameters the table was generated from.
func (c *Cache) Params() BuildParams {
	return BuildParams{Z0: c.z0, Bound: c.bound, Spacing: c.spacing, Shape: c.shape}
}

// Len returns the number of lattice points in the table.
func (c *Cache) Len() int { return len(c.xs) }

// Eval computes phi(x, Z).
//
// The real part is assembled additively: a closed-form logarithm for
// negative x, plus either the rescaled table value (|x| < Bound) or the
// asymptotic expansion (|x| >= Bound, never extrapolating the interpolant).
// The imaginary part is -(pi/2) times the Fermi occupation of x.
func (c *Cache) Eval(x, Z float64) complex128 {
	var re float64
	if x < 0 {
		re += math.Log((Z - x) / (Z + x))
	}
	ax := math.Abs(x)
	if ax < c.bound {
		re += c.pl.Predict(ax) + math.Log((Z+ax)/(c.z0+ax))
	} else {
		x2 := ax * ax
		re += math.Log1p(Z/ax) + c1/x2 + c2/(x2*x2)
	}
	return complex(re, -0.5*math.Pi*fermimath.Occupation(x))
}

// EvalSlice computes phi elementwise over xs at a fixed Z. If dst is nil a
// new slice is allocated; otherwise it must match len(xs).
func (c *Cache) EvalSlice(dst []complex128, xs []float64, Z float64) []complex128 {
	if dst == nil {
		dst = make([]complex128, len(xs))
	}
	if len(dst) != len(xs) {
		panic("phi: dst and xs length mismatch")
	}
	for i, x := range xs {
		dst[i] = c.Eval(x, Z)
	}
	return dst
}
