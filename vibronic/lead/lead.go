// Package lead models an external particle reservoir in the wide-band limit.
//
// A Lead bundles a reservoir's physical parameters — chemical potential,
// temperature, coupling rate, vibrational coupling matrix and bandwidth —
// and derives the frequency-shifted spectral function and the static
// broadening correction the self-energy builder consumes. Leads are
// immutable after construction.
package lead

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vibronic/internal/cmat"
	"github.com/cwbudde/algo-vibronic/vibronic/phi"
)

var (
	errNoCoupling   = errors.New("lead: coupling matrix or coupling function required")
	errTwoCouplings = errors.New("lead: coupling matrix and coupling function are mutually exclusive")
	errNoCache      = errors.New("lead: spectral cache required")
)

// Config collects the constructor parameters of a reservoir. The vibrational
// coupling is given either as a ready-made matrix or as an element function;
// a function is evaluated eagerly at construction.
type Config struct {
	// Mu is the chemical potential.
	Mu float64
	// T is the temperature (same units as Mu).
	T float64
	// Gamma is the bare coupling rate.
	Gamma float64
	// Bandwidth is the reservoir band half-width W.
	Bandwidth float64

	// Coupling is the dim×dim vibrational coupling matrix f. Copied.
	Coupling *cmat.Dense
	// CouplingFunc gives f elementwise; used when Coupling is nil.
	CouplingFunc func(m, n int) complex128
}

// Lead is an immutable reservoir attached to a fixed phonon basis size.
type Lead struct {
	mu, t, gamma, bandwidth float64
	dim                     int
	f, fAdj                 *cmat.Dense
	correction              *cmat.Dense
	cache                   *phi.Cache
	zRatio                  float64
}

// New constructs a Lead over a phonon basis of size dim, evaluating the
// spectral function through cache. The basis size is explicit: leads built
// for one dim are not valid in calculations with another.
func New(dim int, cfg Config, cache *phi.Cache) (*Lead, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("lead: basis size must be > 0: %d", dim)
	}
	if !(cfg.T > 0) {
		return nil, fmt.Errorf("lead: temperature must be > 0: %v", cfg.T)
	}
	if !(cfg.Bandwidth > 0) {
		return nil, fmt.Errorf("lead: bandwidth must be > 0: %v", cfg.Bandwidth)
	}
	if cache == nil {
		return nil, errNoCache
	}

	var f *cmat.Dense
	switch {
	case cfg.Coupling != nil && cfg.CouplingFunc != nil:
		return nil, errTwoCouplings
	case cfg.Coupling != nil:
		if cfg.Coupling.N() != dim {
			return nil, fmt.Errorf("lead: coupling matrix is %d×%d, want %d×%d",
				cfg.Coupling.N(), cfg.Coupling.N(), dim, dim)
		}
		f = cfg.Coupling.Clone()
	case cfg.CouplingFunc != nil:
		f = cmat.FromFunc(dim, cfg.CouplingFunc)
	default:
		return nil, errNoCoupling
	}

	fAdj := f.ConjTranspose()
	correction := cmat.Mul(f, fAdj)
	correction.Scale(complex(0, 0.5*cfg.Gamma))

	return &Lead{
		mu:         cfg.Mu,
		t:          cfg.T,
		gamma:      cfg.Gamma,
		bandwidth:  cfg.Bandwidth,
		dim:        dim,
		f:          f,
		fAdj:       fAdj,
		correction: correction,
		cache:      cache,
		zRatio:     cfg.Bandwidth / cfg.T,
	}, nil
}

// Dim returns the phonon basis size the lead was built for.
func (l *Lead) Dim() int { return l.dim }

// Mu returns the chemical potential.
func (l *Lead) Mu() float64 { return l.mu }

// Temperature returns the reservoir temperature.
func (l *Lead) Temperature() float64 { return l.t }

// Gamma returns the bare coupling rate.
func (l *Lead) Gamma() float64 { return l.gamma }

// Bandwidth returns the band half-width.
func (l *Lead) Bandwidth() float64 { return l.bandwidth }

// Coupling returns a copy of the vibrational coupling matrix f.
func (l *Lead) Coupling() *cmat.Dense { return l.f.Clone() }

// CouplingAdjoint returns a copy of the conjugate transpose of f.
func (l *Lead) CouplingAdjoint() *cmat.Dense { return l.fAdj.Clone() }

// Correction returns a copy of the static correction term 0.5i·γ·f·f†.
func (l *Lead) Correction() *cmat.Dense { return l.correction.Clone() }

// PhiShifted evaluates the lead's frequency-shifted spectral function
//
//	(phi((ω−μ)/T, W/T) − log(1 − μ/(W+ω))) / (2π)
func (l *Lead) PhiShifted(omega float64) complex128 {
	v := l.cache.Eval((omega-l.mu)/l.t, l.zRatio)
	v -= complex(math.Log1p(-l.mu/(l.bandwidth+omega)), 0)
	return v / complex(2*math.Pi, 0)
}

// PhiShiftedInto fills dst with the shifted spectral function evaluated at
// omega plus every entry of eps. dst and eps must have equal length.
func (l *Lead) PhiShiftedInto(dst []complex128, omega float64, eps []float64) {
	if len(dst) != len(eps) {
		panic("lead: dst and eps length mismatch")
	}
	for i, e := range eps {
		dst[i] = l.PhiShifted(omega + e)
	}
}
