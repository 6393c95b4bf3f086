// Package dos computes the spectral density of states of a single electronic
// level coupled to a phonon mode and to a set of wide-band reservoirs.
//
// For every requested frequency the solver assembles the dissipative
// super-operator, solves one dim²×dim² complex linear system against the
// vectorized phonon state and reads the density of states off the imaginary
// part of the resulting trace. Frequencies are mutually independent, so the
// evaluation can optionally be spread over a worker pool; results always come
// back in input order.
//
// A zero-valued [Params] falls back to the documented defaults: no leads,
// level energy 0, the linear phonon ladder E_n = n and the phonon ground
// state. These are the same fallbacks the calculation scripts historically
// relied on; serious callers set every field.
package dos

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-vibronic/internal/cmat"
	"github.com/cwbudde/algo-vibronic/vibronic/lead"
	"github.com/cwbudde/algo-vibronic/vibronic/selfenergy"
)

// Params bundles the physical inputs of one calculation.
type Params struct {
	// Leads lists the attached reservoirs. All must share the basis size
	// handed to Calculate.
	Leads []*lead.Lead
	// LevelEnergy is the bare energy of the electronic level.
	LevelEnergy float64
	// PhononEnergy maps a level index to its energy. Nil means E_n = n.
	PhononEnergy func(n int) float64
	// PhononState is the (unnormalized) phonon density matrix. Copied.
	PhononState *cmat.Dense
	// PhononStateFunc gives the state elementwise; used when PhononState is
	// nil. When both are nil the phonon ground state is assumed.
	PhononStateFunc func(m, n int) complex128
	// Postprocess, when non-nil, is traced against the solved matrix in
	// place of the identity. Absence is expressed by leaving it nil.
	Postprocess *cmat.Dense
}

// Option tunes the evaluation strategy.
type Option func(*config)

type config struct {
	workers int
}

// WithWorkers distributes frequency points over n goroutines. Values below 2
// keep the evaluation sequential.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// Calculate evaluates the density of states at every frequency in omegas for
// a phonon basis of size dim. The output slice matches omegas in length and
// order. A singular linear system at any frequency aborts the calculation
// with an error naming that frequency.
func Calculate(omegas []float64, dim int, p Params, opts ...Option) ([]float64, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("dos: basis size must be > 0: %d", dim)
	}
	for i, l := range p.Leads {
		if l.Dim() != dim {
			return nil, fmt.Errorf("dos: lead %d built for basis size %d, want %d", i, l.Dim(), dim)
		}
	}
	if p.Postprocess != nil && p.Postprocess.N() != dim {
		return nil, fmt.Errorf("dos: postprocess matrix is %d×%d, want %d×%d",
			p.Postprocess.N(), p.Postprocess.N(), dim, dim)
	}

	rho, err := phononState(p, dim)
	if err != nil {
		return nil, err
	}
	rhoVec := rho.Vec()

	energy := p.PhononEnergy
	if energy == nil {
		energy = func(n int) float64 { return float64(n) }
	}
	eps := selfenergy.EnergyMatrix(energy, dim)

	cfg := config{workers: 1}
	for _, o := range opts {
		o(&cfg)
	}

	raw := make([]float64, len(omegas))
	evalOne := func(i int) error {
		w := omegas[i]
		m := selfenergy.Build(w, eps, dim, p.Leads)
		// M = (ω − e0)·I − diag(vec E) − Y(ω), built in place on −Y.
		m.Scale(-1)
		n2 := dim * dim
		for k := 0; k < n2; k++ {
			m.Set(k, k, m.At(k, k)+complex(w-p.LevelEnergy-eps[k], 0))
		}
		x, err := cmat.SolveVec(m, rhoVec)
		if err != nil {
			return fmt.Errorf("dos: solving at omega=%g: %w", w, err)
		}
		a := cmat.Unvec(x, dim)
		if p.Postprocess != nil {
			a = cmat.Mul(p.Postprocess, a)
		}
		raw[i] = imag(a.Trace())
		return nil
	}

	if err := runIndexed(len(omegas), cfg.workers, evalOne); err != nil {
		return nil, err
	}

	out := make([]float64, len(raw))
	vecmath.ScaleBlock(out, raw, -2)
	return out, nil
}

// runIndexed applies eval to every index, sequentially or over a pool.
func runIndexed(n, workers int, eval func(int) error) error {
	if workers < 2 || n < 2 {
		for i := 0; i < n; i++ {
			if err := eval(i); err != nil {
				return err
			}
		}
		return nil
	}
	if workers > n {
		workers = n
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	next := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				if err := eval(i); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
				}
			}
		}()
	}
	for i := 0; i < n; i++ {
		next <- i
	}
	close(next)
	wg.Wait()
	return firstErr
}

// phononState materializes and trace-normalizes the phonon density matrix.
func phononState(p Params, dim int) (*cmat.Dense, error) {
	var rho *cmat.Dense
	switch {
	case p.PhononState != nil && p.PhononStateFunc != nil:
		return nil, fmt.Errorf("dos: phonon state matrix and state function are mutually exclusive")
	case p.PhononState != nil:
		if p.PhononState.N() != dim {
			return nil, fmt.Errorf("dos: phonon state is %d×%d, want %d×%d",
				p.PhononState.N(), p.PhononState.N(), dim, dim)
		}
		rho = p.PhononState.Clone()
	case p.PhononStateFunc != nil:
		rho = cmat.FromFunc(dim, p.PhononStateFunc)
	default:
		rho = cmat.New(dim)
		rho.Set(0, 0, 1) // ground state
	}

	tr := rho.Trace()
	if tr == 0 {
		return nil, fmt.Errorf("dos: phonon state has zero trace")
	}
	rho.Scale(1 / tr)
	return rho, nil
}
