package selfenergy

import (
	"math/cmplx"
	"sync"
	"testing"

	"github.com/cwbudde/algo-vibronic/internal/cmat"
	"github.com/cwbudde/algo-vibronic/internal/testutil"
	"github.com/cwbudde/algo-vibronic/vibronic/lead"
	"github.com/cwbudde/algo-vibronic/vibronic/oscillator"
	"github.com/cwbudde/algo-vibronic/vibronic/phi"
)

var (
	cacheOnce sync.Once
	cache     *phi.Cache
)

func testCache(t *testing.T) *phi.Cache {
	t.Helper()
	cacheOnce.Do(func() {
		c, err := phi.Build(phi.BuildParams{Z0: 20, Bound: 5, Spacing: 0.02, Shape: 2})
		if err != nil {
			t.Fatalf("building test table: %v", err)
		}
		cache = c
	})
	if cache == nil {
		t.Fatal("test table build failed in a previous test")
	}
	return cache
}

func testLead(t *testing.T, dim int, mu, gamma float64) *lead.Lead {
	t.Helper()
	l, err := lead.New(dim, lead.Config{
		Mu: mu, T: 2, Gamma: gamma, Bandwidth: 1000,
		CouplingFunc: oscillator.LinearCoupling(0.5),
	}, testCache(t))
	if err != nil {
		t.Fatalf("lead.New: %v", err)
	}
	return l
}

func TestEnergyMatrixAntisymmetric(t *testing.T) {
	const dim = 5
	eps := EnergyMatrix(oscillator.HarmonicEnergies(0.5), dim)
	for m := 0; m < dim; m++ {
		if eps[m*dim+m] != 0 {
			t.Fatalf("diagonal E[%d,%d] = %v, want 0", m, m, eps[m*dim+m])
		}
		for n := 0; n < dim; n++ {
			if eps[m*dim+n] != -eps[n*dim+m] {
				t.Fatalf("E not antisymmetric at (%d,%d)", m, n)
			}
		}
	}
}

func TestBuildLeadPermutationInvariant(t *testing.T) {
	const dim = 4
	eps := EnergyMatrix(oscillator.HarmonicEnergies(0.5), dim)
	a := testLead(t, dim, 0.3, 0.02)
	b := testLead(t, dim, -0.7, 0.05)
	c := testLead(t, dim, 0, 0.01)

	y1 := Build(0.25, eps, dim, []*lead.Lead{a, b, c})
	y2 := Build(0.25, eps, dim, []*lead.Lead{c, a, b})
	for i := range y1.Data() {
		testutil.RequireComplexNear(t, y1.Data()[i], y2.Data()[i], 1e-13)
	}
}

func TestBuildAdditiveOverLeads(t *testing.T) {
	const dim = 3
	eps := EnergyMatrix(oscillator.HarmonicEnergies(0.5), dim)
	a := testLead(t, dim, 0.2, 0.02)
	b := testLead(t, dim, -0.1, 0.03)

	sum := Build(0.1, eps, dim, []*lead.Lead{a})
	sum.AddScaled(Build(0.1, eps, dim, []*lead.Lead{b}), 1)
	both := Build(0.1, eps, dim, []*lead.Lead{a, b})
	for i := range both.Data() {
		testutil.RequireComplexNear(t, both.Data()[i], sum.Data()[i], 1e-13)
	}
}

// Memoization must not change the result: compare a harmonic ladder (few
// distinct energy differences) against a direct evaluation with the
// contraction done longhand.
func TestBuildMatchesLonghandContraction(t *testing.T) {
	const dim = 3
	eps := EnergyMatrix(oscillator.HarmonicEnergies(0.5), dim)
	l := testLead(t, dim, 0.1, 0.04)
	omega := 0.35

	got := Build(omega, eps, dim, []*lead.Lead{l})

	f := l.Coupling()
	fAdj := l.CouplingAdjoint()
	corr := l.Correction()
	gamma := complex(l.Gamma(), 0)

	want := cmat.New(dim * dim)
	phiBuf := make([]complex128, dim*dim)
	for m := 0; m < dim; m++ {
		for n := 0; n < dim; n++ {
			e := eps[m*dim+n]
			l.PhiShiftedInto(phiBuf, omega-e, eps)
			augF := cmat.New(dim)
			for i := range phiBuf {
				augF.Data()[i] = gamma * f.Data()[i] * phiBuf[i]
			}
			y0 := cmat.New(dim)
			y0.AddScaled(cmat.Mul(augF, fAdj), -1)
			y0.AddScaled(corr, -1)
			y1 := cmat.Mul(fAdj, augF)

			row := m*dim + n
			for a := 0; a < dim; a++ {
				want.Set(row, a*dim+n, want.At(row, a*dim+n)+y0.At(m, a))
			}
			for b := 0; b < dim; b++ {
				want.Set(row, m*dim+b, want.At(row, m*dim+b)+y1.At(b, n))
			}
		}
	}

	for i := range got.Data() {
		testutil.RequireComplexNear(t, got.Data()[i], want.Data()[i], 1e-13)
	}
}

// With an identity coupling and a flat phonon ladder the super-operator
// collapses to a scalar: Y = -0.5i·γ on the diagonal.
func TestBuildZeroCouplingLimit(t *testing.T) {
	const dim = 3
	flat := func(n int) float64 { return 1.25 }
	eps := EnergyMatrix(flat, dim)

	l, err := lead.New(dim, lead.Config{
		T: 2, Gamma: 0.06, Bandwidth: 1000,
		CouplingFunc: oscillator.Delta,
	}, testCache(t))
	if err != nil {
		t.Fatalf("lead.New: %v", err)
	}

	y := Build(0.4, eps, dim, []*lead.Lead{l})
	n2 := dim * dim
	for i := 0; i < n2; i++ {
		for j := 0; j < n2; j++ {
			want := complex(0, 0)
			if i == j {
				want = complex(0, -0.5*l.Gamma())
			}
			if cmplx.Abs(y.At(i, j)-want) > 1e-12 {
				t.Fatalf("Y[%d,%d] = %v, want %v", i, j, y.At(i, j), want)
			}
		}
	}
}
