// Package selfenergy assembles the dissipative super-operator coupling the
// phonon density matrix to the attached reservoirs.
//
// The super-operator is the dim²×dim² matrix Y with contraction rule
//
//	Y[mn, an] += Y0[m,a]    Y[mn, mb] += Y1[b,n]
//
// i.e. it acts as left-multiplication by Y0 and right-multiplication by Y1
// on the phonon density matrix. Y0 and Y1 depend on the index pair (m,n)
// only through the energy difference E[m,n], so they are memoized per
// distinct difference within one build; for equally spaced phonon ladders
// this collapses dim² pairs to 2·dim−1 evaluations.
package selfenergy

import (
	"math"

	"github.com/cwbudde/algo-vibronic/internal/cmat"
	"github.com/cwbudde/algo-vibronic/vibronic/lead"
)

// EnergyMatrix materializes the antisymmetric energy-difference matrix
// E[m,n] = energy(m) − energy(n) as a row-major dim×dim slice.
func EnergyMatrix(energy func(n int) float64, dim int) []float64 {
	levels := make([]float64, dim)
	for i := range levels {
		levels[i] = energy(i)
	}
	out := make([]float64, dim*dim)
	for m := 0; m < dim; m++ {
		for n := 0; n < dim; n++ {
			out[m*dim+n] = levels[m] - levels[n]
		}
	}
	return out
}

type pair struct {
	y0, y1 *cmat.Dense
}

// leadTerms caches the per-lead matrices for one build.
type leadTerms struct {
	l          *lead.Lead
	f, fAdj    *cmat.Dense
	correction *cmat.Dense
	gamma      complex128
}

// Build assembles the super-operator at frequency omega for the given
// energy-difference matrix (row-major, dim×dim) and reservoirs. Lead
// contributions are additive, so the result is independent of list order.
func Build(omega float64, eps []float64, dim int, leads []*lead.Lead) *cmat.Dense {
	if len(eps) != dim*dim {
		panic("selfenergy: energy matrix size mismatch")
	}

	terms := make([]leadTerms, len(leads))
	for i, l := range leads {
		terms[i] = leadTerms{
			l:          l,
			f:          l.Coupling(),
			fAdj:       l.CouplingAdjoint(),
			correction: l.Correction(),
			gamma:      complex(l.Gamma(), 0),
		}
	}

	out := cmat.New(dim * dim)
	memo := make(map[int64]pair)
	quantum := keyQuantum(eps)
	phiBuf := make([]complex128, dim*dim)

	for m := 0; m < dim; m++ {
		for n := 0; n < dim; n++ {
			e := eps[m*dim+n]
			key := int64(math.Round(e / quantum))
			p, ok := memo[key]
			if !ok {
				p = accumulate(omega-e, eps, dim, terms, phiBuf)
				memo[key] = p
			}
			row := m*dim + n
			for a := 0; a < dim; a++ {
				out.Set(row, a*dim+n, out.At(row, a*dim+n)+p.y0.At(m, a))
			}
			for b := 0; b < dim; b++ {
				out.Set(row, m*dim+b, out.At(row, m*dim+b)+p.y1.At(b, n))
			}
		}
	}
	return out
}

// accumulate sums the per-lead Y0 and Y1 blocks at the shifted frequency.
func accumulate(shifted float64, eps []float64, dim int, terms []leadTerms, phiBuf []complex128) pair {
	y0 := cmat.New(dim)
	y1 := cmat.New(dim)
	for _, t := range terms {
		t.l.PhiShiftedInto(phiBuf, shifted, eps)

		// augF = γ · f ∘ φ(ω + E − e), elementwise against the full
		// energy-difference matrix.
		augF := cmat.New(dim)
		ad, fd := augF.Data(), t.f.Data()
		for i := range ad {
			ad[i] = t.gamma * fd[i] * phiBuf[i]
		}

		y0.AddScaled(cmat.Mul(augF, t.fAdj), -1)
		y0.AddScaled(t.correction, -1)
		y1.AddScaled(cmat.Mul(t.fAdj, augF), 1)
	}
	return pair{y0: y0, y1: y1}
}

// keyQuantum chooses the rounding unit for memo keys. Energy differences are
// quantized to a 1e-9 fraction of the largest difference, which merges values
// that are equal up to round-off without ever using raw floats as map keys.
func keyQuantum(eps []float64) float64 {
	maxAbs := 0.0
	for _, e := range eps {
		if a := math.Abs(e); a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs == 0 {
		return 1
	}
	return maxAbs * 1e-9
}
