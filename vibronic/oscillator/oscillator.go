// Package oscillator supplies matrix elements and distributions for a single
// bosonic mode in the number basis: ladder operators, common coupling shapes,
// thermal and coherent phonon states, and the displacement operator.
//
// Element functions have the signature func(m, n int) complex128 and plug
// directly into lead and solver constructors, which materialize them eagerly
// over the chosen basis size. Distributions are returned unnormalized; the
// density-of-states solver trace-normalizes its phonon state before use.
package oscillator

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-vecmath"
)

// Delta gives the identity matrix elements.
func Delta(m, n int) complex128 {
	if m == n {
		return 1
	}
	return 0
}

// Annihilator gives the annihilation operator elements, b|n⟩ = √n·|n−1⟩.
func Annihilator(m, n int) complex128 {
	if m == n-1 {
		return complex(math.Sqrt(float64(n)), 0)
	}
	return 0
}

// XQuadrature gives the dimensionless position quadrature b† + b.
func XQuadrature(m, n int) complex128 {
	return Annihilator(m, n) + Annihilator(n, m)
}

// LinearCoupling returns the elements of 1 + k·x for a linearly modulated
// hopping amplitude.
func LinearCoupling(k float64) func(m, n int) complex128 {
	return func(m, n int) complex128 {
		return Delta(m, n) + complex(k, 0)*XQuadrature(m, n)
	}
}

// HarmonicEnergies returns the ladder E_n = hf·(n + 1/2).
func HarmonicEnergies(hf float64) func(n int) float64 {
	return func(n int) float64 {
		return hf * (float64(n) + 0.5)
	}
}

// ThermalDist returns the diagonal Boltzmann weights exp(−E_n/temp) for the
// given energy ladder, unnormalized.
func ThermalDist(temp float64, energies func(n int) float64) func(m, n int) complex128 {
	return func(m, n int) complex128 {
		if m != n {
			return 0
		}
		return complex(math.Exp(-energies(m)/temp), 0)
	}
}

// CoherentDist returns the density elements of a coherent state b|z⟩ = z|z⟩,
// in magnitude/phasor form so the diagonal stays real.
func CoherentDist(z complex128) func(m, n int) complex128 {
	mag := cmplx.Abs(z)
	if mag == 0 {
		return func(m, n int) complex128 {
			if m == 0 && n == 0 {
				return 1
			}
			return 0
		}
	}
	phasor := z / complex(mag, 0)
	norm := math.Exp(mag * mag)
	return func(m, n int) complex128 {
		amp := math.Pow(mag, float64(m+n)) / (norm * sqrtFact(m) * sqrtFact(n))
		return complex(amp, 0) * cmplx.Pow(phasor, complex(float64(m-n), 0))
	}
}

// Displacement returns the matrix elements of the displacement operator
// exp(λ(b†−b)), expressed through associated Laguerre polynomials.
func Displacement(lambda float64) func(m, n int) complex128 {
	g := lambda * lambda
	var elem func(m, n int, l float64) float64
	elem = func(m, n int, l float64) float64 {
		if m > n {
			return elem(n, m, -l)
		}
		amp := math.Sqrt(math.Exp(-g) * math.Pow(g, float64(n-m)) / partialFact(n, m))
		v := amp * laguerre(m, n-m, g)
		if l < 0 && (n-m)%2 == 1 {
			v = -v
		}
		return v
	}
	return func(m, n int) complex128 {
		return complex(elem(m, n, lambda), 0)
	}
}

// Lorentzian fills dst with the closed-form zero-coupling density of states
//
//	γ / ((x − eLevel)² + (γ/2)²)
//
// where γ is the summed coupling rate of all leads. If dst is nil a new
// slice is allocated.
func Lorentzian(dst, xs []float64, eLevel, gamma float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(xs))
	}
	if len(dst) != len(xs) {
		panic("oscillator: dst and xs length mismatch")
	}
	re := make([]float64, len(xs))
	im := make([]float64, len(xs))
	for i, x := range xs {
		re[i] = x - eLevel
		im[i] = 0.5 * gamma
	}
	// (x − eLevel)² + (γ/2)² as a squared magnitude.
	vecmath.Power(dst, re, im)
	for i := range dst {
		dst[i] = gamma / dst[i]
	}
	return dst
}

// laguerre evaluates the associated Laguerre polynomial L_n^(a)(x).
func laguerre(n, a int, x float64) float64 {
	sum := 0.0
	for m := 0; m <= n; m++ {
		sum += choose(n+a, n-m) * math.Pow(-x, float64(m)) / fact(m)
	}
	return sum
}

// fact computes n! in float64.
func fact(n int) float64 {
	prod := 1.0
	for i := 2; i <= n; i++ {
		prod *= float64(i)
	}
	return prod
}

// partialFact computes n!/k! for n >= k.
func partialFact(n, k int) float64 {
	prod := 1.0
	for i := k + 1; i <= n; i++ {
		prod *= float64(i)
	}
	return prod
}

// choose computes the binomial coefficient n over k.
func choose(n, k int) float64 {
	return partialFact(n, n-k) / fact(k)
}

// sqrtFact computes √(n!) through the log-gamma function, stable far beyond
// the float64 overflow point of n! itself.
func sqrtFact(n int) float64 {
	lg, _ := math.Lgamma(float64(n) + 1)
	return math.Exp(0.5 * lg)
}
