// Package fermimath provides the dimensionless Fermi-Dirac occupation
// function and its first three derivatives.
//
// All inputs are in units of temperature, i.e. x = energy/kT. Outside
// |x| < 40 the functions saturate to their limits so that exp and cosh
// never overflow.
package fermimath

import "math"

// saturation threshold in units of kT.
const cutoff = 40.0

// Occupation computes the Fermi-Dirac occupation n(x) = 1/(exp(x) + 1),
// evaluated in the overflow-safe form 0.5*exp(-x/2)/cosh(x/2).
func Occupation(x float64) float64 {
	if x < -cutoff {
		return 1.0
	}
	if x > cutoff {
		return 0.0
	}
	return 0.5 * math.Exp(-0.5*x) / math.Cosh(0.5*x)
}

// D1 computes the first derivative n'(x) = -1/(4 cosh²(x/2)).
func D1(x float64) float64 {
	if x <= -cutoff || x >= cutoff {
		return 0.0
	}
	c := math.Cosh(0.5 * x)
	return -0.25 / (c * c)
}

// D2 computes the second derivative n''(x) = sinh(x/2)/(4 cosh³(x/2)).
func D2(x float64) float64 {
	if x <= -cutoff || x >= cutoff {
		return 0.0
	}
	c := math.Cosh(0.5 * x)
	return 0.25 * math.Sinh(0.5*x) / (c * c * c)
}

// D3 computes the third derivative n'''(x) = (2 - cosh(x))/(8 cosh⁴(x/2)).
func D3(x float64) float64 {
	if x <= -cutoff || x >= cutoff {
		return 0.0
	}
	c := math.Cosh(0.5 * x)
	return 0.125 * (2.0 - math.Cosh(x)) / (c * c * c * c)
}
