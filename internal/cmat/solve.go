package cmat

import (
	"errors"
	"math/cmplx"
)

// ErrSingular is returned when elimination encounters a zero pivot. It
// indicates a genuinely singular (or numerically rank-deficient) system,
// not a transient condition.
var ErrSingular = errors.New("cmat: singular matrix")

// SolveVec solves a*x = b by Gaussian elimination with partial pivoting and
// returns x. The inputs are left unmodified; the elimination works on copies.
func SolveVec(a *Dense, b []complex128) ([]complex128, error) {
	n := a.n
	if len(b) != n {
		panic("cmat: right-hand side length does not match dimension")
	}
	m := a.Clone()
	x := make([]complex128, n)
	copy(x, b)

	for col := 0; col < n; col++ {
		// Partial pivoting on the largest remaining magnitude.
		pivot := col
		best := cmplx.Abs(m.data[col*n+col])
		for r := col + 1; r < n; r++ {
			if v := cmplx.Abs(m.data[r*n+col]); v > best {
				best = v
				pivot = r
			}
		}
		if best == 0 {
			return nil, ErrSingular
		}
		if pivot != col {
			swapRows(m, pivot, col)
			x[pivot], x[col] = x[col], x[pivot]
		}

		inv := 1 / m.data[col*n+col]
		for r := col + 1; r < n; r++ {
			factor := m.data[r*n+col] * inv
			if factor == 0 {
				continue
			}
			m.data[r*n+col] = 0
			for c := col + 1; c < n; c++ {
				m.data[r*n+c] -= factor * m.data[col*n+c]
			}
			x[r] -= factor * x[col]
		}
	}

	// Back substitution.
	for row := n - 1; row >= 0; row-- {
		sum := x[row]
		for c := row + 1; c < n; c++ {
			sum -= m.data[row*n+c] * x[c]
		}
		x[row] = sum / m.data[row*n+row]
	}
	return x, nil
}

func swapRows(m *Dense, a, b int) {
	ra := m.data[a*m.n : (a+1)*m.n]
	rb := m.data[b*m.n : (b+1)*m.n]
	for i := range ra {
		ra[i], rb[i] = rb[i], ra[i]
	}
}
