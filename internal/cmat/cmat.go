// Package cmat implements small dense square complex matrices together with
// the handful of operations the vibronic solvers need: products, conjugate
// transposes, traces, row-major vectorization and a pivoted linear solve.
//
// Matrices are stored as flat row-major complex128 slices. All constructors
// copy their inputs; methods that return a *Dense return freshly allocated
// storage unless documented otherwise.
package cmat

import "math/cmplx"

// Dense is an n×n complex matrix in row-major order.
type Dense struct {
	n    int
	data []complex128
}

// New returns a zero-valued n×n matrix.
func New(n int) *Dense {
	if n <= 0 {
		panic("cmat: non-positive dimension")
	}
	return &Dense{n: n, data: make([]complex128, n*n)}
}

// FromFunc materializes an n×n matrix from an element function. The function
// is evaluated eagerly for every index pair.
func FromFunc(n int, f func(i, j int) complex128) *Dense {
	m := New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.data[i*n+j] = f(i, j)
		}
	}
	return m
}

// FromSlice wraps a copy of a row-major slice of length n*n.
func FromSlice(n int, data []complex128) *Dense {
	if len(data) != n*n {
		panic("cmat: slice length does not match dimension")
	}
	m := New(n)
	copy(m.data, data)
	return m
}

// Identity returns the n×n identity matrix.
func Identity(n int) *Dense {
	m := New(n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m
}

// N returns the matrix dimension.
func (m *Dense) N() int { return m.n }

// At returns the element at row i, column j.
func (m *Dense) At(i, j int) complex128 { return m.data[i*m.n+j] }

// Set assigns the element at row i, column j.
func (m *Dense) Set(i, j int, v complex128) { m.data[i*m.n+j] = v }

// Data returns the backing row-major slice. Mutating it mutates the matrix.
func (m *Dense) Data() []complex128 { return m.data }

// Clone returns a deep copy.
func (m *Dense) Clone() *Dense {
	return FromSlice(m.n, m.data)
}

// ConjTranspose returns the conjugate transpose as a new matrix.
func (m *Dense) ConjTranspose() *Dense {
	n := m.n
	out := New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.data[j*n+i] = cmplx.Conj(m.data[i*n+j])
		}
	}
	return out
}

// Mul returns the matrix product a*b.
func Mul(a, b *Dense) *Dense {
	if a.n != b.n {
		panic("cmat: dimension mismatch")
	}
	n := a.n
	out := New(n)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			aik := a.data[i*n+k]
			if aik == 0 {
				continue
			}
			row := b.data[k*n:]
			dst := out.data[i*n:]
			for j := 0; j < n; j++ {
				dst[j] += aik * row[j]
			}
		}
	}
	return out
}

// Scale multiplies every element by s in place.
func (m *Dense) Scale(s complex128) {
	for i := range m.data {
		m.data[i] *= s
	}
}

// AddScaled accumulates m += s*a in place.
func (m *Dense) AddScaled(a *Dense, s complex128) {
	if a.n != m.n {
		panic("cmat: dimension mismatch")
	}
	for i := range m.data {
		m.data[i] += s * a.data[i]
	}
}

// Trace returns the sum of diagonal elements.
func (m *Dense) Trace() complex128 {
	var tr complex128
	for i := 0; i < m.n; i++ {
		tr += m.data[i*m.n+i]
	}
	return tr
}

// Vec returns a copy of the matrix flattened row-major.
func (m *Dense) Vec() []complex128 {
	out := make([]complex128, len(m.data))
	copy(out, m.data)
	return out
}

// Unvec reshapes a row-major vector of length n*n back into an n×n matrix.
func Unvec(v []complex128, n int) *Dense {
	return FromSlice(n, v)
}
