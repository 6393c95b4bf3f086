package cmat

import (
	"errors"
	"math/cmplx"
	"testing"
)

func TestFromFuncAndAccessors(t *testing.T) {
	m := FromFunc(3, func(i, j int) complex128 {
		return complex(float64(i), float64(j))
	})
	if m.N() != 3 {
		t.Fatalf("N = %d, want 3", m.N())
	}
	if got := m.At(2, 1); got != complex(2, 1) {
		t.Fatalf("At(2,1) = %v, want (2+1i)", got)
	}

	m.Set(0, 0, 5)
	if m.At(0, 0) != 5 {
		t.Fatalf("Set did not stick")
	}
}

func TestConjTranspose(t *testing.T) {
	m := FromFunc(2, func(i, j int) complex128 {
		return complex(float64(i+1), float64(j-1))
	})
	h := m.ConjTranspose()
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if h.At(i, j) != cmplx.Conj(m.At(j, i)) {
				t.Fatalf("ConjTranspose mismatch at (%d,%d)", i, j)
			}
		}
	}
}

func TestMulAgainstIdentity(t *testing.T) {
	m := FromFunc(4, func(i, j int) complex128 {
		return complex(float64(i*4+j), float64(j-i))
	})
	id := Identity(4)

	for _, got := range []*Dense{Mul(m, id), Mul(id, m)} {
		for i := range got.Data() {
			if got.Data()[i] != m.Data()[i] {
				t.Fatalf("identity product altered matrix")
			}
		}
	}
}

func TestMulKnownProduct(t *testing.T) {
	a := FromSlice(2, []complex128{1, 2i, 3, -1})
	b := FromSlice(2, []complex128{0, 1, 1, 0})
	got := Mul(a, b)
	want := []complex128{2i, 1, -1, 3}
	for i, w := range want {
		if got.Data()[i] != w {
			t.Fatalf("Mul[%d] = %v, want %v", i, got.Data()[i], w)
		}
	}
}

func TestTraceAndVecRoundTrip(t *testing.T) {
	m := FromFunc(3, func(i, j int) complex128 {
		return complex(float64(i), float64(j))
	})
	if tr := m.Trace(); tr != complex(3, 3) {
		t.Fatalf("Trace = %v, want (3+3i)", tr)
	}

	back := Unvec(m.Vec(), 3)
	for i := range m.Data() {
		if back.Data()[i] != m.Data()[i] {
			t.Fatalf("Vec/Unvec round trip mismatch at %d", i)
		}
	}
}

func TestSolveVecKnownSystem(t *testing.T) {
	// A requiring pivoting: first pivot is zero.
	a := FromSlice(3, []complex128{
		0, 2, 1,
		1i, 0, 3,
		2, 1, 0,
	})
	want := []complex128{1 + 1i, -2, 0.5i}

	// b = A*want
	b := make([]complex128, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			b[i] += a.At(i, j) * want[j]
		}
	}

	got, err := SolveVec(a, b)
	if err != nil {
		t.Fatalf("SolveVec: %v", err)
	}
	for i := range want {
		if cmplx.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("x[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	// Inputs must be untouched.
	if a.At(0, 0) != 0 || a.At(1, 0) != 1i {
		t.Fatalf("SolveVec modified its input matrix")
	}
	if b[0] == got[0] && b[1] == got[1] && b[2] == got[2] {
		t.Fatalf("suspicious: solution identical to right-hand side")
	}
}

func TestSolveVecSingular(t *testing.T) {
	a := FromSlice(2, []complex128{
		1, 2,
		2, 4,
	})
	_, err := SolveVec(a, []complex128{1, 1})
	if !errors.Is(err, ErrSingular) {
		t.Fatalf("err = %v, want ErrSingular", err)
	}
}

func TestAddScaled(t *testing.T) {
	m := Identity(2)
	m.AddScaled(Identity(2), 2i)
	if m.At(0, 0) != 1+2i || m.At(1, 1) != 1+2i || m.At(0, 1) != 0 {
		t.Fatalf("AddScaled wrong result: %v", m.Data())
	}
}
