package field_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slouchart/goimath/field"
	"github.com/slouchart/goimath/primefield"
)

func f7(t *testing.T) *primefield.PrimeField {
	t.Helper()
	f, err := primefield.New(7)
	require.NoError(t, err)
	return f
}

func elems(f *primefield.PrimeField, ns ...int64) []primefield.Element {
	out := make([]primefield.Element, len(ns))
	for i, n := range ns {
		out[i] = f.Element(n)
	}
	return out
}

func TestNewMatrix(t *testing.T) {
	f := f7(t)

	m := field.NewZeroMatrix(f, 2, 3)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			require.True(t, field.IsZero(f, m.At(i, j)))
		}
	}

	m = field.NewMatrixFromSlice(f, 2, 3, elems(f, 0, 1, 2, 1, 2, 3))
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			require.Equal(t, f.Element(int64(i+j)), m.At(i, j))
		}
	}

	m = field.NewMatrixFromFunction(f, 2, 3, func(i, j int) primefield.Element {
		return f.Element(int64(i + j))
	})
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			require.Equal(t, f.Element(int64(i+j)), m.At(i, j))
		}
	}
}

func TestMatrixTimes(t *testing.T) {
	f := f7(t)

	m := field.NewMatrixFromSlice(f, 1, 2, elems(f, 1, 2))
	n := field.NewMatrixFromSlice(f, 2, 3, elems(f,
		1, 2, 3,
		2, 3, 4,
	))

	// Entries are reduced into the symmetric range mod 7.
	expectedProd := field.NewMatrixFromSlice(f, 1, 3, elems(f, 5, 8, 11))

	prod := m.Times(n)
	require.Equal(t, expectedProd, prod)
}

func TestMatrixTimesIdentity(t *testing.T) {
	f := f7(t)

	m := field.NewMatrixFromSlice(f, 3, 3, elems(f,
		1, 2, 3,
		-1, 0, 2,
		3, 3, 1,
	))
	id := field.NewIdentityMatrix(f, 3)

	require.Equal(t, m, m.Times(id))
	require.Equal(t, m, id.Times(m))
}

func TestMatrixApply(t *testing.T) {
	f := f7(t)

	m := field.NewMatrixFromSlice(f, 2, 3, elems(f,
		1, 2, 3,
		0, 1, -1,
	))
	v := elems(f, 1, 1, 2)

	require.Equal(t, elems(f, 9, -1), m.Apply(v))
}

func TestMatrixInverse(t *testing.T) {
	f := f7(t)

	m := field.NewMatrixFromSlice(f, 3, 3, elems(f,
		1, 2, 0,
		0, 1, 3,
		2, 0, 1,
	))

	mInv, err := m.Inverse()
	require.NoError(t, err)

	id := field.NewIdentityMatrix(f, 3)
	require.Equal(t, id, m.Times(mInv))
	require.Equal(t, id, mInv.Times(m))
}

func TestMatrixInverseSingular(t *testing.T) {
	f := f7(t)

	// The second row is twice the first.
	m := field.NewMatrixFromSlice(f, 2, 2, elems(f,
		1, 3,
		2, 6,
	))

	_, err := m.Inverse()
	require.ErrorIs(t, err, field.ErrSingularMatrix)
}
