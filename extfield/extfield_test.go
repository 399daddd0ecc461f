package extfield

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slouchart/goimath/field"
	"github.com/slouchart/goimath/primefield"
)

// newF9 returns F9 = F3[j]/(j^2+1), with 1-j as generator when
// withGenerator is set.
func newF9(t *testing.T, withGenerator bool) *ExtensionField {
	t.Helper()
	base, err := primefield.New(3)
	require.NoError(t, err)

	var generator []int64
	if withGenerator {
		generator = []int64{1, -1}
	}
	f, err := New(3, 2, base.Polynomial(1, 0, 1), generator)
	require.NoError(t, err)
	return f
}

func newF8(t *testing.T) *ExtensionField {
	t.Helper()
	base, err := primefield.New(2)
	require.NoError(t, err)

	f, err := New(2, 3, base.Polynomial(1, 1, 0, 1), []int64{0, 1, 0})
	require.NoError(t, err)
	return f
}

func TestNewValidation(t *testing.T) {
	base3, err := primefield.New(3)
	require.NoError(t, err)
	base5, err := primefield.New(5)
	require.NoError(t, err)

	// Dimension below 2.
	_, err = New(3, 1, base3.Polynomial(1, 1), nil)
	require.ErrorIs(t, err, field.ErrInvalidField)

	// Characteristic mismatch.
	_, err = New(5, 2, base3.Polynomial(1, 0, 1), nil)
	require.ErrorIs(t, err, field.ErrInvalidField)

	// Degree mismatch.
	_, err = New(3, 3, base3.Polynomial(1, 0, 1), nil)
	require.ErrorIs(t, err, field.ErrInvalidField)

	// Not monic.
	_, err = New(3, 2, base3.Polynomial(1, 0, 2), nil)
	require.ErrorIs(t, err, field.ErrInvalidField)

	// X^2+1 = (X+2)(X+3) over F5.
	_, err = New(5, 2, base5.Polynomial(1, 0, 1), nil)
	require.ErrorIs(t, err, field.ErrInvalidField)

	// j has order 4 in F9, not 8.
	_, err = New(3, 2, base3.Polynomial(1, 0, 1), []int64{0, 1})
	require.ErrorIs(t, err, field.ErrInvalidField)
}

func TestFieldParameters(t *testing.T) {
	f := newF9(t, true)
	require.Equal(t, 3, f.Characteristic())
	require.Equal(t, 9, f.Order())
	require.Equal(t, 2, f.Dimension())
	require.Equal(t, 3, f.PrimeField().Characteristic())

	g, ok := f.Generator()
	require.True(t, ok)
	require.Equal(t, f.NewElement(1, -1), g)

	_, ok = newF9(t, false).Generator()
	require.False(t, ok)
}

func TestRootSquares(t *testing.T) {
	f := newF9(t, true)

	j := f.NewElement(0, 1)
	require.Equal(t, f.Neg(f.One()), f.Mul(j, j))
}

func TestAddNeg(t *testing.T) {
	f := newF9(t, true)

	for _, a := range f.Elements() {
		require.Equal(t, f.Zero(), f.Add(a, f.Neg(a)))
	}

	// Adding one p times cycles back to zero.
	sum := f.Zero()
	for i := 0; i < 3; i++ {
		sum = f.Add(sum, f.One())
	}
	require.Equal(t, f.Zero(), sum)
}

func TestMulAgainstIdealReduction(t *testing.T) {
	// The log/exp tables must agree with direct ideal reduction.
	tabled := newF9(t, true)
	direct := newF9(t, false)

	for _, a := range tabled.Elements() {
		for _, b := range tabled.Elements() {
			require.Equal(t, direct.Mul(a, b), tabled.Mul(a, b), "%s * %s", tabled.Format(a), tabled.Format(b))
		}
	}
}

func TestInv(t *testing.T) {
	for _, withGenerator := range []bool{true, false} {
		f := newF9(t, withGenerator)
		for _, a := range f.Elements() {
			if field.IsZero[Element](f, a) {
				_, err := f.Inv(a)
				require.ErrorIs(t, err, field.ErrDivisionByZero)
				continue
			}
			inv, err := f.Inv(a)
			require.NoError(t, err)
			require.Equal(t, f.One(), f.Mul(a, inv), "generator=%t a=%s", withGenerator, f.Format(a))
		}
	}
}

func TestFrobenius(t *testing.T) {
	f := newF9(t, true)

	for _, a := range f.Elements() {
		cube, err := field.Pow[Element](f, a, 3)
		require.NoError(t, err)
		require.Equal(t, cube, f.Frobenius(a))
		require.Equal(t, a, f.FrobeniusReciprocal(f.Frobenius(a)))
		require.Equal(t, a, f.Frobenius(f.FrobeniusReciprocal(a)))
	}
}

func TestFrobeniusCharacteristicTwo(t *testing.T) {
	f := newF8(t)

	for _, a := range f.Elements() {
		sq := f.Mul(a, a)
		require.Equal(t, sq, f.Frobenius(a))
		require.Equal(t, a, f.FrobeniusReciprocal(sq))
	}
}

func TestElements(t *testing.T) {
	f := newF9(t, true)

	elements := f.Elements()
	require.Len(t, elements, 9)

	seen := map[int]bool{}
	for _, e := range elements {
		seen[f.index(e)] = true
	}
	require.Len(t, seen, 9)
}

func TestElementOrder(t *testing.T) {
	f := newF9(t, true)

	order, err := f.ElementOrder(f.One())
	require.NoError(t, err)
	require.Equal(t, 1, order)

	order, err = f.ElementOrder(f.Neg(f.One()))
	require.NoError(t, err)
	require.Equal(t, 2, order)

	order, err = f.ElementOrder(f.NewElement(0, 1))
	require.NoError(t, err)
	require.Equal(t, 4, order)

	order, err = f.ElementOrder(f.NewElement(1, -1))
	require.NoError(t, err)
	require.Equal(t, 8, order)

	_, err = f.ElementOrder(f.Zero())
	require.ErrorIs(t, err, field.ErrDivisionByZero)
}

func TestFindGenerator(t *testing.T) {
	f := newF9(t, false)

	g, err := f.FindGenerator()
	require.NoError(t, err)

	order, err := f.ElementOrder(g)
	require.NoError(t, err)
	require.Equal(t, 8, order)

	// A configured generator is returned as-is.
	tabled := newF9(t, true)
	g, err = tabled.FindGenerator()
	require.NoError(t, err)
	require.Equal(t, tabled.NewElement(1, -1), g)
}

func TestPolynomialConversions(t *testing.T) {
	f := newF9(t, true)

	for _, e := range f.Elements() {
		p := f.PolynomialFromElement(e)
		require.Less(t, p.Degree(), f.Dimension())
		require.Equal(t, e, f.ElementFromPolynomial(p))
	}

	require.Panics(t, func() {
		f.ElementFromPolynomial(f.PrimeField().Polynomial(0, 0, 1))
	})
}

func TestFormat(t *testing.T) {
	f := newF9(t, true)

	require.Equal(t, "0", f.Format(f.Zero()))
	require.Equal(t, "-1", f.Format(f.Element(2)))
	require.Equal(t, "(j)", f.Format(f.NewElement(0, 1)))
	require.Equal(t, "(1 - j)", f.Format(f.NewElement(1, -1)))
	require.Equal(t, "(-1 + j)", f.Format(f.NewElement(-1, 1)))
}

func TestIsScalar(t *testing.T) {
	f := newF9(t, true)

	require.True(t, f.IsScalar(f.Zero()))
	require.True(t, f.IsScalar(f.Element(2)))
	require.False(t, f.IsScalar(f.NewElement(0, 1)))
}

func TestPolynomialsOverExtension(t *testing.T) {
	f := newF9(t, true)
	rng := rand.New(rand.NewSource(5))

	j := f.NewElement(0, 1)

	// (X - j)(X + j) = X^2 + 1.
	p := f.LinearPolynomial(j).Mul(f.LinearPolynomial(f.Neg(j)))
	expected := f.Polynomial(f.One(), f.Zero(), f.One())
	require.True(t, p.Equal(expected))

	// X^2+1 splits over F9, so it is reducible there.
	irreducible, err := expected.IsIrreducible()
	require.NoError(t, err)
	require.False(t, irreducible)

	r := f.RandomPolynomial(3, rng)
	require.Equal(t, 3, r.Degree())
	require.True(t, r.IsMonic())
}
