package primefield

import (
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/slouchart/goimath/field"
)

func TestNew(t *testing.T) {
	for _, p := range []int{2, 3, 5, 7, 11, 13, 17, 31} {
		f, err := New(p)
		require.NoError(t, err)
		require.Equal(t, p, f.Characteristic())
		require.Equal(t, p, f.Order())
	}

	for _, n := range []int{-1, 0, 1, 4, 6, 15} {
		_, err := New(n)
		require.ErrorIs(t, err, field.ErrInvalidField)
	}
}

func TestElementSymmetricRange(t *testing.T) {
	f, err := New(7)
	require.NoError(t, err)

	require.Equal(t, Element(0), f.Element(0))
	require.Equal(t, Element(3), f.Element(3))
	require.Equal(t, Element(-3), f.Element(4))
	require.Equal(t, Element(0), f.Element(7))
	require.Equal(t, Element(1), f.Element(8))
	require.Equal(t, Element(-1), f.Element(-8))
	require.Equal(t, Element(2), f.Element(-12))

	// Elements already in range are fixed points.
	for _, e := range f.Elements() {
		require.Equal(t, e, f.Element(int64(e)))
	}
}

func TestElements(t *testing.T) {
	f2, err := New(2)
	require.NoError(t, err)
	require.Equal(t, []Element{0, 1}, f2.Elements())

	f5, err := New(5)
	require.NoError(t, err)
	require.Equal(t, []Element{-2, -1, 0, 1, 2}, f5.Elements())
}

func TestMulTable(t *testing.T) {
	// 2*2 = 4 = -1 over F5.
	f5, err := New(5)
	require.NoError(t, err)
	require.Equal(t, Element(-1), f5.Mul(f5.Element(2), f5.Element(2)))

	// 3*3 = 9 = 2 over F7.
	f7, err := New(7)
	require.NoError(t, err)
	require.Equal(t, Element(2), f7.Mul(f7.Element(3), f7.Element(3)))

	// Exhaustive check against plain modular arithmetic.
	for _, p := range []int{2, 3, 5, 7, 11, 13} {
		f, err := New(p)
		require.NoError(t, err)
		for _, a := range f.Elements() {
			for _, b := range f.Elements() {
				expected := f.Element(int64(a) * int64(b))
				require.Equal(t, expected, f.Mul(a, b), "%d * %d over F_%d", a, b, p)
			}
		}
	}
}

func TestAddNeg(t *testing.T) {
	f, err := New(11)
	require.NoError(t, err)

	for _, a := range f.Elements() {
		require.Equal(t, f.Zero(), f.Add(a, f.Neg(a)))
	}

	// Adding one p times cycles back to zero.
	sum := f.Zero()
	for i := 0; i < 11; i++ {
		sum = f.Add(sum, f.One())
	}
	require.Equal(t, f.Zero(), sum)
}

func TestInv(t *testing.T) {
	for _, p := range []int{2, 3, 5, 7, 11, 13, 17} {
		f, err := New(p)
		require.NoError(t, err)
		for _, a := range f.Elements() {
			if a == 0 {
				_, err := f.Inv(a)
				require.ErrorIs(t, err, field.ErrDivisionByZero)
				continue
			}
			inv, err := f.Inv(a)
			require.NoError(t, err)
			require.Equal(t, f.One(), f.Mul(a, inv), "%d over F_%d", a, p)
		}
	}
}

func TestFrobeniusReciprocal(t *testing.T) {
	f, err := New(5)
	require.NoError(t, err)

	// x -> x^p is the identity on a prime field.
	for _, a := range f.Elements() {
		require.Equal(t, a, f.FrobeniusReciprocal(a))
		pow, err := field.Pow[Element](f, a, 5)
		require.NoError(t, err)
		require.Equal(t, a, pow)
	}
}

func TestFieldAxiomsProperty(t *testing.T) {
	f, err := New(13)
	require.NoError(t, err)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500

	properties := gopter.NewProperties(parameters)

	genElement := gen.Int64Range(-100, 100).Map(f.Element)

	properties.Property("mul(div(a, b), b) == a", prop.ForAll(
		func(a, b Element) bool {
			if b == 0 {
				return true
			}
			q, err := field.Div(f, a, b)
			if err != nil {
				return false
			}
			return f.Equal(f.Mul(q, b), a)
		},
		genElement, genElement,
	))

	properties.Property("distributivity", prop.ForAll(
		func(a, b, c Element) bool {
			lhs := f.Mul(a, f.Add(b, c))
			rhs := f.Add(f.Mul(a, b), f.Mul(a, c))
			return f.Equal(lhs, rhs)
		},
		genElement, genElement, genElement,
	))

	properties.TestingRun(t)
}

func TestRandom(t *testing.T) {
	f, err := New(7)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(1))

	seen := map[Element]bool{}
	for i := 0; i < 200; i++ {
		e := f.Random(rng)
		require.Equal(t, e, f.Element(int64(e)))
		seen[e] = true
	}
	require.Len(t, seen, 7)
}

func TestFormat(t *testing.T) {
	f, err := New(7)
	require.NoError(t, err)

	require.Equal(t, "0", f.Format(f.Zero()))
	require.Equal(t, "-3", f.Format(f.Element(4)))
	require.Equal(t, "2", f.Format(f.Element(2)))
}

func TestPolynomialConstructors(t *testing.T) {
	f, err := New(5)
	require.NoError(t, err)

	p := f.Polynomial(6, 0, 1) // X^2 + 1, constant reduced from 6
	require.Equal(t, 2, p.Degree())
	require.Equal(t, f.One(), p.Coefficient(0))

	l := f.LinearPolynomial(f.Element(2))
	require.True(t, l.Equal(f.Polynomial(-2, 1)))

	rng := rand.New(rand.NewSource(3))
	r := f.RandomPolynomial(3, rng)
	require.Equal(t, 3, r.Degree())
	require.True(t, r.IsMonic())
}

func TestGenerateIrreduciblePolynomial(t *testing.T) {
	f, err := New(5)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(7))

	for _, degree := range []int{1, 2, 3, 4} {
		p, tries, err := f.GenerateIrreduciblePolynomial(degree, 200, rng)
		require.NoError(t, err)
		require.Positive(t, tries)
		require.Equal(t, degree, p.Degree())
		require.True(t, p.IsMonic())

		irreducible, err := p.IsIrreducible()
		require.NoError(t, err)
		require.True(t, irreducible)
	}

	require.Panics(t, func() { f.GenerateIrreduciblePolynomial(0, 10, rng) })
}
