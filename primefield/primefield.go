// Package primefield implements the field F_p of integers modulo a
// prime p, represented as signed symmetric residues in
// [-(p-1)/2, (p-1)/2] (or {0, 1} when p = 2).
//
// A PrimeField owns a multiplication table precomputed at
// construction time and is immutable afterwards, so a single instance
// may be shared by any number of elements and polynomials.
package primefield

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/slouchart/goimath/field"
	"github.com/slouchart/goimath/numutil"
	"github.com/slouchart/goimath/poly"
)

// ErrGeneration is returned when the random search for an irreducible
// polynomial exhausts its retry budget. The search is
// non-deterministic; callers may retry with fresh randomness.
var ErrGeneration = errors.New("irreducible polynomial generation exhausted its retries")

// An Element is a field element in symmetric signed representation.
// The zero value is the additive zero of any prime field.
type Element int

// A PrimeField is the field of characteristic p. It implements
// field.Field[Element].
type PrimeField struct {
	p    int
	half int // (p-1)/2
	// products holds a*b for 2 <= a <= b <= half; every other
	// product is derived from sign symmetry and commutativity.
	products map[[2]int]Element
	// inverses holds a^{-1} for 1 <= a <= half, recorded as a side
	// effect of the table build.
	inverses map[int]Element
}

var _ field.Field[Element] = (*PrimeField)(nil)

// New returns the prime field of characteristic p, or
// field.ErrInvalidField if p is not prime.
func New(p int) (*PrimeField, error) {
	if !numutil.IsPrime(p) {
		return nil, fmt.Errorf("%w: characteristic %d is not prime", field.ErrInvalidField, p)
	}

	f := &PrimeField{
		p:        p,
		half:     (p - 1) / 2,
		products: make(map[[2]int]Element),
		inverses: make(map[int]Element),
	}
	f.buildTables()
	return f, nil
}

// buildTables fills the triangular product table. Squares a*a come
// from repeated addition; each cross product a*b with a < b is then
// one more addition, a*b = a*(b-1) + a. The stored entry count is
// k(k+1)/2 with k = half-1, about a quarter of a full table.
func (f *PrimeField) buildTables() {
	f.inverses[1] = 1

	for a := 2; a <= f.half; a++ {
		sq := Element(0)
		for i := 0; i < a; i++ {
			sq = f.Add(sq, Element(a))
		}
		f.products[[2]int{a, a}] = sq
		f.recordInverse(a, a, sq)

		prod := sq
		for b := a + 1; b <= f.half; b++ {
			prod = f.Add(prod, Element(a))
			f.products[[2]int{a, b}] = prod
			f.recordInverse(a, b, prod)
		}
	}
}

func (f *PrimeField) recordInverse(a, b int, prod Element) {
	switch prod {
	case 1:
		f.inverses[a] = Element(b)
		f.inverses[b] = Element(a)
	case -1:
		f.inverses[a] = Element(-b)
		f.inverses[b] = Element(-a)
	}
}

// Characteristic returns p.
func (f *PrimeField) Characteristic() int {
	return f.p
}

// Order returns p.
func (f *PrimeField) Order() int {
	return f.p
}

// Zero returns the additive neutral element.
func (f *PrimeField) Zero() Element {
	return 0
}

// One returns the multiplicative neutral element.
func (f *PrimeField) One() Element {
	return 1
}

// Element reduces n into the symmetric range.
func (f *PrimeField) Element(n int64) Element {
	p := int64(f.p)
	m := n % p
	if m < 0 {
		m += p
	}
	if f.p > 2 && m > int64(f.half) {
		m -= p
	}
	return Element(m)
}

// Add returns a + b.
func (f *PrimeField) Add(a, b Element) Element {
	return f.Element(int64(a) + int64(b))
}

// Neg returns the additive inverse of a.
func (f *PrimeField) Neg(a Element) Element {
	if f.p == 2 {
		return a
	}
	return -a
}

// Mul returns a * b, consulting the triangular product table after
// reducing by sign symmetry and commutativity.
func (f *PrimeField) Mul(a, b Element) Element {
	if a == 0 || b == 0 {
		return 0
	}
	switch {
	case a == 1:
		return b
	case b == 1:
		return a
	case a == -1:
		return -b
	case b == -1:
		return -a
	}

	negate := false
	x, y := int(a), int(b)
	if x < 0 {
		x = -x
		negate = !negate
	}
	if y < 0 {
		y = -y
		negate = !negate
	}
	if x > y {
		x, y = y, x
	}

	prod := f.products[[2]int{x, y}]
	if negate {
		return -prod
	}
	return prod
}

// Inv returns the multiplicative inverse of a, or
// field.ErrDivisionByZero if a is zero.
func (f *PrimeField) Inv(a Element) (Element, error) {
	if a == 0 {
		return 0, field.ErrDivisionByZero
	}
	if f.p == 2 {
		return a, nil
	}
	if a < 0 {
		return -f.inverses[int(-a)], nil
	}
	return f.inverses[int(a)], nil
}

// Equal reports whether a and b are the same element.
func (f *PrimeField) Equal(a, b Element) bool {
	return a == b
}

// FrobeniusReciprocal is the identity on a prime field, since x -> x^p
// fixes every element.
func (f *PrimeField) FrobeniusReciprocal(a Element) Element {
	return a
}

// Random returns an element drawn uniformly from the field.
func (f *PrimeField) Random(rng *rand.Rand) Element {
	return f.Element(int64(rng.Intn(f.p)))
}

// Format renders a as a signed integer.
func (f *PrimeField) Format(a Element) string {
	return strconv.Itoa(int(a))
}

// Elements returns all field elements in increasing order.
func (f *PrimeField) Elements() []Element {
	elements := make([]Element, 0, f.p)
	if f.p == 2 {
		return append(elements, 0, 1)
	}
	for n := -f.half; n <= f.half; n++ {
		elements = append(elements, Element(n))
	}
	return elements
}

// Polynomial returns the polynomial over f whose coefficient of X^i
// is coeffs[i], each reduced into the field.
func (f *PrimeField) Polynomial(coeffs ...int64) poly.Polynomial[Element] {
	elements := make([]Element, len(coeffs))
	for i, c := range coeffs {
		elements[i] = f.Element(c)
	}
	return poly.New[Element](f, elements...)
}

// LinearPolynomial returns the monic polynomial X - e.
func (f *PrimeField) LinearPolynomial(e Element) poly.Polynomial[Element] {
	return poly.Linear[Element](f, e)
}

// RandomPolynomial returns a random monic polynomial of exactly the
// given degree.
func (f *PrimeField) RandomPolynomial(degree int, rng *rand.Rand) poly.Polynomial[Element] {
	return poly.RandomMonic[Element](f, degree, rng)
}

// GenerateIrreduciblePolynomial samples random monic polynomials of
// the given degree until one tests irreducible, and returns it along
// with the number of attempts used. It fails with ErrGeneration once
// maxRetries attempts are exhausted.
func (f *PrimeField) GenerateIrreduciblePolynomial(degree, maxRetries int, rng *rand.Rand) (poly.Polynomial[Element], int, error) {
	if degree < 1 {
		panic("invalid degree")
	}
	if maxRetries < degree/2 {
		maxRetries = degree / 2
	}

	for attempt := 1; attempt <= maxRetries; attempt++ {
		candidate := f.RandomPolynomial(degree, rng)
		irreducible, err := candidate.IsIrreducible()
		if err != nil {
			return poly.Polynomial[Element]{}, attempt, err
		}
		if irreducible {
			return candidate, attempt, nil
		}
	}
	return poly.Polynomial[Element]{}, maxRetries,
		fmt.Errorf("%w: no irreducible polynomial of degree %d over F_%d in %d attempts",
			ErrGeneration, degree, f.p, maxRetries)
}

// String describes the field.
func (f *PrimeField) String() string {
	return fmt.Sprintf("prime field of characteristic %d", f.p)
}
