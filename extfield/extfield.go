// Package extfield implements finite fields of order p^d for a prime
// p and dimension d >= 2, as d-dimensional vector spaces over their
// prime subfield modulo an irreducible ideal polynomial.
//
// Construction precomputes the forward and inverse linear maps of the
// Frobenius automorphism x -> x^p and, when a generator of the
// multiplicative group is supplied, log/exp tables that shortcut
// multiplication and inversion. An ExtensionField is immutable after
// construction and safe for concurrent use.
package extfield

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/slouchart/goimath/field"
	"github.com/slouchart/goimath/numutil"
	"github.com/slouchart/goimath/poly"
	"github.com/slouchart/goimath/primefield"
)

// ErrNoGenerator is returned by FindGenerator when no element of
// maximal multiplicative order exists among the candidates.
var ErrNoGenerator = errors.New("no generator found")

// DefaultRootSymbol is the display symbol of the adjoined root.
const DefaultRootSymbol byte = 'j'

// An Element is the coordinate vector of a field element over the
// basis {1, j, ..., j^(d-1)}. Elements are immutable; no operation
// modifies a coordinate in place.
type Element []primefield.Element

// An ExtensionField is a finite field of order p^d. It implements
// field.Field[Element].
type ExtensionField struct {
	base    *primefield.PrimeField
	dim     int
	order   int
	ideal   poly.Polynomial[primefield.Element]
	rootSym byte

	frob    field.Matrix[primefield.Element]
	frobInv field.Matrix[primefield.Element]

	generator Element
	expTable  []Element
	logTable  []int
}

var _ field.Field[Element] = (*ExtensionField)(nil)

// New returns the extension field of order p^dimension defined by the
// given ideal, a monic polynomial of degree dimension irreducible
// over F_p. generator, if non-nil, must be the coordinate vector of a
// multiplicative generator; its order is verified and the log/exp
// multiplication tables are built from it. Configuration problems are
// reported as field.ErrInvalidField.
func New(p, dimension int, ideal poly.Polynomial[primefield.Element], generator []int64) (*ExtensionField, error) {
	if dimension < 2 {
		return nil, fmt.Errorf("%w: dimension %d is below 2", field.ErrInvalidField, dimension)
	}

	base, ok := ideal.Field().(*primefield.PrimeField)
	if !ok {
		return nil, fmt.Errorf("%w: ideal is not a polynomial over a prime field", field.ErrInvalidField)
	}
	if base.Characteristic() != p {
		return nil, fmt.Errorf("%w: ideal is defined over F_%d, not F_%d",
			field.ErrInvalidField, base.Characteristic(), p)
	}
	if ideal.Degree() != dimension {
		return nil, fmt.Errorf("%w: ideal degree %d differs from dimension %d",
			field.ErrInvalidField, ideal.Degree(), dimension)
	}
	if !ideal.IsMonic() {
		return nil, fmt.Errorf("%w: ideal is not monic", field.ErrInvalidField)
	}
	irreducible, err := ideal.IsIrreducible()
	if err != nil {
		return nil, err
	}
	if !irreducible {
		return nil, fmt.Errorf("%w: ideal %s is reducible over F_%d", field.ErrInvalidField, ideal, p)
	}

	order := 1
	for i := 0; i < dimension; i++ {
		order *= p
	}

	f := &ExtensionField{
		base:    base,
		dim:     dimension,
		order:   order,
		ideal:   ideal,
		rootSym: DefaultRootSymbol,
	}

	if generator != nil {
		if err := f.buildGeneratorTables(f.elementFromInts(generator)); err != nil {
			return nil, err
		}
	}
	if err := f.buildFrobeniusMaps(); err != nil {
		return nil, err
	}
	return f, nil
}

// elementFromInts reduces a coordinate vector of integers into the
// field, padding missing high coordinates with zeros.
func (f *ExtensionField) elementFromInts(v []int64) Element {
	e := make(Element, f.dim)
	for i := range e {
		if i < len(v) {
			e[i] = f.base.Element(v[i])
		}
	}
	return e
}

// buildGeneratorTables verifies that g generates the multiplicative
// group and fills the log/exp tables, the same construction-time
// tabulation used for GF(2^16) log/exp multiplication.
func (f *ExtensionField) buildGeneratorTables(g Element) error {
	groupOrder := f.order - 1
	exp := make([]Element, groupOrder)
	log := make([]int, f.order)
	for i := range log {
		log[i] = -1
	}

	x := f.One()
	for k := 0; k < groupOrder; k++ {
		if k > 0 && f.Equal(x, f.One()) {
			return fmt.Errorf("%w: generator %s has order %d, want %d",
				field.ErrInvalidField, f.Format(g), k, groupOrder)
		}
		exp[k] = x
		log[f.index(x)] = k
		x = f.mulMod(x, g)
	}
	if !f.Equal(x, f.One()) {
		return fmt.Errorf("%w: element %s does not generate the multiplicative group",
			field.ErrInvalidField, f.Format(g))
	}

	f.generator = g
	f.expTable = exp
	f.logTable = log
	return nil
}

// buildFrobeniusMaps computes the image of each basis vector j^k
// under x -> x^p by repeated squaring, assembles the images as the
// columns of the forward Frobenius matrix, and inverts the matrix
// over the prime field. The Frobenius map is a field automorphism, so
// the matrix is always invertible.
func (f *ExtensionField) buildFrobeniusMaps() error {
	p := f.base.Characteristic()
	images := make([]Element, f.dim)
	for k := 0; k < f.dim; k++ {
		basis := make(Element, f.dim)
		basis[k] = 1
		img, err := field.Pow[Element](f, basis, p)
		if err != nil {
			return err
		}
		images[k] = img
	}

	f.frob = field.NewMatrixFromFunction[primefield.Element](f.base, f.dim, f.dim, func(i, k int) primefield.Element {
		return images[k][i]
	})
	inv, err := f.frob.Inverse()
	if err != nil {
		return fmt.Errorf("%w: frobenius map is singular: %v", field.ErrInvalidField, err)
	}
	f.frobInv = inv
	return nil
}

// index maps an element to its rank in 0..order-1, reading the
// coordinates as base-p digits.
func (f *ExtensionField) index(e Element) int {
	p := f.base.Characteristic()
	idx := 0
	for i := f.dim - 1; i >= 0; i-- {
		d := int(e[i]) % p
		if d < 0 {
			d += p
		}
		idx = idx*p + d
	}
	return idx
}

// Characteristic returns the prime p.
func (f *ExtensionField) Characteristic() int {
	return f.base.Characteristic()
}

// Order returns p^d.
func (f *ExtensionField) Order() int {
	return f.order
}

// Dimension returns d, the dimension of the field as a vector space
// over its prime subfield.
func (f *ExtensionField) Dimension() int {
	return f.dim
}

// PrimeField returns the prime subfield.
func (f *ExtensionField) PrimeField() *primefield.PrimeField {
	return f.base
}

// Ideal returns the defining polynomial of the field.
func (f *ExtensionField) Ideal() poly.Polynomial[primefield.Element] {
	return f.ideal
}

// Generator returns the configured multiplicative generator, if any.
func (f *ExtensionField) Generator() (Element, bool) {
	if f.generator == nil {
		return nil, false
	}
	return f.generator, true
}

// Zero returns the additive neutral element.
func (f *ExtensionField) Zero() Element {
	return make(Element, f.dim)
}

// One returns the multiplicative neutral element.
func (f *ExtensionField) One() Element {
	e := make(Element, f.dim)
	e[0] = 1
	return e
}

// Element embeds an integer into the field as a scalar.
func (f *ExtensionField) Element(n int64) Element {
	e := make(Element, f.dim)
	e[0] = f.base.Element(n)
	return e
}

// NewElement reduces a coordinate vector of integers into the field.
func (f *ExtensionField) NewElement(v ...int64) Element {
	return f.elementFromInts(v)
}

// Add returns the component-wise sum of a and b.
func (f *ExtensionField) Add(a, b Element) Element {
	s := make(Element, f.dim)
	for i := range s {
		s[i] = f.base.Add(a[i], b[i])
	}
	return s
}

// Neg returns the component-wise additive inverse of a.
func (f *ExtensionField) Neg(a Element) Element {
	s := make(Element, f.dim)
	for i := range s {
		s[i] = f.base.Neg(a[i])
	}
	return s
}

// mulMod multiplies through the polynomial representations, reducing
// modulo the ideal.
func (f *ExtensionField) mulMod(a, b Element) Element {
	pa := f.PolynomialFromElement(a)
	pb := f.PolynomialFromElement(b)
	_, r, err := pa.Mul(pb).LongDivision(f.ideal)
	if err != nil {
		panic(err)
	}
	return f.ElementFromPolynomial(r)
}

// Mul returns a * b, through the log/exp tables when a generator is
// configured and by ideal reduction otherwise.
func (f *ExtensionField) Mul(a, b Element) Element {
	if f.expTable != nil {
		la, lb := f.logTable[f.index(a)], f.logTable[f.index(b)]
		if la < 0 || lb < 0 {
			return f.Zero()
		}
		return f.expTable[(la+lb)%(f.order-1)]
	}
	return f.mulMod(a, b)
}

// Inv returns the multiplicative inverse of a, or
// field.ErrDivisionByZero if a is the additive zero. Without a
// generator table it runs the extended Euclidean algorithm on
// polynomials against the ideal, which terminates with a constant gcd
// because the ideal is irreducible.
func (f *ExtensionField) Inv(a Element) (Element, error) {
	if field.IsZero[Element](f, a) {
		return nil, field.ErrDivisionByZero
	}

	if f.expTable != nil {
		la := f.logTable[f.index(a)]
		return f.expTable[(f.order-1-la)%(f.order-1)], nil
	}

	pa := f.PolynomialFromElement(a)
	t := poly.Zero[primefield.Element](f.base)
	newT := poly.One[primefield.Element](f.base)
	r, newR := f.ideal, pa
	for !newR.IsZero() {
		q, rem, err := r.LongDivision(newR)
		if err != nil {
			return nil, err
		}
		r, newR = newR, rem
		t, newT = newT, t.Sub(q.Mul(newT))
	}

	// r is a non-zero constant here.
	cInv, err := f.base.Inv(r.Coefficient(0))
	if err != nil {
		return nil, err
	}
	inv, err := t.MulScalar(cInv).Mod(f.ideal)
	if err != nil {
		return nil, err
	}
	return f.ElementFromPolynomial(inv), nil
}

// Equal reports whether a and b have identical coordinates.
func (f *ExtensionField) Equal(a, b Element) bool {
	for i := 0; i < f.dim; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Frobenius returns a^p through the precomputed forward linear map.
func (f *ExtensionField) Frobenius(a Element) Element {
	return Element(f.frob.Apply([]primefield.Element(a)))
}

// FrobeniusReciprocal returns the preimage of a under x -> x^p by
// applying the inverse Frobenius matrix to a's coordinate vector. No
// search is involved; each call is O(d^2) after the one-time setup.
func (f *ExtensionField) FrobeniusReciprocal(a Element) Element {
	return Element(f.frobInv.Apply([]primefield.Element(a)))
}

// Random returns an element drawn uniformly from the field.
func (f *ExtensionField) Random(rng *rand.Rand) Element {
	e := make(Element, f.dim)
	for i := range e {
		e[i] = f.base.Random(rng)
	}
	return e
}

// Format renders a as a sum a0 + a1*j + ... in increasing root
// powers, omitting zero terms and unit coefficients. Non-scalar
// values are parenthesized so they nest inside polynomial output.
func (f *ExtensionField) Format(a Element) string {
	if f.IsScalar(a) {
		return f.base.Format(a[0])
	}

	var b strings.Builder
	first := true
	for deg := 0; deg < f.dim; deg++ {
		c := a[deg]
		if c == 0 {
			continue
		}
		s := f.base.Format(c)
		negated := strings.HasPrefix(s, "-")
		if negated {
			s = s[1:]
		}

		if first {
			if negated {
				b.WriteByte('-')
			}
		} else if negated {
			b.WriteString(" - ")
		} else {
			b.WriteString(" + ")
		}
		first = false

		if deg == 0 {
			b.WriteString(s)
			continue
		}
		if s != "1" {
			b.WriteString(s)
		}
		b.WriteByte(f.rootSym)
		if deg > 1 {
			fmt.Fprintf(&b, "^%d", deg)
		}
	}
	return "(" + b.String() + ")"
}

// IsScalar reports whether a lies in the prime subfield.
func (f *ExtensionField) IsScalar(a Element) bool {
	for _, c := range a[1:] {
		if c != 0 {
			return false
		}
	}
	return true
}

// Elements returns all field elements in index order.
func (f *ExtensionField) Elements() []Element {
	p := f.base.Characteristic()
	elements := make([]Element, f.order)
	for idx := range elements {
		e := make(Element, f.dim)
		n := idx
		for i := 0; i < f.dim; i++ {
			e[i] = f.base.Element(int64(n % p))
			n /= p
		}
		elements[idx] = e
	}
	return elements
}

// PolynomialFromElement returns a's coordinate vector as a polynomial
// in the root over the prime subfield.
func (f *ExtensionField) PolynomialFromElement(e Element) poly.Polynomial[primefield.Element] {
	return poly.New[primefield.Element](f.base, []primefield.Element(e)...).WithIndeterminate(f.rootSym)
}

// ElementFromPolynomial is the inverse conversion; p must have degree
// below the field dimension.
func (f *ExtensionField) ElementFromPolynomial(p poly.Polynomial[primefield.Element]) Element {
	if p.Degree() >= f.dim {
		panic("polynomial degree exceeds field dimension")
	}
	e := make(Element, f.dim)
	for i := range e {
		e[i] = p.Coefficient(i)
	}
	return e
}

// ElementOrder returns the multiplicative order of e, the smallest
// k > 0 with e^k = 1, found among the divisors of order-1.
func (f *ExtensionField) ElementOrder(e Element) (int, error) {
	if field.IsZero[Element](f, e) {
		return 0, field.ErrDivisionByZero
	}

	divisors, err := numutil.Divisors(f.order - 1)
	if err != nil {
		return 0, err
	}
	for _, d := range divisors {
		pow, err := field.Pow[Element](f, e, d)
		if err != nil {
			return 0, err
		}
		if f.Equal(pow, f.One()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("element %s has no order dividing %d", f.Format(e), f.order-1)
}

// FindGenerator searches the field for a generator of the
// multiplicative group, using Lagrange's criterion: e generates iff
// e^((order-1)/q) != 1 for every prime q dividing order-1. The search
// is a pure function; to use the log/exp multiplication shortcut,
// construct a new field passing the found generator. It fails with
// ErrNoGenerator once every candidate is exhausted.
func (f *ExtensionField) FindGenerator() (Element, error) {
	if f.generator != nil {
		return f.generator, nil
	}

	groupOrder := f.order - 1
	primes, err := numutil.PrimeDivisors(groupOrder)
	if err != nil {
		return nil, err
	}

	for _, e := range f.Elements() {
		if field.IsZero[Element](f, e) || f.Equal(e, f.One()) {
			continue
		}
		isGenerator := true
		for _, q := range primes {
			pow, err := field.Pow[Element](f, e, groupOrder/q)
			if err != nil {
				return nil, err
			}
			if f.Equal(pow, f.One()) {
				isGenerator = false
				break
			}
		}
		if isGenerator {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: multiplicative group of %s has no generator among %d candidates",
		ErrNoGenerator, f, f.order)
}

// Polynomial returns the polynomial over f whose coefficient of X^i
// is coeffs[i].
func (f *ExtensionField) Polynomial(coeffs ...Element) poly.Polynomial[Element] {
	return poly.New[Element](f, coeffs...)
}

// LinearPolynomial returns the monic polynomial X - e.
func (f *ExtensionField) LinearPolynomial(e Element) poly.Polynomial[Element] {
	return poly.Linear[Element](f, e)
}

// RandomPolynomial returns a random monic polynomial of exactly the
// given degree.
func (f *ExtensionField) RandomPolynomial(degree int, rng *rand.Rand) poly.Polynomial[Element] {
	return poly.RandomMonic[Element](f, degree, rng)
}

// String describes the field.
func (f *ExtensionField) String() string {
	return fmt.Sprintf("finite field of order %d^%d", f.base.Characteristic(), f.dim)
}
