// Package poly implements a sparse univariate polynomial ring over any
// coefficient domain satisfying the field capability contract.
//
// A Polynomial stores only its non-zero coefficients, indexed by
// exponent. Every operation returns a new Polynomial; values are never
// mutated after construction.
package poly

import (
	"errors"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/slouchart/goimath/field"
	"github.com/slouchart/goimath/numutil"
)

// ErrNotMonic is returned by MakeMonic when no normalization exists,
// which over a field only happens for the null polynomial.
var ErrNotMonic = errors.New("polynomial cannot be made monic")

// ErrNotApplicable is returned by operations that require a positive
// characteristic, or a polynomial of the special shape they expect.
var ErrNotApplicable = errors.New("operation not applicable over this coefficient domain")

// DefaultIndeterminate is the display symbol used by constructors that
// don't take one.
const DefaultIndeterminate byte = 'X'

// A Polynomial is an immutable sparse polynomial over a field F_q or,
// more generally, over any Field implementation. The zero polynomial
// stores no coefficients at all.
type Polynomial[E any] struct {
	f      field.Field[E]
	coeffs map[int]E
	sym    byte
}

// New returns the polynomial whose coefficient of X^i is coeffs[i].
// Zero coefficients are dropped.
func New[E any](f field.Field[E], coeffs ...E) Polynomial[E] {
	p := Polynomial[E]{f, make(map[int]E, len(coeffs)), DefaultIndeterminate}
	for i, c := range coeffs {
		p.setTerm(i, c)
	}
	return p
}

// Zero returns the null polynomial over f.
func Zero[E any](f field.Field[E]) Polynomial[E] {
	return Polynomial[E]{f, map[int]E{}, DefaultIndeterminate}
}

// One returns the unit polynomial over f.
func One[E any](f field.Field[E]) Polynomial[E] {
	return Monomial(f, f.One(), 0)
}

// Monomial returns the polynomial c*X^degree.
func Monomial[E any](f field.Field[E], c E, degree int) Polynomial[E] {
	if degree < 0 {
		panic("negative degree")
	}
	p := Zero(f)
	p.setTerm(degree, c)
	return p
}

// Linear returns the monic linear polynomial X - e.
func Linear[E any](f field.Field[E], e E) Polynomial[E] {
	p := Zero(f)
	p.setTerm(0, f.Neg(e))
	p.setTerm(1, f.One())
	return p
}

// RandomMonic returns a monic polynomial of exactly the given degree
// whose lower coefficients are drawn from rng.
func RandomMonic[E any](f field.Field[E], degree int, rng *rand.Rand) Polynomial[E] {
	if degree < 0 {
		panic("negative degree")
	}
	p := Zero(f)
	for i := 0; i < degree; i++ {
		p.setTerm(i, f.Random(rng))
	}
	p.setTerm(degree, f.One())
	return p
}

// setTerm must only be called on polynomials not yet shared.
func (p Polynomial[E]) setTerm(degree int, c E) {
	if field.IsZero(p.f, c) {
		delete(p.coeffs, degree)
	} else {
		p.coeffs[degree] = c
	}
}

func (p Polynomial[E]) clone() Polynomial[E] {
	q := Polynomial[E]{p.f, make(map[int]E, len(p.coeffs)), p.sym}
	for deg, c := range p.coeffs {
		q.coeffs[deg] = c
	}
	return q
}

// WithIndeterminate returns a copy of p displaying the given symbol.
// The symbol is cosmetic only and ignored by arithmetic and Equal.
func (p Polynomial[E]) WithIndeterminate(sym byte) Polynomial[E] {
	q := p.clone()
	q.sym = sym
	return q
}

// Field returns the coefficient domain of p.
func (p Polynomial[E]) Field() field.Field[E] {
	return p.f
}

// Indeterminate returns the display symbol of p.
func (p Polynomial[E]) Indeterminate() byte {
	return p.sym
}

// Degree returns the largest stored exponent, or -1 for the null
// polynomial.
func (p Polynomial[E]) Degree() int {
	deg := -1
	for d := range p.coeffs {
		if d > deg {
			deg = d
		}
	}
	return deg
}

// Valuation returns the smallest stored exponent, or -1 for the null
// polynomial.
func (p Polynomial[E]) Valuation() int {
	val := -1
	for d := range p.coeffs {
		if val == -1 || d < val {
			val = d
		}
	}
	return val
}

// IsZero reports whether p is the null polynomial.
func (p Polynomial[E]) IsZero() bool {
	return len(p.coeffs) == 0
}

// IsConstant reports whether p has degree 0.
func (p Polynomial[E]) IsConstant() bool {
	return p.Degree() == 0
}

// IsUnit reports whether p is the constant polynomial 1.
func (p Polynomial[E]) IsUnit() bool {
	return p.Degree() == 0 && field.IsOne(p.f, p.Coefficient(0))
}

// IsMonic reports whether the leading coefficient of p is 1.
func (p Polynomial[E]) IsMonic() bool {
	return !p.IsZero() && field.IsOne(p.f, p.Leading())
}

// Coefficient returns the coefficient of X^degree, which is zero for
// any exponent not stored.
func (p Polynomial[E]) Coefficient(degree int) E {
	if c, ok := p.coeffs[degree]; ok {
		return c
	}
	return p.f.Zero()
}

// Coefficients returns the dense coefficient sequence of p in
// increasing degree order, or nil for the null polynomial.
func (p Polynomial[E]) Coefficients() []E {
	deg := p.Degree()
	if deg < 0 {
		return nil
	}
	coeffs := make([]E, deg+1)
	for i := range coeffs {
		coeffs[i] = p.Coefficient(i)
	}
	return coeffs
}

// Leading returns the coefficient of the term of highest degree, or
// zero for the null polynomial.
func (p Polynomial[E]) Leading() E {
	return p.Coefficient(p.Degree())
}

// Trailing returns the coefficient of the term of lowest degree, or
// zero for the null polynomial.
func (p Polynomial[E]) Trailing() E {
	return p.Coefficient(p.Valuation())
}

// Equal reports whether p and q have identical coefficients. Display
// symbols are ignored.
func (p Polynomial[E]) Equal(q Polynomial[E]) bool {
	if len(p.coeffs) != len(q.coeffs) {
		return false
	}
	for deg, c := range p.coeffs {
		qc, ok := q.coeffs[deg]
		if !ok || !p.f.Equal(c, qc) {
			return false
		}
	}
	return true
}

// Add returns p + q, merging the sparse term sets and dropping any
// exponent whose combined coefficient vanishes.
func (p Polynomial[E]) Add(q Polynomial[E]) Polynomial[E] {
	s := p.clone()
	for deg, c := range q.coeffs {
		s.setTerm(deg, p.f.Add(s.Coefficient(deg), c))
	}
	return s
}

// Sub returns p - q.
func (p Polynomial[E]) Sub(q Polynomial[E]) Polynomial[E] {
	return p.Add(q.Neg())
}

// Neg returns the additive inverse of p.
func (p Polynomial[E]) Neg() Polynomial[E] {
	s := Polynomial[E]{p.f, make(map[int]E, len(p.coeffs)), p.sym}
	for deg, c := range p.coeffs {
		s.coeffs[deg] = p.f.Neg(c)
	}
	return s
}

// Mul returns the product of p and q by convolution over the sparse
// term sets.
func (p Polynomial[E]) Mul(q Polynomial[E]) Polynomial[E] {
	s := Polynomial[E]{p.f, make(map[int]E), p.sym}
	for degP, cP := range p.coeffs {
		for degQ, cQ := range q.coeffs {
			deg := degP + degQ
			s.setTerm(deg, p.f.Add(s.Coefficient(deg), p.f.Mul(cP, cQ)))
		}
	}
	return s
}

// MulScalar returns k * p.
func (p Polynomial[E]) MulScalar(k E) Polynomial[E] {
	s := Polynomial[E]{p.f, make(map[int]E, len(p.coeffs)), p.sym}
	for deg, c := range p.coeffs {
		s.setTerm(deg, p.f.Mul(k, c))
	}
	return s
}

// Pow returns p^n by square-and-multiply. n must not be negative.
func (p Polynomial[E]) Pow(n int) Polynomial[E] {
	if n < 0 {
		panic("negative exponent")
	}

	res := One(p.f).WithIndeterminate(p.sym)
	sq := p
	for n > 0 {
		if n&1 != 0 {
			res = res.Mul(sq)
		}
		sq = sq.Mul(sq)
		n >>= 1
	}
	return res
}

// PowMod returns p^n mod m by square-and-multiply, reducing after
// every product so the full power is never materialized.
func (p Polynomial[E]) PowMod(n int, m Polynomial[E]) (Polynomial[E], error) {
	if n < 0 {
		panic("negative exponent")
	}

	res := One(p.f).WithIndeterminate(p.sym)
	_, sq, err := p.LongDivision(m)
	if err != nil {
		return Polynomial[E]{}, err
	}
	for n > 0 {
		if n&1 != 0 {
			if _, res, err = res.Mul(sq).LongDivision(m); err != nil {
				return Polynomial[E]{}, err
			}
		}
		if _, sq, err = sq.Mul(sq).LongDivision(m); err != nil {
			return Polynomial[E]{}, err
		}
		n >>= 1
	}
	return res, nil
}

// LongDivision divides p by divisor according to decreasing degrees
// and returns (quotient, remainder) with the remainder null or of
// degree less than the divisor's. It fails with ErrDivisionByZero if
// divisor is the null polynomial.
func (p Polynomial[E]) LongDivision(divisor Polynomial[E]) (Polynomial[E], Polynomial[E], error) {
	if divisor.IsZero() {
		return Polynomial[E]{}, Polynomial[E]{}, field.ErrDivisionByZero
	}

	leadInv, err := p.f.Inv(divisor.Leading())
	if err != nil {
		return Polynomial[E]{}, Polynomial[E]{}, err
	}

	quotient := Zero(p.f).WithIndeterminate(p.sym)
	remainder := p
	for !remainder.IsZero() && remainder.Degree() >= divisor.Degree() {
		deg := remainder.Degree() - divisor.Degree()
		c := p.f.Mul(remainder.Leading(), leadInv)
		term := Monomial(p.f, c, deg)
		quotient = quotient.Add(term)
		remainder = remainder.Sub(divisor.Mul(term))
	}
	return quotient, remainder, nil
}

// LongDivisionReversed performs the division ordered by increasing
// degrees, treating both operands as truncated series and dividing
// from the lowest-degree term upward.
func (p Polynomial[E]) LongDivisionReversed(divisor Polynomial[E]) (Polynomial[E], Polynomial[E], error) {
	if divisor.IsZero() {
		return Polynomial[E]{}, Polynomial[E]{}, field.ErrDivisionByZero
	}

	trailInv, err := p.f.Inv(divisor.Trailing())
	if err != nil {
		return Polynomial[E]{}, Polynomial[E]{}, err
	}

	quotient := Zero(p.f).WithIndeterminate(p.sym)
	remainder := p
	for !remainder.IsZero() && remainder.Valuation() <= divisor.Degree() {
		deg := remainder.Valuation() - divisor.Valuation()
		if deg < 0 {
			break
		}
		c := p.f.Mul(remainder.Trailing(), trailInv)
		term := Monomial(p.f, c, deg)
		quotient = quotient.Add(term)
		remainder = remainder.Sub(divisor.Mul(term))
	}
	return quotient, remainder, nil
}

// Div returns the quotient of the long division of p by divisor.
func (p Polynomial[E]) Div(divisor Polynomial[E]) (Polynomial[E], error) {
	q, _, err := p.LongDivision(divisor)
	return q, err
}

// Mod returns the remainder of the long division of p by divisor.
func (p Polynomial[E]) Mod(divisor Polynomial[E]) (Polynomial[E], error) {
	_, r, err := p.LongDivision(divisor)
	return r, err
}

// GCD returns a greatest common divisor of p and q by the Euclidean
// algorithm. The result is not normalized; callers wanting the monic
// representative should follow with MakeMonic.
func (p Polynomial[E]) GCD(q Polynomial[E]) (Polynomial[E], error) {
	a, b := p, q
	for !b.IsZero() {
		_, r, err := a.LongDivision(b)
		if err != nil {
			return Polynomial[E]{}, err
		}
		a, b = b, r
	}
	return a, nil
}

// MakeMonic returns p divided by its leading coefficient. It fails
// with ErrNotMonic on the null polynomial, the one case with no
// normalization over a field.
func (p Polynomial[E]) MakeMonic() (Polynomial[E], error) {
	if p.IsZero() {
		return Polynomial[E]{}, ErrNotMonic
	}
	if p.IsMonic() {
		return p, nil
	}
	leadInv, err := p.f.Inv(p.Leading())
	if err != nil {
		return Polynomial[E]{}, ErrNotMonic
	}
	return p.MulScalar(leadInv), nil
}

// FormalDerivative returns the term-wise derivative of p, each term
// (c, e) mapped to (e*c, e-1) and the former constant term dropped.
func (p Polynomial[E]) FormalDerivative() Polynomial[E] {
	s := Polynomial[E]{p.f, make(map[int]E, len(p.coeffs)), p.sym}
	for deg, c := range p.coeffs {
		if deg > 0 {
			s.setTerm(deg-1, p.f.Mul(p.f.Element(int64(deg)), c))
		}
	}
	return s
}

// FrobeniusReciprocal returns the polynomial g with g^p = p, where p
// is the field characteristic. It requires a positive characteristic
// and a vanishing formal derivative (every stored exponent divisible
// by the characteristic); each exponent e is re-indexed to e/p and
// each coefficient mapped through the field's Frobenius reciprocal.
func (p Polynomial[E]) FrobeniusReciprocal() (Polynomial[E], error) {
	char := p.f.Characteristic()
	if char == 0 {
		return Polynomial[E]{}, ErrNotApplicable
	}
	if !p.FormalDerivative().IsZero() {
		return Polynomial[E]{}, ErrNotApplicable
	}

	s := Polynomial[E]{p.f, make(map[int]E, len(p.coeffs)), p.sym}
	for deg, c := range p.coeffs {
		if deg%char != 0 {
			return Polynomial[E]{}, ErrNotApplicable
		}
		s.setTerm(deg/char, p.f.FrobeniusReciprocal(c))
	}
	return s, nil
}

// IsIrreducible reports whether p is irreducible over its coefficient
// field, by Rabin's test: a degree-n polynomial f over F_q is
// irreducible iff X^(q^n) = X (mod f) and gcd(f, X^(q^(n/r)) - X mod f)
// is constant for every prime r dividing n. The iterated powers are
// obtained by repeated q-th powering of X mod f, never materializing
// X^(q^i) itself.
func (p Polynomial[E]) IsIrreducible() (bool, error) {
	if p.f.Characteristic() == 0 {
		return false, ErrNotApplicable
	}

	n := p.Degree()
	if n <= 0 {
		return false, nil
	}
	if n == 1 {
		return true, nil
	}

	q := p.f.Order()
	x := Monomial(p.f, p.f.One(), 1)

	primes, err := numutil.PrimeDivisors(n)
	if err != nil {
		return false, err
	}
	for _, r := range primes {
		g, err := p.frobeniusPower(x, q, n/r)
		if err != nil {
			return false, err
		}
		h, err := p.GCD(g.Sub(x))
		if err != nil {
			return false, err
		}
		if h.Degree() > 0 {
			return false, nil
		}
	}

	g, err := p.frobeniusPower(x, q, n)
	if err != nil {
		return false, err
	}
	diff, err := g.Sub(x).Mod(p)
	if err != nil {
		return false, err
	}
	return diff.IsZero(), nil
}

// frobeniusPower returns h^(q^i) mod p by i successive q-th powerings.
func (p Polynomial[E]) frobeniusPower(h Polynomial[E], q, i int) (Polynomial[E], error) {
	res := h
	var err error
	for k := 0; k < i; k++ {
		if res, err = res.PowMod(q, p); err != nil {
			return Polynomial[E]{}, err
		}
	}
	return res, nil
}

// Evaluate returns the value of p at x by Horner's rule.
func (p Polynomial[E]) Evaluate(x E) E {
	deg := p.Degree()
	if deg < 0 {
		return p.f.Zero()
	}

	res := p.Coefficient(deg)
	for i := deg - 1; i >= 0; i-- {
		res = p.f.Add(p.f.Mul(res, x), p.Coefficient(i))
	}
	return res
}

// String renders p as indeterminate-power terms in decreasing degree
// order, omitting zero terms and unit coefficients.
func (p Polynomial[E]) String() string {
	if p.IsZero() {
		return "0"
	}

	degrees := make([]int, 0, len(p.coeffs))
	for deg := range p.coeffs {
		degrees = append(degrees, deg)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(degrees)))

	var b strings.Builder
	for i, deg := range degrees {
		c := p.coeffs[deg]
		s := p.f.Format(c)
		negated := false
		if strings.HasPrefix(s, "-") && !strings.Contains(s, " ") {
			s = s[1:]
			negated = true
		}

		if i == 0 {
			if negated {
				b.WriteByte('-')
			}
		} else {
			if negated {
				b.WriteString(" - ")
			} else {
				b.WriteString(" + ")
			}
		}

		if deg == 0 {
			b.WriteString(s)
			continue
		}
		if s != "1" {
			b.WriteString(s)
		}
		b.WriteByte(p.sym)
		if deg > 1 {
			b.WriteByte('^')
			b.WriteString(strconv.Itoa(deg))
		}
	}
	return b.String()
}
