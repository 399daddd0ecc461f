// Package field defines the capability contract that every coefficient
// domain must satisfy, along with generic helpers written against that
// contract. Concrete implementations live in the primefield and extfield
// packages; polynomial and factorization code is generic over Field and
// never inspects a concrete field type.
package field

import (
	"errors"
	"math/rand"
)

// ErrDivisionByZero is returned when inverting or dividing by the
// additive zero of a field, or by the null polynomial.
var ErrDivisionByZero = errors.New("division by zero")

// ErrInvalidField is returned by field constructors when the requested
// configuration does not describe a field: a non-prime characteristic,
// a reducible ideal, or a generator of the wrong order.
var ErrInvalidField = errors.New("invalid field definition")

// A Field is a coefficient domain with exact arithmetic. E is the
// element type; elements are immutable values owned by exactly one
// field instance, and a Field is safe for concurrent use once
// constructed.
type Field[E any] interface {
	// Zero returns the neutral element of the additive group.
	Zero() E

	// One returns the neutral element of the multiplicative group.
	One() E

	// Characteristic returns the additive order of One: a prime p for
	// finite fields, 0 for rings such as the integers.
	Characteristic() int

	// Order returns the number of elements of the field.
	Order() int

	// Element reduces an integer into the field.
	Element(n int64) E

	// Add returns a + b.
	Add(a, b E) E

	// Neg returns the additive inverse of a.
	Neg(a E) E

	// Mul returns a * b.
	Mul(a, b E) E

	// Inv returns the multiplicative inverse of a, or
	// ErrDivisionByZero if a is the additive zero.
	Inv(a E) (E, error)

	// Equal reports whether a and b are the same element.
	Equal(a, b E) bool

	// FrobeniusReciprocal returns the preimage of a under the
	// Frobenius automorphism x -> x^p. It is the identity on prime
	// fields.
	FrobeniusReciprocal(a E) E

	// Random returns an element drawn uniformly from the field using
	// the given source.
	Random(rng *rand.Rand) E

	// Format renders a as text: a signed integer for prime fields, a
	// sum of root powers for extension elements.
	Format(a E) string
}

// IsZero reports whether a is the additive zero of f.
func IsZero[E any](f Field[E], a E) bool {
	return f.Equal(a, f.Zero())
}

// IsOne reports whether a is the multiplicative one of f.
func IsOne[E any](f Field[E], a E) bool {
	return f.Equal(a, f.One())
}

// Sub returns a - b.
func Sub[E any](f Field[E], a, b E) E {
	return f.Add(a, f.Neg(b))
}

// Div returns a * b^{-1}, or ErrDivisionByZero if b is the additive
// zero.
func Div[E any](f Field[E], a, b E) (E, error) {
	bInv, err := f.Inv(b)
	if err != nil {
		var zero E
		return zero, err
	}
	return f.Mul(a, bInv), nil
}

// Pow returns a^n by square-and-multiply. Negative exponents route
// through Inv and then positive exponentiation, so they fail with
// ErrDivisionByZero on the additive zero.
func Pow[E any](f Field[E], a E, n int) (E, error) {
	if n < 0 {
		aInv, err := f.Inv(a)
		if err != nil {
			var zero E
			return zero, err
		}
		return Pow(f, aInv, -n)
	}

	res := f.One()
	sq := a
	for n > 0 {
		if n&1 != 0 {
			res = f.Mul(res, sq)
		}
		sq = f.Mul(sq, sq)
		n >>= 1
	}
	return res, nil
}
