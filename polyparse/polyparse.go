// Package polyparse converts textual algebraic expressions such as
// "X^3 - 2X + 1" into ordered (exponent, integer coefficient) pairs.
// The algebra core never depends on it; it sits in front of the
// polynomial ring, feeding each integer through Field.Element.
package polyparse

import (
	"errors"
	"fmt"

	"github.com/slouchart/goimath/field"
	"github.com/slouchart/goimath/poly"
)

// ErrParse is returned for malformed expressions.
var ErrParse = errors.New("malformed polynomial expression")

// A Term is one parsed monomial: Coefficient * sym^Exponent.
type Term struct {
	Exponent    int
	Coefficient int64
}

type scanner struct {
	expr string
	pos  int
	sym  byte
}

func (s *scanner) skipSpaces() {
	for s.pos < len(s.expr) && s.expr[s.pos] == ' ' {
		s.pos++
	}
}

func (s *scanner) done() bool {
	s.skipSpaces()
	return s.pos >= len(s.expr)
}

func (s *scanner) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at position %d", ErrParse, fmt.Sprintf(format, args...), s.pos)
}

func (s *scanner) integer() (int64, bool) {
	start := s.pos
	var n int64
	for s.pos < len(s.expr) && s.expr[s.pos] >= '0' && s.expr[s.pos] <= '9' {
		n = n*10 + int64(s.expr[s.pos]-'0')
		s.pos++
	}
	return n, s.pos > start
}

// term reads one monomial: an optional sign, an optional integer
// coefficient, and an optional indeterminate with an optional
// exponent. leading tells whether a sign is required.
func (s *scanner) term(leading bool) (Term, error) {
	s.skipSpaces()

	sign := int64(1)
	switch {
	case s.pos < len(s.expr) && s.expr[s.pos] == '+':
		s.pos++
	case s.pos < len(s.expr) && s.expr[s.pos] == '-':
		sign = -1
		s.pos++
	default:
		if !leading {
			return Term{}, s.errorf("expected '+' or '-'")
		}
	}
	s.skipSpaces()

	coeff, hasCoeff := s.integer()
	hasSym := s.pos < len(s.expr) && s.expr[s.pos] == s.sym
	if !hasCoeff && !hasSym {
		return Term{}, s.errorf("expected a coefficient or %q", string(s.sym))
	}
	if !hasCoeff {
		coeff = 1
	}
	if !hasSym {
		return Term{Exponent: 0, Coefficient: sign * coeff}, nil
	}
	s.pos++

	exponent := 1
	if s.pos < len(s.expr) && s.expr[s.pos] == '^' {
		s.pos++
		e, ok := s.integer()
		if !ok {
			return Term{}, s.errorf("expected an exponent after '^'")
		}
		exponent = int(e)
	}
	return Term{Exponent: exponent, Coefficient: sign * coeff}, nil
}

// Parse reads expr as a sum of monomials in the given indeterminate
// symbol and returns the terms in source order. Repeated exponents
// accumulate. It fails with ErrParse on malformed input.
func Parse(expr string, sym byte) ([]Term, error) {
	s := &scanner{expr: expr, sym: sym}
	if s.done() {
		return nil, fmt.Errorf("%w: empty expression", ErrParse)
	}

	var terms []Term
	for leading := true; !s.done(); leading = false {
		t, err := s.term(leading)
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, nil
}

// Polynomial parses expr over f, reducing each integer coefficient
// into the field.
func Polynomial[E any](expr string, f field.Field[E], sym byte) (poly.Polynomial[E], error) {
	terms, err := Parse(expr, sym)
	if err != nil {
		return poly.Polynomial[E]{}, err
	}

	p := poly.Zero(f).WithIndeterminate(sym)
	for _, t := range terms {
		p = p.Add(poly.Monomial(f, f.Element(t.Coefficient), t.Exponent))
	}
	return p, nil
}
