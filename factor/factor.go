// Package factor implements polynomial factorization over a finite
// field by the composition square-free -> distinct-degree ->
// equal-degree (Cantor-Zassenhaus).
//
// An engine is bound to one target polynomial and one randomness
// source. Equal-degree splitting is randomized with bounded retries;
// a caller receiving ErrFactorization may re-run the factorization
// with fresh randomness.
package factor

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/slouchart/goimath/field"
	"github.com/slouchart/goimath/logger"
	"github.com/slouchart/goimath/poly"
)

// ErrFactorization is returned when equal-degree splitting exhausts
// its retry budget without finding a nontrivial split.
var ErrFactorization = errors.New("factorization exhausted its retries")

// equalDegreeRestarts bounds how many times CantorZassenhaus re-runs
// an exhausted equal-degree split with fresh randomness before
// surfacing ErrFactorization.
const equalDegreeRestarts = 3

// A Factor is one component of a factorization: a polynomial raised
// to a multiplicity. For a distinct-degree bucket, MaxDegree records
// the common degree of the (possibly several) irreducible factors
// packed into Value; it is 0 once the factor is known irreducible.
type Factor[E any] struct {
	Value        poly.Polynomial[E]
	Multiplicity int
	MaxDegree    int
}

func (f Factor[E]) String() string {
	if f.Multiplicity > 1 {
		return fmt.Sprintf("(%s)^%d", f.Value, f.Multiplicity)
	}
	return fmt.Sprintf("(%s)", f.Value)
}

// A Factorization is a factorization engine bound to one target
// polynomial over a finite field. The target is assumed monic for the
// partial algorithms (SquareFree, DistinctDegree, EqualDegree);
// CantorZassenhaus normalizes it first and reports the leading
// constant.
type Factorization[E any] struct {
	f   field.Field[E]
	p   poly.Polynomial[E]
	rng *rand.Rand
}

// New returns a factorization engine for p using rng as the source of
// randomness for equal-degree splitting.
func New[E any](p poly.Polynomial[E], rng *rand.Rand) *Factorization[E] {
	return &Factorization[E]{p.Field(), p, rng}
}

func (fz *Factorization[E]) forPoly(p poly.Polynomial[E]) *Factorization[E] {
	return &Factorization[E]{fz.f, p, fz.rng}
}

// FactorsProduct multiplies Value^Multiplicity across all factors.
// The product of no factors is the unit polynomial.
func (fz *Factorization[E]) FactorsProduct(factors []Factor[E]) poly.Polynomial[E] {
	res := poly.One(fz.f)
	for _, fct := range factors {
		res = res.Mul(fct.Value.Pow(fct.Multiplicity))
	}
	return res
}

// SquareFree returns the square-free part of the target along with
// the factors of multiplicity above one, peeled off by repeated gcd
// with the formal derivative. When the derivative vanishes, the
// characteristic divides every exponent; the engine takes the
// Frobenius reciprocal to obtain the p-th root and recurses, scaling
// multiplicities by the characteristic.
//
// The result satisfies degree(squareFreePart) + sum of
// multiplicity*degree(Value) = degree(target).
func (fz *Factorization[E]) SquareFree() (poly.Polynomial[E], []Factor[E], error) {
	f, err := fz.p.MakeMonic()
	if err != nil {
		return poly.Polynomial[E]{}, nil, err
	}
	char := fz.f.Characteristic()

	var factors []Factor[E]
	var g poly.Polynomial[E]

	deriv := f.FormalDerivative()
	if !deriv.IsZero() {
		if g, err = f.GCD(deriv); err != nil {
			return poly.Polynomial[E]{}, nil, err
		}
		if g.Degree() == 0 {
			// f is already square-free.
			return f, nil, nil
		}
		if g, err = g.MakeMonic(); err != nil {
			return poly.Polynomial[E]{}, nil, err
		}

		w, err := f.Div(g)
		if err != nil {
			return poly.Polynomial[E]{}, nil, err
		}
		for i := 1; w.Degree() > 0; i++ {
			y, err := w.GCD(g)
			if err != nil {
				return poly.Polynomial[E]{}, nil, err
			}
			if y, err = y.MakeMonic(); err != nil {
				return poly.Polynomial[E]{}, nil, err
			}
			fct, err := w.Div(y)
			if err != nil {
				return poly.Polynomial[E]{}, nil, err
			}
			if fct.Degree() > 0 {
				if fct, err = fct.MakeMonic(); err != nil {
					return poly.Polynomial[E]{}, nil, err
				}
				factors = append(factors, Factor[E]{fct, i, 0})
			}
			w = y
			if g, err = g.Div(y); err != nil {
				return poly.Polynomial[E]{}, nil, err
			}
		}
	} else {
		g = f
	}

	if g.Degree() > 0 {
		// g collects the factors whose multiplicity the
		// characteristic divides: g is a p-th power.
		root, err := g.FrobeniusReciprocal()
		if err != nil {
			return poly.Polynomial[E]{}, nil, err
		}
		rootSqf, rootFactors, err := fz.forPoly(root).SquareFree()
		if err != nil {
			return poly.Polynomial[E]{}, nil, err
		}
		for _, sf := range rootFactors {
			factors = append(factors, Factor[E]{sf.Value, sf.Multiplicity * char, 0})
		}
		if rootSqf.Degree() > 0 {
			factors = append(factors, Factor[E]{rootSqf, char, 0})
		}
	}

	// The square-free part is what remains of f after dividing out
	// every repeated factor; factors of multiplicity 1 stay folded
	// into it.
	sqf := f
	repeated := factors[:0]
	for _, fct := range factors {
		if fct.Multiplicity == 1 {
			continue
		}
		if sqf, err = sqf.Div(fct.Value.Pow(fct.Multiplicity)); err != nil {
			return poly.Polynomial[E]{}, nil, err
		}
		repeated = append(repeated, fct)
	}
	return sqf, repeated, nil
}

// DistinctDegree groups the irreducible factors of the target, which
// must be monic and square-free, by common degree. Each returned
// factor has multiplicity 1 and MaxDegree set to the degree shared by
// the irreducibles packed into it. The iterate X^(q^i) mod f is
// maintained by repeated q-th powering, never materialized in full.
func (fz *Factorization[E]) DistinctDegree() ([]Factor[E], error) {
	f, err := fz.p.MakeMonic()
	if err != nil {
		return nil, err
	}
	q := fz.f.Order()
	x := poly.Monomial(fz.f, fz.f.One(), 1)

	var factors []Factor[E]
	remainder := f
	xPow := x
	for i := 1; remainder.Degree() >= 2*i; i++ {
		if xPow, err = xPow.PowMod(q, f); err != nil {
			return nil, err
		}
		h, err := remainder.GCD(xPow.Sub(x))
		if err != nil {
			return nil, err
		}
		if h.Degree() > 0 {
			if h, err = h.MakeMonic(); err != nil {
				return nil, err
			}
			factors = append(factors, Factor[E]{h, 1, i})
			if remainder, err = remainder.Div(h); err != nil {
				return nil, err
			}
		}
	}

	// Whatever remains is a single irreducible factor of its own
	// degree.
	if remainder.Degree() > 0 {
		factors = append(factors, Factor[E]{remainder, 1, remainder.Degree()})
	}
	return factors, nil
}

// EqualDegree splits the target, a monic square-free product of
// exactly nbFactors irreducible polynomials of degree maxDegree each,
// into those irreducibles by Cantor-Zassenhaus splitting. The
// returned factors have multiplicity 1. It fails with
// ErrFactorization if the retry budget is exhausted; the failure is
// non-deterministic and retryable with fresh randomness.
func (fz *Factorization[E]) EqualDegree(nbFactors, maxDegree int) ([]Factor[E], error) {
	f, err := fz.p.MakeMonic()
	if err != nil {
		return nil, err
	}
	if nbFactors < 2 {
		panic("equal-degree splitting needs at least two factors")
	}
	if f.Degree() != nbFactors*maxDegree {
		panic("degree mismatches the factor count")
	}

	budget := 2 * nbFactors * maxDegree
	split, err := fz.split(f, maxDegree, budget)
	if err != nil {
		return nil, err
	}

	factors := make([]Factor[E], len(split))
	for i, s := range split {
		factors[i] = Factor[E]{s, 1, 0}
	}
	return factors, nil
}

// split separates target into irreducibles of degree d, recursing on
// both halves of every nontrivial split.
func (fz *Factorization[E]) split(target poly.Polynomial[E], d, budget int) ([]poly.Polynomial[E], error) {
	if target.Degree() == d {
		return []poly.Polynomial[E]{target}, nil
	}

	log := logger.Logger()
	oddChar := fz.f.Characteristic() != 2

	for retry := 0; retry < budget; retry++ {
		g := poly.RandomMonic(fz.f, target.Degree()-1, fz.rng)

		// A shared factor of the random pick itself already splits
		// the target, whatever the characteristic.
		h, err := target.GCD(g)
		if err != nil {
			return nil, err
		}
		if h.Degree() > 0 && h.Degree() < target.Degree() {
			return fz.splitAt(target, h, d, budget)
		}

		// The q^d-1 exponent criterion assumes an odd multiplicative
		// half-group and is skipped over characteristic 2.
		if oddChar {
			t, err := fz.halfGroupPower(g, target, d)
			if err != nil {
				return nil, err
			}
			h, err = target.GCD(t.Sub(poly.One(fz.f)))
			if err != nil {
				return nil, err
			}
			if h.Degree() > 0 && h.Degree() < target.Degree() {
				return fz.splitAt(target, h, d, budget)
			}
		}
		log.Debug().Int("retry", retry+1).Str("target", target.String()).
			Msg("equal-degree split retry")
	}
	return nil, fmt.Errorf("%w: no nontrivial split of %s (degree %d factors) in %d attempts",
		ErrFactorization, target, d, budget)
}

// halfGroupPower returns g^((q^d-1)/2) mod target without ever
// materializing q^d, which overflows an int for moderate d. The
// exponent factors as (1 + q + ... + q^(d-1)) * (q-1)/2, so the
// result is (g^(1+q+...+q^(d-1)))^((q-1)/2) with every intermediate
// exponent at most q; the iterates g^(q^i) come from repeated q-th
// powering. q is odd here, the caller having excluded characteristic
// 2.
func (fz *Factorization[E]) halfGroupPower(g, target poly.Polynomial[E], d int) (poly.Polynomial[E], error) {
	q := fz.f.Order()

	prod := g
	iterate := g
	var err error
	for i := 1; i < d; i++ {
		if iterate, err = iterate.PowMod(q, target); err != nil {
			return poly.Polynomial[E]{}, err
		}
		if prod, err = prod.Mul(iterate).Mod(target); err != nil {
			return poly.Polynomial[E]{}, err
		}
	}
	return prod.PowMod((q-1)/2, target)
}

func (fz *Factorization[E]) splitAt(target, h poly.Polynomial[E], d, budget int) ([]poly.Polynomial[E], error) {
	h, err := h.MakeMonic()
	if err != nil {
		return nil, err
	}
	rest, err := target.Div(h)
	if err != nil {
		return nil, err
	}

	left, err := fz.split(h, d, budget)
	if err != nil {
		return nil, err
	}
	right, err := fz.split(rest, d, budget)
	if err != nil {
		return nil, err
	}
	return append(left, right...), nil
}

// CantorZassenhaus fully factors the target polynomial: it normalizes
// to monic, peels repeated factors with SquareFree, buckets by degree
// with DistinctDegree, splits multi-factor buckets with EqualDegree,
// and returns the leading constant along with the irreducible factors
// and their original multiplicities.
func (fz *Factorization[E]) CantorZassenhaus() (E, []Factor[E], error) {
	log := logger.Logger()
	var zero E

	if fz.p.IsZero() {
		return zero, nil, fmt.Errorf("cannot factor the null polynomial: %w", poly.ErrNotMonic)
	}

	constant := fz.f.One()
	f := fz.p
	if !f.IsMonic() {
		constant = f.Leading()
		var err error
		if f, err = f.MakeMonic(); err != nil {
			return zero, nil, err
		}
	}
	if f.Degree() < 1 {
		return constant, nil, nil
	}

	sqf, repeated, err := fz.forPoly(f).SquareFree()
	if err != nil {
		return zero, nil, err
	}

	var queue []Factor[E]
	if sqf.Degree() > 0 {
		queue = append(queue, Factor[E]{sqf, 1, 0})
	}
	queue = append(queue, repeated...)

	var irreducible []Factor[E]
	for len(queue) > 0 {
		fct := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		isIrr, err := fct.Value.IsIrreducible()
		if err != nil {
			return zero, nil, err
		}
		if isIrr {
			irreducible = append(irreducible, Factor[E]{fct.Value, fct.Multiplicity, 0})
			continue
		}

		if fct.MaxDegree == 0 {
			buckets, err := fz.forPoly(fct.Value).DistinctDegree()
			if err != nil {
				return zero, nil, err
			}
			log.Debug().Str("value", fct.Value.String()).Int("buckets", len(buckets)).
				Msg("distinct-degree pass")
			for _, b := range buckets {
				queue = append(queue, Factor[E]{b.Value, fct.Multiplicity, b.MaxDegree})
			}
			continue
		}

		d := fct.MaxDegree
		r := fct.Value.Degree() / d
		split, err := fz.equalDegreeWithRestarts(fct.Value, r, d)
		if err != nil {
			return zero, nil, err
		}
		for _, s := range split {
			queue = append(queue, Factor[E]{s.Value, fct.Multiplicity, 0})
		}
	}

	return constant, irreducible, nil
}

// equalDegreeWithRestarts re-runs an exhausted equal-degree split
// with fresh randomness from the same source before giving up.
func (fz *Factorization[E]) equalDegreeWithRestarts(target poly.Polynomial[E], r, d int) ([]Factor[E], error) {
	log := logger.Logger()
	var err error
	for attempt := 0; attempt < equalDegreeRestarts; attempt++ {
		var split []Factor[E]
		split, err = fz.forPoly(target).EqualDegree(r, d)
		if err == nil {
			return split, nil
		}
		if !errors.Is(err, ErrFactorization) {
			return nil, err
		}
		log.Debug().Int("attempt", attempt+1).Str("target", target.String()).
			Msg("equal-degree restart")
	}
	return nil, err
}
