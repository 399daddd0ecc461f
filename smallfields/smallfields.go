// Package smallfields is a registry of small pre-validated finite
// fields: every prime field below a fixed bound, and a curated
// catalog of extension fields up to order 27, each shipped with a
// verified irreducible ideal and multiplicative generator.
//
// Field construction is expensive (multiplication tables, Frobenius
// matrices, generator tables), so each configuration is built exactly
// once and cached; concurrent lookups of the same order are collapsed
// into a single construction.
package smallfields

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/slouchart/goimath/extfield"
	"github.com/slouchart/goimath/poly"
	"github.com/slouchart/goimath/primefield"
)

// ErrUnknownOrder is returned when no registered field has the
// requested order.
var ErrUnknownOrder = errors.New("no registered field of that order")

// PrimeBound is the exclusive upper bound on cached prime field
// characteristics.
const PrimeBound = 30

type extensionEntry struct {
	p         int
	dim       int
	ideal     func(*primefield.PrimeField) poly.Polynomial[primefield.Element]
	generator []int64
}

// The curated catalog, each entry re-validated at construction time.
var extensions = map[int]extensionEntry{
	4: {2, 2, func(f *primefield.PrimeField) poly.Polynomial[primefield.Element] {
		return f.Polynomial(1, 1, 1) // X^2+X+1
	}, []int64{0, 1}},
	8: {2, 3, func(f *primefield.PrimeField) poly.Polynomial[primefield.Element] {
		return f.Polynomial(1, 1, 0, 1) // X^3+X+1
	}, []int64{0, 1, 0}},
	9: {3, 2, func(f *primefield.PrimeField) poly.Polynomial[primefield.Element] {
		return f.Polynomial(1, 0, 1) // X^2+1
	}, []int64{1, -1}},
	16: {2, 4, func(f *primefield.PrimeField) poly.Polynomial[primefield.Element] {
		return f.Polynomial(1, 1, 0, 0, 1) // X^4+X+1
	}, []int64{0, 1, 0, 0}},
	25: {5, 2, func(f *primefield.PrimeField) poly.Polynomial[primefield.Element] {
		return f.Polynomial(2, 0, 1) // X^2+2
	}, []int64{1, 1}},
	27: {3, 3, func(f *primefield.PrimeField) poly.Polynomial[primefield.Element] {
		return f.Polynomial(-1, -1, 0, 1) // X^3-X-1
	}, []int64{-1, -1, -1}},
}

var (
	flight     singleflight.Group
	primeCache sync.Map // int -> *primefield.PrimeField
	extCache   sync.Map // int -> *extfield.ExtensionField
)

// Prime returns the cached prime field of characteristic p, which
// must be a prime below PrimeBound.
func Prime(p int) (*primefield.PrimeField, error) {
	if f, ok := primeCache.Load(p); ok {
		return f.(*primefield.PrimeField), nil
	}

	v, err, _ := flight.Do(fmt.Sprintf("prime/%d", p), func() (any, error) {
		if f, ok := primeCache.Load(p); ok {
			return f, nil
		}
		if p >= PrimeBound {
			return nil, fmt.Errorf("%w: characteristic %d is above the registry bound", ErrUnknownOrder, p)
		}
		f, err := primefield.New(p)
		if err != nil {
			return nil, err
		}
		primeCache.Store(p, f)
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*primefield.PrimeField), nil
}

// Extension returns the cached extension field of the given order
// from the curated catalog (orders 4, 8, 9, 16, 25 and 27).
func Extension(order int) (*extfield.ExtensionField, error) {
	if f, ok := extCache.Load(order); ok {
		return f.(*extfield.ExtensionField), nil
	}

	v, err, _ := flight.Do(fmt.Sprintf("ext/%d", order), func() (any, error) {
		if f, ok := extCache.Load(order); ok {
			return f, nil
		}
		entry, ok := extensions[order]
		if !ok {
			return nil, fmt.Errorf("%w: order %d", ErrUnknownOrder, order)
		}
		base, err := Prime(entry.p)
		if err != nil {
			return nil, err
		}
		f, err := extfield.New(entry.p, entry.dim, entry.ideal(base), entry.generator)
		if err != nil {
			return nil, err
		}
		extCache.Store(order, f)
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*extfield.ExtensionField), nil
}

// Has reports whether the registry can serve a field of the given
// order.
func Has(order int) bool {
	if _, ok := extensions[order]; ok {
		return true
	}
	return order < PrimeBound && isSmallPrime(order)
}

func isSmallPrime(p int) bool {
	if p < 2 {
		return false
	}
	for d := 2; d*d <= p; d++ {
		if p%d == 0 {
			return false
		}
	}
	return true
}
