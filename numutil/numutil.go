// Package numutil provides the elementary number-theory services the
// algebra packages consume: primality testing, a prime sieve, integer
// factorization and divisor enumeration.
package numutil

import (
	"errors"
	"sort"

	"github.com/bits-and-blooms/bitset"
)

var smallPrimes = []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43}

// A PrimePower is one term p^k of a prime factorization.
type PrimePower struct {
	P int
	K int
}

// IsPrime reports whether n is prime. It trial-divides by the small
// primes and then runs Miller-Rabin with fixed witnesses, which is
// exact for every n below 3.2 * 10^18.
func IsPrime(n int) bool {
	m := int64(n)
	if m < 2 {
		return false
	}
	for _, p := range smallPrimes {
		if m == p {
			return true
		}
		if m%p == 0 {
			return false
		}
		if m < p*p {
			return true
		}
	}

	r, s := 0, m-1
	for s%2 == 0 {
		r++
		s /= 2
	}
	// Deterministic witness set for 64-bit inputs.
	for _, a := range []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37} {
		x := powMod(a%m, s, m)
		if x == 1 || x == m-1 {
			continue
		}
		composite := true
		for i := 0; i < r-1; i++ {
			x = mulMod(x, x, m)
			if x == m-1 {
				composite = false
				break
			}
		}
		if composite {
			return false
		}
	}
	return true
}

func mulMod(a, b, m int64) int64 {
	// Inputs stay well below 2^31 for the field sizes this module
	// handles, so the product fits an int64.
	return a * b % m
}

func powMod(a, n, m int64) int64 {
	res := int64(1)
	a %= m
	for n > 0 {
		if n&1 != 0 {
			res = mulMod(res, a, m)
		}
		a = mulMod(a, a, m)
		n >>= 1
	}
	return res
}

// Primes returns all primes up to and including max, by the sieve of
// Eratosthenes.
func Primes(max int) ([]int, error) {
	if max < 2 {
		return nil, errors.New("sieve bound must be at least 2")
	}

	composite := bitset.New(uint(max + 1))
	for p := 2; p*p <= max; p++ {
		if composite.Test(uint(p)) {
			continue
		}
		for q := p * p; q <= max; q += p {
			composite.Set(uint(q))
		}
	}

	var primes []int
	for p := 2; p <= max; p++ {
		if !composite.Test(uint(p)) {
			primes = append(primes, p)
		}
	}
	return primes, nil
}

// Factor returns the prime factorization of n > 1 in increasing prime
// order.
func Factor(n int) ([]PrimePower, error) {
	if n <= 1 {
		return nil, errors.New("cannot factor an integer below 2")
	}

	var factors []PrimePower
	k := 0
	for n%2 == 0 {
		n /= 2
		k++
	}
	if k > 0 {
		factors = append(factors, PrimePower{2, k})
	}

	for p := 3; p*p <= n; p += 2 {
		k = 0
		for n%p == 0 {
			n /= p
			k++
		}
		if k > 0 {
			factors = append(factors, PrimePower{p, k})
		}
	}

	if n > 2 {
		factors = append(factors, PrimePower{n, 1})
	}
	return factors, nil
}

// PrimeDivisors returns the distinct primes dividing n, in increasing
// order.
func PrimeDivisors(n int) ([]int, error) {
	factors, err := Factor(n)
	if err != nil {
		return nil, err
	}
	primes := make([]int, len(factors))
	for i, f := range factors {
		primes[i] = f.P
	}
	return primes, nil
}

// Divisors returns every positive divisor of n > 0 in increasing
// order.
func Divisors(n int) ([]int, error) {
	if n < 1 {
		return nil, errors.New("divisors are defined for positive integers")
	}
	if n == 1 {
		return []int{1}, nil
	}

	factors, err := Factor(n)
	if err != nil {
		return nil, err
	}

	divisors := []int{1}
	for _, f := range factors {
		base := len(divisors)
		pk := 1
		for k := 0; k < f.K; k++ {
			pk *= f.P
			for i := 0; i < base; i++ {
				divisors = append(divisors, divisors[i]*pk)
			}
		}
	}
	sort.Ints(divisors)
	return divisors, nil
}

// GCD returns the greatest common divisor of a and b, following the
// convention gcd(0, n) = n.
func GCD(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
