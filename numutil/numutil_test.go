package numutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsPrime(t *testing.T) {
	primes := []int{2, 3, 5, 7, 11, 13, 31, 97, 7919, 104729}
	for _, p := range primes {
		require.True(t, IsPrime(p), "%d", p)
	}

	composites := []int{-7, 0, 1, 4, 6, 9, 15, 91, 7917, 104730}
	for _, n := range composites {
		require.False(t, IsPrime(n), "%d", n)
	}
}

func TestIsPrimeCarmichael(t *testing.T) {
	// Carmichael numbers fool Fermat tests but not Miller-Rabin.
	for _, n := range []int{561, 1105, 1729, 41041, 825265} {
		require.False(t, IsPrime(n), "%d", n)
	}
}

func TestPrimes(t *testing.T) {
	primes, err := Primes(30)
	require.NoError(t, err)
	require.Equal(t, []int{2, 3, 5, 7, 11, 13, 17, 19, 23, 29}, primes)

	primes, err = Primes(2)
	require.NoError(t, err)
	require.Equal(t, []int{2}, primes)

	_, err = Primes(1)
	require.Error(t, err)
}

func TestFactor(t *testing.T) {
	factors, err := Factor(360)
	require.NoError(t, err)
	require.Equal(t, []PrimePower{{2, 3}, {3, 2}, {5, 1}}, factors)

	factors, err = Factor(97)
	require.NoError(t, err)
	require.Equal(t, []PrimePower{{97, 1}}, factors)

	_, err = Factor(0)
	require.Error(t, err)
}

func TestPrimeDivisors(t *testing.T) {
	divisors, err := PrimeDivisors(60)
	require.NoError(t, err)
	require.Equal(t, []int{2, 3, 5}, divisors)
}

func TestDivisors(t *testing.T) {
	divisors, err := Divisors(24)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3, 4, 6, 8, 12, 24}, divisors)

	divisors, err = Divisors(1)
	require.NoError(t, err)
	require.Equal(t, []int{1}, divisors)
}

func TestGCD(t *testing.T) {
	require.Equal(t, 6, GCD(12, 18))
	require.Equal(t, 1, GCD(35, 64))
	require.Equal(t, 7, GCD(0, 7))
	require.Equal(t, 7, GCD(7, 0))
}
