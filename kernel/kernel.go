// Package kernel implements the fixed computational workloads timed by the
// benchmark harness: naive recursive Fibonacci, a descending-array sort and
// the Sieve of Eratosthenes.
package kernel

import (
	"math"
	"slices"
)

// Fibonacci returns the n-th Fibonacci number using plain double recursion.
// It is deliberately exponential: the benchmark measures call overhead.
func Fibonacci(n uint) uint64 {
	if n < 2 {
		return uint64(n)
	}

	return Fibonacci(n-1) + Fibonacci(n-2)
}

// Descending returns the integers n, n-1, ..., 1.
func Descending(n int) []int {
	if n <= 0 {
		return []int{}
	}

	out := make([]int, n)
	for i := range out {
		out[i] = n - i
	}

	return out
}

// Sort orders values ascending in place.
func Sort(values []int) {
	slices.Sort(values)
}

// Sieve returns all primes in [0, limit] in ascending order.
func Sieve(limit int) []int {
	if limit < 2 {
		return []int{}
	}

	isPrime := make([]bool, limit+1)
	for i := 2; i <= limit; i++ {
		isPrime[i] = true
	}

	bound := isqrt(limit)
	for i := 2; i <= bound; i++ {
		if !isPrime[i] {
			continue
		}

		for j := i * i; j <= limit; j += i {
			isPrime[j] = false
		}
	}

	primes := make([]int, 0, estimatePrimeCount(limit))
	for i, prime := range isPrime {
		if prime {
			primes = append(primes, i)
		}
	}

	return primes
}

// isqrt returns floor(sqrt(n)) for n >= 0, correcting for float rounding.
func isqrt(n int) int {
	r := int(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}

	return r
}

// estimatePrimeCount is an upper-leaning guess of pi(n), used only to size
// the result slice.
func estimatePrimeCount(n int) int {
	if n < 17 {
		return 6
	}

	f := float64(n)

	return int(1.26 * f / math.Log(f))
}
