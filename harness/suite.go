package harness

import (
	"context"
	"log/slog"
	"time"

	"github.com/weiihann/langbench/kernel"
)

// Language is the tag reported for the in-process suite.
const Language = "Go"

// Fixed workload inputs and nominal work units.
const (
	FibonacciInput = 40
	SortSize       = 100000
	SieveLimit     = 100000

	FibonacciWorkUnits = 1000
	SortWorkUnits      = 100000
	SieveWorkUnits     = 100000
)

// Test names shared with the other language implementations.
const (
	FibonacciTest = "Fibonacci(40)"
	SortTest      = "Sort 100k integers"
	SieveTest     = "Primes up to 100k"
)

// Case is one timed workload. Prepare runs before the clock starts and
// returns the function that is timed.
type Case struct {
	Name      string
	WorkUnits float64
	Prepare   func() func()
}

// Suite runs a fixed sequence of cases.
type Suite struct {
	Language string
	Cases    []Case
	Logger   *slog.Logger
}

// NewSuite returns the Fibonacci, Sort, Primes suite.
func NewSuite(logger *slog.Logger) *Suite {
	return &Suite{
		Language: Language,
		Logger:   logger.With(slog.String("language", Language)),
		Cases: []Case{
			{
				Name:      FibonacciTest,
				WorkUnits: FibonacciWorkUnits,
				Prepare: func() func() {
					return func() { _ = kernel.Fibonacci(FibonacciInput) }
				},
			},
			{
				Name:      SortTest,
				WorkUnits: SortWorkUnits,
				Prepare: func() func() {
					values := kernel.Descending(SortSize)
					return func() { kernel.Sort(values) }
				},
			},
			{
				Name:      SieveTest,
				WorkUnits: SieveWorkUnits,
				Prepare: func() func() {
					return func() { _ = kernel.Sieve(SieveLimit) }
				},
			},
		},
	}
}

// Run executes every case once, in order, and returns one Result per case.
func (s *Suite) Run(ctx context.Context) []Result {
	results := make([]Result, 0, len(s.Cases))

	for _, c := range s.Cases {
		run := c.Prepare()
		elapsed := Measure(run)

		r := NewResult(s.Language, c.Name, Milliseconds(elapsed), c.WorkUnits)

		s.Logger.DebugContext(ctx, "case finished",
			slog.String("test", c.Name),
			slog.Duration("elapsed", elapsed),
			slog.Float64("ops_per_sec", r.OperationsPerSecond),
		)

		results = append(results, r)
	}

	return results
}

// Measure returns the monotonic wall-clock time spent in fn.
func Measure(fn func()) time.Duration {
	start := time.Now()
	fn()

	return time.Since(start)
}

// Milliseconds converts d to fractional milliseconds.
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
