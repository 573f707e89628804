// Package report formats benchmark results as JSON or comparison tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/weiihann/langbench/harness"
)

// Generate writes a markdown comparison table for the given results.
func Generate(w io.Writer, results []harness.Result) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to report")
	}

	fastest := findFastest(results)

	fmt.Fprintln(w, "## Benchmark Results")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Languages: %s\n", strings.Join(languages(results), ", "))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "| Language | Test | Duration | Ops/sec | Relative |")
	fmt.Fprintln(w, "|----------|------|----------|---------|----------|")

	for _, r := range results {
		relative := 1.0
		if best := fastest[r.TestName]; best > 0 && r.DurationMs > 0 {
			relative = r.DurationMs / best
		}

		fmt.Fprintf(w, "| %s | %s | %s | %s | %.2fx |\n",
			r.Language,
			r.TestName,
			formatMs(r.DurationMs),
			formatRate(r.OperationsPerSecond),
			relative,
		)
	}

	return nil
}

// GenerateJSON writes results to w as a single JSON array.
func GenerateJSON(w io.Writer, results []harness.Result) error {
	if results == nil {
		results = []harness.Result{}
	}

	return json.NewEncoder(w).Encode(results)
}

// findFastest returns the smallest positive duration per test name.
func findFastest(results []harness.Result) map[string]float64 {
	fastest := make(map[string]float64)

	for _, r := range results {
		if r.DurationMs <= 0 {
			continue
		}

		best, ok := fastest[r.TestName]
		if !ok || r.DurationMs < best {
			fastest[r.TestName] = r.DurationMs
		}
	}

	return fastest
}

func languages(results []harness.Result) []string {
	seen := make(map[string]bool)
	var out []string

	for _, r := range results {
		if !seen[r.Language] {
			seen[r.Language] = true
			out = append(out, r.Language)
		}
	}

	return out
}

func formatMs(ms float64) string {
	if ms < 1000 {
		return fmt.Sprintf("%.2fms", ms)
	}

	return fmt.Sprintf("%.2fs", ms/1000)
}

func formatRate(ops float64) string {
	if math.IsInf(ops, 0) || math.IsNaN(ops) {
		return "-"
	}

	units := []string{"", "K", "M", "G"}
	unit := 0

	for ops >= 1000 && unit < len(units)-1 {
		ops /= 1000
		unit++
	}

	formatted := fmt.Sprintf("%.1f", ops)
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimRight(formatted, ".")

	return formatted + units[unit]
}
