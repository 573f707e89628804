// Package harness times benchmark kernels in-process and runs the
// equivalent benchmark scripts of other language implementations.
package harness

// MinDurationMs is the smallest duration a Result reports. A measurement
// that rounds to zero is clamped to it so throughput stays finite.
const MinDurationMs = 1e-6

// Result holds the measurement of a single benchmark test. Field order is
// the JSON key order consumed downstream.
type Result struct {
	Language            string  `json:"language"`
	TestName            string  `json:"test_name"`
	DurationMs          float64 `json:"duration_ms"`
	OperationsPerSecond float64 `json:"operations_per_second"`
}

// NewResult builds a Result whose throughput is workUnits / durationMs.
func NewResult(language, testName string, durationMs, workUnits float64) Result {
	if durationMs < MinDurationMs {
		durationMs = MinDurationMs
	}

	return Result{
		Language:            language,
		TestName:            testName,
		DurationMs:          durationMs,
		OperationsPerSecond: workUnits / durationMs,
	}
}
