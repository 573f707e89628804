package harness

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseResults(t *testing.T) {
	input := `[
		{
			"language": "Python",
			"test_name": "Fibonacci(40)",
			"duration_ms": 25000.5,
			"operations_per_second": 0.04
		},
		{
			"language": "Python",
			"test_name": "Sort 100k integers",
			"duration_ms": 4,
			"operations_per_second": 25000
		}
	]`

	results, err := parseResults("python", bytes.NewReader([]byte(input)))
	if err != nil {
		t.Fatalf("parseResults failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Language != "Python" {
		t.Errorf("language = %q, want Python", results[0].Language)
	}
	if results[0].TestName != "Fibonacci(40)" {
		t.Errorf("test_name = %q, want Fibonacci(40)", results[0].TestName)
	}
	if results[0].DurationMs != 25000.5 {
		t.Errorf("duration_ms = %v, want 25000.5", results[0].DurationMs)
	}
	if results[1].OperationsPerSecond != 25000 {
		t.Errorf("operations_per_second = %v, want 25000",
			results[1].OperationsPerSecond)
	}
}

func TestParseResultsFillsLanguage(t *testing.T) {
	input := `[{"test_name": "Primes up to 100k", "duration_ms": 2}]`

	results, err := parseResults("java", strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseResults failed: %v", err)
	}

	if results[0].Language != "java" {
		t.Errorf("language = %q, want java", results[0].Language)
	}
}

func TestParseResultsInvalidJSON(t *testing.T) {
	_, err := parseResults("test", strings.NewReader("not json at all"))
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestParseResultsRejectsObject(t *testing.T) {
	_, err := parseResults("test", strings.NewReader(`{"language":"x"}`))
	if err == nil {
		t.Error("expected error for a non-array document")
	}
}

func TestRunnerRun(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	script := `echo '[{"test_name":"Fibonacci(40)","duration_ms":10,"operations_per_second":100}]'`
	runner := NewRunner("shell", "sh", []string{"-c", script}, nil, discardLogger())

	results, err := runner.Run(context.Background(), RunConfig{Timeout: time.Minute})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(results) != 1 || results[0].Language != "shell" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestRunnerRunFailureIncludesStderr(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	runner := NewRunner(
		"shell", "sh", []string{"-c", "echo boom >&2; exit 3"}, nil,
		discardLogger(),
	)

	_, err := runner.Run(context.Background(), RunConfig{})
	if err == nil {
		t.Fatal("expected error from failing script")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q does not include stderr", err)
	}
}

func TestResolveScript(t *testing.T) {
	tests := []struct {
		language string
		want     string
	}{
		{"python", filepath.Join("bench", "python", "benchmark.py")},
		{"javascript", filepath.Join("bench", "javascript", "benchmark.js")},
		{"java", filepath.Join("bench", "java", "Benchmark.class")},
		{"ruby", filepath.Join("bench", "ruby", "benchmark")},
	}

	for _, tt := range tests {
		if got := ResolveScript("bench", tt.language); got != tt.want {
			t.Errorf("ResolveScript(%q) = %q, want %q", tt.language, got, tt.want)
		}
	}
}

func TestWrapCommand(t *testing.T) {
	java := WrapCommand("java", filepath.Join("bench", "java", "Benchmark.class"))
	if java.Binary != "java" {
		t.Errorf("java binary = %q, want java", java.Binary)
	}

	wantArgs := []string{"-cp", filepath.Join("bench", "java"), "Benchmark"}
	if strings.Join(java.ExtraArgs, " ") != strings.Join(wantArgs, " ") {
		t.Errorf("java args = %v, want %v", java.ExtraArgs, wantArgs)
	}

	py := WrapCommand("python", "b.py")
	if py.Binary != "python3" || len(py.ExtraArgs) != 1 || py.ExtraArgs[0] != "b.py" {
		t.Errorf("unexpected python command: %+v", py)
	}
}

func TestBuildUnknownLanguage(t *testing.T) {
	_, err := Build(context.Background(), discardLogger(), t.TempDir(), "cobol")
	if err == nil {
		t.Error("expected error for unknown language")
	}
}

func TestBuildInterpretedScript(t *testing.T) {
	dir := t.TempDir()

	if _, err := Build(context.Background(), discardLogger(), dir, "python"); err == nil {
		t.Error("expected error for missing script")
	}

	script := filepath.Join(dir, "python", "benchmark.py")
	if err := os.MkdirAll(filepath.Dir(script), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(script, []byte("print('[]')\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Build(context.Background(), discardLogger(), dir, "python")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got != script {
		t.Errorf("artifact = %q, want %q", got, script)
	}
}

func TestNewResultClampsZeroDuration(t *testing.T) {
	r := NewResult(Language, SortTest, 0, SortWorkUnits)

	if r.DurationMs != MinDurationMs {
		t.Errorf("duration_ms = %v, want %v", r.DurationMs, MinDurationMs)
	}
	if math.IsInf(r.OperationsPerSecond, 0) || math.IsNaN(r.OperationsPerSecond) {
		t.Errorf("operations_per_second is not finite: %v", r.OperationsPerSecond)
	}
}

func TestShippedScripts(t *testing.T) {
	dir := filepath.Join("..", "benchmarks")

	for _, language := range KnownLanguages() {
		path := ResolveScript(dir, language)
		if language == "java" {
			path = filepath.Join(dir, "java", "Benchmark.java")
		}

		src, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("%s: %v", language, err)
			continue
		}

		for _, name := range []string{FibonacciTest, SortTest, SieveTest} {
			if !strings.Contains(string(src), name) {
				t.Errorf("%s script does not report %q", language, name)
			}
		}
	}
}

func TestRunShippedPythonScript(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the full workload in Python")
	}
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not available")
	}

	artifact := ResolveScript(filepath.Join("..", "benchmarks"), "python")
	cmdCfg := WrapCommand("python", artifact)
	runner := NewRunner("python", cmdCfg.Binary, cmdCfg.ExtraArgs, nil, discardLogger())

	results, err := runner.Run(context.Background(), RunConfig{Timeout: DefaultTimeout})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, name := range []string{FibonacciTest, SortTest, SieveTest} {
		if results[i].Language != "Python" || results[i].TestName != name {
			t.Errorf("results[%d] = %+v, want Python %q", i, results[i], name)
		}
	}
}
