package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// DefaultTimeout bounds a single external benchmark script.
const DefaultTimeout = 5 * time.Minute

// RunConfig holds parameters for a single script execution.
type RunConfig struct {
	Timeout time.Duration
}

// Runner launches another language's benchmark script and collects the
// JSON array it prints.
type Runner struct {
	Name       string
	BinaryPath string
	ExtraArgs  []string
	Env        []string
	Logger     *slog.Logger
}

// NewRunner creates a Runner for the named language. binaryPath is the
// interpreter or launcher (python3, node, java) and extraArgs locate the
// script. Env is appended to the inherited environment.
func NewRunner(
	name, binaryPath string,
	extraArgs, env []string,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		Name:       name,
		BinaryPath: binaryPath,
		ExtraArgs:  extraArgs,
		Env:        env,
		Logger:     logger.With(slog.String("language", name)),
	}
}

// Run executes the script and returns its parsed results.
func (r *Runner) Run(ctx context.Context, cfg RunConfig) ([]Result, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.BinaryPath, r.ExtraArgs...)

	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.Logger.InfoContext(ctx, "starting benchmark script",
		slog.String("binary", r.BinaryPath),
		slog.Any("args", r.ExtraArgs),
	)

	wallStart := time.Now()

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf(
			"script %s failed: %w\nstderr: %s",
			r.Name, err, stderr.String(),
		)
	}

	r.Logger.InfoContext(ctx, "benchmark script finished",
		slog.Duration("wall_time", time.Since(wallStart)),
	)

	results, err := parseResults(r.Name, &stdout)
	if err != nil {
		return nil, fmt.Errorf(
			"parse %s output: %w\nstdout: %s",
			r.Name, err, stdout.String(),
		)
	}

	return results, nil
}

func parseResults(language string, r io.Reader) ([]Result, error) {
	var results []Result
	if err := json.NewDecoder(r).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}

	for i := range results {
		if results[i].Language == "" {
			results[i].Language = language
		}
	}

	return results, nil
}
