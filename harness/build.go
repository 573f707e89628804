package harness

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// KnownLanguages returns the external implementations that can be compared
// against the in-process suite.
func KnownLanguages() []string {
	return []string{"python", "javascript", "java"}
}

// ResolveScript returns the artifact that is executed for a language given
// the harnesses root directory. For java this is the compiled class file.
func ResolveScript(harnessesDir, language string) string {
	switch language {
	case "python":
		return filepath.Join(harnessesDir, "python", "benchmark.py")
	case "javascript":
		return filepath.Join(harnessesDir, "javascript", "benchmark.js")
	case "java":
		return filepath.Join(harnessesDir, "java", "Benchmark.class")
	default:
		return filepath.Join(harnessesDir, language, "benchmark")
	}
}

// Build prepares the benchmark for the given language and returns the path
// of the artifact to run. Interpreted languages only need their script to
// exist; java is compiled with javac.
func Build(
	ctx context.Context,
	logger *slog.Logger,
	harnessesDir string,
	language string,
) (string, error) {
	srcDir := filepath.Join(harnessesDir, language)
	artifact := ResolveScript(harnessesDir, language)

	switch language {
	case "python", "javascript":
		if _, err := os.Stat(artifact); err != nil {
			return "", fmt.Errorf("build %s: script not found at %s", language, artifact)
		}

		return artifact, nil

	case "java":
		logger.InfoContext(ctx, "compiling benchmark",
			slog.String("language", language),
			slog.String("source_dir", srcDir),
		)

		cmd := exec.CommandContext(ctx, "javac", "Benchmark.java")
		cmd.Dir = srcDir
		cmd.Stdout = os.Stderr
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			return "", fmt.Errorf("build %s: %w", language, err)
		}

	default:
		return "", fmt.Errorf("unknown language %q", language)
	}

	if _, err := os.Stat(artifact); err != nil {
		return "", fmt.Errorf(
			"build %s: artifact not found at %s", language, artifact,
		)
	}

	logger.InfoContext(ctx, "benchmark built",
		slog.String("language", language),
		slog.String("artifact", artifact),
	)

	return artifact, nil
}

// CommandConfig holds the resolved command, extra arguments, and
// environment variables needed to run a benchmark script.
type CommandConfig struct {
	Binary    string
	ExtraArgs []string
	Env       []string
}

// WrapCommand returns the exec configuration needed to run a language's
// benchmark artifact.
func WrapCommand(language, artifact string) CommandConfig {
	switch language {
	case "python":
		return CommandConfig{Binary: "python3", ExtraArgs: []string{artifact}}
	case "javascript":
		return CommandConfig{Binary: "node", ExtraArgs: []string{artifact}}
	case "java":
		return CommandConfig{
			Binary: "java",
			ExtraArgs: []string{
				"-cp", filepath.Dir(artifact),
				strings.TrimSuffix(filepath.Base(artifact), ".class"),
			},
		}
	default:
		return CommandConfig{Binary: artifact}
	}
}
