// Package main provides the CLI entry point for langbench, a micro-benchmark
// that times recursive Fibonacci, an integer sort and a prime sieve.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/weiihann/langbench/harness"
	"github.com/weiihann/langbench/metrics"
	"github.com/weiihann/langbench/report"
	"github.com/weiihann/langbench/server"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	root := newRootCmd(logger, level)
	if err := root.Execute(); err != nil {
		logger.Error("langbench failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	var (
		logLevel string
		format   string
	)

	root := &cobra.Command{
		Use:   "langbench",
		Short: "Micro-benchmark of recursion, sorting and a prime sieve",
		Long: `Langbench times three fixed workloads (Fibonacci(40) by naive recursion,
sorting 100k integers, and a Sieve of Eratosthenes up to 100k) and prints the
results as a JSON array on stdout.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			results := harness.NewSuite(logger).Run(cmd.Context())

			return writeReport(cmd.OutOrStdout(), format, results)
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level: debug, info, warn, error")
	root.Flags().StringVar(&format, "format", formatJSON,
		"Output format: json or table")

	root.AddCommand(newCompareCmd(logger))
	root.AddCommand(newServeCmd(logger))

	return root
}

func newCompareCmd(logger *slog.Logger) *cobra.Command {
	var (
		languages    []string
		harnessesDir string
		skipBuild    bool
		format       string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run the Go suite and the benchmark scripts of other languages",
		Long: `Run the in-process Go suite, then each selected language's benchmark
script from the harnesses directory, and print the merged results.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(languages) == 0 {
				languages = harness.KnownLanguages()
			}

			logger.InfoContext(cmd.Context(), "starting comparison",
				slog.Any("languages", languages),
				slog.String("harnesses_dir", harnessesDir),
			)

			results, err := harness.RunAll(cmd.Context(), logger, harness.NewSuite(logger),
				harness.CompareConfig{
					Languages:    languages,
					HarnessesDir: harnessesDir,
					SkipBuild:    skipBuild,
					Timeout:      harness.DefaultTimeout,
				})
			if err != nil {
				return fmt.Errorf("compare: %w", err)
			}

			return writeReport(cmd.OutOrStdout(), format, results)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&languages, "languages", nil,
		"Languages to compare (default: python,javascript,java)")
	flags.StringVar(&harnessesDir, "harnesses-dir", "benchmarks",
		"Directory holding <language>/ benchmark scripts")
	flags.BoolVar(&skipBuild, "skip-build", false,
		"Skip compiling benchmark programs")
	flags.StringVar(&format, "format", formatJSON,
		"Output format: json or table")

	return cmd
}

func newServeCmd(logger *slog.Logger) *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve benchmark runs over HTTP",
		Long: `Start an HTTP server exposing GET /api/benchmark, /metrics and /healthz.
Settings are read from the environment (PORT, CORS_ORIGINS, LANGBENCH_LANGUAGES,
LANGBENCH_HARNESSES_DIR, LANGBENCH_STATIC_DIR).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := server.LoadConfig(logger, envFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			run := func(ctx context.Context) ([]harness.Result, error) {
				return harness.RunAll(ctx, logger, harness.NewSuite(logger),
					harness.CompareConfig{
						Languages:       cfg.Languages,
						HarnessesDir:    cfg.HarnessesDir,
						Timeout:         harness.DefaultTimeout,
						ContinueOnError: true,
					})
			}

			srv := server.NewServer(echo.New(), cfg, logger, metrics.NewMetrics(), run)

			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env",
		"Optional .env file loaded before reading the environment")

	return cmd
}

func writeReport(w io.Writer, format string, results []harness.Result) error {
	switch format {
	case formatJSON:
		if err := report.GenerateJSON(w, results); err != nil {
			return fmt.Errorf("generate JSON report: %w", err)
		}
	case formatTable:
		if err := report.Generate(w, results); err != nil {
			return fmt.Errorf("generate report: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	return nil
}
