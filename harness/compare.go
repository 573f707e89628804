package harness

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// CompareConfig selects the external implementations run after the
// in-process suite.
type CompareConfig struct {
	Languages    []string
	HarnessesDir string
	SkipBuild    bool
	Timeout      time.Duration

	// ContinueOnError logs and skips a failing language instead of
	// aborting the whole comparison.
	ContinueOnError bool
}

// RunAll runs suite and then every configured language in order, returning
// the merged results.
func RunAll(
	ctx context.Context,
	logger *slog.Logger,
	suite *Suite,
	cfg CompareConfig,
) ([]Result, error) {
	results := suite.Run(ctx)

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	for _, language := range cfg.Languages {
		langResults, err := runLanguage(ctx, logger, language, cfg, timeout)
		if err != nil {
			if !cfg.ContinueOnError {
				return nil, fmt.Errorf("run %s: %w", language, err)
			}

			logger.WarnContext(ctx, "skipping language",
				slog.String("language", language),
				slog.String("error", err.Error()),
			)

			continue
		}

		results = append(results, langResults...)
	}

	return results, nil
}

func runLanguage(
	ctx context.Context,
	logger *slog.Logger,
	language string,
	cfg CompareConfig,
	timeout time.Duration,
) ([]Result, error) {
	artifact := ResolveScript(cfg.HarnessesDir, language)

	if !cfg.SkipBuild {
		var err error

		artifact, err = Build(ctx, logger, cfg.HarnessesDir, language)
		if err != nil {
			return nil, err
		}
	}

	cmdCfg := WrapCommand(language, artifact)
	runner := NewRunner(
		language, cmdCfg.Binary, cmdCfg.ExtraArgs, cmdCfg.Env, logger,
	)

	return runner.Run(ctx, RunConfig{Timeout: timeout})
}
