package server

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultPort         = "3030"
	defaultHarnessesDir = "benchmarks"
	defaultStaticDir    = "frontend"
)

// Config holds the HTTP server settings read from the environment.
type Config struct {
	Port         string
	CorsOrigins  []string
	Languages    []string
	HarnessesDir string
	StaticDir    string
}

// LoadConfig reads the server configuration from the environment, after
// loading envFile if it exists.
func LoadConfig(logger *slog.Logger, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			logger.Info("skipping env file",
				slog.String("path", envFile),
				slog.String("error", err.Error()),
			)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	if err := validatePort(port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	origins := splitList(os.Getenv("CORS_ORIGINS"))
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	harnessesDir := os.Getenv("LANGBENCH_HARNESSES_DIR")
	if harnessesDir == "" {
		harnessesDir = defaultHarnessesDir
	}

	return &Config{
		Port:         port,
		CorsOrigins:  origins,
		Languages:    splitList(os.Getenv("LANGBENCH_LANGUAGES")),
		HarnessesDir: harnessesDir,
		StaticDir:    staticDir(os.Getenv("LANGBENCH_STATIC_DIR")),
	}, nil
}

// staticDir returns the configured directory, or frontend/ when unset and
// present in the working directory.
func staticDir(configured string) string {
	if configured != "" {
		return configured
	}

	if info, err := os.Stat(defaultStaticDir); err == nil && info.IsDir() {
		return defaultStaticDir
	}

	return ""
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return errors.New("port must be a number")
	}

	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}

// splitList splits a comma separated value, dropping blank entries.
func splitList(value string) []string {
	var out []string

	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}

	return out
}
