package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"stratcheck/domain/core"
)

// Config represents the complete application configuration
type Config struct {
	Storage  StorageConfig
	Database DatabaseConfig
	Analysis AnalysisConfig
	LogLevel string
}

// StorageConfig holds the file registry settings
type StorageConfig struct {
	Dir string
}

// DatabaseConfig holds optional PostgreSQL registry settings
type DatabaseConfig struct {
	URL string
}

// AnalysisConfig holds statistical defaults. All of these are explicit
// parameters on the analysis functions; these values only seed the CLI.
type AnalysisConfig struct {
	Alpha               float64
	Permutations        int
	BootstrapIterations int
	Seed                int64
}

// Load reads configuration from environment variables (and a .env file when
// present) and validates it.
func Load() (*Config, error) {
	// .env is a development convenience; absence is not an error
	_ = godotenv.Load()

	cfg := &Config{
		Storage: StorageConfig{
			Dir: envOr("STRATCHECK_STORAGE_DIR", "experiments"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("STRATCHECK_DATABASE_URL"),
		},
		Analysis: AnalysisConfig{
			Alpha:               envFloat("STRATCHECK_ALPHA", 0.05),
			Permutations:        envInt("STRATCHECK_PERMUTATIONS", 1000),
			BootstrapIterations: envInt("STRATCHECK_BOOTSTRAP_ITERATIONS", 1000),
			Seed:                int64(envInt("STRATCHECK_SEED", 42)),
		},
		LogLevel: envOr("LOG_LEVEL", "info"),
	}

	if cfg.Analysis.Alpha <= 0 || cfg.Analysis.Alpha >= 1 {
		return nil, core.NewValidationError("STRATCHECK_ALPHA", "must be in (0, 1)")
	}
	if cfg.Analysis.Permutations <= 0 {
		return nil, core.NewValidationError("STRATCHECK_PERMUTATIONS", "must be positive")
	}
	if cfg.Analysis.BootstrapIterations <= 0 {
		return nil, core.NewValidationError("STRATCHECK_BOOTSTRAP_ITERATIONS", "must be positive")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
