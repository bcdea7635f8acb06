// Package config loads service settings from the environment, with optional
// .env file support for local development.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable keys
const (
	KeyAddr             = "YTFETCHD_ADDR"
	KeyDataDir          = "YTFETCHD_DATA_DIR"
	KeyMaxParallel      = "YTFETCHD_MAX_PARALLEL"
	KeyFetchTimeout     = "YTFETCHD_FETCH_TIMEOUT"
	KeyTranscodeTimeout = "YTFETCHD_TRANSCODE_TIMEOUT"
)

// Default values
const (
	DefaultAddr             = ":8080"
	DefaultDataDir          = "data"
	DefaultMaxParallel      = 2
	DefaultFetchTimeout     = 30 * time.Minute
	DefaultTranscodeTimeout = 10 * time.Minute
)

// Parallelism clamp bounds
const (
	minParallel = 1
	maxParallel = 10
)

// Config holds the resolved service settings
type Config struct {
	Addr             string
	DataDir          string
	MaxParallel      int
	FetchTimeout     time.Duration
	TranscodeTimeout time.Duration
}

// Load reads settings from the environment, applying defaults and clamping
// out-of-range values rather than failing
func Load() Config {
	return Config{
		Addr:             getenv(KeyAddr, DefaultAddr),
		DataDir:          getenv(KeyDataDir, DefaultDataDir),
		MaxParallel:      clampParallel(getenvInt(KeyMaxParallel, DefaultMaxParallel)),
		FetchTimeout:     getenvDuration(KeyFetchTimeout, DefaultFetchTimeout),
		TranscodeTimeout: getenvDuration(KeyTranscodeTimeout, DefaultTranscodeTimeout),
	}
}

// LoadDotEnv walks up from the working directory looking for a .env file and
// loads the first one found. Missing files are not an error; real environment
// variables always win over .env entries.
func LoadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func clampParallel(n int) int {
	if n < minParallel {
		return minParallel
	}
	if n > maxParallel {
		return maxParallel
	}
	return n
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
