// Package cli provides common initialization shared by cmd/budget,
// cmd/budget-worker and cmd/budgetctl.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"budget/internal/backend"
	"budget/internal/config"
	"budget/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// A missing file is fine; production sets real environment variables.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from cfg, writing to out, and makes
// it the slog default. An unparsable level falls back to info.
func SetupLogger(cfg *config.Config, component string, out io.Writer) *log.Logger {
	lc := log.DefaultConfig()
	lc.Component = component
	lc.Output = out
	if cfg != nil {
		if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
			lc.Level = level
		}
		lc.Format = cfg.LogFormat
	}
	logger := log.New(lc)
	log.SetDefault(logger)
	return logger
}

// LoadConfig reads the environment (after .env) and validates it.
func LoadConfig() (*config.Config, error) {
	LoadEnvFile()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoadConfig is LoadConfig for binaries: it prints the problems and
// exits on invalid configuration.
func MustLoadConfig() *config.Config {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return cfg
}

// ErrPrivateBackend is returned for a backend whose data lives only inside
// the current process.
var ErrPrivateBackend = errors.New("backend is private to this process")

// RequireSharedBackend rejects the memory backend for binaries that must see
// the API server's data: their writes would vanish on exit and their reads
// would only see the seed files.
func RequireSharedBackend(cfg *config.Config) error {
	if cfg.DataBackend == string(backend.MemoryBackend) {
		return fmt.Errorf("DATA_BACKEND=%s: %w; use sqlite or postgres", cfg.DataBackend, ErrPrivateBackend)
	}
	return nil
}

// InitBackend builds the storage collaborator and optional event publisher.
func InitBackend(ctx context.Context, logger *log.Logger, cfg *config.Config) (*backend.BackendResult, error) {
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bc)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", bc.Type, err)
	}
	return res, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
