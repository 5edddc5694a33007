// Package testsupport provides shared helpers for package tests: per-test
// configs backed by temp directories, opened stores with cleanup, and
// filesystem fixtures.
package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/tejash-9/spacedrive/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Identifier.Workers = 2

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithWorkers overrides the identifier worker pool size on the test config.
func WithWorkers(workers int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Identifier.Workers = workers
	}
}
