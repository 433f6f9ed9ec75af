package testsupport

import (
	"path/filepath"
	"testing"

	"gggkit/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "spt")
	cfgVal.Paths.CatalogPath = filepath.Join(base, "catalog", "catalog.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Spectrum.Workers = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithDataDir creates the spectrum directory so scans can run against it.
func WithDataDir() ConfigOption {
	return func(b *configBuilder) {
		MkdirAll(b.t, b.cfg.Paths.DataDir)
	}
}

// WithNamePattern overrides the spectrum name pattern.
func WithNamePattern(pattern string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Spectrum.NamePattern = pattern
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
