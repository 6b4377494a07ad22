package testsupport

import (
	"path/filepath"
	"testing"

	"scdproc/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The ontology path points at a sample taxonomy written into the temp
// directory, and the history ledger lives under the state directory.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.Ontology = WriteOntology(t, base)
	cfgVal.History.Path = filepath.Join(cfgVal.Paths.StateDir, "history.db")

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

// WithOntology points the config at an existing taxonomy file.
func WithOntology(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.Ontology = path
	}
}

// WithInvalidTimePolicy sets filter.on_invalid_time.
func WithInvalidTimePolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Filter.OnInvalidTime = policy
	}
}

// WithLabel sets ontology.label.
func WithLabel(label string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ontology.Label = label
	}
}

// WithoutHistory disables the run ledger.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
