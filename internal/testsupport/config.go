package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"lgdhemis/internal/config"
)

// Stub scripts standing in for the MINC tools. The minccalc stub touches its
// last argument; the extraction stub checks the placeholder arguments and
// touches both hemisphere outputs.
const (
	MinccalcStub = "#!/bin/sh\nfor last; do :; done\n: > \"$last\"\n"
	ExtractStub  = "#!/bin/sh\n[ \"$4\" = none ] && [ \"$5\" = none ] || exit 9\n: > \"$6\"\n: > \"$7\"\n"
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
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithLedger enables run history inside the test state directory.
func WithLedger() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ledger.Enabled = true
	}
}

// WithStubbedTools writes minccalc and extract_wm_hemispheres_fetus stubs and
// points the config at them. An empty body selects the default stub.
func WithStubbedTools(minccalcBody, extractBody string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		b.cfg.Tools.Minccalc = WriteExecutable(b.t, binDir, "minccalc", orDefault(minccalcBody, MinccalcStub))
		b.cfg.Tools.ExtractWMHemispheres = WriteExecutable(b.t, binDir, "extract_wm_hemispheres_fetus", orDefault(extractBody, ExtractStub))
	}
}

// WriteExecutable writes a shell script and returns its path.
func WriteExecutable(t testing.TB, dir, name, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte(body), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}

func orDefault(body, fallback string) string {
	if body == "" {
		return fallback
	}
	return body
}
