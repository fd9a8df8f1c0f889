package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"gymforge/internal/config"
)

// ConfigOption allows callers to customize the generated test
// configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per
// test. Augmentation is disabled by default so pipeline tests never
// reach for a real model endpoint.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Augment.Enabled = false
	if err := cfgVal.EnsureDirectories(); err != nil {
		t.Fatalf("ensure config directories: %v", err)
	}

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

// WithAugmentation enables the augmentation stages with a dummy API key.
func WithAugmentation() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Augment.Enabled = true
		b.cfg.VLM.APIKey = "test"
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the default gymforge
// external binaries are stubbed. Each stub exits successfully and
// prints nothing.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe", "tesseract"}
		}
		StubBinaries(b.t, b.baseDir, "#!/bin/sh\nexit 0\n", names...)
	}
}

// StubBinaries installs shell-script stubs with the given body on PATH
// for the duration of the test.
func StubBinaries(t testing.TB, baseDir, script string, names ...string) {
	t.Helper()
	binDir := filepath.Join(baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	for _, name := range names {
		target := filepath.Join(binDir, name)
		if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}

	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
		t.Fatalf("set PATH: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
