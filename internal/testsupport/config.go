package testsupport

import (
	"path/filepath"
	"testing"

	"lidarcal/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose paths live in a unique temp directory.
// It applies any provided options after the defaults.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.PlotDir = filepath.Join(base, "plots")
	cfgVal.Paths.ArchivePath = filepath.Join(base, "archive", "archive.db")
	cfgVal.Paths.LogDir = ""

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure test directories: %v", err)
	}
	return builder.cfg
}

// WithCalibrationChannels overrides the calibrated channel ids.
func WithCalibrationChannels(ids ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Calibration.Channels = ids
	}
}

// WithBackgroundWindow overrides the background gate window.
func WithBackgroundWindow(start, end int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Calibration.BackgroundStart = start
		b.cfg.Calibration.BackgroundEnd = end
	}
}

// WithWorkers sets the decode worker count.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Parse.Workers = n
	}
}

// WithLogDir enables the JSON log file under the temp directory.
func WithLogDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.LogDir = filepath.Join(b.baseDir, "logs")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
