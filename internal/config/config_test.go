package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"lidarcal/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("LIDARCAL_ARCHIVE", "")
	t.Setenv("LIDARCAL_LOG_LEVEL", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantArchive := filepath.Join(tempHome, ".local", "share", "lidarcal", "archive.db")
	if cfg.Paths.ArchivePath != wantArchive {
		t.Fatalf("unexpected archive path: got %q want %q", cfg.Paths.ArchivePath, wantArchive)
	}
	if !filepath.IsAbs(cfg.Paths.PlotDir) {
		t.Fatalf("expected absolute plot dir, got %q", cfg.Paths.PlotDir)
	}
	if cfg.Paths.LogDir != "" {
		t.Fatalf("expected empty log dir, got %q", cfg.Paths.LogDir)
	}
	if got := strings.Join(cfg.Calibration.Channels, ","); got != "1,2,11" {
		t.Fatalf("unexpected calibration channels: %s", got)
	}
	if cfg.Calibration.BackgroundStart != 1500 || cfg.Calibration.BackgroundEnd != 1600 {
		t.Fatalf("unexpected background window: %+v", cfg.Calibration)
	}
	if cfg.Parse.Encoding != "latin1" || cfg.Parse.SeparatorLine != 5 || cfg.Parse.Workers != 1 {
		t.Fatalf("unexpected parse defaults: %+v", cfg.Parse)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomConfigFile(t *testing.T) {
	t.Setenv("LIDARCAL_ARCHIVE", "")
	t.Setenv("LIDARCAL_LOG_LEVEL", "")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "lidarcal.toml")
	content := `
[paths]
archive_path = "` + filepath.ToSlash(filepath.Join(tempDir, "db", "archive.db")) + `"

[parse]
encoding = "UTF8"
workers = 4

[calibration]
channels = [" 1 ", "3", "1", ""]
background_start = 100
background_end = 200

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config to be read from %s, got %s (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Parse.Encoding != "utf-8" || cfg.Parse.Workers != 4 {
		t.Fatalf("unexpected parse section: %+v", cfg.Parse)
	}
	if got := strings.Join(cfg.Calibration.Channels, ","); got != "1,3" {
		t.Fatalf("expected channels to be trimmed and deduplicated, got %s", got)
	}
	if cfg.Calibration.BackgroundStart != 100 || cfg.Calibration.BackgroundEnd != 200 {
		t.Fatalf("unexpected background window: %+v", cfg.Calibration)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging section: %+v", cfg.Logging)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "db")); err != nil {
		t.Fatalf("expected archive directory to exist: %v", err)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("LIDARCAL_ARCHIVE", archive)
	t.Setenv("LIDARCAL_LOG_LEVEL", "warn")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.ArchivePath != archive {
		t.Fatalf("expected archive path from env, got %q", cfg.Paths.ArchivePath)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected log level from env, got %q", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"inverted background window", func(c *config.Config) { c.Calibration.BackgroundEnd = c.Calibration.BackgroundStart }},
		{"negative background start", func(c *config.Config) { c.Calibration.BackgroundStart = -1 }},
		{"unknown encoding", func(c *config.Config) { c.Parse.Encoding = "ebcdic" }},
		{"negative separator line", func(c *config.Config) { c.Parse.SeparatorLine = -1 }},
		{"zero plot size", func(c *config.Config) { c.Plot.WidthInches = 0 }},
		{"unknown log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"unknown log level", func(c *config.Config) { c.Logging.Level = "trace" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidateAcceptsSeparatorOnFirstLine(t *testing.T) {
	cfg := config.Default()
	cfg.Parse.SeparatorLine = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected separator_line 0 to be valid, got %v", err)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[calibration]\ngates = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestSampleConfigMatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	def := config.Default()
	if decoded.Calibration.BackgroundStart != def.Calibration.BackgroundStart ||
		decoded.Calibration.BackgroundEnd != def.Calibration.BackgroundEnd {
		t.Fatalf("sample background window %+v differs from defaults %+v", decoded.Calibration, def.Calibration)
	}
	if strings.Join(decoded.Calibration.Channels, ",") != strings.Join(def.Calibration.Channels, ",") {
		t.Fatalf("sample channels %v differ from defaults %v", decoded.Calibration.Channels, def.Calibration.Channels)
	}
	if decoded.Parse != def.Parse {
		t.Fatalf("sample parse section %+v differs from defaults %+v", decoded.Parse, def.Parse)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil || !exists {
		t.Fatalf("Load sample: exists=%v err=%v", exists, err)
	}
	encoded, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(encoded, "background_start = 1500") {
		t.Fatalf("expected encoded config to include background window, got:\n%s", encoded)
	}
}
