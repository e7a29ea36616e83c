package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeParse()
	c.normalizeCalibration()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("LIDARCAL_ARCHIVE"); ok && strings.TrimSpace(value) != "" {
		c.Paths.ArchivePath = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if strings.TrimSpace(c.Paths.PlotDir) == "" {
		c.Paths.PlotDir = defaultPlotDir
	}
	if strings.TrimSpace(c.Paths.ArchivePath) == "" {
		c.Paths.ArchivePath = defaultArchivePath
	}

	var err error
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.PlotDir, err = expandPath(c.Paths.PlotDir); err != nil {
		return fmt.Errorf("paths.plot_dir: %w", err)
	}
	if c.Paths.ArchivePath, err = expandPath(c.Paths.ArchivePath); err != nil {
		return fmt.Errorf("paths.archive_path: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeParse() {
	enc := strings.ToLower(strings.TrimSpace(c.Parse.Encoding))
	switch enc {
	case "", "charmap", "iso-8859-1", "iso8859-1", "latin-1":
		enc = defaultEncoding
	case "utf8":
		enc = "utf-8"
	}
	c.Parse.Encoding = enc
	if c.Parse.Workers <= 0 {
		c.Parse.Workers = defaultWorkers
	}
}

func (c *Config) normalizeCalibration() {
	channels := make([]string, 0, len(c.Calibration.Channels))
	seen := make(map[string]struct{}, len(c.Calibration.Channels))
	for _, id := range c.Calibration.Channels {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		channels = append(channels, id)
	}
	c.Calibration.Channels = channels
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("LIDARCAL_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
