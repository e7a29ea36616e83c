package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateParse(); err != nil {
		return err
	}
	if err := c.validateCalibration(); err != nil {
		return err
	}
	if err := c.validatePlot(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateParse() error {
	switch c.Parse.Encoding {
	case "latin1", "utf-8":
	default:
		return fmt.Errorf("parse.encoding: unsupported value %q (use latin1 or utf-8)", c.Parse.Encoding)
	}
	if c.Parse.SeparatorLine < 0 {
		return errors.New("parse.separator_line must not be negative")
	}
	return nil
}

func (c *Config) validateCalibration() error {
	if c.Calibration.BackgroundStart < 0 {
		return errors.New("calibration.background_start must not be negative")
	}
	if c.Calibration.BackgroundEnd <= c.Calibration.BackgroundStart {
		return fmt.Errorf("calibration.background_end (%d) must be greater than background_start (%d)",
			c.Calibration.BackgroundEnd, c.Calibration.BackgroundStart)
	}
	return nil
}

func (c *Config) validatePlot() error {
	if c.Plot.WidthInches <= 0 || c.Plot.HeightInches <= 0 {
		return errors.New("plot.width_inches and plot.height_inches must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
