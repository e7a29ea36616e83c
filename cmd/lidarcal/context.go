package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"lidarcal/internal/archive"
	"lidarcal/internal/config"
	"lidarcal/internal/dataset"
	"lidarcal/internal/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configRead bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
			if err := cfg.Validate(); err != nil {
				c.configErr = fmt.Errorf("--log-level: %w", err)
				return
			}
		}
		c.config = cfg
		c.configPath = resolved
		c.configRead = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// parseFile reads path with the configured parse options.
func (c *commandContext) parseFile(cmd *cobra.Command, path string) (*dataset.FileState, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return dataset.ParseFile(cmd.Context(), path, dataset.Options{
		Encoding:      cfg.Parse.Encoding,
		SeparatorLine: &cfg.Parse.SeparatorLine,
		Workers:       cfg.Parse.Workers,
		Logger:        logger,
	})
}

// reportFailure logs a failed command through the configured logger. When
// no logger can be built, err is printed to w instead.
func (c *commandContext) reportFailure(w io.Writer, err error) {
	logger, logErr := c.ensureLogger()
	if logErr != nil || logger == nil {
		fmt.Fprintln(w, err)
		return
	}
	logger.Error("command failed", logging.Error(err))
}

func (c *commandContext) withArchive(fn func(*archive.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := archive.Open(cfg.Paths.ArchivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
