package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lidarcal/internal/calibrate"
	"lidarcal/internal/config"
	"lidarcal/internal/dataset"
	"lidarcal/internal/export"
)

func newCalibrateCommand(ctx *commandContext) *cobra.Command {
	var output string
	var toStdout bool

	cmd := &cobra.Command{
		Use:   "calibrate <file>",
		Short: "Parse, calibrate and export a recorder file as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := ctx.calibratedState(cmd, args[0])
			if err != nil {
				return err
			}
			cfg := ctx.configValue()
			if toStdout {
				return export.Encode(cmd.OutOrStdout(), state, cfg.Export.Indent)
			}

			target := strings.TrimSpace(output)
			if target == "" {
				target = defaultExportPath(cfg, args[0])
			} else if target, err = config.ExpandPath(target); err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}
			if err := export.WriteFile(target, state, cfg.Export.Indent); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote calibrated export to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination JSON file (default <output_dir>/<name>.json)")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Write the JSON document to stdout instead of a file")
	return cmd
}

// calibratedState parses path and applies the configured calibration.
func (c *commandContext) calibratedState(cmd *cobra.Command, path string) (*dataset.FileState, error) {
	state, err := c.parseFile(cmd, path)
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	if err := calibrate.Apply(state, calibrate.SettingsFromConfig(c.configValue(), logger)); err != nil {
		return nil, fmt.Errorf("calibrate %s: %w", path, err)
	}
	return state, nil
}

func defaultExportPath(cfg *config.Config, source string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(cfg.Paths.OutputDir, base+".json")
}
