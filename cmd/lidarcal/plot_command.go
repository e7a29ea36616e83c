package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lidarcal/internal/config"
	"lidarcal/internal/dataset"
	"lidarcal/internal/plotting"
)

func newPlotCommand(ctx *commandContext) *cobra.Command {
	var dir string
	var raw bool

	cmd := &cobra.Command{
		Use:   "plot <file>",
		Short: "Render mean profile plots for every channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				state *dataset.FileState
				err   error
			)
			label := "calibrated"
			if raw {
				label = "raw"
				state, err = ctx.parseFile(cmd, args[0])
			} else {
				state, err = ctx.calibratedState(cmd, args[0])
			}
			if err != nil {
				return err
			}

			cfg := ctx.configValue()
			target := cfg.Paths.PlotDir
			if strings.TrimSpace(dir) != "" {
				if target, err = config.ExpandPath(dir); err != nil {
					return fmt.Errorf("resolve plot dir: %w", err)
				}
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			opts := plotting.OptionsFromConfig(cfg, logger)
			opts.Label = label

			paths, err := plotting.RenderAll(state, target, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(paths) == 0 {
				fmt.Fprintln(out, "No channel has profiles to plot")
				return nil
			}
			for _, p := range paths {
				fmt.Fprintln(out, p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory for PNG files (default paths.plot_dir)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Plot uncalibrated profiles")
	return cmd
}
