package main

import (
	"github.com/spf13/cobra"

	"lidarcal/internal/export"
)

func newRootCommand() (*cobra.Command, *commandContext) {
	var configFlag string
	var logLevelFlag string

	ctx := newCommandContext(&configFlag, &logLevelFlag)

	rootCmd := &cobra.Command{
		Use:           "lidarcal [file]",
		Short:         "Parse and calibrate LiDAR recorder files",
		Long:          "Parse a LiDAR recorder file and print its structures as JSON, or use a subcommand to calibrate, plot, summarise or archive it.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			state, err := ctx.parseFile(cmd, args[0])
			if err != nil {
				return err
			}
			return export.Encode(cmd.OutOrStdout(), state, ctx.configValue().Export.Indent)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	rootCmd.AddCommand(newCalibrateCommand(ctx))
	rootCmd.AddCommand(newSummaryCommand(ctx))
	rootCmd.AddCommand(newPlotCommand(ctx))
	rootCmd.AddCommand(newArchiveCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd, ctx
}
