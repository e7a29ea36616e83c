package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lidarcal/internal/archive"
	"lidarcal/internal/dataset"
)

func newArchiveCommand(ctx *commandContext) *cobra.Command {
	archiveCmd := &cobra.Command{
		Use:   "archive",
		Short: "Store and inspect parsed files in the SQLite archive",
	}

	archiveCmd.AddCommand(newArchiveImportCommand(ctx))
	archiveCmd.AddCommand(newArchiveListCommand(ctx))
	archiveCmd.AddCommand(newArchiveShowCommand(ctx))
	archiveCmd.AddCommand(newArchiveRemoveCommand(ctx))

	return archiveCmd
}

func newArchiveImportCommand(ctx *commandContext) *cobra.Command {
	var calibrated bool

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Parse recorder files and add them to the archive",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withArchive(func(store *archive.Store) error {
				out := cmd.OutOrStdout()
				for _, path := range args {
					var (
						state *dataset.FileState
						err   error
					)
					if calibrated {
						state, err = ctx.calibratedState(cmd, path)
					} else {
						state, err = ctx.parseFile(cmd, path)
					}
					if err != nil {
						return err
					}
					rec, err := store.Save(cmd.Context(), state, path)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Archived %s as %s (%d channels, %d profiles)\n",
						path, rec.ID, rec.ChannelCount, rec.ProfileCount)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&calibrated, "calibrate", false, "Apply calibration before archiving")
	return cmd
}

func newArchiveListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withArchive(func(store *archive.Store) error {
				files, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					if files == nil {
						files = []archive.FileRecord{}
					}
					return writeJSON(cmd, files)
				}

				out := cmd.OutOrStdout()
				if len(files) == 0 {
					fmt.Fprintln(out, "Archive is empty")
					return nil
				}
				rows := make([][]string, 0, len(files))
				for _, f := range files {
					rows = append(rows, []string{
						f.ID,
						f.SourcePath,
						strconv.Itoa(f.ChannelCount),
						strconv.Itoa(f.ProfileCount),
						formatTime(f.FirstProfileAt),
						formatTime(&f.ImportedAt),
					})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"ID", "Source", "Channels", "Profiles", "First profile", "Imported"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newArchiveShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an archived file and its channels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withArchive(func(store *archive.Store) error {
				rec, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, rec)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID: %s\n", rec.ID)
				fmt.Fprintf(out, "Source: %s\n", rec.SourcePath)
				fmt.Fprintf(out, "Recorder: %s %s (format %s)\n",
					valueOrDash(rec.SoftwareName), valueOrDash(rec.SoftwareVersion), valueOrDash(rec.FileVersion))
				if loc := rec.Instrument; loc != nil {
					fmt.Fprintf(out, "Location: lat %s lon %s alt %s m\n",
						formatFloat(loc.Latitude), formatFloat(loc.Longitude), formatFloat(loc.Altitude))
				}
				fmt.Fprintf(out, "Profiles: %d (%s to %s)\n", rec.ProfileCount, formatTime(rec.FirstProfileAt), formatTime(rec.LastProfileAt))
				fmt.Fprintf(out, "Imported: %s\n", formatTime(&rec.ImportedAt))

				rows := make([][]string, 0, len(rec.Channels))
				for _, ch := range rec.Channels {
					rows = append(rows, []string{
						ch.ID,
						ch.Name,
						ch.Polarization,
						strconv.Itoa(ch.Doors),
						formatFloat(ch.OneDoorRange),
						formatFloat(ch.OffsetRange),
						strconv.Itoa(ch.ProfileCount),
					})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"Channel", "Name", "Polarization", "Doors", "Door range (m)", "Offset (m)", "Profiles"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newArchiveRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>...",
		Short: "Remove archived files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withArchive(func(store *archive.Store) error {
				out := cmd.OutOrStdout()
				for _, id := range args {
					if err := store.Delete(cmd.Context(), id); err != nil {
						return err
					}
					fmt.Fprintf(out, "Removed %s\n", id)
				}
				return nil
			})
		},
	}
}
