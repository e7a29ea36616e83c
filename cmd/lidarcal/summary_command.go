package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lidarcal/internal/dataset"
)

type channelSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Polarization string `json:"polarization"`
	Doors        int    `json:"doors"`
	Profiles     int    `json:"profiles"`
	FirstProfile string `json:"first_profile,omitempty"`
	LastProfile  string `json:"last_profile,omitempty"`
}

type fileSummary struct {
	File            string           `json:"file"`
	FileVersion     string           `json:"file_version,omitempty"`
	SoftwareName    string           `json:"software_name,omitempty"`
	SoftwareVersion string           `json:"software_version,omitempty"`
	Channels        []channelSummary `json:"channels"`
}

func newSummaryCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary <file>",
		Short: "Show the channels and profile counts of a recorder file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := ctx.parseFile(cmd, args[0])
			if err != nil {
				return err
			}
			summary := summarize(args[0], state)
			if asJSON {
				return writeJSON(cmd, summary)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File: %s\n", summary.File)
			if summary.SoftwareName != "" {
				fmt.Fprintf(out, "Recorder: %s %s (format %s)\n", summary.SoftwareName, summary.SoftwareVersion, summary.FileVersion)
			}
			rows := make([][]string, 0, len(summary.Channels))
			for _, ch := range summary.Channels {
				rows = append(rows, []string{
					ch.ID,
					ch.Name,
					ch.Polarization,
					strconv.Itoa(ch.Doors),
					strconv.Itoa(ch.Profiles),
					valueOrDash(ch.FirstProfile),
					valueOrDash(ch.LastProfile),
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Channel", "Name", "Polarization", "Doors", "Profiles", "First", "Last"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func summarize(path string, state *dataset.FileState) fileSummary {
	summary := fileSummary{File: path}
	if v := state.Metadata.Version; v != nil {
		summary.FileVersion = v.FileVersion
		summary.SoftwareName = v.SoftwareName
		summary.SoftwareVersion = v.SoftwareVersion
	}
	for _, id := range state.ChannelIDs() {
		ch, _ := state.Channel(id)
		s := channelSummary{
			ID:           id,
			Name:         ch.Name,
			Polarization: string(ch.Polarization),
			Doors:        ch.Profiles.Doors(),
			Profiles:     ch.Profiles.Len(),
		}
		if n := len(ch.Profiles.Time); n > 0 {
			s.FirstProfile = formatTime(&ch.Profiles.Time[0])
			s.LastProfile = formatTime(&ch.Profiles.Time[n-1])
		}
		summary.Channels = append(summary.Channels, s)
	}
	return summary
}
