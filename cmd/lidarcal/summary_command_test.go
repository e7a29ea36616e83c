package main

import (
	"encoding/json"
	"testing"
)

func TestSummaryTable(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"summary", env.inputPath}, env.configPath)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	requireContains(t, out, "Recorder: LidarRecorder 3.2.1 (format 1.0)")
	requireContains(t, out, "532 parallel")
	requireContains(t, out, "perpendicular")
	requireContains(t, out, "2023-03-15 12:00:00")
	requireContains(t, out, "2023-03-15 18:00:00")
}

func TestSummaryJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"summary", "--json", env.inputPath}, env.configPath)
	if err != nil {
		t.Fatalf("summary --json: %v", err)
	}
	var summary fileSummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if len(summary.Channels) != 3 {
		t.Fatalf("expected 3 channels, got %d", len(summary.Channels))
	}
	if summary.Channels[0].Profiles != 2 || summary.Channels[2].Profiles != 0 {
		t.Fatalf("unexpected profile counts: %+v", summary.Channels)
	}
	if summary.Channels[2].FirstProfile != "" {
		t.Fatalf("channel without profiles should have no first profile, got %q", summary.Channels[2].FirstProfile)
	}
}
