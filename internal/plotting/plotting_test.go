package plotting_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lidarcal/internal/calibrate"
	"lidarcal/internal/dataset"
	"lidarcal/internal/plotting"
	"lidarcal/internal/record"
	"lidarcal/internal/testsupport"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func parsedState(t *testing.T) *dataset.FileState {
	t.Helper()
	text := strings.Join(testsupport.InstrumentLines(testsupport.DefaultInstrumentSpec()), "\n")
	state, err := dataset.Parse(context.Background(), strings.NewReader(text), dataset.Options{})
	require.NoError(t, err)
	return state
}

func TestMeanProfile(t *testing.T) {
	state := parsedState(t)
	ch, _ := state.Channel("1")

	mean, err := plotting.MeanProfile(ch)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 6, 7, 8}, mean)

	empty, _ := state.Channel("11")
	_, err = plotting.MeanProfile(empty)
	assert.ErrorIs(t, err, plotting.ErrNoProfiles)
}

func TestRenderMeanProfileWritesPNG(t *testing.T) {
	state := parsedState(t)
	require.NoError(t, calibrate.Apply(state, calibrate.Settings{Channels: []string{"1"}, BackgroundStart: 0, BackgroundEnd: 2}))
	ch, _ := state.Channel("1")
	path := filepath.Join(t.TempDir(), "nested", "ch1.png")

	require.NoError(t, plotting.RenderMeanProfile(ch, path, plotting.Options{WidthInches: 4, HeightInches: 3, Label: "calibrated"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, pngMagic))
}

func TestRenderAllSkipsEmptyChannels(t *testing.T) {
	state := parsedState(t)
	dir := t.TempDir()

	paths, err := plotting.RenderAll(state, dir, plotting.Options{Label: "raw"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "channel_1_mean_raw.png"),
		filepath.Join(dir, "channel_2_mean_raw.png"),
	}, paths)
	for _, p := range paths {
		_, err := os.Stat(p)
		require.NoError(t, err)
	}
}

func TestRenderMeanProfileRejectsUnfinalizedChannel(t *testing.T) {
	state := dataset.NewFileState()
	require.NoError(t, state.Apply(record.ChannelDescription{ID: "1", Doors: 2}))
	require.NoError(t, state.Apply(record.DataProfile{ChannelID: "1", Measurements: []float64{1, 2}}))
	ch, _ := state.Channel("1")

	err := plotting.RenderMeanProfile(ch, filepath.Join(t.TempDir(), "x.png"), plotting.Options{})
	assert.ErrorIs(t, err, plotting.ErrNoProfiles)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "channel_11_mean.png", plotting.FileName("11", ""))
	assert.Equal(t, "channel_a_b_mean_raw.png", plotting.FileName("a/b", "raw"))
	assert.Equal(t, "channel_unnamed_mean.png", plotting.FileName("  ", ""))
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	opts := plotting.OptionsFromConfig(cfg, nil)
	assert.Equal(t, cfg.Plot.WidthInches, opts.WidthInches)
	assert.Equal(t, cfg.Plot.HeightInches, opts.HeightInches)
}
