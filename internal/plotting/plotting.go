package plotting

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"lidarcal/internal/config"
	"lidarcal/internal/dataset"
	"lidarcal/internal/logging"
)

// ErrNoProfiles marks a channel with nothing to draw.
var ErrNoProfiles = errors.New("channel has no profiles")

// Options controls image size and labelling.
type Options struct {
	WidthInches  float64
	HeightInches float64
	// Label is appended to each title, e.g. "raw" or "calibrated".
	Label  string
	Logger *slog.Logger
}

// OptionsFromConfig builds Options from the [plot] section.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	return Options{
		WidthInches:  cfg.Plot.WidthInches,
		HeightInches: cfg.Plot.HeightInches,
		Logger:       logger,
	}
}

func (o Options) size() (vg.Length, vg.Length) {
	w, h := o.WidthInches, o.HeightInches
	if w <= 0 {
		w = 10
	}
	if h <= 0 {
		h = 6
	}
	return vg.Length(w) * vg.Inch, vg.Length(h) * vg.Inch
}

// MeanProfile returns the per-gate mean over every profile of the channel.
func MeanProfile(ch *dataset.Channel) ([]float64, error) {
	data := ch.Profiles.Data()
	if data == nil || !ch.Profiles.Finalized() {
		return nil, fmt.Errorf("%w: %s", ErrNoProfiles, ch.ID)
	}
	_, cols := data.Dims()
	mean := make([]float64, cols)
	col := make([]float64, ch.Profiles.Len())
	for j := range mean {
		mat.Col(col, j, data)
		mean[j] = stat.Mean(col, nil)
	}
	return mean, nil
}

// RenderMeanProfile draws the channel's mean profile to a PNG at path.
func RenderMeanProfile(ch *dataset.Channel, path string, opts Options) error {
	mean, err := MeanProfile(ch)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Channel %s - %s", ch.ID, ch.Name)
	if opts.Label != "" {
		p.Title.Text += " (" + opts.Label + ")"
	}
	p.Y.Label.Text = "Mean signal"
	p.X.Label.Text = "Gate"
	if len(ch.LidarRange) == len(mean) {
		p.X.Label.Text = "Range (m)"
	}
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(mean))
	for i, v := range mean {
		x := float64(i)
		if len(ch.LidarRange) == len(mean) {
			x = ch.LidarRange[i]
		}
		pts[i] = plotter.XY{X: x, Y: v}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("build line: %w", err)
	}
	line.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add(fmt.Sprintf("%d profiles", ch.Profiles.Len()), line)
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create plot directory: %w", err)
	}
	w, h := opts.size()
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

// RenderAll draws every channel that has profiles into dir and returns the
// written paths in channel declaration order.
func RenderAll(state *dataset.FileState, dir string, opts Options) ([]string, error) {
	logger := logging.NewComponentLogger(opts.Logger, "plotting")
	var written []string
	for _, id := range state.ChannelIDs() {
		ch, _ := state.Channel(id)
		if ch.Profiles.Len() == 0 {
			logger.Debug("skipping channel without profiles", logging.Channel(id))
			continue
		}
		path := filepath.Join(dir, FileName(id, opts.Label))
		if err := RenderMeanProfile(ch, path, opts); err != nil {
			return written, fmt.Errorf("channel %s: %w", id, err)
		}
		logger.Info("profile plot written", logging.Channel(id), logging.String("path", path))
		written = append(written, path)
	}
	return written, nil
}

// FileName returns the PNG name used for a channel.
func FileName(channelID, label string) string {
	name := "channel_" + sanitize(channelID) + "_mean"
	if label != "" {
		name += "_" + sanitize(label)
	}
	return name + ".png"
}

func sanitize(value string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "unnamed"
	}
	return b.String()
}
