package calibrate

import (
	"errors"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"lidarcal/internal/config"
	"lidarcal/internal/dataset"
	"lidarcal/internal/logging"
)

var (
	// ErrMissingChannel marks a configured channel absent from the file.
	ErrMissingChannel = errors.New("calibration channel not declared")
	// ErrShortProfile marks a channel too narrow for the background window.
	ErrShortProfile = errors.New("profile shorter than background window")
	// ErrNotFinalized marks a state that still carries its placeholder rows.
	ErrNotFinalized = errors.New("file state not finalized")
)

// Settings selects the calibrated channels and the background gate window
// [BackgroundStart, BackgroundEnd).
type Settings struct {
	Channels        []string
	BackgroundStart int
	BackgroundEnd   int
	Logger          *slog.Logger
}

// SettingsFromConfig builds Settings from the [calibration] section.
func SettingsFromConfig(cfg *config.Config, logger *slog.Logger) Settings {
	return Settings{
		Channels:        append([]string(nil), cfg.Calibration.Channels...),
		BackgroundStart: cfg.Calibration.BackgroundStart,
		BackgroundEnd:   cfg.Calibration.BackgroundEnd,
		Logger:          logger,
	}
}

func (s Settings) validate() error {
	if s.BackgroundStart < 0 || s.BackgroundEnd <= s.BackgroundStart {
		return fmt.Errorf("invalid background window [%d, %d)", s.BackgroundStart, s.BackgroundEnd)
	}
	return nil
}

// Apply computes the range axis and subtracts the background for every
// configured channel. Every channel is checked before any profile is
// modified.
func Apply(state *dataset.FileState, settings Settings) error {
	if !state.Finalized() {
		return ErrNotFinalized
	}
	if err := settings.validate(); err != nil {
		return err
	}
	logger := logging.NewComponentLogger(settings.Logger, "calibrate")

	channels := make([]*dataset.Channel, 0, len(settings.Channels))
	for _, id := range settings.Channels {
		ch, ok := state.Channel(id)
		if !ok {
			return fmt.Errorf("%w: %q", ErrMissingChannel, id)
		}
		if ch.Profiles.Len() > 0 && ch.Profiles.Doors() < settings.BackgroundEnd {
			return fmt.Errorf("%w: channel %s has %d doors, window ends at %d",
				ErrShortProfile, id, ch.Profiles.Doors(), settings.BackgroundEnd)
		}
		channels = append(channels, ch)
	}

	for _, ch := range channels {
		ch.LidarRange = RangeAxis(ch)
		levels, err := SubtractBackground(ch, settings.BackgroundStart, settings.BackgroundEnd)
		if err != nil {
			return err
		}
		attrs := []any{
			logging.Channel(ch.ID),
			logging.Int("profiles", ch.Profiles.Len()),
			logging.Int("doors", ch.Profiles.Doors()),
		}
		if len(levels) > 0 {
			attrs = append(attrs, logging.Float64("background_mean", stat.Mean(levels, nil)))
		}
		logger.Debug("channel calibrated", attrs...)
	}
	logger.Info("calibration applied", logging.Int("channels", len(channels)))
	return nil
}

// RangeAxis returns i*one_door_range + offset_range for every door.
func RangeAxis(ch *dataset.Channel) []float64 {
	axis := make([]float64, ch.Profiles.Doors())
	for i := range axis {
		axis[i] = float64(i)*ch.OneDoorRangeMetres + ch.OffsetRange
	}
	return axis
}

// SubtractBackground removes, in place, the mean of gates [start, end) from
// every gate of every profile. It returns the level removed from each
// profile, in row order.
func SubtractBackground(ch *dataset.Channel, start, end int) ([]float64, error) {
	if start < 0 || end <= start {
		return nil, fmt.Errorf("invalid background window [%d, %d)", start, end)
	}
	if !ch.Profiles.Finalized() {
		return nil, ErrNotFinalized
	}
	if ch.Profiles.Len() == 0 {
		return nil, nil
	}
	if ch.Profiles.Doors() < end {
		return nil, fmt.Errorf("%w: channel %s has %d doors, window ends at %d",
			ErrShortProfile, ch.ID, ch.Profiles.Doors(), end)
	}
	levels := make([]float64, ch.Profiles.Len())
	for i := range levels {
		row := ch.Profiles.Row(i)
		levels[i] = stat.Mean(row[start:end], nil)
		floats.AddConst(-levels[i], row)
	}
	return levels, nil
}
