package dataset

import (
	"fmt"

	"lidarcal/internal/record"
)

// FileState is everything recovered from one instrument file.
type FileState struct {
	Channels map[string]*Channel
	Metadata Metadata

	order     []string
	finalized bool
}

// NewFileState returns an empty state ready for Apply.
func NewFileState() *FileState {
	return &FileState{Channels: make(map[string]*Channel)}
}

// Channel looks up a declared channel.
func (s *FileState) Channel(id string) (*Channel, bool) {
	ch, ok := s.Channels[id]
	return ch, ok
}

// ChannelIDs lists channel ids in the order they were first declared.
func (s *FileState) ChannelIDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Finalized reports whether Finalize has run.
func (s *FileState) Finalized() bool { return s.finalized }

// Apply folds one decoded record into the state. A failed Apply leaves the
// state untouched.
func (s *FileState) Apply(rec record.Record) error {
	if s.finalized {
		return ErrFinalized
	}
	switch r := rec.(type) {
	case record.FileVersion:
		s.Metadata.Version = &r
	case record.InstrumentConfig:
		s.Metadata.Instrument = &r
	case record.ChannelDescription:
		// A repeated declaration replaces the channel and drops its profiles.
		if _, exists := s.Channels[r.ID]; !exists {
			s.order = append(s.order, r.ID)
		}
		s.Channels[r.ID] = newChannel(r)
	case record.DetectorParams:
		ch, err := s.lookup(r)
		if err != nil {
			return err
		}
		ch.DetectorParams = &DetectorParameters{Time: r.Time, Method: r.Method, Values: r.Values}
	case record.Overlap:
		ch, err := s.lookup(r)
		if err != nil {
			return err
		}
		ch.Overlap = &OverlapCalibration{Time: r.Time, Values: r.Values}
	case record.Afterpulse:
		ch, err := s.lookup(r)
		if err != nil {
			return err
		}
		ch.Afterpulse = &AfterpulseCalibration{Time: r.Time, Values: r.Values}
	case record.DataProfile:
		ch, err := s.lookup(r)
		if err != nil {
			return err
		}
		return ch.Profiles.append(r)
	default:
		return fmt.Errorf("apply: unsupported record %T", rec)
	}
	return nil
}

func (s *FileState) lookup(rec record.ChannelRecord) (*Channel, error) {
	ch, ok := s.Channels[rec.Channel()]
	if !ok {
		return nil, fmt.Errorf("%w: %s references channel %q before its DCLID", ErrUnknownChannel, rec.Tag(), rec.Channel())
	}
	return ch, nil
}

// Finalize materialises every channel's matrix. It runs once; later calls are
// no-ops.
func (s *FileState) Finalize() {
	if s.finalized {
		return
	}
	for _, id := range s.order {
		s.Channels[id].Profiles.finalize()
	}
	s.finalized = true
}

// ProfileCount sums profiles across channels.
func (s *FileState) ProfileCount() int {
	total := 0
	for _, ch := range s.Channels {
		total += ch.Profiles.Len()
	}
	return total
}
