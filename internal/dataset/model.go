package dataset

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"lidarcal/internal/record"
)

// Placeholder fills the provisional row a freshly declared channel reports
// until its first profile is finalised away.
const Placeholder = -9999.0

// Metadata holds the file-scoped records. Nil fields were absent from the file.
type Metadata struct {
	Version    *record.FileVersion
	Instrument *record.InstrumentConfig
}

// DetectorParameters is the detector calibration attached to a channel.
type DetectorParameters struct {
	Time   time.Time
	Method string
	Values []float64
}

// OverlapCalibration is the overlap correction attached to a channel.
type OverlapCalibration struct {
	Time   time.Time
	Values []float64
}

// AfterpulseCalibration is the afterpulse correction attached to a channel.
type AfterpulseCalibration struct {
	Time   time.Time
	Values []float64
}

// Channel is one declared detection path with its profile history.
type Channel struct {
	record.ChannelDescription

	Profiles       *ProfileBlock
	DetectorParams *DetectorParameters
	Overlap        *OverlapCalibration
	Afterpulse     *AfterpulseCalibration

	// LidarRange is the range axis in metres, one entry per door. It stays
	// nil until calibration computes it.
	LidarRange []float64
}

func newChannel(desc record.ChannelDescription) *Channel {
	return &Channel{
		ChannelDescription: desc,
		Profiles:           newProfileBlock(desc.Doors),
	}
}

// ProfileBlock accumulates one row per DP record and the per-profile values
// recorded alongside it. All slices stay index aligned with the matrix rows.
type ProfileBlock struct {
	Time                []time.Time
	NumberPulses        []int64
	OutValueType        []record.OutValueType
	ProfileDuration     []float64
	AfterPulseCorrected []string

	doors     int
	rows      [][]float64
	data      *mat.Dense
	finalized bool
}

func newProfileBlock(doors int) *ProfileBlock {
	return &ProfileBlock{doors: doors}
}

// Doors returns the fixed column count.
func (b *ProfileBlock) Doors() int { return b.doors }

// Len returns the number of profiles appended so far.
func (b *ProfileBlock) Len() int { return len(b.Time) }

// Finalized reports whether the matrix has been materialised.
func (b *ProfileBlock) Finalized() bool { return b.finalized }

func (b *ProfileBlock) append(p record.DataProfile) error {
	if b.finalized {
		return ErrFinalized
	}
	if len(p.Measurements) != b.doors {
		return fmt.Errorf("%w: channel %s profile has %d values, want %d",
			ErrShapeMismatch, p.ChannelID, len(p.Measurements), b.doors)
	}
	row := make([]float64, b.doors)
	copy(row, p.Measurements)
	b.rows = append(b.rows, row)
	b.Time = append(b.Time, p.Time)
	b.NumberPulses = append(b.NumberPulses, p.NumberPulses)
	b.OutValueType = append(b.OutValueType, p.OutValueType)
	b.ProfileDuration = append(b.ProfileDuration, p.ProfileDuration)
	b.AfterPulseCorrected = append(b.AfterPulseCorrected, p.AfterPulseCorrected)
	return nil
}

func (b *ProfileBlock) finalize() {
	if b.finalized {
		return
	}
	b.finalized = true
	if len(b.rows) == 0 {
		return
	}
	b.data = mat.NewDense(len(b.rows), b.doors, nil)
	for i, row := range b.rows {
		b.data.SetRow(i, row)
	}
	b.rows = nil
}

// Data returns the measurement matrix. After finalisation it is the live
// matrix holding exactly one row per profile, or nil when the channel has
// none. Before finalisation it is a snapshot that leads with the placeholder
// row.
func (b *ProfileBlock) Data() *mat.Dense {
	if b.finalized {
		return b.data
	}
	m := mat.NewDense(len(b.rows)+1, b.doors, nil)
	for j := 0; j < b.doors; j++ {
		m.Set(0, j, Placeholder)
	}
	for i, row := range b.rows {
		m.SetRow(i+1, row)
	}
	return m
}

// Row returns profile i. After finalisation the slice aliases the matrix.
func (b *ProfileBlock) Row(i int) []float64 {
	if b.finalized {
		return b.data.RawRowView(i)
	}
	return b.rows[i]
}
