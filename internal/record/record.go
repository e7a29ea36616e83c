package record

import "time"

// Tag identifies the kind of a line.
type Tag string

const (
	TagFileVersion        Tag = "FILEV"
	TagInstrumentConfig   Tag = "INSCFG"
	TagChannelDescription Tag = "DCLID"
	TagDetectorParams     Tag = "DETPAR"
	TagOverlap            Tag = "OVL"
	TagAfterpulse         Tag = "AFPL"
	TagDataProfile        Tag = "DP"
)

// Record is implemented by every decoded line.
type Record interface {
	Tag() Tag
}

// ChannelRecord is a record addressed to a previously declared channel.
type ChannelRecord interface {
	Record
	Channel() string
}

// FileVersion carries the recorder software identity (FILEV).
type FileVersion struct {
	FileVersion     string
	SoftwareName    string
	SoftwareVersion string
}

// InstrumentConfig carries the instrument position and attitude (INSCFG).
type InstrumentConfig struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
	Roll      float64
	Pitch     float64
}

// ChannelDescription declares a channel and its door geometry (DCLID).
type ChannelDescription struct {
	ID                  string
	Group               string
	Name                string
	Doors               int
	SourceWavelengthNM  float64
	ReceiveWavelengthNM float64
	FWHM                float64
	Polarization        Polarization
	OneDoorRangeMetres  float64
	OneDoorTimeNS       float64
	OffsetRange         float64
	OffsetTime          float64
	CalibrationConstant float64
}

// DetectorParams is a detector calibration parameter set (DETPAR).
type DetectorParams struct {
	ChannelID string
	Time      time.Time
	Method    string
	Values    []float64
}

// Overlap is an overlap calibration vector (OVL).
type Overlap struct {
	ChannelID string
	Time      time.Time
	Values    []float64
}

// Afterpulse is an afterpulse calibration vector (AFPL).
type Afterpulse struct {
	ChannelID string
	Time      time.Time
	Values    []float64
}

// DataProfile is one measured profile across all doors of a channel (DP).
type DataProfile struct {
	ChannelID           string
	Time                time.Time
	NumberPulses        int64
	ProfileDuration     float64
	OutValueType        OutValueType
	AfterPulseCorrected string
	Measurements        []float64
	SkyBackground       string
	ErrorWarnings       string
}

func (FileVersion) Tag() Tag        { return TagFileVersion }
func (InstrumentConfig) Tag() Tag   { return TagInstrumentConfig }
func (ChannelDescription) Tag() Tag { return TagChannelDescription }
func (DetectorParams) Tag() Tag     { return TagDetectorParams }
func (Overlap) Tag() Tag            { return TagOverlap }
func (Afterpulse) Tag() Tag         { return TagAfterpulse }
func (DataProfile) Tag() Tag        { return TagDataProfile }

func (r DetectorParams) Channel() string { return r.ChannelID }
func (r Overlap) Channel() string        { return r.ChannelID }
func (r Afterpulse) Channel() string     { return r.ChannelID }
func (r DataProfile) Channel() string    { return r.ChannelID }
