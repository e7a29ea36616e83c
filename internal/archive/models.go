package archive

import "time"

// FileRecord summarises one archived instrument file.
type FileRecord struct {
	ID              string     `json:"id"`
	SourcePath      string     `json:"source_path"`
	FileVersion     string     `json:"file_version,omitempty"`
	SoftwareName    string     `json:"software_name,omitempty"`
	SoftwareVersion string     `json:"software_version,omitempty"`
	ChannelCount    int        `json:"channel_count"`
	ProfileCount    int        `json:"profile_count"`
	FirstProfileAt  *time.Time `json:"first_profile_at,omitempty"`
	LastProfileAt   *time.Time `json:"last_profile_at,omitempty"`
	ImportedAt      time.Time  `json:"imported_at"`

	// Instrument is nil when the file had no INSCFG record.
	Instrument *Location `json:"instrument,omitempty"`
	// Channels is populated by Get only.
	Channels []ChannelRecord `json:"channels,omitempty"`
}

// Location is the instrument position recorded by INSCFG.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
	Roll      float64 `json:"roll"`
	Pitch     float64 `json:"pitch"`
}

// ChannelRecord summarises one archived channel.
type ChannelRecord struct {
	ID                string  `json:"id"`
	Group             string  `json:"group,omitempty"`
	Name              string  `json:"name,omitempty"`
	Polarization      string  `json:"polarization"`
	Doors             int     `json:"doors"`
	SourceWavelength  float64 `json:"source_wavelength_nanometres"`
	ReceiveWavelength float64 `json:"receive_wavelength_nanometres"`
	OneDoorRange      float64 `json:"one_door_range_metres"`
	OffsetRange       float64 `json:"offset_range"`
	ProfileCount      int     `json:"profile_count"`
}
