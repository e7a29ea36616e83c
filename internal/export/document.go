package export

import (
	"time"

	"lidarcal/internal/dataset"
)

// Document is the top-level JSON shape.
type Document struct {
	DataDict     map[string]ChannelDoc `json:"data_dict"`
	MetadataDict MetadataDoc           `json:"metadata_dict"`
}

// ChannelDoc mirrors one dataset.Channel.
type ChannelDoc struct {
	IDChannel                   string         `json:"id_channel"`
	IDGroup                     string         `json:"id_group"`
	Name                        string         `json:"name"`
	SourceWavelengthNanometres  float64        `json:"source_wavelength_nanometres"`
	ReceiveWavelengthNanometres float64        `json:"receive_wavelength_nanometres"`
	FWHM                        float64        `json:"fwhm"`
	Polarization                string         `json:"polarization"`
	OneDoorRangeMetres          float64        `json:"one_door_range_metres"`
	OneDoorTimeNanoseconds      float64        `json:"one_door_time_nanoseconds"`
	OffsetRange                 float64        `json:"offset_range"`
	OffsetTime                  float64        `json:"offset_time"`
	Constant                    float64        `json:"constant"`
	DP                          ProfilesDoc    `json:"DP"`
	DETPAR                      *DetectorDoc   `json:"DETPAR,omitempty"`
	OVL                         *OverlapDoc    `json:"OVL,omitempty"`
	AFPL                        *AfterpulseDoc `json:"AFPL,omitempty"`
	LidarRange                  []float64      `json:"lidar_range,omitempty"`
}

// ProfilesDoc mirrors a ProfileBlock. Data holds one array per profile.
type ProfilesDoc struct {
	Time                []float64   `json:"time"`
	Data                [][]float64 `json:"data"`
	NumberPulses        []int64     `json:"number_pulses"`
	OutValueType        []string    `json:"out_value_type"`
	ProfileDuration     []float64   `json:"profile_duration"`
	AfterPulseCorrected []string    `json:"after_pulse_corrected"`
}

// DetectorDoc mirrors DetectorParameters.
type DetectorDoc struct {
	Time            float64   `json:"time"`
	Method          string    `json:"method"`
	ParameterValues []float64 `json:"parameter_values"`
}

// OverlapDoc mirrors OverlapCalibration.
type OverlapDoc struct {
	Time          float64   `json:"time"`
	OverlapValues []float64 `json:"overlap_values"`
}

// AfterpulseDoc mirrors AfterpulseCalibration.
type AfterpulseDoc struct {
	Time             float64   `json:"time"`
	AfterpulseValues []float64 `json:"afterpulse_values"`
}

// MetadataDoc holds the FILEV and INSCFG fields. Keys of an absent record
// are omitted.
type MetadataDoc struct {
	FileVersion     *string  `json:"file_version,omitempty"`
	SoftwareName    *string  `json:"software_name,omitempty"`
	SoftwareVersion *string  `json:"software_version,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	Altitude        *float64 `json:"altitude,omitempty"`
	Roll            *float64 `json:"roll,omitempty"`
	Pitch           *float64 `json:"pitch,omitempty"`
}

// Timestamp converts t to Unix epoch seconds with microsecond precision.
func Timestamp(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}

// Build converts state into its document form.
func Build(state *dataset.FileState) Document {
	doc := Document{
		DataDict:     make(map[string]ChannelDoc, len(state.Channels)),
		MetadataDict: buildMetadata(state.Metadata),
	}
	for _, id := range state.ChannelIDs() {
		ch, _ := state.Channel(id)
		doc.DataDict[id] = buildChannel(ch)
	}
	return doc
}

func buildChannel(ch *dataset.Channel) ChannelDoc {
	out := ChannelDoc{
		IDChannel:                   ch.ID,
		IDGroup:                     ch.Group,
		Name:                        ch.Name,
		SourceWavelengthNanometres:  ch.SourceWavelengthNM,
		ReceiveWavelengthNanometres: ch.ReceiveWavelengthNM,
		FWHM:                        ch.FWHM,
		Polarization:                string(ch.Polarization),
		OneDoorRangeMetres:          ch.OneDoorRangeMetres,
		OneDoorTimeNanoseconds:      ch.OneDoorTimeNS,
		OffsetRange:                 ch.OffsetRange,
		OffsetTime:                  ch.OffsetTime,
		Constant:                    ch.CalibrationConstant,
		DP:                          buildProfiles(ch.Profiles),
		LidarRange:                  ch.LidarRange,
	}
	if p := ch.DetectorParams; p != nil {
		out.DETPAR = &DetectorDoc{Time: Timestamp(p.Time), Method: p.Method, ParameterValues: nonNil(p.Values)}
	}
	if o := ch.Overlap; o != nil {
		out.OVL = &OverlapDoc{Time: Timestamp(o.Time), OverlapValues: nonNil(o.Values)}
	}
	if a := ch.Afterpulse; a != nil {
		out.AFPL = &AfterpulseDoc{Time: Timestamp(a.Time), AfterpulseValues: nonNil(a.Values)}
	}
	return out
}

func buildProfiles(b *dataset.ProfileBlock) ProfilesDoc {
	n := b.Len()
	out := ProfilesDoc{
		Time:                make([]float64, n),
		Data:                make([][]float64, n),
		NumberPulses:        make([]int64, n),
		OutValueType:        make([]string, n),
		ProfileDuration:     make([]float64, n),
		AfterPulseCorrected: make([]string, n),
	}
	for i := 0; i < n; i++ {
		out.Time[i] = Timestamp(b.Time[i])
		out.Data[i] = b.Row(i)
		out.NumberPulses[i] = b.NumberPulses[i]
		out.OutValueType[i] = string(b.OutValueType[i])
		out.ProfileDuration[i] = b.ProfileDuration[i]
		out.AfterPulseCorrected[i] = b.AfterPulseCorrected[i]
	}
	return out
}

func buildMetadata(m dataset.Metadata) MetadataDoc {
	var out MetadataDoc
	if v := m.Version; v != nil {
		out.FileVersion = &v.FileVersion
		out.SoftwareName = &v.SoftwareName
		out.SoftwareVersion = &v.SoftwareVersion
	}
	if ins := m.Instrument; ins != nil {
		out.Latitude = &ins.Latitude
		out.Longitude = &ins.Longitude
		out.Altitude = &ins.Altitude
		out.Roll = &ins.Roll
		out.Pitch = &ins.Pitch
	}
	return out
}

func nonNil(values []float64) []float64 {
	if values == nil {
		return []float64{}
	}
	return values
}
