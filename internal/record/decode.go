package record

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type decodeFunc func(fields []string, line string) (Record, error)

var decoders = map[Tag]decodeFunc{
	TagFileVersion:        decodeFileVersion,
	TagInstrumentConfig:   decodeInstrumentConfig,
	TagChannelDescription: decodeChannelDescription,
	TagDetectorParams:     decodeDetectorParams,
	TagOverlap:            decodeOverlap,
	TagAfterpulse:         decodeAfterpulse,
	TagDataProfile:        decodeDataProfile,
}

// minFields is the smallest field count, tag included, each record kind accepts.
var minFields = map[Tag]int{
	TagFileVersion:        4,
	TagInstrumentConfig:   7,
	TagChannelDescription: 14,
	TagDetectorParams:     4,
	TagOverlap:            3,
	TagAfterpulse:         3,
	TagDataProfile:        9,
}

// SplitTag splits a line on sep and returns its tag with all fields.
// Surrounding whitespace is stripped from the line first.
func SplitTag(line, sep string) (Tag, []string) {
	fields := strings.Split(strings.TrimSpace(line), sep)
	return Tag(fields[0]), fields
}

// Known reports whether tag has a decoding rule.
func Known(tag Tag) bool {
	_, ok := decoders[tag]
	return ok
}

// Decode converts one line into its typed record. Lines whose tag has no
// decoding rule return ErrUnknownTag.
func Decode(line, sep string) (Record, error) {
	if sep == "" {
		return nil, ErrNoSeparator
	}
	tag, fields := SplitTag(line, sep)
	return DecodeFields(tag, fields, line)
}

// DecodeFields converts fields already split by SplitTag. line is kept for
// diagnostics only.
func DecodeFields(tag Tag, fields []string, line string) (Record, error) {
	decode, ok := decoders[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTag, string(tag))
	}
	if want := minFields[tag]; len(fields) < want {
		return nil, decodeErr(tag, "", line, fmt.Errorf("%w: got %d fields, want at least %d", ErrMissingField, len(fields), want))
	}
	return decode(fields, line)
}

func decodeFileVersion(f []string, _ string) (Record, error) {
	return FileVersion{
		FileVersion:     f[1],
		SoftwareName:    f[2],
		SoftwareVersion: f[3],
	}, nil
}

func decodeInstrumentConfig(f []string, line string) (Record, error) {
	p := fieldParser{tag: TagInstrumentConfig, fields: f, line: line}
	rec := InstrumentConfig{
		Latitude:  p.number(2, "latitude"),
		Longitude: p.number(3, "longitude"),
		Altitude:  p.number(4, "altitude"),
		Roll:      p.number(5, "roll"),
		Pitch:     p.number(6, "pitch"),
	}
	if p.err != nil {
		return nil, p.err
	}
	return rec, nil
}

func decodeChannelDescription(f []string, line string) (Record, error) {
	p := fieldParser{tag: TagChannelDescription, fields: f, line: line}
	rec := ChannelDescription{
		ID:                  f[1],
		Group:               f[2],
		Name:                f[3],
		Doors:               p.integer(4, "doors_nbr"),
		SourceWavelengthNM:  p.number(5, "source_wavelength"),
		ReceiveWavelengthNM: p.number(6, "receive_wavelength"),
		FWHM:                p.number(7, "fwhm"),
		OneDoorRangeMetres:  p.number(9, "one_door_range"),
		OneDoorTimeNS:       p.number(10, "one_door_time"),
		OffsetRange:         p.number(11, "offset_range"),
		OffsetTime:          p.number(12, "offset_time"),
		CalibrationConstant: p.number(13, "constant"),
	}
	if p.err != nil {
		return nil, p.err
	}
	if rec.Doors <= 0 {
		return nil, decodeErr(TagChannelDescription, "doors_nbr", line, fmt.Errorf("door count %d must be positive", rec.Doors))
	}
	pol, err := ParsePolarization(f[8])
	if err != nil {
		return nil, decodeErr(TagChannelDescription, "polarization", line, err)
	}
	rec.Polarization = pol
	return rec, nil
}

func decodeDetectorParams(f []string, line string) (Record, error) {
	p := fieldParser{tag: TagDetectorParams, fields: f, line: line}
	rec := DetectorParams{
		ChannelID: f[1],
		Time:      p.timestamp(2),
		Method:    f[3],
		Values:    p.numbers(4, len(f), "parameter_values"),
	}
	if p.err != nil {
		return nil, p.err
	}
	return rec, nil
}

func decodeOverlap(f []string, line string) (Record, error) {
	p := fieldParser{tag: TagOverlap, fields: f, line: line}
	rec := Overlap{
		ChannelID: f[1],
		Time:      p.timestamp(2),
		Values:    p.numbers(3, len(f), "overlap_values"),
	}
	if p.err != nil {
		return nil, p.err
	}
	return rec, nil
}

func decodeAfterpulse(f []string, line string) (Record, error) {
	p := fieldParser{tag: TagAfterpulse, fields: f, line: line}
	rec := Afterpulse{
		ChannelID: f[1],
		Time:      p.timestamp(2),
		Values:    p.numbers(3, len(f), "afterpulse_values"),
	}
	if p.err != nil {
		return nil, p.err
	}
	return rec, nil
}

// decodeDataProfile reads the six scalar fields, the measurements up to the
// last two columns, then the sky background and the error/warning code. The
// last two are kept as text; nothing downstream reads them.
func decodeDataProfile(f []string, line string) (Record, error) {
	p := fieldParser{tag: TagDataProfile, fields: f, line: line}
	n := len(f)
	rec := DataProfile{
		ChannelID:           f[1],
		Time:                p.timestamp(2),
		NumberPulses:        int64(p.integer(3, "nbr_pulse")),
		ProfileDuration:     p.number(4, "profile_duration"),
		AfterPulseCorrected: f[6],
		SkyBackground:       strings.TrimSpace(f[n-2]),
		ErrorWarnings:       f[n-1],
	}
	if p.err != nil {
		return nil, p.err
	}
	out, err := ParseOutValueType(f[5])
	if err != nil {
		return nil, decodeErr(TagDataProfile, "out_value_type", line, err)
	}
	rec.OutValueType = out

	rec.Measurements = make([]float64, 0, n-9)
	for i := 7; i < n-2; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(f[i]), 64)
		if err != nil {
			return nil, decodeErr(TagDataProfile, "measurements", line,
				fmt.Errorf("%w: column %d value %q", ErrMalformedProfile, i, f[i]))
		}
		rec.Measurements = append(rec.Measurements, v)
	}
	return rec, nil
}

// fieldParser converts fields and keeps the first failure.
type fieldParser struct {
	tag    Tag
	fields []string
	line   string
	err    error
}

func (p *fieldParser) fail(field string, err error) {
	if p.err == nil {
		p.err = decodeErr(p.tag, field, p.line, err)
	}
}

func (p *fieldParser) number(i int, field string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(p.fields[i]), 64)
	if err != nil {
		p.fail(field, err)
	}
	return v
}

func (p *fieldParser) integer(i int, field string) int {
	v, err := strconv.Atoi(strings.TrimSpace(p.fields[i]))
	if err != nil {
		p.fail(field, err)
	}
	return v
}

// numbers converts fields [from, to). A blank final field, left by a trailing
// separator, is ignored.
func (p *fieldParser) numbers(from, to int, field string) []float64 {
	if to > from && strings.TrimSpace(p.fields[to-1]) == "" {
		to--
	}
	out := make([]float64, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, p.number(i, field))
	}
	return out
}

func (p *fieldParser) timestamp(i int) time.Time {
	t, err := ParseTime(p.fields[i])
	if err != nil {
		p.fail("time", err)
	}
	return t
}
