package testsupport

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// ChannelSpec describes one DCLID line of a synthetic instrument file.
type ChannelSpec struct {
	ID           string
	Name         string
	Doors        int
	Polarization string
	OneDoorRange float64
	OffsetRange  float64
}

// ProfileSpec describes one DP line. Days is the spreadsheet day count.
type ProfileSpec struct {
	Channel string
	Days    float64
	Type    string
	Values  []float64
}

// InstrumentSpec describes a synthetic instrument file.
type InstrumentSpec struct {
	Separator string
	Channels  []ChannelSpec
	Profiles  []ProfileSpec
	// Extra lines are appended verbatim after the profiles.
	Extra []string
}

// DefaultInstrumentSpec returns a small three-channel file with two profiles
// on channel 1 and one on channel 2.
func DefaultInstrumentSpec() InstrumentSpec {
	return InstrumentSpec{
		Separator: "|",
		Channels: []ChannelSpec{
			{ID: "1", Name: "532 parallel", Doors: 4, Polarization: "/", OneDoorRange: 3, OffsetRange: 0},
			{ID: "2", Name: "532 perpendicular", Doors: 4, Polarization: "X", OneDoorRange: 3, OffsetRange: 0},
			{ID: "11", Name: "355 total", Doors: 3, Polarization: "O", OneDoorRange: 7.5, OffsetRange: -15},
		},
		Profiles: []ProfileSpec{
			{Channel: "1", Days: 45000.5, Type: "R", Values: []float64{1, 2, 3, 4}},
			{Channel: "2", Days: 45000.5, Type: "R", Values: []float64{5, 6, 7, 8}},
			{Channel: "1", Days: 45000.75, Type: "SB", Values: []float64{9, 10, 11, 12}},
		},
	}
}

// InstrumentLines renders spec in the recorder's line format.
func InstrumentLines(spec InstrumentSpec) []string {
	sep := spec.Separator
	if sep == "" {
		sep = "|"
	}
	join := func(fields ...string) string { return strings.Join(fields, sep) }

	lines := []string{
		"LIDAR RECORDER EXPORT",
		"Site : synthetic",
		"Operator : test",
		"",
		"Comment : generated",
		"Column separator : " + sep,
		join("FILEV", "1.0", "LidarRecorder", "3.2.1"),
		join("INSCFG", "LR-01", "48.7133", "2.2081", "156", "0.1", "-0.2"),
	}
	for _, ch := range spec.Channels {
		lines = append(lines, join("DCLID", ch.ID, "G1", ch.Name, strconv.Itoa(ch.Doors),
			"532", "532", "1", ch.Polarization, formatFloat(ch.OneDoorRange), "20",
			formatFloat(ch.OffsetRange), "0", "1"))
	}
	if len(spec.Channels) > 0 {
		id := spec.Channels[0].ID
		lines = append(lines,
			join("DETPAR", id, "45000", "LIN", "0.5", "1.5"),
			join("OVL", id, "45000", "0.25", "0.5", "1"),
			join("AFPL", id, "45000", "0.01", "0.02"),
		)
	}
	for _, p := range spec.Profiles {
		typ := p.Type
		if typ == "" {
			typ = "R"
		}
		fields := []string{"DP", p.Channel, formatFloat(p.Days), "1000", "30", typ, "N"}
		for _, v := range p.Values {
			fields = append(fields, formatFloat(v))
		}
		fields = append(fields, "0.5", "0")
		lines = append(lines, join(fields...))
	}
	return append(lines, spec.Extra...)
}

// WriteInstrumentFile writes spec into dir and returns the file path.
func WriteInstrumentFile(t testing.TB, dir string, spec InstrumentSpec) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, "instrument.txt")
	content := strings.Join(InstrumentLines(spec), "\r\n") + "\r\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
