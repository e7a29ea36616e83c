package dataset_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"lidarcal/internal/dataset"
	"lidarcal/internal/record"
	"lidarcal/internal/testsupport"
)

func parseSpec(t *testing.T, spec testsupport.InstrumentSpec, opts dataset.Options) (*dataset.FileState, error) {
	t.Helper()
	text := strings.Join(testsupport.InstrumentLines(spec), "\n") + "\n"
	return dataset.Parse(context.Background(), strings.NewReader(text), opts)
}

func TestParseFileDefaultInstrument(t *testing.T) {
	path := testsupport.WriteInstrumentFile(t, t.TempDir(), testsupport.DefaultInstrumentSpec())

	state, err := dataset.ParseFile(context.Background(), path, dataset.Options{})
	require.NoError(t, err)
	require.True(t, state.Finalized())

	assert.Equal(t, []string{"1", "2", "11"}, state.ChannelIDs())
	require.NotNil(t, state.Metadata.Version)
	assert.Equal(t, "LidarRecorder", state.Metadata.Version.SoftwareName)
	require.NotNil(t, state.Metadata.Instrument)
	assert.InDelta(t, 48.7133, state.Metadata.Instrument.Latitude, 1e-9)

	ch1, ok := state.Channel("1")
	require.True(t, ok)
	want := mat.NewDense(2, 4, []float64{1, 2, 3, 4, 9, 10, 11, 12})
	assert.True(t, mat.Equal(want, ch1.Profiles.Data()), "channel 1 matrix:\n%v", mat.Formatted(ch1.Profiles.Data()))
	assert.Equal(t, []time.Time{
		time.Date(2023, time.March, 15, 12, 0, 0, 0, time.UTC),
		time.Date(2023, time.March, 15, 18, 0, 0, 0, time.UTC),
	}, ch1.Profiles.Time)
	assert.Equal(t, []record.OutValueType{record.OutRawSignal, record.OutBackgroundCorrected}, ch1.Profiles.OutValueType)
	assert.Equal(t, []int64{1000, 1000}, ch1.Profiles.NumberPulses)
	assert.Equal(t, []float64{30, 30}, ch1.Profiles.ProfileDuration)
	assert.Equal(t, []string{"N", "N"}, ch1.Profiles.AfterPulseCorrected)
	assert.Equal(t, record.PolarizationParallel, ch1.Polarization)

	require.NotNil(t, ch1.DetectorParams)
	assert.Equal(t, "LIN", ch1.DetectorParams.Method)
	assert.Equal(t, []float64{0.5, 1.5}, ch1.DetectorParams.Values)
	require.NotNil(t, ch1.Overlap)
	assert.Equal(t, []float64{0.25, 0.5, 1}, ch1.Overlap.Values)
	require.NotNil(t, ch1.Afterpulse)
	assert.Equal(t, []float64{0.01, 0.02}, ch1.Afterpulse.Values)

	ch2, _ := state.Channel("2")
	assert.Equal(t, 1, ch2.Profiles.Len())
	assert.Equal(t, record.PolarizationPerpendicular, ch2.Polarization)

	ch11, _ := state.Channel("11")
	assert.Nil(t, ch11.Profiles.Data())
	assert.Equal(t, 3, ch11.Profiles.Doors())
	assert.Equal(t, -15.0, ch11.OffsetRange)

	assert.Equal(t, 3, state.ProfileCount())
}

func TestParseSkipsUnknownTags(t *testing.T) {
	spec := testsupport.DefaultInstrumentSpec()
	spec.Extra = []string{"XYZZY|foo|bar", "", "NEWTAG|1|2|3"}
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	state, err := parseSpec(t, spec, dataset.Options{Logger: logger})
	require.NoError(t, err)
	assert.Equal(t, 3, state.ProfileCount())
	assert.Len(t, state.Channels, 3)

	logged := buf.String()
	assert.Contains(t, logged, `"tag":"XYZZY","line":18`)
	assert.Contains(t, logged, `"tag":"NEWTAG","line":20`)
	assert.NotContains(t, logged, `"tag":"","line":19`)
}

func TestParseUnknownChannelIsFatal(t *testing.T) {
	spec := testsupport.DefaultInstrumentSpec()
	spec.Profiles = append(spec.Profiles, testsupport.ProfileSpec{Channel: "99", Days: 45001, Values: []float64{1, 2, 3, 4}})

	state, err := parseSpec(t, spec, dataset.Options{})
	require.Error(t, err)
	assert.Nil(t, state)
	assert.ErrorIs(t, err, dataset.ErrUnknownChannel)

	var lineErr *dataset.LineError
	require.ErrorAs(t, err, &lineErr)
	// Six header lines, FILEV, INSCFG, three DCLID, three calibration lines, then four DP lines.
	assert.Equal(t, 18, lineErr.Number)
	assert.True(t, strings.HasPrefix(lineErr.Line, "DP|99|"))
}

func TestParseShapeMismatchIsFatal(t *testing.T) {
	spec := testsupport.DefaultInstrumentSpec()
	spec.Profiles[1].Values = []float64{1, 2, 3}

	_, err := parseSpec(t, spec, dataset.Options{})
	assert.ErrorIs(t, err, dataset.ErrShapeMismatch)
}

func TestParseDecodeErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*testsupport.InstrumentSpec)
		want   error
	}{
		{
			name:   "unmapped polarization",
			mutate: func(s *testsupport.InstrumentSpec) { s.Channels[0].Polarization = "Q" },
			want:   record.ErrUnmappedCode,
		},
		{
			name:   "unmapped output type",
			mutate: func(s *testsupport.InstrumentSpec) { s.Profiles[0].Type = "ZZ" },
			want:   record.ErrUnmappedCode,
		},
		{
			name:   "day count beyond the calendar",
			mutate: func(s *testsupport.InstrumentSpec) { s.Profiles[1].Days = 1e300 },
			want:   record.ErrTimeOutOfRange,
		},
		{
			name: "malformed measurement",
			mutate: func(s *testsupport.InstrumentSpec) {
				s.Extra = []string{"DP|1|45001|1000|30|R|N|1|two|3|4|0.5|0"}
			},
			want: record.ErrMalformedProfile,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := testsupport.DefaultInstrumentSpec()
			tc.mutate(&spec)

			state, err := parseSpec(t, spec, dataset.Options{})
			require.ErrorIs(t, err, tc.want)
			assert.Nil(t, state)

			var decodeErr *record.DecodeError
			assert.True(t, errors.As(err, &decodeErr), "expected DecodeError, got %T", err)
		})
	}
}

func TestParseMissingSeparatorLine(t *testing.T) {
	_, err := dataset.Parse(context.Background(), strings.NewReader("HEADER\nFILEV|1|a|b\n"), dataset.Options{})
	assert.ErrorIs(t, err, record.ErrNoSeparator)
}

func TestParseCustomSeparatorLine(t *testing.T) {
	lines := testsupport.InstrumentLines(testsupport.DefaultInstrumentSpec())
	// Drop one header line so the separator sits on index 4.
	lines = append(lines[:3], lines[4:]...)

	state, err := dataset.Parse(context.Background(), strings.NewReader(strings.Join(lines, "\n")), dataset.Options{SeparatorLine: intPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, 3, state.ProfileCount())
}

func intPtr(v int) *int { return &v }

func TestParseSeparatorOnFirstLine(t *testing.T) {
	lines := testsupport.InstrumentLines(testsupport.DefaultInstrumentSpec())
	// Keep only the separator line ahead of the records.
	lines = append([]string{lines[5]}, lines[6:]...)
	text := strings.Join(lines, "\n")

	state, err := dataset.Parse(context.Background(), strings.NewReader(text), dataset.Options{SeparatorLine: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 3, state.ProfileCount())
	assert.Equal(t, []string{"1", "2", "11"}, state.ChannelIDs())
}

func TestParseAlternateSeparator(t *testing.T) {
	spec := testsupport.DefaultInstrumentSpec()
	spec.Separator = ";"

	state, err := parseSpec(t, spec, dataset.Options{})
	require.NoError(t, err)
	ch, _ := state.Channel("2")
	assert.Equal(t, "532 perpendicular", ch.Name)
}

func TestParseLatin1Names(t *testing.T) {
	spec := testsupport.DefaultInstrumentSpec()
	spec.Channels[0].Name = "voie \xe9lastique"

	state, err := parseSpec(t, spec, dataset.Options{Encoding: "latin1"})
	require.NoError(t, err)
	ch, _ := state.Channel("1")
	assert.Equal(t, "voie élastique", ch.Name)
}

func TestParseRejectsUnknownEncoding(t *testing.T) {
	_, err := parseSpec(t, testsupport.DefaultInstrumentSpec(), dataset.Options{Encoding: "ebcdic"})
	assert.ErrorContains(t, err, "unsupported encoding")
}

func TestParseHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	text := strings.Join(testsupport.InstrumentLines(testsupport.DefaultInstrumentSpec()), "\n")

	_, err := dataset.Parse(ctx, strings.NewReader(text), dataset.Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func largeSpec(profiles int) testsupport.InstrumentSpec {
	spec := testsupport.DefaultInstrumentSpec()
	spec.Profiles = nil
	for i := range profiles {
		id := []string{"1", "2", "11"}[i%3]
		doors := 4
		if id == "11" {
			doors = 3
		}
		values := make([]float64, doors)
		for j := range values {
			values[j] = float64(i*10 + j)
		}
		spec.Profiles = append(spec.Profiles, testsupport.ProfileSpec{
			Channel: id,
			Days:    45000 + float64(i)/1440,
			Type:    "R",
			Values:  values,
		})
	}
	return spec
}

func TestParseParallelMatchesSequential(t *testing.T) {
	spec := largeSpec(2000)

	seq, err := parseSpec(t, spec, dataset.Options{Workers: 1})
	require.NoError(t, err)
	par, err := parseSpec(t, spec, dataset.Options{Workers: 4})
	require.NoError(t, err)

	require.Equal(t, seq.ChannelIDs(), par.ChannelIDs())
	for _, id := range seq.ChannelIDs() {
		a, _ := seq.Channel(id)
		b, _ := par.Channel(id)
		assert.True(t, mat.Equal(a.Profiles.Data(), b.Profiles.Data()), "channel %s matrix differs", id)
		if diff := cmp.Diff(a.Profiles.Time, b.Profiles.Time); diff != "" {
			t.Fatalf("channel %s times differ (-seq +par):\n%s", id, diff)
		}
		assert.Equal(t, a.Profiles.OutValueType, b.Profiles.OutValueType)
	}
	assert.Equal(t, 2000, par.ProfileCount())
}

func TestParseParallelReportsEarliestError(t *testing.T) {
	spec := largeSpec(1200)
	// A malformed profile early on and an undeclared channel much later.
	lines := testsupport.InstrumentLines(spec)
	badIndex := 14 + 300
	lines[badIndex] = strings.Replace(lines[badIndex], "|3001|", "|bad|", 1)
	lines = append(lines, "DP|42|45000|1|1|R|N|1|2|3|4|0|0")

	for _, workers := range []int{1, 3, 8} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			_, err := dataset.Parse(context.Background(), strings.NewReader(strings.Join(lines, "\n")), dataset.Options{Workers: workers})
			require.ErrorIs(t, err, record.ErrMalformedProfile)

			var lineErr *dataset.LineError
			require.ErrorAs(t, err, &lineErr)
			assert.Equal(t, badIndex+1, lineErr.Number)
		})
	}
}
