package record

import "fmt"

// Polarization is the receive polarization of a channel.
type Polarization string

const (
	PolarizationPerpendicular Polarization = "perpendicular"
	PolarizationParallel      Polarization = "parallel"
	PolarizationWithout       Polarization = "without"
	PolarizationUnknown       Polarization = "unknown"
)

// OutValueType describes what the measurements of a DP record represent.
type OutValueType string

const (
	OutRawSignal             OutValueType = "raw signal"
	OutNumberOfPhotons       OutValueType = "number of photons"
	OutBackgroundCorrected   OutValueType = "background corrected"
	OutPhotonsRangeCorrected OutValueType = "photons range corrected"
	OutOverlapCorrection     OutValueType = "overlap correction"
	OutLidarSignal           OutValueType = "lidar signal"
)

var polarizationCodes = map[string]Polarization{
	"X": PolarizationPerpendicular,
	"/": PolarizationParallel,
	"O": PolarizationWithout,
	"U": PolarizationUnknown,
}

var outValueTypeCodes = map[string]OutValueType{
	"R":     OutRawSignal,
	"S":     OutNumberOfPhotons,
	"SB":    OutBackgroundCorrected,
	"SBR2":  OutPhotonsRangeCorrected,
	"OSB":   OutOverlapCorrection,
	"OSBR2": OutLidarSignal,
}

// ParsePolarization maps a DCLID polarization code.
func ParsePolarization(code string) (Polarization, error) {
	p, ok := polarizationCodes[code]
	if !ok {
		return "", fmt.Errorf("%w: polarization %q", ErrUnmappedCode, code)
	}
	return p, nil
}

// ParseOutValueType maps a DP output-value-type code.
func ParseOutValueType(code string) (OutValueType, error) {
	v, ok := outValueTypeCodes[code]
	if !ok {
		return "", fmt.Errorf("%w: output value type %q", ErrUnmappedCode, code)
	}
	return v, nil
}
