package record

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// MaxDays bounds the magnitude of an accepted day count. Day 2958465 is
// 9999-12-31.
const MaxDays = 2958465

// Epoch is day 1 of the spreadsheet date system.
var Epoch = time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC)

// DecodeTime converts a spreadsheet day count to an instant. One day is
// subtracted because the spreadsheet counts 1900-02-29, which never existed;
// the correction is exact only for days >= 61, matching the recorder.
func DecodeTime(days float64) time.Time {
	offset := days - 1
	whole := math.Floor(offset)
	micros := math.Round((offset - whole) * float64(24*time.Hour/time.Microsecond))
	return Epoch.AddDate(0, 0, int(whole)).Add(time.Duration(micros) * time.Microsecond)
}

// ParseTime decodes the textual form of a day count.
func ParseTime(value string) (time.Time, error) {
	days, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return time.Time{}, err
	}
	if math.IsNaN(days) || math.IsInf(days, 0) {
		return time.Time{}, fmt.Errorf("day count %q is not finite", value)
	}
	if math.Abs(days) > MaxDays {
		return time.Time{}, fmt.Errorf("%w: %q exceeds %d days", ErrTimeOutOfRange, value, MaxDays)
	}
	return DecodeTime(days), nil
}
