package archive

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
)

func scanFile(scanner interface{ Scan(dest ...any) error }) (FileRecord, error) {
	var (
		rec                              FileRecord
		fileVersion, software, swVersion sql.NullString
		lat, lon, alt, roll, pitch       sql.NullFloat64
		firstRaw, lastRaw                sql.NullString
		importedRaw                      string
	)
	if err := scanner.Scan(
		&rec.ID,
		&rec.SourcePath,
		&fileVersion,
		&software,
		&swVersion,
		&lat, &lon, &alt, &roll, &pitch,
		&rec.ChannelCount,
		&rec.ProfileCount,
		&firstRaw,
		&lastRaw,
		&importedRaw,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return FileRecord{}, err
		}
		return FileRecord{}, fmt.Errorf("scan file: %w", err)
	}
	rec.FileVersion = fileVersion.String
	rec.SoftwareName = software.String
	rec.SoftwareVersion = swVersion.String
	if lat.Valid {
		rec.Instrument = &Location{
			Latitude:  lat.Float64,
			Longitude: lon.Float64,
			Altitude:  alt.Float64,
			Roll:      roll.Float64,
			Pitch:     pitch.Float64,
		}
	}
	if firstRaw.Valid {
		if t, err := parseTimeString(firstRaw.String); err == nil {
			rec.FirstProfileAt = &t
		}
	}
	if lastRaw.Valid {
		if t, err := parseTimeString(lastRaw.String); err == nil {
			rec.LastProfileAt = &t
		}
	}
	imported, err := parseTimeString(importedRaw)
	if err != nil {
		return FileRecord{}, fmt.Errorf("parse imported_at: %w", err)
	}
	rec.ImportedAt = imported
	return rec, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}

// encodeRow packs a profile as little-endian IEEE 754 doubles.
func encodeRow(row []float64) []byte {
	buf := make([]byte, 8*len(row))
	for i, v := range row {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	return buf
}

func decodeRow(dst []float64, blob []byte) error {
	if len(blob) != 8*len(dst) {
		return fmt.Errorf("profile blob has %d bytes, want %d", len(blob), 8*len(dst))
	}
	for i := range dst {
		dst[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[8*i:]))
	}
	return nil
}
