package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"lidarcal/internal/dataset"
)

const fileColumns = `id, source_path, file_version, software_name, software_version,
    latitude, longitude, altitude, roll, pitch,
    channel_count, profile_count, first_profile_at, last_profile_at, imported_at`

// Save archives a finalised state read from source and returns its record.
func (s *Store) Save(ctx context.Context, state *dataset.FileState, source string) (FileRecord, error) {
	if !state.Finalized() {
		return FileRecord{}, errors.New("save: file state not finalized")
	}
	ctx = ensureContext(ctx)
	if abs, err := filepath.Abs(source); err == nil {
		source = abs
	}

	rec := FileRecord{
		ID:           uuid.NewString(),
		SourcePath:   source,
		ChannelCount: len(state.Channels),
		ProfileCount: state.ProfileCount(),
		ImportedAt:   time.Now().UTC(),
	}
	if v := state.Metadata.Version; v != nil {
		rec.FileVersion = v.FileVersion
		rec.SoftwareName = v.SoftwareName
		rec.SoftwareVersion = v.SoftwareVersion
	}
	if ins := state.Metadata.Instrument; ins != nil {
		rec.Instrument = &Location{
			Latitude:  ins.Latitude,
			Longitude: ins.Longitude,
			Altitude:  ins.Altitude,
			Roll:      ins.Roll,
			Pitch:     ins.Pitch,
		}
	}
	rec.FirstProfileAt, rec.LastProfileAt = profileSpan(state)

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := insertFile(ctx, tx, rec); err != nil {
			return err
		}
		for pos, id := range state.ChannelIDs() {
			ch, _ := state.Channel(id)
			if err := insertChannel(ctx, tx, rec.ID, pos, ch); err != nil {
				return err
			}
			if err := insertProfiles(ctx, tx, rec.ID, ch); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return FileRecord{}, fmt.Errorf("save archive: %w", err)
	}
	return rec, nil
}

func insertFile(ctx context.Context, tx *sql.Tx, rec FileRecord) error {
	var lat, lon, alt, roll, pitch any
	if loc := rec.Instrument; loc != nil {
		lat, lon, alt, roll, pitch = loc.Latitude, loc.Longitude, loc.Altitude, loc.Roll, loc.Pitch
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO files (`+fileColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.SourcePath,
		nullableString(rec.FileVersion),
		nullableString(rec.SoftwareName),
		nullableString(rec.SoftwareVersion),
		lat, lon, alt, roll, pitch,
		rec.ChannelCount,
		rec.ProfileCount,
		nullableTime(rec.FirstProfileAt),
		nullableTime(rec.LastProfileAt),
		rec.ImportedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

func insertChannel(ctx context.Context, tx *sql.Tx, fileID string, pos int, ch *dataset.Channel) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO channels (
            file_id, channel_id, position, group_id, name, polarization, doors,
            source_wavelength, receive_wavelength, one_door_range, offset_range, profile_count
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fileID,
		ch.ID,
		pos,
		nullableString(ch.Group),
		nullableString(ch.Name),
		string(ch.Polarization),
		ch.Profiles.Doors(),
		ch.SourceWavelengthNM,
		ch.ReceiveWavelengthNM,
		ch.OneDoorRangeMetres,
		ch.OffsetRange,
		ch.Profiles.Len(),
	)
	if err != nil {
		return fmt.Errorf("insert channel %s: %w", ch.ID, err)
	}
	return nil
}

func insertProfiles(ctx context.Context, tx *sql.Tx, fileID string, ch *dataset.Channel) error {
	if ch.Profiles.Len() == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO profiles (
            file_id, channel_id, row_index, measured_at, number_pulses,
            out_value_type, profile_duration, after_pulse_corrected, data
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare profile insert: %w", err)
	}
	defer stmt.Close()

	p := ch.Profiles
	for i := 0; i < p.Len(); i++ {
		if _, err := stmt.ExecContext(ctx,
			fileID,
			ch.ID,
			i,
			p.Time[i].UTC().Format(time.RFC3339Nano),
			p.NumberPulses[i],
			string(p.OutValueType[i]),
			p.ProfileDuration[i],
			nullableString(p.AfterPulseCorrected[i]),
			encodeRow(p.Row(i)),
		); err != nil {
			return fmt.Errorf("insert profile %s/%d: %w", ch.ID, i, err)
		}
	}
	return nil
}

func profileSpan(state *dataset.FileState) (first, last *time.Time) {
	for _, ch := range state.Channels {
		for _, t := range ch.Profiles.Time {
			if first == nil || t.Before(*first) {
				v := t
				first = &v
			}
			if last == nil || t.After(*last) {
				v := t
				last = &v
			}
		}
	}
	return first, last
}

// List returns every archived file, oldest import first.
func (s *Store) List(ctx context.Context) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT `+fileColumns+` FROM files ORDER BY imported_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var files []FileRecord
	for rows.Next() {
		rec, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, rec)
	}
	return files, rows.Err()
}

// Get returns one archived file with its channels.
func (s *Store) Get(ctx context.Context, id string) (FileRecord, error) {
	ctx = ensureContext(ctx)
	rec, err := scanFile(s.db.QueryRowContext(ctx, `SELECT `+fileColumns+` FROM files WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return FileRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return FileRecord{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT channel_id, group_id, name, polarization, doors, source_wavelength,
                receive_wavelength, one_door_range, offset_range, profile_count
         FROM channels WHERE file_id = ? ORDER BY position`, id)
	if err != nil {
		return FileRecord{}, fmt.Errorf("query channels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ch          ChannelRecord
			group, name sql.NullString
		)
		if err := rows.Scan(&ch.ID, &group, &name, &ch.Polarization, &ch.Doors, &ch.SourceWavelength,
			&ch.ReceiveWavelength, &ch.OneDoorRange, &ch.OffsetRange, &ch.ProfileCount); err != nil {
			return FileRecord{}, fmt.Errorf("scan channel: %w", err)
		}
		ch.Group = group.String
		ch.Name = name.String
		rec.Channels = append(rec.Channels, ch)
	}
	if err := rows.Err(); err != nil {
		return FileRecord{}, fmt.Errorf("iterate channels: %w", err)
	}
	return rec, nil
}

// Delete removes an archived file with its channels and profiles.
func (s *Store) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)
	var affected int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete file: %w", err)
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
