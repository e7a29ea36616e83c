package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Profiles reads back the measurement matrix of one archived channel, one row
// per profile in file order. A channel without profiles yields nil.
func (s *Store) Profiles(ctx context.Context, id, channel string) (*mat.Dense, error) {
	ctx = ensureContext(ctx)

	var doors, count int
	err := s.db.QueryRowContext(ctx,
		`SELECT doors, profile_count FROM channels WHERE file_id = ? AND channel_id = ?`,
		id, channel,
	).Scan(&doors, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s channel %s", ErrNotFound, id, channel)
	}
	if err != nil {
		return nil, fmt.Errorf("query channel: %w", err)
	}
	if count == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT row_index, data FROM profiles WHERE file_id = ? AND channel_id = ? ORDER BY row_index`,
		id, channel,
	)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	data := mat.NewDense(count, doors, nil)
	seen := 0
	for rows.Next() {
		var (
			index int
			blob  []byte
		)
		if err := rows.Scan(&index, &blob); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		if index < 0 || index >= count {
			return nil, fmt.Errorf("profile row %d outside 0..%d", index, count-1)
		}
		if err := decodeRow(data.RawRowView(index), blob); err != nil {
			return nil, fmt.Errorf("profile row %d: %w", index, err)
		}
		seen++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	if seen != count {
		return nil, fmt.Errorf("channel %s has %d stored profiles, want %d", channel, seen, count)
	}
	return data, nil
}
