package archive

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// layoutVersion is written to the SQLite header (PRAGMA user_version) when
// the tables are created. Archives carrying another non-zero value are
// refused and must be recreated.
const layoutVersion = 1

// migrate creates the tables in a fresh database and checks the layout
// version of an existing one.
func migrate(ctx context.Context, db *sql.DB, path string) error {
	var current int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("read archive layout version: %w", err)
	}
	switch current {
	case layoutVersion:
		return nil
	case 0:
		// New database; fall through to table creation.
	default:
		return fmt.Errorf("%w: %s has layout %d, want %d (remove it to start a new archive)",
			ErrSchemaMismatch, path, current, layoutVersion)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive setup: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create archive tables: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", layoutVersion)); err != nil {
		return fmt.Errorf("stamp archive layout: %w", err)
	}
	return tx.Commit()
}
