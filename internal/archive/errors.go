package archive

import "errors"

var (
	// ErrNotFound indicates no archived file matches the requested id.
	ErrNotFound = errors.New("archived file not found")
	// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
	// ErrLocked indicates another process holds the archive lock.
	ErrLocked = errors.New("archive is locked by another process")
)
