package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownChannel marks a channel record that precedes its DCLID declaration.
	ErrUnknownChannel = errors.New("unknown channel")
	// ErrShapeMismatch marks a DP record whose width differs from the declared door count.
	ErrShapeMismatch = errors.New("profile shape mismatch")
	// ErrFinalized marks an attempt to mutate a state after finalisation.
	ErrFinalized = errors.New("file state already finalized")
)

// LineError ties a fatal parse failure to its 1-based line number.
type LineError struct {
	Number int
	Line   string
	Err    error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Number, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
