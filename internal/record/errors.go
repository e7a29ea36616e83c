package record

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTag marks a line whose tag has no decoding rule. Callers skip it.
	ErrUnknownTag = errors.New("unknown record tag")
	// ErrUnmappedCode marks a polarization or output-value-type code outside the lookup tables.
	ErrUnmappedCode = errors.New("unmapped code")
	// ErrMalformedProfile marks a DP measurement that is not a number.
	ErrMalformedProfile = errors.New("malformed profile")
	// ErrMissingField marks a line with fewer fields than its tag requires.
	ErrMissingField = errors.New("missing field")
	// ErrTimeOutOfRange marks a day count beyond the representable calendar.
	ErrTimeOutOfRange = errors.New("day count out of range")
	// ErrNoSeparator marks a file whose separator line is absent or empty.
	ErrNoSeparator = errors.New("column separator not found")
)

// DecodeError describes a recognised line whose fields could not be converted.
type DecodeError struct {
	Tag   Tag
	Field string
	Line  string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode %s: %v", e.Tag, e.Err)
	}
	return fmt.Sprintf("decode %s field %s: %v", e.Tag, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeErr(tag Tag, field string, line string, err error) error {
	return &DecodeError{Tag: tag, Field: field, Line: line, Err: err}
}
