package record

import (
	"fmt"
	"strings"
)

// DefaultSeparatorLine is the zero-based line whose last space-delimited
// token names the column separator.
const DefaultSeparatorLine = 5

// DetectSeparator returns the column separator declared on lines[index].
func DetectSeparator(lines []string, index int) (string, error) {
	if index < 0 || index >= len(lines) {
		return "", fmt.Errorf("%w: file has %d lines, separator expected on line %d", ErrNoSeparator, len(lines), index+1)
	}
	tokens := strings.Split(strings.TrimSpace(lines[index]), " ")
	sep := tokens[len(tokens)-1]
	if sep == "" {
		return "", fmt.Errorf("%w: line %d is blank", ErrNoSeparator, index+1)
	}
	return sep, nil
}
