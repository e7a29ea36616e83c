package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"lidarcal/internal/dataset"
	"lidarcal/internal/fileutil"
)

// Encode writes the JSON document for state to w. Indented output uses four
// spaces per level.
func Encode(w io.Writer, state *dataset.FileState, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "    ")
	}
	if err := enc.Encode(Build(state)); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// WriteFile replaces path with the JSON document for state. A failed encode
// leaves any existing file untouched.
func WriteFile(path string, state *dataset.FileState, indent bool) error {
	var buf bytes.Buffer
	if err := Encode(&buf, state, indent); err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
