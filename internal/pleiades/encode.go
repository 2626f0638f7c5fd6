package pleiades

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultIndent is the number of spaces per JSON nesting level.
const DefaultIndent = 4

// Write encodes places as an indented JSON array followed by a newline.
// HTML characters and non-ASCII text are written unescaped; nil slices
// are written as []. A negative indent selects DefaultIndent.
func Write(w io.Writer, places []Place, indent int) error {
	if indent < 0 {
		indent = DefaultIndent
	}
	out := make([]Place, len(places))
	copy(out, places)
	for i := range out {
		out[i].normalize()
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", indent))
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode places: %w", err)
	}
	return nil
}

// Marshal returns the bytes Write would produce.
func Marshal(places []Place, indent int) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, places, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes places to path, creating parent directories.
func WriteFile(path string, places []Place, indent int) error {
	data, err := Marshal(places, indent)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write places file: %w", err)
	}
	return nil
}

// Read decodes a JSON array of places.
func Read(r io.Reader) ([]Place, error) {
	var places []Place
	if err := json.NewDecoder(r).Decode(&places); err != nil {
		return nil, fmt.Errorf("failed to decode places: %w", err)
	}
	for i := range places {
		places[i].normalize()
	}
	return places, nil
}

// ReadFile decodes the places file at path.
func ReadFile(path string) ([]Place, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open places file: %w", err)
	}
	defer f.Close()
	return Read(f)
}
