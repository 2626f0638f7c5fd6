package pleiades

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/places.schema.json
var placesSchema string

const schemaURL = "https://pleiades.stoa.org/schema/places.schema.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func documentSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(schemaURL, strings.NewReader(placesSchema)); err != nil {
			compileErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Violation is one schema failure.
type Violation struct {
	Path    string // JSON pointer into the document
	Message string
}

// SchemaError lists every schema violation found in a document.
type SchemaError struct {
	Violations []Violation
}

func (e *SchemaError) Error() string {
	lines := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		path := v.Path
		if path == "" {
			path = "/"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", path, v.Message))
	}
	return fmt.Sprintf("%d schema violation(s):\n  %s", len(e.Violations), strings.Join(lines, "\n  "))
}

// ValidateDocument checks an encoded places document against the embedded
// JSON Schema. Violations are returned as a *SchemaError.
func ValidateDocument(data []byte) error {
	schema, err := documentSchema()
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	out := &SchemaError{}
	collect(verr, &out.Violations)
	sort.SliceStable(out.Violations, func(i, j int) bool {
		return out.Violations[i].Path < out.Violations[j].Path
	})
	return out
}

// collect gathers the leaf causes of a validation error.
func collect(e *jsonschema.ValidationError, into *[]Violation) {
	if len(e.Causes) == 0 {
		*into = append(*into, Violation{Path: e.InstanceLocation, Message: e.Message})
		return
	}
	for _, c := range e.Causes {
		collect(c, into)
	}
}
