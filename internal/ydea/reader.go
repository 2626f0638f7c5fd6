// Package ydea reads the YDEA spreadsheet export. Header names are trimmed,
// the column aliases used by successive exports are resolved once per table,
// and each row is exposed as a name-keyed record.
package ydea

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/isawnyu/pleiades-dura-converter/internal/logging"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Fixed column names.
const (
	ColTitle       = "Title"
	ColDescription = "Description"
	ColAlias       = "Alias"
	ColInception   = "Inception"
	ColDissolved   = "Dissolved/demolished"
	ColGeometry    = "Coordinate location GEOJSON"
)

// ErrMissingColumn is returned when none of a column's aliases is present.
var ErrMissingColumn = errors.New("missing column")

// Column alias groups; the first alias present in the header wins.
var (
	placeTypeAliases = []string{"Place type", "Place Type"}
	sourceAliases    = []string{"Source", "source"}
	accuracyAliases  = []string{"Positional accuracy assessment info", "accuracy_document"}
)

// Options controls decoding.
type Options struct {
	Encoding  string // utf-8 (default), utf-8-sig, windows-1252, latin-1
	Delimiter rune   // default ','
}

// Table is a decoded export.
type Table struct {
	Fieldnames []string
	Rows       []Row

	placeTypeKey string
	sourceKey    string
	accuracyKey  string
}

// Row is one record keyed by trimmed header name.
type Row struct {
	Line   int // 1-based line of the record in the file
	fields map[string]string
	table  *Table
}

// ReadFile reads and decodes the export at path.
func ReadFile(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()
	return Read(f, opts)
}

// Read decodes an export from r.
func Read(r io.Reader, opts Options) (*Table, error) {
	dec, err := decoderFor(opts.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(transform.NewReader(r, dec))
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV input: %w", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	t := &Table{Fieldnames: make([]string, len(header))}
	for i, name := range header {
		trimmed := strings.TrimSpace(name)
		if trimmed != name {
			logging.ReadDebug("trimmed fieldname %q to %q", name, trimmed)
		}
		t.Fieldnames[i] = trimmed
	}

	if t.placeTypeKey, err = t.resolve("place-type", placeTypeAliases); err != nil {
		return nil, err
	}
	if t.sourceKey, err = t.resolve("source", sourceAliases); err != nil {
		return nil, err
	}
	if t.accuracyKey, err = t.resolve("accuracy", accuracyAliases); err != nil {
		return nil, err
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if isBlank(record) {
			continue
		}
		row := Row{Line: line, fields: make(map[string]string, len(t.Fieldnames)), table: t}
		for i, name := range t.Fieldnames {
			if i < len(record) {
				row.fields[name] = record[i]
			} else {
				row.fields[name] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}

	logging.Read("read %d rows with %d fields", len(t.Rows), len(t.Fieldnames))
	return t, nil
}

func (t *Table) resolve(what string, aliases []string) (string, error) {
	for _, a := range aliases {
		if t.HasField(a) {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: cannot find %s key in CSV fieldnames: %q", ErrMissingColumn, what, t.Fieldnames)
}

// HasField reports whether the trimmed header contains name.
func (t *Table) HasField(name string) bool {
	for _, f := range t.Fieldnames {
		if f == name {
			return true
		}
	}
	return false
}

// Get returns the cell for name, or "" if the column is absent.
func (r Row) Get(name string) string {
	return r.fields[name]
}

// Has reports whether the row's table has a column called name.
func (r Row) Has(name string) bool {
	_, ok := r.fields[name]
	return ok
}

// PlaceType returns the place-type cell under whichever alias is present.
func (r Row) PlaceType() string { return r.fields[r.table.placeTypeKey] }

// Source returns the source cell.
func (r Row) Source() string { return r.fields[r.table.sourceKey] }

// Accuracy returns the positional accuracy cell.
func (r Row) Accuracy() string { return r.fields[r.table.accuracyKey] }

// NewRow builds a row outside of a decoded table. Each alias group resolves
// to the alias present in fields, or to its first alias.
func NewRow(fields map[string]string) Row {
	t := &Table{}
	for k := range fields {
		t.Fieldnames = append(t.Fieldnames, k)
	}
	pick := func(aliases []string) string {
		if k, err := t.resolve("", aliases); err == nil {
			return k
		}
		return aliases[0]
	}
	t.placeTypeKey = pick(placeTypeAliases)
	t.sourceKey = pick(sourceAliases)
	t.accuracyKey = pick(accuracyAliases)
	return Row{fields: fields, table: t}
}

func decoderFor(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8", "utf-8-sig":
		// Strips a leading BOM when present.
		return unicode.UTF8BOM.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	case "latin-1", "latin1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder(), nil
	}
	return nil, fmt.Errorf("unsupported input encoding %q", name)
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
