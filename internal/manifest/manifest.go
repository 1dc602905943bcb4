package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrNotFound is returned when the manifest file cannot be opened.
	ErrNotFound = errors.New("manifest not found")

	// ErrMalformed is returned when the input is not tabular data, or in
	// strict mode when a row fails to parse.
	ErrMalformed = errors.New("manifest malformed")

	// ErrMissingColumn matches every *MissingColumnError.
	ErrMissingColumn = errors.New("manifest column not found")
)

// MissingColumnError reports a required column absent from the header.
type MissingColumnError struct {
	Name string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q not found in manifest header", e.Name)
}

// Is makes errors.Is(err, ErrMissingColumn) true for any missing column.
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// Options controls how rows are parsed.
type Options struct {
	// Strict aborts on the first row that fails to parse instead of
	// skipping it.
	Strict bool
}

// Manifest is a parsed CSV manifest.
type Manifest struct {
	// Path is the file the manifest was read from, empty for Parse.
	Path string

	// Headers holds the column names in file order.
	Headers []string

	// Rows holds the records that parsed cleanly, in file order.
	Rows []*Row

	// Skipped counts rows dropped in lenient mode.
	Skipped int

	index map[string]int
}

// Row is one manifest record. Rows are read-only after parsing.
type Row struct {
	// Line is the 1-based line on which the record starts.
	Line int

	fields   []string
	manifest *Manifest
}

// Field returns the value at position i, or "" when the row has no such
// field.
func (r *Row) Field(i int) string {
	if i < 0 || i >= len(r.fields) {
		return ""
	}
	return r.fields[i]
}

// Get returns the value for the named column.
func (r *Row) Get(name string) (string, bool) {
	i, ok := r.manifest.index[name]
	if !ok || i >= len(r.fields) {
		return "", false
	}
	return r.fields[i], true
}

// Len returns the number of fields in the row.
func (r *Row) Len() int {
	return len(r.fields)
}

// ParseFile opens and parses the manifest at path.
func ParseFile(path string, opts Options) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, path, err)
	}
	defer f.Close()

	m, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// Parse reads a manifest from r. The first record is the header.
func Parse(r io.Reader, opts Options) (*Manifest, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}

	// Spreadsheet exports often prefix the file with a byte order mark.
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	m := &Manifest{
		Headers: header,
		index:   make(map[string]int, len(header)),
	}
	for i, name := range header {
		if _, dup := m.index[name]; !dup {
			m.index[name] = i
		}
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			if opts.Strict {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			m.Skipped++
			continue
		}

		line, _ := reader.FieldPos(0)
		m.Rows = append(m.Rows, &Row{
			Line:     line,
			fields:   record,
			manifest: m,
		})
	}

	return m, nil
}

// Column returns the position of the named column.
func (m *Manifest) Column(name string) (int, error) {
	i, ok := m.index[name]
	if !ok {
		return 0, &MissingColumnError{Name: name}
	}
	return i, nil
}

// Len returns the number of rows.
func (m *Manifest) Len() int {
	return len(m.Rows)
}
