// Package manifest reads the CSV manifest that lists the call records to
// export.
//
// The first record is the header. Columns are looked up by name, so the
// manifest may carry any number of extra columns in any order.
//
// # Basic Usage
//
//	m, err := manifest.ParseFile("calls.csv", manifest.Options{})
//	if err != nil {
//	    // errors.Is(err, manifest.ErrNotFound) or manifest.ErrMalformed
//	}
//
//	urlCol, err := m.Column("recording_url")
//	if err != nil {
//	    // errors.Is(err, manifest.ErrMissingColumn)
//	}
//
//	for _, row := range m.Rows {
//	    fmt.Println(row.Line, row.Field(urlCol))
//	}
//
// # Lenient and Strict Modes
//
// By default rows that fail to parse (wrong number of fields, broken
// quoting) are skipped and counted in Manifest.Skipped. With
// Options.Strict the first such row aborts parsing with ErrMalformed.
package manifest
