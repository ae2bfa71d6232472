// Package sheets reads and appends spreadsheet rows. The first row of every
// sheet is its header row.
package sheets

import (
	"context"
	"errors"

	"github.com/jask/sheetdesk/internal/schema"
)

// ErrUnknownTable is returned when the named sheet does not exist.
var ErrUnknownTable = errors.New("sheets: unknown table")

// Store is a spreadsheet used as a database.
type Store interface {
	// Read returns the header row and every data row of table.
	Read(ctx context.Context, table string) (Table, error)
	// Append adds one row after the last data row of table.
	Append(ctx context.Context, table string, row []string) error
	// EnsureHeaders creates table or writes its header row when missing.
	EnsureHeaders(ctx context.Context, table string, headers []string) error
}

// Table is a sheet's contents.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Records keys every row by header. Short rows are padded with empty cells;
// cells beyond the header row are dropped.
func (t Table) Records() []schema.Record {
	out := make([]schema.Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(schema.Record, len(t.Headers))
		for i, h := range t.Headers {
			if h == "" {
				continue
			}
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		out = append(out, rec)
	}
	return out
}

// EnsureSchema writes the header row of every schema table.
func EnsureSchema(ctx context.Context, s Store) error {
	for _, table := range schema.Tables() {
		if err := s.EnsureHeaders(ctx, table, schema.Headers(table)); err != nil {
			return err
		}
	}
	return nil
}

// split separates the header row from the data rows.
func split(name string, values [][]string) Table {
	t := Table{Name: name}
	if len(values) == 0 {
		return t
	}
	t.Headers = values[0]
	t.Rows = values[1:]
	return t
}
