package catalog

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/jask/sheetdesk/internal/schema"
)

// ImportResult summarises a CSV import.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []error
}

// ImportCSV appends the rows of a CSV file to table. The first line names the
// columns; unknown columns are rejected. Rows without an identifier get a new
// one and rows whose identifier already exists are skipped.
func (c *Catalog) ImportCSV(ctx context.Context, table string, r io.Reader) (ImportResult, error) {
	table = schema.Canonical(table)
	if !schema.Known(table) {
		return ImportResult{}, fmt.Errorf("import: unknown table %q", table)
	}
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1

	header, err := csvr.Read()
	if err == io.EOF {
		return ImportResult{}, errors.New("import: empty file")
	}
	if err != nil {
		return ImportResult{}, fmt.Errorf("import header: %w", err)
	}
	cols, err := mapColumns(table, header)
	if err != nil {
		return ImportResult{}, err
	}

	idCol := schema.IDColumn(table)
	seen, err := c.existingIDs(ctx, table, idCol)
	if err != nil {
		return ImportResult{}, err
	}

	res := ImportResult{}
	line := 1
	for {
		line++
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		record := schema.Record{}
		for i, col := range cols {
			if i < len(rec) {
				record[col] = strings.TrimSpace(rec[i])
			}
		}
		if idCol != "" {
			if record[idCol] == "" {
				record[idCol] = c.id()
			}
			if seen[record[idCol]] {
				res.Skipped++
				continue
			}
		}
		target, _ := schema.Target(table)
		if err := schema.Decode(record, target); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if err := c.Store.Append(ctx, table, orderCells(table, record)); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d append: %w", line, err))
			continue
		}
		if idCol != "" {
			seen[record[idCol]] = true
		}
		res.Imported++
	}
	c.Log.Info("csv import",
		zap.String("table", table),
		zap.Int("imported", res.Imported),
		zap.Int("skipped", res.Skipped),
		zap.Int("errors", len(res.Errors)),
	)
	return res, nil
}

// ExportCSV writes table, header row first, as CSV.
func (c *Catalog) ExportCSV(ctx context.Context, table string, w io.Writer) (int, error) {
	tbl, err := c.Store.Read(ctx, schema.Canonical(table))
	if err != nil {
		return 0, err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(tbl.Headers); err != nil {
		return 0, err
	}
	for _, row := range tbl.Rows {
		cells := make([]string, len(tbl.Headers))
		copy(cells, row)
		if err := cw.Write(cells); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	return len(tbl.Rows), cw.Error()
}

func mapColumns(table string, header []string) ([]string, error) {
	known := map[string]bool{}
	for _, h := range schema.Headers(table) {
		known[h] = true
	}
	cols := make([]string, len(header))
	var unknown []string
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		if !known[h] {
			unknown = append(unknown, h)
			continue
		}
		cols[i] = h
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("import: %s has no column %s", table, strings.Join(unknown, ", "))
	}
	return cols, nil
}

func (c *Catalog) existingIDs(ctx context.Context, table, idCol string) (map[string]bool, error) {
	seen := map[string]bool{}
	if idCol == "" {
		return seen, nil
	}
	tbl, err := c.Store.Read(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	for _, rec := range tbl.Records() {
		if id := rec[idCol]; id != "" {
			seen[id] = true
		}
	}
	return seen, nil
}

func orderCells(table string, rec schema.Record) []string {
	h := schema.Headers(table)
	row := make([]string, len(h))
	for i, col := range h {
		row[i] = rec[col]
	}
	return row
}
