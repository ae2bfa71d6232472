package sheets

import (
	"context"
	"fmt"

	"github.com/jask/sheetdesk/internal/database/repository"
)

// LocalStore keeps sheets in the local SQLite database. It backs
// development and demo runs; it never talks to the spreadsheet service.
type LocalStore struct {
	Sheets *repository.SheetRepo
}

func NewLocalStore(repo *repository.SheetRepo) *LocalStore {
	return &LocalStore{Sheets: repo}
}

func (s *LocalStore) Read(ctx context.Context, table string) (Table, error) {
	sheet, err := s.Sheets.Get(ctx, table)
	if err != nil {
		return Table{}, fmt.Errorf("read %s: %w", table, err)
	}
	if sheet == nil {
		return Table{}, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	rows, err := s.Sheets.Rows(ctx, table)
	if err != nil {
		return Table{}, fmt.Errorf("read %s: %w", table, err)
	}
	t := Table{Name: table, Headers: sheet.Headers, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, r.Cells)
	}
	return t, nil
}

func (s *LocalStore) Append(ctx context.Context, table string, row []string) error {
	sheet, err := s.Sheets.Get(ctx, table)
	if err != nil {
		return fmt.Errorf("append %s: %w", table, err)
	}
	if sheet == nil {
		return fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	if err := s.Sheets.AppendRow(ctx, table, row); err != nil {
		return fmt.Errorf("append %s: %w", table, err)
	}
	return nil
}

func (s *LocalStore) EnsureHeaders(ctx context.Context, table string, headers []string) error {
	sheet, err := s.Sheets.Get(ctx, table)
	if err != nil {
		return fmt.Errorf("headers %s: %w", table, err)
	}
	if sheet != nil && len(sheet.Headers) > 0 {
		return nil
	}
	return s.Sheets.Upsert(ctx, table, headers)
}
