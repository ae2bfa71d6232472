package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// SheetRepo handles sheets and their rows.
type SheetRepo struct {
	db *sql.DB
}

func NewSheetRepo(db *sql.DB) *SheetRepo { return &SheetRepo{db: db} }

// Upsert creates the sheet or replaces its header row.
func (r *SheetRepo) Upsert(ctx context.Context, name string, headers []string) error {
	raw, err := encodeCells(headers)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
	INSERT INTO sheets(name, headers) VALUES (?, ?)
	ON CONFLICT(name) DO UPDATE SET headers=excluded.headers;
	`, name, raw)
	return err
}

// Get returns the named sheet, or nil when it does not exist.
func (r *SheetRepo) Get(ctx context.Context, name string) (*Sheet, error) {
	row := r.db.QueryRowContext(ctx, `SELECT name, headers, created_at FROM sheets WHERE name = ?`, name)
	var (
		s   Sheet
		raw string
	)
	if err := row.Scan(&s.Name, &raw, &s.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	headers, err := decodeCells(raw)
	if err != nil {
		return nil, fmt.Errorf("sheet %s headers: %w", name, err)
	}
	s.Headers = headers
	return &s, nil
}

// AppendRow stores cells after the last row of the sheet.
func (r *SheetRepo) AppendRow(ctx context.Context, name string, cells []string) error {
	raw, err := encodeCells(cells)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
	INSERT INTO sheet_rows(sheet, position, cells)
	SELECT ?, COALESCE(MAX(position), 0) + 1, ? FROM sheet_rows WHERE sheet = ?;
	`, name, raw, name)
	return err
}

// Rows lists the sheet's data rows in append order.
func (r *SheetRepo) Rows(ctx context.Context, name string) ([]SheetRow, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, sheet, position, cells, created_at FROM sheet_rows
	WHERE sheet = ? ORDER BY position`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SheetRow
	for rows.Next() {
		var (
			sr  SheetRow
			raw string
		)
		if err := rows.Scan(&sr.ID, &sr.Sheet, &sr.Position, &raw, &sr.CreatedAt); err != nil {
			return nil, err
		}
		if sr.Cells, err = decodeCells(raw); err != nil {
			return nil, fmt.Errorf("sheet %s row %d: %w", name, sr.Position, err)
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

// Count returns the number of data rows in the sheet.
func (r *SheetRepo) Count(ctx context.Context, name string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sheet_rows WHERE sheet = ?`, name).Scan(&n)
	return n, err
}

func encodeCells(cells []string) (string, error) {
	if cells == nil {
		cells = []string{}
	}
	b, err := json.Marshal(cells)
	if err != nil {
		return "", fmt.Errorf("encode cells: %w", err)
	}
	return string(b), nil
}

func decodeCells(raw string) ([]string, error) {
	var cells []string
	if err := json.Unmarshal([]byte(raw), &cells); err != nil {
		return nil, err
	}
	return cells, nil
}
