package repository

import "time"

// Sheet represents a sheets row: one named table and its header row.
type Sheet struct {
	Name      string
	Headers   []string
	CreatedAt time.Time
}

// SheetRow represents one stored data row of a sheet.
type SheetRow struct {
	ID        int64
	Sheet     string
	Position  int
	Cells     []string
	CreatedAt time.Time
}
