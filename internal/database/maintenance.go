package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Reset wipes every data row of the local sheets. Header rows and the schema
// stay, so the app can continue running; event type defaults are reseeded.
func Reset(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("reset: db not configured")
	}
	if err := WithTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM sheet_rows"); err != nil {
			return fmt.Errorf("reset rows: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = db.ExecContext(ctx, "VACUUM")
	return SeedDefaults(ctx, db)
}
