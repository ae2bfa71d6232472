package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/jask/sheetdesk/internal/database/repository"
	"github.com/jask/sheetdesk/internal/schema"
)

// defaultEventTypes seeds EVENTTYPETAGS for new databases.
var defaultEventTypes = []schema.EventTypeTag{
	{Name: "Protest", Category: "civil"},
	{Name: "Election", Category: "political"},
	{Name: "Legislation", Category: "political"},
	{Name: "Statement", Category: "political"},
	{Name: "Violence", Category: "security"},
}

// SeedDefaults creates every schema sheet with its header row and a
// baseline set of event type tags.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	repo := repository.NewSheetRepo(db)
	for _, table := range schema.Tables() {
		existing, err := repo.Get(ctx, table)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if err := repo.Upsert(ctx, table, schema.Headers(table)); err != nil {
			return err
		}
	}

	n, err := repo.Count(ctx, schema.TableEventTypeTags)
	if err != nil || n > 0 {
		return err
	}
	for _, tag := range defaultEventTypes {
		tag.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("event:"+tag.Name)).String()
		if err := repo.AppendRow(ctx, schema.TableEventTypeTags, tag.Row()); err != nil {
			return err
		}
	}
	return nil
}
