package sheets

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/sheetdesk/internal/database"
	"github.com/jask/sheetdesk/internal/database/repository"
	"github.com/jask/sheetdesk/internal/schema"
)

func newLocal(t *testing.T) *LocalStore {
	t.Helper()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "sheets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewLocalStore(repository.NewSheetRepo(db))
}

// exerciseStore runs the behaviour every backend shares.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Read(ctx, schema.TableKeywords)
	require.ErrorIs(t, err, ErrUnknownTable)
	require.ErrorIs(t, s.Append(ctx, schema.TableKeywords, []string{"k1", "x"}), ErrUnknownTable)

	require.NoError(t, EnsureSchema(ctx, s))
	require.NoError(t, EnsureSchema(ctx, s))

	tbl, err := s.Read(ctx, schema.TableKeywords)
	require.NoError(t, err)
	require.Equal(t, []string{"id", "name"}, tbl.Headers)
	require.Empty(t, tbl.Rows)

	require.NoError(t, s.Append(ctx, schema.TableKeywords, []string{"k1", "economy"}))
	require.NoError(t, s.Append(ctx, schema.TableKeywords, []string{"k2"}))

	tbl, err = s.Read(ctx, schema.TableKeywords)
	require.NoError(t, err)
	recs := tbl.Records()
	require.Len(t, recs, 2)
	require.Equal(t, schema.Record{"id": "k1", "name": "economy"}, recs[0])
	require.Equal(t, schema.Record{"id": "k2", "name": ""}, recs[1])
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestLocalStore(t *testing.T) {
	exerciseStore(t, newLocal(t))
}

func TestRecordsDropsExtraCells(t *testing.T) {
	tbl := Table{
		Headers: []string{"id", "", "name"},
		Rows:    [][]string{{"1", "skip", "a", "overflow"}},
	}
	require.Equal(t, []schema.Record{{"id": "1", "name": "a"}}, tbl.Records())
}

func TestMemoryStoreReadIsACopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.EnsureHeaders(ctx, "T", []string{"a"}))
	require.NoError(t, s.Append(ctx, "T", []string{"1"}))

	tbl, err := s.Read(ctx, "T")
	require.NoError(t, err)
	tbl.Rows[0][0] = "changed"

	tbl, err = s.Read(ctx, "T")
	require.NoError(t, err)
	require.Equal(t, "1", tbl.Rows[0][0])
}
