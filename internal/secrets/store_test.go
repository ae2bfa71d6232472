package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreFetchDelete(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SHEETDESK_KEYS_DIR", dir)

	_, err := FetchKey(SheetsKey)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, StoreKey(" Sheets ", "abc-123"))
	got, err := FetchKey(SheetsKey)
	require.NoError(t, err)
	require.Equal(t, "abc-123", got)

	raw, err := os.ReadFile(filepath.Join(dir, fileName))
	require.NoError(t, err)
	require.NotContains(t, string(raw), "abc-123")

	require.NoError(t, DeleteKey(SheetsKey))
	require.ErrorIs(t, DeleteKey(SheetsKey), ErrNotFound)
	require.Error(t, StoreKey("", "x"))
	require.Error(t, StoreKey(SheetsKey, " "))
}

func TestResolveOrder(t *testing.T) {
	t.Setenv("SHEETDESK_KEYS_DIR", t.TempDir())
	t.Setenv("TEST_SHEETS_KEY", "")

	require.Equal(t, "from-config", Resolve(SheetsKey, "TEST_SHEETS_KEY", " from-config "))

	require.NoError(t, StoreKey(SheetsKey, "from-file"))
	require.Equal(t, "from-file", Resolve(SheetsKey, "TEST_SHEETS_KEY", "from-config"))

	t.Setenv("TEST_SHEETS_KEY", "from-env")
	require.Equal(t, "from-env", Resolve(SheetsKey, "TEST_SHEETS_KEY", "from-config"))
}
