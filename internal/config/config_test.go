package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func useTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "cfg", "config.toml")
	t.Setenv("SHEETDESK_CONFIG", path)
	return path
}

func TestLoadDefaults(t *testing.T) {
	useTempConfig(t)

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, BackendLocal, c.Sheets.Backend)
	require.Equal(t, "SHEETS_API_KEY", c.Sheets.APIKeyEnv)
	require.True(t, c.Forms.PersistNewOptions)
	require.Equal(t, "info", c.Log.Level)
	require.Contains(t, c.Database.Path, filepath.Join(".local", "share", "sheetdesk"))
}

func TestSaveThenLoad(t *testing.T) {
	path := useTempConfig(t)

	want := Config{
		Sheets: SheetsConfig{
			Backend:       BackendGoogle,
			SpreadsheetID: "abc123",
			APIKeyEnv:     "MY_KEY",
			APIKey:        "secret",
		},
		Database: DatabaseConfig{Path: "/tmp/x.db"},
		Log:      LogConfig{Path: "/tmp/x.log", Level: "debug"},
		UI:       UIConfig{DateFormat: "02/01/2006"},
		Forms:    FormsConfig{PersistNewOptions: false},
	}
	require.NoError(t, Save(want))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "secret")

	got, err := Load()
	require.NoError(t, err)
	want.Sheets.APIKey = ""
	require.Equal(t, want, got)
}

func TestEnvOverrides(t *testing.T) {
	useTempConfig(t)
	t.Setenv("SHEETDESK_SHEETS_BACKEND", "Memory")
	t.Setenv("SHEETDESK_FORMS_PERSIST_NEW_OPTIONS", "false")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, BackendMemory, c.Sheets.Backend)
	require.False(t, c.Forms.PersistNewOptions)
}

func TestValidate(t *testing.T) {
	useTempConfig(t)
	t.Setenv("SHEETDESK_SHEETS_BACKEND", "google")
	c, err := Load()
	require.NoError(t, err, "load leaves validation to the caller")
	require.ErrorContains(t, c.Validate(), "spreadsheet_id")

	c.Sheets.Backend = BackendMemory
	require.NoError(t, c.Validate())

	require.Error(t, Config{Sheets: SheetsConfig{Backend: "excel"}}.Validate())
	require.NoError(t, Config{Sheets: SheetsConfig{Backend: BackendMemory}}.Validate())
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := useTempConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[sheets\nbackend = "), 0o600))

	_, err := Load()
	require.ErrorContains(t, err, "read config")
}
