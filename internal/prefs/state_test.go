package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SHEETDESK_STATE_DIR", dir)

	s, err := LoadState()
	require.NoError(t, err)
	require.Equal(t, State{}, s)

	want := State{Page: 2, WikiType: "Movement", WikiTable: true, InstanceType: "exploitation"}
	require.NoError(t, SaveState(want))
	got, err := LoadState()
	require.NoError(t, err)
	require.Equal(t, want, got)

	require.NoError(t, os.WriteFile(filepath.Join(dir, stateFile), []byte("{"), 0o600))
	_, err = LoadState()
	require.Error(t, err)
}
