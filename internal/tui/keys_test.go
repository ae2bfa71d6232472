package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyRegistryScopes(t *testing.T) {
	r := NewKeyRegistry(DefaultKeyBindings())

	require.True(t, r.IsAction(keyRunes("q"), actionQuit, "page:wiki"))
	require.False(t, r.IsAction(keyRunes("q"), actionQuit, scopeForm))
	require.True(t, r.IsAction(keyRunes("n"), actionNewEntry, "page:timeline"))
	require.True(t, r.IsAction(keyRunes("v"), actionToggleView, "page:wiki"))
	require.False(t, r.IsAction(keyRunes("v"), actionToggleView, "page:reporting"))
	require.True(t, r.IsAction(tea.KeyMsg{Type: tea.KeyCtrlS}, actionSubmit, scopeForm))
	require.True(t, r.IsAction(tea.KeyMsg{Type: tea.KeyShiftTab}, actionPrevField, scopeForm))
	require.True(t, r.IsAction(tea.KeyMsg{Type: tea.KeyTab}, actionNextPage, "page:instances"))
	require.False(t, r.IsAction(tea.KeyMsg{Type: tea.KeyTab}, actionNextPage, scopeForm))
}

func TestBindingsForScope(t *testing.T) {
	r := NewKeyRegistry(DefaultKeyBindings())
	actions := map[string]bool{}
	for _, b := range r.BindingsForScope(scopeForm) {
		actions[b.Action] = true
	}
	require.True(t, actions[actionSubmit])
	require.True(t, actions[actionClose])
	require.False(t, actions[actionQuit])
}
