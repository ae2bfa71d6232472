package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

type fakeScreen struct{ hits int }

func (s *fakeScreen) Title() string        { return "Screen" }
func (s *fakeScreen) Scope() string        { return "screen:test" }
func (s *fakeScreen) View(int, int) string { return "screen" }
func (s *fakeScreen) Update(msg tea.Msg) (Screen, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok {
		s.hits++
		if km.String() == "esc" {
			return s, nil, true
		}
	}
	return s, nil, false
}

func TestScreenStack(t *testing.T) {
	var s ScreenStack
	require.Nil(t, s.Top())
	require.Nil(t, s.Pop())
	s.Push(nil)
	require.Zero(t, s.Len())

	a, b := &fakeScreen{}, &fakeScreen{}
	s.Push(a)
	s.Push(b)
	require.Equal(t, 2, s.Len())
	require.Same(t, b, s.Top())

	c := &fakeScreen{}
	s.ReplaceTop(c)
	require.Same(t, c, s.Pop())
	require.Same(t, a, s.Top())
}
