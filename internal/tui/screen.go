package tui

import tea "github.com/charmbracelet/bubbletea"

// Screen is an overlay drawn above the active page. It gets every key
// before the page does. Update returns pop=true to close itself.
type Screen interface {
	Update(msg tea.Msg) (next Screen, cmd tea.Cmd, pop bool)
	View(width, height int) string
	Scope() string
	Title() string
}

type ScreenStack struct {
	items []Screen
}

func (s *ScreenStack) Push(screen Screen) {
	if screen == nil {
		return
	}
	s.items = append(s.items, screen)
}

func (s *ScreenStack) Pop() Screen {
	if len(s.items) == 0 {
		return nil
	}
	last := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return last
}

func (s ScreenStack) Top() Screen {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[len(s.items)-1]
}

func (s *ScreenStack) ReplaceTop(screen Screen) {
	if len(s.items) == 0 || screen == nil {
		return
	}
	s.items[len(s.items)-1] = screen
}

// Each calls fn for every screen, bottom first.
func (s ScreenStack) Each(fn func(Screen)) {
	for _, screen := range s.items {
		fn(screen)
	}
}

func (s ScreenStack) Len() int {
	return len(s.items)
}
