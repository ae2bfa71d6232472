package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/sheetdesk/internal/catalog"
)

type StatusMsg struct {
	Text  string
	IsErr bool
}

type PushScreenMsg struct {
	Screen Screen
}

type PopScreenMsg struct{}

type PageSwitchMsg struct {
	Index int
}

// ReloadMsg asks the app to reload the option sets and the active page.
type ReloadMsg struct{}

// pageLoadedMsg carries the result of a page load to the page with ID.
type pageLoadedMsg struct {
	ID   string
	Data any
	Err  error
}

type optionsLoadedMsg struct {
	Options  catalog.Options
	Warnings []error
}

func StatusCmd(text string) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text} }
}

func reloadCmd() tea.Msg { return ReloadMsg{} }
