// Package tui is the terminal front end: four browse pages plus the entry
// forms drawn over them.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jask/sheetdesk/internal/catalog"
	"github.com/jask/sheetdesk/internal/prefs"
	"github.com/jask/sheetdesk/internal/schema"
)

// Model is the root Bubble Tea model.
type Model struct {
	ctx     context.Context
	catalog *catalog.Catalog
	log     *zap.Logger
	options catalog.Options

	dateFormat string

	pages   []Page
	active  int
	screens ScreenStack
	keys    *KeyRegistry

	searching bool
	search    textinput.Model

	status    string
	statusErr bool
	width     int
	height    int
	quitting  bool

	saveState func(prefs.State) error
}

// NewModel builds the app over c, restoring the UI position from state.
func NewModel(ctx context.Context, c *catalog.Catalog, log *zap.Logger, state prefs.State) Model {
	if log == nil {
		log = zap.NewNop()
	}
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search"

	wiki := NewWikiPage()
	wiki.setEntityType(state.WikiType)
	wiki.tableView = state.WikiTable
	instances := NewInstancesPage()
	instances.setInstanceType(state.InstanceType)

	m := Model{
		ctx:       ctx,
		catalog:   c,
		log:       log,
		pages:     []Page{wiki, NewReportingPage(), instances, NewTimelinePage()},
		keys:      NewKeyRegistry(DefaultKeyBindings()),
		search:    search,
		status:    "Ready",
		width:     100,
		height:    32,
		saveState: prefs.SaveState,

		dateFormat: schema.DateLayout,
	}
	if state.Page >= 0 && state.Page < len(m.pages) {
		m.active = state.Page
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadOptions(), m.activePage().Load(m.ctx, m.catalog))
}

func (m Model) loadOptions() tea.Cmd {
	ctx, c := m.ctx, m.catalog
	return func() tea.Msg {
		opts, warnings := c.LoadOptions(ctx)
		return optionsLoadedMsg{Options: opts, Warnings: warnings}
	}
}

func (m Model) activePage() Page { return m.pages[m.active] }

// SetDateFormat sets the Go time layout dates are shown with. An empty
// layout keeps the current one.
func (m *Model) SetDateFormat(layout string) {
	if strings.TrimSpace(layout) != "" {
		m.dateFormat = layout
	}
}

// dateWidth is the widest a formatted date gets.
func (m *Model) dateWidth() int {
	return lipgloss.Width(m.formatDate(time.Date(2006, time.September, 28, 0, 0, 0, 0, time.UTC)))
}

func (m *Model) formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(m.dateFormat)
}

// State captures the UI position for the next run.
func (m Model) State() prefs.State {
	s := prefs.State{Page: m.active}
	for _, p := range m.pages {
		switch p := p.(type) {
		case *WikiPage:
			s.WikiType = p.EntityType()
			s.WikiTable = p.tableView
		case *InstancesPage:
			s.InstanceType = p.InstanceType()
		}
	}
	return s
}

// ActiveScope names the key scope that currently owns the keyboard.
func (m Model) ActiveScope() string {
	if top := m.screens.Top(); top != nil {
		return top.Scope()
	}
	if m.searching {
		return scopeSearch
	}
	return m.activePage().Scope()
}

func (m *Model) SetStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) SetError(err error) {
	if err == nil {
		m.status = ""
		m.statusErr = false
		return
	}
	m.status = err.Error()
	m.statusErr = true
}

func (m *Model) switchPage(i int) tea.Cmd {
	if i < 0 || i >= len(m.pages) || i == m.active {
		return nil
	}
	m.active = i
	m.searching = false
	m.search.Blur()
	return m.activePage().Load(m.ctx, m.catalog)
}

// openForm shows f over the active page.
func (m *Model) openForm(f *Form) tea.Cmd {
	m.screens.Push(f)
	return nil
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	if m.saveState != nil {
		if err := m.saveState(m.State()); err != nil {
			m.log.Warn("save ui state", zap.Error(err))
		}
	}
	return tea.Quit
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case StatusMsg:
		m.status = msg.Text
		m.statusErr = msg.IsErr
		return m, nil
	case PushScreenMsg:
		m.screens.Push(msg.Screen)
		return m, nil
	case PopScreenMsg:
		m.screens.Pop()
		return m, nil
	case PageSwitchMsg:
		cmd := m.switchPage(msg.Index)
		return m, cmd
	case ReloadMsg:
		return m, tea.Batch(m.loadOptions(), m.activePage().Load(m.ctx, m.catalog))
	case optionsLoadedMsg:
		m.options = msg.Options
		m.screens.Each(func(s Screen) {
			if r, ok := s.(interface{ SetOptions(catalog.Options) }); ok {
				r.SetOptions(msg.Options)
			}
		})
		if len(msg.Warnings) > 0 {
			m.SetError(fmt.Errorf("some options failed to load: %w", errors.Join(msg.Warnings...)))
		}
		return m, nil
	case pageLoadedMsg:
		for _, p := range m.pages {
			if p.ID() == msg.ID {
				p.Loaded(msg.Data, msg.Err)
			}
		}
		if msg.Err != nil {
			m.log.Warn("load page", zap.String("page", msg.ID), zap.Error(msg.Err))
			m.SetError(msg.Err)
		}
		return m, nil
	case tea.MouseMsg:
		if top := m.screens.Top(); top != nil {
			cmd := m.updateScreen(top, m.toScreen(top, msg))
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			cmd := m.quit()
			return m, cmd
		}
		if top := m.screens.Top(); top != nil {
			cmd := m.updateScreen(top, msg)
			return m, cmd
		}
		if m.searching {
			cmd := m.updateSearch(msg)
			return m, cmd
		}
		cmd := m.handleKey(msg)
		return m, cmd
	}

	if top := m.screens.Top(); top != nil {
		cmd := m.updateScreen(top, msg)
		return m, cmd
	}
	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateScreen(top Screen, msg tea.Msg) tea.Cmd {
	next, cmd, pop := top.Update(msg)
	if pop {
		m.screens.Pop()
		return cmd
	}
	m.screens.ReplaceTop(next)
	return cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	scope := m.ActiveScope()
	page := m.activePage()
	switch {
	case m.keys.IsAction(msg, actionQuit, scope):
		return m.quit()
	case m.keys.IsAction(msg, actionNextPage, scope):
		return m.switchPage((m.active + 1) % len(m.pages))
	case m.keys.IsAction(msg, "switch-page", scope):
		return m.switchPage(int(msg.String()[0] - '1'))
	case m.keys.IsAction(msg, actionReload, scope):
		m.SetStatus("Reloading")
		return reloadCmd
	case m.keys.IsAction(msg, actionSearch, scope):
		s, ok := page.(searchable)
		if !ok {
			return nil
		}
		m.searching = true
		m.search.SetValue(s.Query())
		m.search.CursorEnd()
		return m.search.Focus()
	}
	_, cmd := page.HandleKey(m, msg)
	return cmd
}

// updateSearch filters the page as the query is typed. Enter keeps the
// filter, esc clears it.
func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	s, _ := m.activePage().(searchable)
	switch {
	case m.keys.IsAction(msg, actionClose, scopeSearch):
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		if s != nil {
			s.SetQuery("")
		}
		return nil
	case m.keys.IsAction(msg, "apply", scopeSearch):
		m.searching = false
		m.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if s != nil {
		s.SetQuery(strings.TrimSpace(m.search.Value()))
	}
	return cmd
}

// bodyTop is the row where page content starts.
func (m Model) bodyTop() int {
	return lipgloss.Height(renderHeader(m)) + lipgloss.Height(renderStatusBar(m))
}

// toScreen translates a terminal mouse position into the coordinates of the
// popup body.
func (m Model) toScreen(top Screen, msg tea.MouseMsg) tea.MouseMsg {
	w, h := m.popupSize()
	bodyHeight := m.bodyHeight()
	card := popupStyle.Render(top.View(w, h))
	x, y, ok := popupOrigin(card, m.width, bodyHeight)
	if !ok {
		return msg
	}
	msg.X -= x + popupFrameX
	msg.Y -= m.bodyTop() + y + popupFrameY
	return msg
}

func (m Model) popupSize() (int, int) {
	return max(20, m.width-12), max(8, m.bodyHeight()-4)
}

func (m Model) bodyHeight() int {
	return max(0, m.height-m.bodyTop()-lipgloss.Height(renderFooter(m)))
}
