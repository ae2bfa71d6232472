// Package tagselect implements a multi-select tag field with on-the-fly tag
// creation.
//
// The host form owns the field value. The model hydrates from that value
// without reporting a change and reports every user edit that differs from
// the last value exchanged with the host as a single ChangedMsg. External
// resets arrive through SetValue and are never echoed back.
package tagselect

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultPlaceholder = "Select options..."

// ChangedMsg carries the full selection after a committed user edit.
type ChangedMsg struct {
	ID        string
	Selection []Option
}

// Config describes one tag field.
type Config struct {
	ID          string
	Options     []Option
	Value       []Option
	DisallowNew bool
	Placeholder string
	LabelledBy  string
	Width       int
}

// Model is the tag selector state.
type Model struct {
	id          string
	options     []Option
	selection   []Option
	lastHost    []Option
	input       textinput.Model
	open        bool
	focused     bool
	highlight   int
	allowNew    bool
	placeholder string
	labelledBy  string
	width       int
	bounds      region
	styles      Styles
}

type region struct {
	x, y, w, h int
	set        bool
}

func (r region) contains(x, y int) bool {
	return r.set && x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// New builds a model hydrated from cfg.Value. Hydration is not a change.
func New(cfg Config) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 128

	placeholder := strings.TrimSpace(cfg.Placeholder)
	if placeholder == "" {
		placeholder = defaultPlaceholder
	}
	width := cfg.Width
	if width <= 0 {
		width = 48
	}
	ti.Width = width

	m := Model{
		id:          cfg.ID,
		options:     clone(cfg.Options),
		selection:   clone(cfg.Value),
		lastHost:    clone(cfg.Value),
		input:       ti,
		highlight:   -1,
		allowNew:    !cfg.DisallowNew,
		placeholder: placeholder,
		labelledBy:  cfg.LabelledBy,
		width:       width,
		styles:      DefaultStyles(),
	}
	m.syncPlaceholder()
	return m
}

// ID returns the field key reported in ChangedMsg.
func (m Model) ID() string { return m.id }

// Value returns a copy of the current selection.
func (m Model) Value() []Option { return clone(m.selection) }

// Options returns the candidate set.
func (m Model) Options() []Option { return clone(m.options) }

// Query returns the pending search text.
func (m Model) Query() string { return m.input.Value() }

// Open reports whether the dropdown is showing.
func (m Model) Open() bool { return m.open }

// Focused reports whether the search input has focus.
func (m Model) Focused() bool { return m.focused }

// LabelledBy returns the caption the field is announced with.
func (m Model) LabelledBy() string { return m.labelledBy }

// AllowNew reports whether ad-hoc options may be created.
func (m Model) AllowNew() bool { return m.allowNew }

// SetOptions replaces the candidate set, typically once the host finished
// loading it. A nil list behaves as empty.
func (m *Model) SetOptions(options []Option) {
	m.options = clone(options)
	m.clampHighlight()
}

// SetValue applies a value coming from the host. It never produces a
// ChangedMsg; the selection is replaced only when it differs.
func (m *Model) SetValue(v []Option) {
	m.lastHost = clone(v)
	if !Equal(v, m.selection) {
		m.selection = clone(v)
		m.clampHighlight()
		m.syncPlaceholder()
	}
}

// SetQuery replaces the pending search text and opens the dropdown.
func (m *Model) SetQuery(q string) {
	m.input.SetValue(q)
	m.open = true
	m.highlight = -1
}

// SetWidth resizes the search input.
func (m *Model) SetWidth(w int) {
	if w <= 0 {
		return
	}
	m.width = w
	m.input.Width = w
}

// SetBounds records the screen region the widget was last drawn in, so that
// mouse presses outside it dismiss the dropdown.
func (m *Model) SetBounds(x, y, w, h int) {
	m.bounds = region{x: x, y: y, w: w, h: h, set: true}
}

// Focus gives the search input focus and opens the dropdown.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	m.open = true
	return m.input.Focus()
}

// Blur removes focus and dismisses the dropdown.
func (m *Model) Blur() {
	m.focused = false
	m.input.Blur()
	m.Dismiss()
}

// Dismiss closes the dropdown. Selection and search text are kept.
func (m *Model) Dismiss() {
	m.open = false
	m.highlight = -1
}

// Filtered lists the dropdown rows for the current search text.
func (m Model) Filtered() []Option {
	return Filter(m.options, m.selection, m.input.Value())
}

// CanCreate reports whether the pending text would become a new option.
func (m Model) CanCreate() bool {
	return CanCreate(m.options, m.selection, m.input.Value(), m.allowNew)
}

// Update handles keys while focused and mouse presses at any time.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || !m.bounds.set {
		return m, nil
	}
	if !m.bounds.contains(msg.X, msg.Y) {
		m.Dismiss()
		return m, nil
	}
	x, y := msg.X-m.bounds.x, msg.Y-m.bounds.y
	var focus tea.Cmd
	if !m.focused {
		focus = m.Focus()
	}
	m.open = true
	if y == 0 {
		if v, ok := m.chipMarkAt(x); ok {
			cmd := m.commit(Remove(m.selection, v))
			return m, tea.Batch(focus, cmd)
		}
		return m, focus
	}
	var cmd tea.Cmd
	switch row, kind := m.dropdownLineAt(y - 1); kind {
	case lineOption:
		cmd = m.selectOption(row)
	case lineAdd:
		cmd = m.createAdHoc()
	}
	return m, tea.Batch(focus, cmd)
}

// chipMarkAt reports the chip whose close mark sits at column x of the first
// line.
func (m Model) chipMarkAt(x int) (string, bool) {
	start := 0
	for _, o := range m.selection {
		w := lipgloss.Width(m.renderChip(o))
		mark := start + 1 + lipgloss.Width(o.Label) + 1
		if x >= mark && x <= mark+1 {
			return o.Value, true
		}
		start += w
	}
	return "", false
}

type dropdownLine int

const (
	lineNone dropdownLine = iota
	lineOption
	lineAdd
)

// dropdownLineAt maps line n of the rendered dropdown, border included, to
// what is drawn there.
func (m Model) dropdownLineAt(n int) (Option, dropdownLine) {
	n-- // top border
	if n < 0 {
		return Option{}, lineNone
	}
	rows := m.Filtered()
	start, end := visibleRange(len(rows), m.highlight)
	lines := end - start
	switch {
	case len(rows) == 0:
		lines = 1
	case n < lines:
		return rows[start+n], lineOption
	case len(rows) > end:
		lines++
	}
	if n == lines && m.CanCreate() {
		return Option{}, lineAdd
	}
	return Option{}, lineNone
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.open && m.highlight >= 0 {
			rows := m.Filtered()
			if m.highlight < len(rows) {
				cmd := m.selectOption(rows[m.highlight])
				return m, cmd
			}
		}
		if strings.TrimSpace(m.input.Value()) == "" {
			return m, nil
		}
		cmd := m.createAdHoc()
		return m, cmd
	case "backspace":
		if m.input.Value() == "" {
			if len(m.selection) == 0 {
				return m, nil
			}
			cmd := m.commit(RemoveLast(m.selection))
			return m, cmd
		}
	case "up":
		m.open = true
		if m.highlight > 0 {
			m.highlight--
		} else {
			m.highlight = -1
		}
		return m, nil
	case "down":
		m.open = true
		if m.highlight < len(m.Filtered())-1 {
			m.highlight++
		}
		return m, nil
	case "esc":
		m.Dismiss()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.open = true
		m.highlight = -1
	}
	return m, cmd
}

// RemoveTag removes the option with value v, as a click on its chip's close
// mark does.
func (m Model) RemoveTag(v string) (Model, tea.Cmd) {
	if !Contains(m.selection, v) {
		return m, nil
	}
	cmd := m.commit(Remove(m.selection, v))
	return m, cmd
}

// SelectOption adds o to the selection, as a click on its dropdown row does.
func (m Model) SelectOption(o Option) (Model, tea.Cmd) {
	cmd := m.selectOption(o)
	return m, cmd
}

func (m *Model) selectOption(o Option) tea.Cmd {
	m.input.SetValue("")
	m.highlight = -1
	if Contains(m.selection, o.Value) {
		return nil
	}
	return m.commit(Select(m.selection, o))
}

func (m *Model) createAdHoc() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if CanCreate(m.options, m.selection, text, m.allowNew) {
		return m.selectOption(NewOption(text))
	}
	// An exact label match is picked instead of duplicated.
	if o, ok := matchLabel(Filter(m.options, m.selection, ""), text); ok {
		return m.selectOption(o)
	}
	return nil
}

// commit stores next and reports it when it differs from the last value the
// host saw. A reported value counts as seen, so edits made before the host
// receives it are reported in turn.
func (m *Model) commit(next []Option) tea.Cmd {
	m.selection = next
	m.clampHighlight()
	m.syncPlaceholder()
	if Equal(next, m.lastHost) {
		return nil
	}
	m.lastHost = clone(next)
	id, sel := m.id, clone(next)
	if sel == nil {
		sel = []Option{}
	}
	return func() tea.Msg { return ChangedMsg{ID: id, Selection: sel} }
}

func (m *Model) clampHighlight() {
	if n := len(m.Filtered()); m.highlight >= n {
		m.highlight = n - 1
	}
}

func (m *Model) syncPlaceholder() {
	if len(m.selection) == 0 {
		m.input.Placeholder = m.placeholder
	} else {
		m.input.Placeholder = ""
	}
}
