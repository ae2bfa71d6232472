package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/sheetdesk/internal/catalog"
	"github.com/jask/sheetdesk/internal/schema"
	"github.com/jask/sheetdesk/internal/tagselect"
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldURL
	fieldDate
	fieldSelect
	fieldTags
)

type formField struct {
	key      string
	label    string
	kind     fieldKind
	required bool

	input textinput.Model

	choices []schema.Choice
	choice  int

	tags  tagselect.Model
	value []tagselect.Option

	// options picks the field's candidates out of a freshly loaded set.
	options func(catalog.Options) []tagselect.Option

	showIf func(f *Form) bool
}

func textField(key, label string, required bool) *formField {
	in := textinput.New()
	in.Prompt = "› "
	in.CharLimit = 2000
	return &formField{key: key, label: label, kind: fieldText, required: required, input: in}
}

func urlField(key, label string, required bool) *formField {
	f := textField(key, label, required)
	f.kind = fieldURL
	f.input.Placeholder = "https://"
	return f
}

func dateField(key, label string, required bool) *formField {
	f := textField(key, label, required)
	f.kind = fieldDate
	f.input.CharLimit = len(schema.DateLayout)
	f.input.Placeholder = "YYYY-MM-DD"
	return f
}

func selectField(key, label string, required bool, choices []schema.Choice) *formField {
	return &formField{key: key, label: label, kind: fieldSelect, required: required, choices: choices, choice: -1}
}

func tagField(key, label string, opts catalog.Options, from func(catalog.Options) []tagselect.Option, allowNew bool) *formField {
	return &formField{
		key:     key,
		label:   label,
		kind:    fieldTags,
		options: from,
		tags: tagselect.New(tagselect.Config{
			ID:          key,
			Options:     from(opts),
			DisallowNew: !allowNew,
			LabelledBy:  label,
		}),
	}
}

func (fl *formField) focus() tea.Cmd {
	switch fl.kind {
	case fieldTags:
		return fl.tags.Focus()
	case fieldSelect:
		return nil
	default:
		return fl.input.Focus()
	}
}

func (fl *formField) blur() {
	switch fl.kind {
	case fieldTags:
		fl.tags.Blur()
	case fieldSelect:
	default:
		fl.input.Blur()
	}
}

func (fl *formField) setWidth(w int) {
	switch fl.kind {
	case fieldTags:
		fl.tags.SetWidth(w)
	case fieldSelect:
	default:
		fl.input.Width = w
	}
}

func (fl *formField) cycle(delta int) {
	n := len(fl.choices)
	if n == 0 {
		return
	}
	if fl.choice < 0 {
		if delta > 0 {
			fl.choice = 0
		} else {
			fl.choice = n - 1
		}
		return
	}
	fl.choice = (fl.choice + delta + n) % n
}

func (fl *formField) selected() string {
	if fl.choice < 0 || fl.choice >= len(fl.choices) {
		return ""
	}
	return fl.choices[fl.choice].Value
}

func (fl *formField) view(focused bool) string {
	switch fl.kind {
	case fieldSelect:
		label := mutedStyle.Render("choose")
		if v := fl.selected(); v != "" {
			label = fl.choices[fl.choice].Label
		}
		arrows := mutedStyle
		if focused {
			arrows = focusedLabel
		}
		return arrows.Render("‹ ") + label + arrows.Render(" ›")
	case fieldTags:
		return fl.tags.View()
	default:
		return fl.input.View()
	}
}

// formResultMsg reports the outcome of a submission.
type formResultMsg struct {
	status string
	err    error
}

// Form is an entry form shown as an overlay. It owns the values of its tag
// fields and feeds every committed change back to the widget.
type Form struct {
	title  string
	fields []*formField
	focus  int
	width  int
	err    string
	busy   bool
	scroll int
	submit func(f *Form) tea.Cmd
}

func newForm(title string, fields []*formField, submit func(f *Form) tea.Cmd) *Form {
	f := &Form{title: title, fields: fields, focus: -1, width: 60, submit: submit}
	f.move(1)
	return f
}

func (f *Form) Title() string { return f.title }
func (f *Form) Scope() string { return scopeForm }

func (f *Form) field(key string) *formField {
	for _, fl := range f.fields {
		if fl.key == key {
			return fl
		}
	}
	return nil
}

func (f *Form) visible(fl *formField) bool {
	return fl.showIf == nil || fl.showIf(f)
}

// Text returns the trimmed value of a text, url or date field.
func (f *Form) Text(key string) string {
	if fl := f.field(key); fl != nil && fl.kind != fieldSelect && fl.kind != fieldTags {
		return strings.TrimSpace(fl.input.Value())
	}
	return ""
}

// Choice returns the chosen value of a select field, or "".
func (f *Form) Choice(key string) string {
	if fl := f.field(key); fl != nil && fl.kind == fieldSelect {
		return fl.selected()
	}
	return ""
}

// Tags returns the selection of a tag field.
func (f *Form) Tags(key string) []tagselect.Option {
	if fl := f.field(key); fl != nil && fl.kind == fieldTags {
		return append([]tagselect.Option(nil), fl.value...)
	}
	return nil
}

// Date parses a date field; an empty field is the zero time.
func (f *Form) Date(key string) (time.Time, error) {
	return schema.ParseDate(f.Text(key))
}

// SetText prefills a text field.
func (f *Form) SetText(key, value string) {
	if fl := f.field(key); fl != nil && fl.kind != fieldSelect && fl.kind != fieldTags {
		fl.input.SetValue(value)
	}
}

// SetChoice preselects value in a select field.
func (f *Form) SetChoice(key, value string) {
	fl := f.field(key)
	if fl == nil || fl.kind != fieldSelect {
		return
	}
	for i, c := range fl.choices {
		if c.Value == value {
			fl.choice = i
			return
		}
	}
}

// Focused returns the key of the focused field.
func (f *Form) Focused() string {
	if f.focus < 0 || f.focus >= len(f.fields) {
		return ""
	}
	return f.fields[f.focus].key
}

func (f *Form) current() *formField {
	if f.focus < 0 || f.focus >= len(f.fields) {
		return nil
	}
	return f.fields[f.focus]
}

// move focuses the next visible field in direction delta.
func (f *Form) move(delta int) tea.Cmd {
	n := len(f.fields)
	if n == 0 {
		return nil
	}
	next := f.focus
	for range n {
		next = (next + delta + n) % n
		if f.visible(f.fields[next]) {
			break
		}
	}
	return f.focusIndex(next)
}

func (f *Form) focusIndex(i int) tea.Cmd {
	if cur := f.current(); cur != nil {
		cur.blur()
	}
	f.focus = i
	return f.fields[i].focus()
}

func (f *Form) Update(msg tea.Msg) (Screen, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tagselect.ChangedMsg:
		if fl := f.field(msg.ID); fl != nil && fl.kind == fieldTags {
			fl.value = msg.Selection
		}
		return f, nil, false
	case formResultMsg:
		f.busy = false
		if msg.err != nil {
			f.err = msg.err.Error()
			return f, nil, false
		}
		return f, tea.Batch(StatusCmd(msg.status), reloadCmd), true
	case tea.MouseMsg:
		return f, f.handleMouse(msg), false
	case tea.KeyMsg:
		return f.handleKey(msg)
	}
	if cur := f.current(); cur != nil && cur.kind != fieldSelect && cur.kind != fieldTags {
		var cmd tea.Cmd
		cur.input, cmd = cur.input.Update(msg)
		return f, cmd, false
	}
	return f, nil, false
}

func (f *Form) handleKey(msg tea.KeyMsg) (Screen, tea.Cmd, bool) {
	cur := f.current()
	switch msg.String() {
	case "esc":
		if cur != nil && cur.kind == fieldTags && cur.tags.Open() {
			cur.tags.Dismiss()
			return f, nil, false
		}
		return f, nil, true
	case "tab":
		return f, f.move(1), false
	case "shift+tab":
		return f, f.move(-1), false
	case "ctrl+s":
		return f, f.trySubmit(), false
	}
	if cur == nil {
		return f, nil, false
	}

	switch cur.kind {
	case fieldSelect:
		switch msg.String() {
		case "left", "h":
			cur.cycle(-1)
		case "right", "l", " ":
			cur.cycle(1)
		case "enter":
			return f, f.move(1), false
		}
		return f, nil, false
	case fieldTags:
		var cmd tea.Cmd
		cur.tags, cmd = cur.tags.Update(msg)
		return f, cmd, false
	default:
		if msg.String() == "enter" {
			return f, f.move(1), false
		}
		var cmd tea.Cmd
		cur.input, cmd = cur.input.Update(msg)
		return f, cmd, false
	}
}

// trySubmit checks the field formats the form itself owns and hands over to
// the submit func. Required fields are checked by the catalog.
func (f *Form) trySubmit() tea.Cmd {
	if f.busy || f.submit == nil {
		return nil
	}
	var bad []string
	for _, fl := range f.fields {
		if fl.kind != fieldDate || !f.visible(fl) {
			continue
		}
		if _, err := f.Date(fl.key); err != nil {
			bad = append(bad, strings.ToLower(fl.label))
		}
	}
	if len(bad) > 0 {
		f.err = "invalid date: " + strings.Join(bad, ", ") + " (use YYYY-MM-DD)"
		return nil
	}
	f.err = ""
	f.busy = true
	return f.submit(f)
}

// handleMouse takes coordinates relative to the visible form body.
func (f *Form) handleMouse(msg tea.MouseMsg) tea.Cmd {
	_, regions := f.layout()
	msg.Y += f.scroll
	var cmds []tea.Cmd
	for i, fl := range f.fields {
		r, ok := regions[i]
		if fl.kind != fieldTags {
			if ok && msg.Action == tea.MouseActionPress && i != f.focus &&
				msg.Y >= r.y && msg.Y < r.y+r.h && msg.X >= r.x && msg.X < r.x+r.w {
				cmds = append(cmds, f.focusIndex(i))
			}
			continue
		}
		if !ok {
			fl.tags.Dismiss()
			continue
		}
		fl.tags.SetBounds(r.x, r.y, r.w, r.h)
		wasFocused := fl.tags.Focused()
		var cmd tea.Cmd
		fl.tags, cmd = fl.tags.Update(msg)
		cmds = append(cmds, cmd)
		if fl.tags.Focused() && !wasFocused && i != f.focus {
			if cur := f.current(); cur != nil {
				cur.blur()
			}
			f.focus = i
		}
	}
	return tea.Batch(cmds...)
}

type fieldRegion struct {
	x, y, w, h int
}

// layout renders the form body and records where each field widget sits,
// relative to the top-left of the body.
func (f *Form) layout() (string, map[int]fieldRegion) {
	regions := map[int]fieldRegion{}
	lines := []string{titleStyle.Render(f.title), ""}
	for i, fl := range f.fields {
		if !f.visible(fl) {
			continue
		}
		focused := i == f.focus
		fl.setWidth(f.width - 4)
		label := labelStyle
		if focused {
			label = focusedLabel
		}
		caption := label.Render(fl.label)
		if fl.required {
			caption += requiredStyle.Render(" *")
		}
		lines = append(lines, caption)
		widget := fl.view(focused)
		regions[i] = fieldRegion{x: 0, y: len(lines), w: f.width, h: lipgloss.Height(widget)}
		lines = append(lines, strings.Split(widget, "\n")...)
	}
	lines = append(lines, "")
	if f.err != "" {
		lines = append(lines, errorStyle.Render(f.err))
	}
	if f.busy {
		lines = append(lines, mutedStyle.Render("Submitting..."))
	}
	lines = append(lines, mutedStyle.Render("tab next  shift+tab prev  ctrl+s submit  esc close"))
	return strings.Join(lines, "\n"), regions
}

// scrollFor keeps the focused field inside a body of height lines.
func (f *Form) scrollFor(regions map[int]fieldRegion, total, height int) int {
	if height <= 0 || total <= height {
		return 0
	}
	r, ok := regions[f.focus]
	if !ok {
		return 0
	}
	top := r.y - 1
	if bottom := r.y + r.h; bottom-top > height || top < 0 {
		top = max(0, bottom-height)
	}
	return min(max(0, top), total-height)
}

func (f *Form) View(width, height int) string {
	f.width = max(30, min(width, 80))
	body, regions := f.layout()
	lines := strings.Split(body, "\n")
	f.scroll = f.scrollFor(regions, len(lines), height)
	if height > 0 && len(lines) > height {
		lines = lines[f.scroll:min(len(lines), f.scroll+height)]
	}
	return strings.Join(lines, "\n")
}
