package tagselect

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/sheetdesk/internal/theme"
)

const maxVisibleRows = 8

// Styles controls how the field renders.
type Styles struct {
	Chip      lipgloss.Style
	Input     lipgloss.Style
	Dropdown  lipgloss.Style
	Row       lipgloss.Style
	Highlight lipgloss.Style
	Empty     lipgloss.Style
	AddNew    lipgloss.Style
	Hint      lipgloss.Style
}

// DefaultStyles returns the palette used across the application.
func DefaultStyles() Styles {
	return Styles{
		Chip:      lipgloss.NewStyle().Foreground(theme.Base).Padding(0, 1).MarginRight(1),
		Input:     lipgloss.NewStyle().Foreground(theme.Text),
		Dropdown:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(theme.Surface2).Padding(0, 1),
		Row:       lipgloss.NewStyle().Foreground(theme.Subtext1),
		Highlight: lipgloss.NewStyle().Foreground(theme.Text).Background(theme.Surface1).Bold(true),
		Empty:     lipgloss.NewStyle().Foreground(theme.Overlay1).Italic(true),
		AddNew:    lipgloss.NewStyle().Foreground(theme.Peach),
		Hint:      lipgloss.NewStyle().Foreground(theme.Overlay1),
	}
}

// View renders the chips and search input, followed by the dropdown when
// open.
func (m Model) View() string {
	var chips []string
	for _, o := range m.selection {
		chips = append(chips, m.renderChip(o))
	}
	line := m.styles.Input.Render(m.input.View())
	if len(chips) > 0 {
		line = lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(chips, ""), line)
	}
	if !m.open {
		return line
	}
	return lipgloss.JoinVertical(lipgloss.Left, line, m.renderDropdown())
}

func (m Model) renderChip(o Option) string {
	return m.styles.Chip.Background(theme.TagColor(o.Value)).Render(o.Label + " ×")
}

// visibleRange is the window of n dropdown rows that keeps highlight shown.
func visibleRange(n, highlight int) (int, int) {
	start := 0
	if highlight >= maxVisibleRows {
		start = highlight - maxVisibleRows + 1
	}
	return start, min(start+maxVisibleRows, n)
}

func (m Model) renderDropdown() string {
	rows := m.Filtered()
	var lines []string
	switch {
	case len(rows) == 0 && m.input.Value() != "":
		lines = append(lines, m.styles.Empty.Render("No matching options"))
	case len(rows) == 0:
		lines = append(lines, m.styles.Empty.Render("No options available"))
	default:
		start, end := visibleRange(len(rows), m.highlight)
		for i := start; i < end; i++ {
			if i == m.highlight {
				lines = append(lines, m.styles.Highlight.Render("› "+rows[i].Label))
				continue
			}
			lines = append(lines, m.styles.Row.Render("  "+rows[i].Label))
		}
		if hidden := len(rows) - end; hidden > 0 {
			lines = append(lines, m.styles.Empty.Render("  … "+strconv.Itoa(hidden)+" more"))
		}
	}

	if m.CanCreate() {
		text := strings.TrimSpace(m.input.Value())
		add := m.styles.AddNew.Render(`+ Add "` + text + `"`)
		if near, ok := Similar(m.options, text); ok {
			add += m.styles.Hint.Render("  similar: " + near.Label)
		}
		lines = append(lines, add)
	}
	return m.styles.Dropdown.Width(m.width).Render(strings.Join(lines, "\n"))
}
