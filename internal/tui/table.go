package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/sheetdesk/internal/theme"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Foreground(theme.Subtext1).Bold(true)
	cursorStyle      = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	scrollStyle      = lipgloss.NewStyle().Foreground(colorMuted)
)

// column is a table column; a width of 0 takes the remaining space.
type column struct {
	title string
	width int
}

// table is a scrolling list of rows with a cursor.
type table struct {
	columns []column
	rows    [][]string
	cursor  int
	top     int
}

func (t *table) setRows(rows [][]string) {
	t.rows = rows
	t.cursor = min(t.cursor, max(0, len(rows)-1))
	t.top = min(t.top, t.cursor)
}

func (t *table) moveCursor(delta int) {
	if len(t.rows) == 0 {
		return
	}
	t.cursor = min(max(0, t.cursor+delta), len(t.rows)-1)
}

func (t table) widths(width int) []int {
	out := make([]int, len(t.columns))
	fixed, flex := 0, 0
	for i, c := range t.columns {
		out[i] = c.width
		if c.width == 0 {
			flex++
		}
		fixed += c.width
	}
	gaps := 2*len(t.columns) + 2
	if flex > 0 {
		rest := max(5, (width-fixed-gaps)/flex)
		for i := range out {
			if out[i] == 0 {
				out[i] = rest
			}
		}
	}
	return out
}

func (t *table) render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	widths := t.widths(width)
	cells := func(values []string) string {
		parts := make([]string, len(widths))
		for i, w := range widths {
			v := ""
			if i < len(values) {
				v = strings.ReplaceAll(values[i], "\n", " ")
			}
			parts[i] = padRightANSI(ansi.Truncate(v, w, "…"), w)
		}
		return strings.Join(parts, "  ")
	}

	titles := make([]string, len(t.columns))
	for i, c := range t.columns {
		titles[i] = c.title
	}
	lines := []string{tableHeaderStyle.Render("  " + cells(titles))}
	if len(t.rows) == 0 {
		lines = append(lines, mutedStyle.Render("  Nothing here yet"))
		return strings.Join(lines, "\n")
	}

	visible := max(1, height-2)
	if t.cursor < t.top {
		t.top = t.cursor
	}
	if t.cursor >= t.top+visible {
		t.top = t.cursor - visible + 1
	}
	end := min(len(t.rows), t.top+visible)
	for i := t.top; i < end; i++ {
		prefix := "  "
		if i == t.cursor {
			prefix = cursorStyle.Render("> ")
		}
		lines = append(lines, prefix+cells(t.rows[i]))
	}
	lines = append(lines, scrollStyle.Render(fmt.Sprintf("── showing %d-%d of %d ──", t.top+1, end, len(t.rows))))
	return strings.Join(lines, "\n")
}
