package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	header := renderHeader(m)
	status := renderStatusBar(m)
	footer := renderFooter(m)
	bodyHeight := m.bodyHeight()

	var body string
	if bodyHeight > 0 {
		pageHeight := bodyHeight
		var search string
		if m.searching {
			search = m.search.View()
			pageHeight--
		}
		body = m.activePage().View(&m, max(1, m.width-2), max(1, pageHeight))
		body = lipgloss.NewStyle().PaddingLeft(1).Render(body)
		if search != "" {
			body = fitHeight(body, pageHeight) + "\n" + search
		}
	}
	if top := m.screens.Top(); top != nil && bodyHeight > 0 {
		w, h := m.popupSize()
		body = RenderPopup(body, top.View(w, h), m.width, bodyHeight)
	}
	body = fitHeight(body, bodyHeight)
	view := strings.Join([]string{header, status, body, footer}, "\n")
	view = fitHeight(view, max(1, m.height))
	return appStyle.Width(max(1, m.width)).MaxWidth(max(1, m.width)).Render(view)
}

func renderHeader(m Model) string {
	tabs := make([]string, 0, len(m.pages))
	for i, p := range m.pages {
		label := fmt.Sprintf("%d:%s", i+1, p.Title())
		if i == m.active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	left := headerAppStyle.Render("Sheetdesk")
	right := tabSepStyle.Render(" ") + strings.Join(tabs, tabSepStyle.Render("│"))
	right = ansi.Truncate(right, max(1, m.width), "")
	leftW := ansi.StringWidth(left)
	rightW := ansi.StringWidth(right)
	gap := 1
	if leftW+rightW+1 < m.width {
		gap = m.width - leftW - rightW
	}
	return renderBar(headerBarStyle, max(1, m.width), left+strings.Repeat(" ", gap)+right, colorMantle)
}

func renderFooter(m Model) string {
	bindings := m.keys.BindingsForScope(m.ActiveScope())
	bg := colorMantle
	keyStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Background(bg)
	descStyle := lipgloss.NewStyle().Foreground(colorMuted).Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if len(b.Keys) == 0 {
			continue
		}
		kb := key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Description))
		h := kb.Help()
		parts = append(parts, keyStyle.Render(h.Key)+space+descStyle.Render(h.Desc))
	}
	line := strings.Join(parts, sep)
	if line == "" {
		line = lipgloss.NewStyle().Foreground(colorMuted).Background(bg).Render("No shortcuts")
	}
	return renderBar(footerStyle, max(1, m.width), line, bg)
}

func renderStatusBar(m Model) string {
	msg := strings.TrimSpace(m.status)
	if msg == "" {
		msg = "Ready"
	}
	if m.statusErr {
		return renderBar(statusErrBarStyle, max(1, m.width), msg, colorSurface0)
	}
	return renderBar(statusBarStyle, max(1, m.width), msg, colorSurface0)
}

func renderBar(style lipgloss.Style, width int, text string, bg lipgloss.TerminalColor) string {
	line := strings.ReplaceAll(text, "\n", " ")
	line = ansi.Truncate(line, width, "")
	if w := ansi.StringWidth(line); w < width {
		line += strings.Repeat(" ", width-w)
	}
	return style.
		Background(bg).
		Width(width).
		MaxWidth(width).
		Render(line)
}
