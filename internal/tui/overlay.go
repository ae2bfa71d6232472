package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var popupStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorBorderFocused).
	Padding(1, 2)

// popupFrame is the border plus padding popupStyle adds around content.
const (
	popupFrameX = 3
	popupFrameY = 2
)

// RenderPopup centres popup, framed, over base.
func RenderPopup(base, popup string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	baseCanvas := fitCanvas(base, width, height)
	card := popupStyle.Render(popup)
	x, y, ok := popupOrigin(card, width, height)
	if !ok {
		return baseCanvas
	}
	return overlayAt(baseCanvas, card, x, y, width, height)
}

// popupOrigin returns the top-left cell of the framed card.
func popupOrigin(card string, width, height int) (int, int, bool) {
	cardLines := splitToLines(card, 0)
	cardWidth := maxLineWidth(cardLines)
	cardHeight := len(cardLines)
	if cardWidth <= 0 || cardHeight <= 0 {
		return 0, 0, false
	}
	return max(0, (width-cardWidth)/2), max(0, (height-cardHeight)/2), true
}

func overlayAt(base, overlay string, x, y, width, height int) string {
	baseLines := splitToLines(base, height)
	overlayLines := splitToLines(overlay, 0)
	overlayWidth := maxLineWidth(overlayLines)
	for i, line := range overlayLines {
		row := y + i
		if row < 0 || row >= len(baseLines) || row >= height {
			continue
		}
		target := padRightANSI(baseLines[row], width)
		left := ansi.Truncate(target, x, "")
		if leftWidth := ansi.StringWidth(left); leftWidth < x {
			left += strings.Repeat(" ", x-leftWidth)
		}

		overlayLine := padRightANSI(line, overlayWidth)
		pos := x + ansi.StringWidth(overlayLine)
		right := dropColumns(target, pos)
		if gap := width - pos - ansi.StringWidth(right); gap > 0 {
			right = strings.Repeat(" ", gap) + right
		}
		baseLines[row] = ansi.Truncate(left+overlayLine+right, width, "")
	}
	return strings.Join(baseLines, "\n")
}

func fitCanvas(s string, width, height int) string {
	lines := splitToLines(s, height)
	for i := range lines {
		lines[i] = padRightANSI(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

func splitToLines(s string, height int) []string {
	lines := strings.Split(s, "\n")
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	for height > 0 && len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func maxLineWidth(lines []string) int {
	maxWidth := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

func dropColumns(s string, cols int) string {
	if cols <= 0 {
		return s
	}
	truncated := ansi.Truncate(s, cols, "")
	return strings.TrimPrefix(s, truncated)
}

func padRightANSI(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func fitHeight(s string, height int) string {
	if height <= 0 {
		return ""
	}
	return strings.Join(splitToLines(s, height), "\n")
}
