package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/sheetdesk/internal/theme"
)

var (
	colorText          = theme.Text
	colorMuted         = theme.Overlay1
	colorAccent        = theme.Accent
	colorBorder        = theme.Surface1
	colorBorderFocused = theme.Focus
	colorSurface0      = theme.Surface0
	colorMantle        = theme.Mantle
	colorSuccess       = theme.Success
	colorError         = theme.Error
	colorTabOff        = theme.Subtext0
)

var (
	appStyle = lipgloss.NewStyle().Foreground(colorText)

	headerAppStyle = lipgloss.NewStyle().Foreground(theme.Brand).Bold(true).Background(colorMantle)
	headerBarStyle = lipgloss.NewStyle().
			Background(colorMantle).
			Foreground(colorText)
	tabSepStyle = lipgloss.NewStyle().
			Foreground(colorBorder).
			Background(colorMantle)

	activeTabStyle = lipgloss.NewStyle().
			Background(colorSurface0).
			Foreground(colorAccent).
			Bold(true).
			Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().
				Background(colorMantle).
				Foreground(colorTabOff).
				Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Background(colorSurface0)
	statusErrBarStyle = lipgloss.NewStyle().
				Foreground(colorError).
				Background(colorSurface0)
	footerStyle = lipgloss.NewStyle().
			Background(colorMantle)

	titleStyle    = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)
	labelStyle    = lipgloss.NewStyle().Foreground(theme.Subtext1)
	focusedLabel  = lipgloss.NewStyle().Foreground(colorBorderFocused).Bold(true)
	requiredStyle = lipgloss.NewStyle().Foreground(theme.Peach)
	cardStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
	monthStyle = lipgloss.NewStyle().Foreground(theme.Peach).Bold(true)
)

func spectrumBadge(code string) string {
	if code == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(theme.SpectrumColor(code)).Bold(true).Render(code)
}
