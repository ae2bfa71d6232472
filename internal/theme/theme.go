// Package theme holds the Catppuccin Mocha palette shared by the widgets and
// the application shell.
package theme

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"
)

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette, true-color hex values
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	Rosewater lipgloss.Color = "#f5e0dc"
	Flamingo  lipgloss.Color = "#f2cdcd"
	Pink      lipgloss.Color = "#f5c2e7"
	Mauve     lipgloss.Color = "#cba6f7"
	Red       lipgloss.Color = "#f38ba8"
	Maroon    lipgloss.Color = "#eba0ac"
	Peach     lipgloss.Color = "#fab387"
	Yellow    lipgloss.Color = "#f9e2af"
	Green     lipgloss.Color = "#a6e3a1"
	Teal      lipgloss.Color = "#94e2d5"
	Sky       lipgloss.Color = "#89dceb"
	Sapphire  lipgloss.Color = "#74c7ec"
	Blue      lipgloss.Color = "#89b4fa"
	Lavender  lipgloss.Color = "#b4befe"

	Text     lipgloss.Color = "#cdd6f4"
	Subtext1 lipgloss.Color = "#bac2de"
	Subtext0 lipgloss.Color = "#a6adc8"
	Overlay2 lipgloss.Color = "#9399b2"
	Overlay1 lipgloss.Color = "#7f849c"
	Overlay0 lipgloss.Color = "#6c7086"
	Surface2 lipgloss.Color = "#585b70"
	Surface1 lipgloss.Color = "#45475a"
	Surface0 lipgloss.Color = "#313244"
	Base     lipgloss.Color = "#1e1e2e"
	Mantle   lipgloss.Color = "#181825"
	Crust    lipgloss.Color = "#11111b"
)

// ---------------------------------------------------------------------------
// Semantic color aliases
// ---------------------------------------------------------------------------

const (
	Accent  = Lavender
	Brand   = Mauve
	Focus   = Lavender
	Success = Green
	Error   = Red
	Warning = Yellow
	Info    = Teal
)

// AllPaletteColors returns every Catppuccin Mocha color for testing purposes.
func AllPaletteColors() []lipgloss.Color {
	return []lipgloss.Color{
		Rosewater, Flamingo, Pink, Mauve,
		Red, Maroon, Peach, Yellow,
		Green, Teal, Sky, Sapphire,
		Blue, Lavender,
		Text, Subtext1, Subtext0,
		Overlay2, Overlay1, Overlay0,
		Surface2, Surface1, Surface0,
		Base, Mantle, Crust,
	}
}

// TagAccentColors returns the set of accent colors available for tag chips.
func TagAccentColors() []lipgloss.Color {
	return []lipgloss.Color{
		Rosewater, Sky, Lavender, Flamingo,
		Sapphire, Yellow, Maroon, Mauve,
		Pink, Teal, Blue, Green,
	}
}

// TagColor picks a stable chip color for a tag value.
func TagColor(value string) lipgloss.Color {
	colors := TagAccentColors()
	h := fnv.New32a()
	_, _ = h.Write([]byte(value))
	return colors[h.Sum32()%uint32(len(colors))]
}

// SpectrumColor maps a spectrum code to its display color.
func SpectrumColor(code string) lipgloss.Color {
	switch code {
	case "LEFT":
		return Red
	case "CENTRE":
		return Yellow
	case "RIGHT":
		return Blue
	default:
		return Overlay1
	}
}
