package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/semplan/internal/conflict"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusStyle returns the style a row with the given classification is
// drawn in.
func StatusStyle(st conflict.Status) lipgloss.Style {
	switch st {
	case conflict.StatusAdded:
		return StyleGreen
	case conflict.StatusConflict:
		return StyleRed
	case conflict.StatusFull:
		return StyleYellow
	default:
		return StyleFg
	}
}

// StatusIndicator returns a colored label such as "● ADDED". Selectable
// sections render as a dim "○ open".
func StatusIndicator(st conflict.Status) string {
	switch st {
	case conflict.StatusAdded:
		return StyleGreen.Render("● ADDED")
	case conflict.StatusConflict:
		return StyleRed.Render("✖ CONFLICT")
	case conflict.StatusFull:
		return StyleYellow.Render("◐ FULL")
	default:
		return StyleDim.Render("○ open")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
