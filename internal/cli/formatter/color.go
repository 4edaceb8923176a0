package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/siteplan/internal/domain"
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

// StepStyle picks the color of a scheduled step: done steps are dimmed,
// unschedulable ones red, tentative ones yellow and confirmed ones green.
func StepStyle(st domain.Step) lipgloss.Style {
	switch {
	case st.State == domain.StepUnschedulable:
		return StyleRed
	case st.Done:
		return StyleDim
	case st.Tentative:
		return StyleYellow
	default:
		return StyleGreen
	}
}

// StepIndicator returns a colored state marker such as "● Tentative".
func StepIndicator(st domain.Step) string {
	switch {
	case st.State == domain.StepUnschedulable:
		return StyleRed.Render("✖ Unschedulable")
	case st.Done:
		return StyleDim.Render("✔ Done")
	case st.State == domain.StepLocked:
		return StyleBlue.Render("◆ Pinned")
	case st.Tentative:
		return StyleYellow.Render("○ Tentative")
	default:
		return StyleGreen.Render("● Confirmed")
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
