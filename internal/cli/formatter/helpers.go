package formatter

import (
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/siteplan/internal/calendar"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(title) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDateFrom returns a human-friendly distance between two days.
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := int(math.Round(calendar.Day(t).Sub(calendar.Day(now)).Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// FormatDate renders a day as dd/mm/yyyy, or a dimmed placeholder.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return Dim("--")
	}
	return calendar.FormatUK(t)
}

func FormatDatePtr(t *time.Time) string {
	if t == nil {
		return Dim("--")
	}
	return FormatDate(*t)
}

// StatusPill returns a colored site status indicator.
func StatusPill(status domain.SiteStatus) string {
	switch status {
	case domain.SiteBooked:
		return StyleGreen.Render("● Booked")
	case domain.SiteTBC:
		return StyleYellow.Render("○ TBC")
	default:
		return StyleDim.Render(string(status))
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Plural renders "1 site" or "3 sites".
func Plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
