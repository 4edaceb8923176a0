package formatter

import (
	"strings"
	"time"

	"github.com/alexanderramin/siteplan/internal/calendar"
	"github.com/alexanderramin/siteplan/internal/contract"
	"github.com/charmbracelet/lipgloss"
)

// MaxGanttDays caps the width of the Gantt window.
const MaxGanttDays = 120

const (
	ganttBar     = "█"
	ganttOff     = "·"
	ganttBlank   = " "
	ganttLabelSp = 2
)

// FormatGantt renders one bar per dated step over the days between the
// earliest start and the latest finish, shading weekends and holidays.
func FormatGantt(resp *contract.PlanResponse) string {
	from, to := ganttWindow(resp)
	if from.IsZero() {
		return Dim("Nothing scheduled.")
	}
	days := int(to.Sub(from).Hours()/24) + 1
	if days > MaxGanttDays {
		days = MaxGanttDays
	}
	cal := calendar.New(resp.Holidays)

	type line struct {
		label string
		cells string
	}
	var lines []line
	labelWidth := 0
	for i := range resp.Sites {
		site := &resp.Sites[i]
		for _, st := range site.Steps {
			if st.Start.IsZero() {
				continue
			}
			style := StepStyle(st)
			var cells strings.Builder
			for d := 0; d < days; d++ {
				day := calendar.AddDays(from, d)
				switch {
				case !cal.IsWorkday(day):
					cells.WriteString(Dim(ganttOff))
				case !day.Before(st.Start) && !day.After(st.Finish):
					cells.WriteString(style.Render(ganttBar))
				default:
					cells.WriteString(ganttBlank)
				}
			}
			label := site.DisplayName() + " · " + st.Type.Label()
			labelWidth = max(labelWidth, lipgloss.Width(label))
			lines = append(lines, line{label: label, cells: cells.String()})
		}
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", labelWidth+ganttLabelSp))
	b.WriteString(Dim(ganttRuler(from, days)) + "\n")
	for _, l := range lines {
		b.WriteString(l.label)
		b.WriteString(strings.Repeat(" ", labelWidth-lipgloss.Width(l.label)+ganttLabelSp))
		b.WriteString(l.cells + "\n")
	}
	return b.String()
}

// ganttRuler marks every Monday with its dd/mm date.
func ganttRuler(from time.Time, days int) string {
	ruler := []rune(strings.Repeat(" ", days))
	for d := 0; d < days; d++ {
		day := calendar.AddDays(from, d)
		if day.Weekday() != time.Monday {
			continue
		}
		mark := []rune(day.Format("02/01"))
		if d+len(mark) > days {
			break
		}
		copy(ruler[d:], mark)
	}
	return string(ruler)
}

func ganttWindow(resp *contract.PlanResponse) (from, to time.Time) {
	for i := range resp.Sites {
		for _, st := range resp.Sites[i].Steps {
			if st.Start.IsZero() {
				continue
			}
			if from.IsZero() || st.Start.Before(from) {
				from = st.Start
			}
			if st.Finish.After(to) {
				to = st.Finish
			}
		}
	}
	return from, to
}
