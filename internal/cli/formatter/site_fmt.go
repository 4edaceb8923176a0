package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
)

const siteProgressWidth = 8

// FormatSiteList renders stored sites in plan order.
func FormatSiteList(sites []*domain.Site, now time.Time) string {
	headers := []string{"ID", "NAME", "OWNER", "STATUS", "BOOKED", "PROGRESS"}
	rows := make([][]string, 0, len(sites))

	for _, s := range sites {
		booked := Dim("--")
		if s.BookedDate != nil {
			booked = fmt.Sprintf("%s %s", FormatDate(*s.BookedDate), Dim("("+RelativeDateFrom(*s.BookedDate, now)+")"))
		}
		done := 0
		for _, st := range s.Steps {
			if st.Done {
				done++
			}
		}
		rows = append(rows, []string{
			TruncID(s.ID),
			Bold(s.DisplayName()),
			orDash(s.Owner),
			StatusPill(s.Status),
			booked,
			RenderProgress(done, len(s.Steps), siteProgressWidth),
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable(headers, rows))
	b.WriteString("\n" + Dim(Plural(len(sites), "site")))
	return b.String()
}

// FormatHolidayList renders holidays by date.
func FormatHolidayList(holidays []domain.Holiday) string {
	headers := []string{"ID", "DATE", "DAY", "LABEL"}
	rows := make([][]string, 0, len(holidays))
	for _, h := range holidays {
		rows = append(rows, []string{
			TruncID(h.ID),
			FormatDate(h.Date),
			Dim(h.Date.Weekday().String()[:3]),
			orDash(h.Label),
		})
	}
	return RenderTable(headers, rows) + "\n" + Dim(Plural(len(holidays), "holiday"))
}

func orDash(s string) string {
	if s == "" {
		return Dim("--")
	}
	return s
}
