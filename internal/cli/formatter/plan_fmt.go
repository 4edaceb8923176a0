package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/siteplan/internal/contract"
	"github.com/alexanderramin/siteplan/internal/domain"
)

// FormatPlan renders one step table per site followed by the blockers.
func FormatPlan(resp *contract.PlanResponse) string {
	if len(resp.Sites) == 0 {
		return Dim("No sites planned.")
	}

	var b strings.Builder
	for i := range resp.Sites {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(formatSitePlan(&resp.Sites[i]))
	}

	if len(resp.Blockers) > 0 {
		b.WriteString("\n" + FormatBlockers(resp.Blockers))
	}
	b.WriteString("\n" + Dim(fmt.Sprintf("Generated for %s", FormatDate(resp.GeneratedAt))))
	return b.String()
}

func formatSitePlan(site *domain.Site) string {
	var b strings.Builder

	title := Bold(site.DisplayName())
	meta := []string{StatusPill(site.Status)}
	if site.Owner != "" {
		meta = append(meta, site.Owner)
	}
	if site.IsComplete() {
		meta = append(meta, StyleGreen.Render("✔ complete"))
	}
	fmt.Fprintf(&b, "%s  %s  %s\n", title, TruncID(site.ID), strings.Join(meta, Dim(" · ")))

	headers := []string{"TASK", "START", "FINISH", "DAYS", "STATE"}
	rows := make([][]string, 0, len(site.Steps))
	for _, st := range site.Steps {
		rows = append(rows, []string{
			st.Type.Label(),
			FormatDate(st.Start),
			FormatDate(st.Finish),
			fmt.Sprintf("%d", st.Duration),
			StepIndicator(st),
		})
	}
	b.WriteString(RenderTable(headers, rows))

	var excluded []string
	for _, t := range domain.Pipeline {
		if site.IsExcluded(t) {
			excluded = append(excluded, t.Label())
		}
	}
	if len(excluded) > 0 {
		b.WriteString(Dim("excluded: "+strings.Join(excluded, ", ")) + "\n")
	}
	return b.String()
}

// FormatBlockers lists every step that was emitted without dates.
func FormatBlockers(blockers []contract.ScheduleBlocker) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("Blockers (%d)", len(blockers))) + "\n")
	for _, bl := range blockers {
		fmt.Fprintf(&b, "%s %s · %s  %s\n",
			StyleRed.Render("✖"),
			Bold(bl.SiteName),
			bl.TaskType.Label(),
			Dim(fmt.Sprintf("%s: %s", bl.Code, bl.Message)))
	}
	return b.String()
}
