package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/siteplan/internal/calendar"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/google/uuid"
)

// Plan is a converted document ready for persistence.
type Plan struct {
	Sites    []*domain.Site
	Holidays []*domain.Holiday
}

const defaultHolidayLabel = "Imported Holiday"

// Convert rebuilds sites and holidays from a validated document.
// Call ValidateDocument first; Convert assumes the document is valid.
//
// Rows are grouped into sites by site id, falling back to the site name.
// A Booked site's date comes from its first dated row, or from its site
// visit row when anchor is AnchorVisit. Done rows are pinned to their start
// so the next scheduling run reproduces them.
func Convert(doc *Document, anchor domain.BookedAnchor) (*Plan, error) {
	now := time.Now().UTC()

	var order []string
	sites := make(map[string]*domain.Site)
	visitStart := make(map[string]time.Time)
	anyOrder := false

	for i, row := range doc.Plan {
		key := siteKey(row)
		site, ok := sites[key]
		if !ok {
			site = &domain.Site{
				ID:        domain.CoalesceStr(strings.TrimSpace(row.SiteID), uuid.New().String()),
				Name:      domain.BaseName(strings.TrimSpace(row.SiteName)),
				Owner:     strings.TrimSpace(row.Owner),
				Status:    domain.ParseSiteStatus(row.Status),
				CreatedAt: now.Add(time.Duration(len(order)) * time.Millisecond),
				Order:     row.Order,
				Version:   domain.FirstPositive(1, row.Version),
				Durations: map[domain.TaskType]int{},
				Excluded:  map[domain.TaskType]bool{},
			}
			sites[key] = site
			order = append(order, key)
			if row.Order > 0 {
				anyOrder = true
			}
		}

		t, err := domain.ParseTaskType(row.Task)
		if err != nil {
			return nil, fmt.Errorf("plan[%d]: %w", i, err)
		}
		if excluded, _ := parseYesNo(row.Excluded); excluded {
			site.Excluded[t] = true
			continue
		}

		st, err := convertRow(row, site, t)
		if err != nil {
			return nil, fmt.Errorf("plan[%d]: %w", i, err)
		}
		if site.BookedDate == nil && !st.Start.IsZero() {
			d := st.Start
			site.BookedDate = &d
		}
		if t == domain.TaskSiteVisit && !st.Start.IsZero() {
			visitStart[key] = st.Start
		}
		site.Steps = append(site.Steps, st)
	}

	plan := &Plan{Sites: make([]*domain.Site, 0, len(order))}
	for i, key := range order {
		site := sites[key]
		if anchor == domain.AnchorVisit {
			if d, ok := visitStart[key]; ok {
				site.BookedDate = &d
			}
		}
		if site.Status != domain.SiteBooked {
			site.BookedDate = nil
		}
		if !anyOrder {
			site.Order = i
		}
		plan.Sites = append(plan.Sites, site)
	}

	for i, h := range doc.Holidays {
		date, err := calendar.ParseDate(h.Date)
		if err != nil {
			return nil, fmt.Errorf("holidays[%d]: %w", i, err)
		}
		plan.Holidays = append(plan.Holidays, &domain.Holiday{
			ID:    uuid.New().String(),
			Date:  date,
			Label: domain.CoalesceStr(strings.TrimSpace(h.Description), defaultHolidayLabel),
		})
	}

	return plan, nil
}

func convertRow(row PlanRow, site *domain.Site, t domain.TaskType) (domain.Step, error) {
	st := domain.Step{
		SiteID:   site.ID,
		Type:     t,
		Duration: row.Duration,
	}
	var err error
	if row.Start != "" {
		if st.Start, err = calendar.ParseDate(row.Start); err != nil {
			return st, fmt.Errorf("start: %w", err)
		}
	}
	if row.Finish != "" {
		if st.Finish, err = calendar.ParseDate(row.Finish); err != nil {
			return st, fmt.Errorf("finish: %w", err)
		}
	}

	if st.Done, err = parseYesNo(row.Done); err != nil {
		return st, fmt.Errorf("done: %w", err)
	}
	if st.Done && !st.Start.IsZero() {
		pin := st.Start
		st.ManualStart = &pin
	}

	if strings.TrimSpace(row.Confirmed) == "" {
		return st, nil
	}
	confirmed, err := parseYesNo(row.Confirmed)
	if err != nil {
		return st, fmt.Errorf("confirmed: %w", err)
	}
	// Only a confirmation that differs from the site status is stored;
	// the rest is what scheduling derives anyway.
	if confirmed != (site.Status == domain.SiteBooked) {
		st.Confirmed = &confirmed
	}
	return st, nil
}

// Export flattens scheduled sites into a document. Rows follow the given
// site order and each site's step order; excluded stages follow as
// undated rows.
func Export(sites []domain.Site, holidays []domain.Holiday) *Document {
	doc := &Document{Plan: []PlanRow{}}
	for _, site := range sites {
		base := PlanRow{
			SiteName: site.Name,
			Owner:    site.Owner,
			Status:   site.Status.Label(),
			SiteID:   site.ID,
			Order:    site.Order,
		}
		if site.Version > 1 {
			base.Version = site.Version
		}
		for _, st := range site.Steps {
			row := base
			row.Task = st.Type.Label()
			row.Start = calendar.FormatUK(st.Start)
			row.Finish = calendar.FormatUK(st.Finish)
			row.Duration = st.Duration
			row.Confirmed = yesNo(st.IsConfirmed())
			row.Done = yesNo(st.Done)
			doc.Plan = append(doc.Plan, row)
		}
		for _, t := range domain.Pipeline {
			if !site.IsExcluded(t) {
				continue
			}
			if _, has := site.StepFor(t); has {
				continue
			}
			row := base
			row.Task = t.Label()
			row.Excluded = yesNo(true)
			doc.Plan = append(doc.Plan, row)
		}
	}
	for _, h := range holidays {
		doc.Holidays = append(doc.Holidays, HolidayRow{
			Date:        calendar.FormatUK(h.Date),
			Description: h.Label,
		})
	}
	return doc
}
