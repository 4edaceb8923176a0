package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }

func easterHolidays() []domain.Holiday {
	return []domain.Holiday{
		{ID: "h-1", Date: day("2026-04-03"), Label: "Good Friday"},
		{ID: "h-2", Date: day("2026-04-06"), Label: "Easter Monday"},
	}
}

func tbcSite(id string, order int) domain.Site {
	return domain.Site{
		ID:        id,
		Name:      "Site " + id,
		Status:    domain.SiteTBC,
		CreatedAt: day("2026-01-01").Add(time.Duration(order) * time.Minute),
		Order:     order,
		Version:   1,
	}
}

func bookedSite(id string, order int, booked string) domain.Site {
	s := tbcSite(id, order)
	s.Status = domain.SiteBooked
	s.BookedDate = ptr(day(booked))
	return s
}

func stepOf(t testing.TB, site domain.Site, typ domain.TaskType) domain.Step {
	t.Helper()
	st, ok := site.StepFor(typ)
	if !ok {
		t.Fatalf("site %s has no %s step", site.ID, typ)
	}
	return *st
}

func findSite(res Result, id string) domain.Site {
	for _, s := range res.Sites {
		if s.ID == id {
			return s
		}
	}
	return domain.Site{}
}

func doneSteps(siteID string, starts map[domain.TaskType]string) []domain.Step {
	steps := make([]domain.Step, 0, len(starts))
	for _, typ := range domain.Pipeline {
		s, ok := starts[typ]
		if !ok {
			continue
		}
		steps = append(steps, domain.Step{
			ID:     siteID + "-" + string(typ),
			SiteID: siteID,
			Type:   typ,
			Start:  day(s),
			Done:   true,
		})
	}
	return steps
}
