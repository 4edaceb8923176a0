package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/google/uuid"
)

var testOrderCounter atomic.Int64

// Day parses YYYY-MM-DD and panics on bad input.
func Day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(fmt.Sprintf("testutil.Day(%q): %v", s, err))
	}
	return t
}

// Site options
type SiteOption func(*domain.Site)

func WithBooked(date time.Time) SiteOption {
	return func(s *domain.Site) {
		s.Status = domain.SiteBooked
		s.BookedDate = &date
	}
}

func WithOwner(owner string) SiteOption {
	return func(s *domain.Site) {
		s.Owner = owner
	}
}

func WithOrder(i int) SiteOption {
	return func(s *domain.Site) {
		s.Order = i
	}
}

func WithCreatedAt(t time.Time) SiteOption {
	return func(s *domain.Site) {
		s.CreatedAt = t
	}
}

func WithSiteDuration(t domain.TaskType, days int) SiteOption {
	return func(s *domain.Site) {
		if s.Durations == nil {
			s.Durations = map[domain.TaskType]int{}
		}
		s.Durations[t] = days
	}
}

func WithExcluded(t domain.TaskType) SiteOption {
	return func(s *domain.Site) {
		if s.Excluded == nil {
			s.Excluded = map[domain.TaskType]bool{}
		}
		s.Excluded[t] = true
	}
}

func WithStep(st domain.Step) SiteOption {
	return func(s *domain.Site) {
		st.SiteID = s.ID
		if st.ID == "" {
			st.ID = s.ID + "-" + string(st.Type)
		}
		s.Steps = append(s.Steps, st)
	}
}

// WithDoneStep adds a done step whose stored start is start.
func WithDoneStep(t domain.TaskType, start time.Time) SiteOption {
	return WithStep(domain.Step{Type: t, Start: start, Done: true})
}

// WithManualStart adds a step pinned to start.
func WithManualStart(t domain.TaskType, start time.Time) SiteOption {
	return WithStep(domain.Step{Type: t, ManualStart: &start})
}

func WithVersion(v int, predecessorID string) SiteOption {
	return func(s *domain.Site) {
		s.Version = v
		s.PredecessorID = &predecessorID
	}
}

func NewTestSite(name string, opts ...SiteOption) *domain.Site {
	now := time.Now().UTC().Truncate(time.Second)
	s := &domain.Site{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    domain.SiteTBC,
		CreatedAt: now,
		Order:     int(testOrderCounter.Add(1)),
		Version:   1,
		Durations: map[domain.TaskType]int{},
		Excluded:  map[domain.TaskType]bool{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewTestHoliday(date time.Time, label string) *domain.Holiday {
	return &domain.Holiday{
		ID:    uuid.New().String(),
		Date:  date,
		Label: label,
	}
}
