package domain

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"
)

// ErrNotFound is returned by repositories when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type Holiday struct {
	ID    string
	Date  time.Time
	Label string
}

type Site struct {
	ID         string
	Name       string
	Owner      string
	Notes      string
	Status     SiteStatus
	BookedDate *time.Time
	CreatedAt  time.Time
	Order      int

	// Successor chain created when a completed revisit regenerates the site.
	Version       int
	PredecessorID *string

	Durations map[TaskType]int
	Excluded  map[TaskType]bool

	Steps []Step
}

// StepFor returns the stored step of the given type, if any.
func (s *Site) StepFor(t TaskType) (*Step, bool) {
	for i := range s.Steps {
		if s.Steps[i].Type == t {
			return &s.Steps[i], true
		}
	}
	return nil, false
}

// IsExcluded reports whether the site opts out of stage t.
func (s *Site) IsExcluded(t TaskType) bool {
	return s.Excluded[t]
}

// RevisitReady reports whether every revisit prerequisite has a done step.
func (s *Site) RevisitReady() bool {
	for _, t := range RevisitPrerequisites {
		st, ok := s.StepFor(t)
		if !ok || !st.Done {
			return false
		}
	}
	return true
}

// IsComplete reports whether every step the site carries is done and at
// least one step exists.
func (s *Site) IsComplete() bool {
	if len(s.Steps) == 0 {
		return false
	}
	for _, st := range s.Steps {
		if !st.Done {
			return false
		}
	}
	return true
}

// DisplayName appends the version suffix for regenerated sites, e.g. "Depot (V2)".
func (s *Site) DisplayName() string {
	if s.Version <= 1 {
		return s.Name
	}
	return fmt.Sprintf("%s (V%d)", s.Name, s.Version)
}

// BaseName strips a trailing " (Vn)" suffix.
func BaseName(name string) string {
	if i := strings.LastIndex(name, " (V"); i > 0 && strings.HasSuffix(name, ")") {
		return name[:i]
	}
	return name
}

// Clone returns a deep copy so callers can derive new values without
// touching the original.
func (s Site) Clone() Site {
	out := s
	if s.BookedDate != nil {
		d := *s.BookedDate
		out.BookedDate = &d
	}
	if s.PredecessorID != nil {
		id := *s.PredecessorID
		out.PredecessorID = &id
	}
	if s.Durations != nil {
		out.Durations = maps.Clone(s.Durations)
	}
	if s.Excluded != nil {
		out.Excluded = maps.Clone(s.Excluded)
	}
	if s.Steps != nil {
		out.Steps = make([]Step, len(s.Steps))
		for i, st := range s.Steps {
			out.Steps[i] = st.Clone()
		}
	}
	return out
}
