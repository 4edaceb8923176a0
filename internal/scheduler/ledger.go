package scheduler

import (
	"time"

	"github.com/alexanderramin/siteplan/internal/calendar"
	"github.com/alexanderramin/siteplan/internal/domain"
)

// Ledger counts, per task type and calendar day, how many steps occupy
// that day. One Ledger belongs to exactly one ScheduleAll call.
type Ledger struct {
	capacity domain.CapacityTable
	used     map[domain.TaskType]map[string]int
}

// NewLedger returns an empty ledger bounded by capacity. Types missing from
// the table fall back to the compiled defaults.
func NewLedger(capacity domain.CapacityTable) *Ledger {
	limits := domain.DefaultCapacity()
	for t, n := range capacity {
		limits[t] = n
	}
	used := make(map[domain.TaskType]map[string]int, len(domain.Pipeline))
	for _, t := range domain.Pipeline {
		used[t] = make(map[string]int)
	}
	return &Ledger{capacity: limits, used: used}
}

// Available reports whether one more step of type t fits on day.
func (l *Ledger) Available(day time.Time, t domain.TaskType) bool {
	return l.Count(day, t) < l.capacity[t]
}

// Reserve takes one unit of capacity. Calling it twice for the same step
// and day double-books.
func (l *Ledger) Reserve(day time.Time, t domain.TaskType) {
	byDay, ok := l.used[t]
	if !ok {
		byDay = make(map[string]int)
		l.used[t] = byDay
	}
	byDay[calendar.Key(day)]++
}

func (l *Ledger) Count(day time.Time, t domain.TaskType) int {
	return l.used[t][calendar.Key(day)]
}

func (l *Ledger) Capacity(t domain.TaskType) int {
	return l.capacity[t]
}
