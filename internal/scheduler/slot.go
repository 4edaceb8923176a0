package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/siteplan/internal/calendar"
	"github.com/alexanderramin/siteplan/internal/domain"
)

// ErrNoFeasibleSlot is returned when no run fits within the search horizon.
var ErrNoFeasibleSlot = errors.New("no feasible slot")

// SlotError carries the search parameters of a failed slot search.
type SlotError struct {
	Type        domain.TaskType
	Anchor      time.Time
	Duration    int
	HorizonDays int
	Backward    bool
}

func (e *SlotError) Error() string {
	dir := "after"
	if e.Backward {
		dir = "before"
	}
	return fmt.Sprintf("%s: %d-day %s within %d days %s %s",
		ErrNoFeasibleSlot, e.Duration, e.Type, e.HorizonDays, dir, calendar.FormatISO(e.Anchor))
}

func (e *SlotError) Unwrap() error {
	return ErrNoFeasibleSlot
}

// Slot is a committed run of workdays.
type Slot struct {
	Start  time.Time
	Finish time.Time
}

// SlotFinder places runs of workdays against a ledger. It reserves capacity
// only for the run it returns.
type SlotFinder struct {
	cal         *calendar.Calendar
	ledger      *Ledger
	horizonDays int
}

func NewSlotFinder(cal *calendar.Calendar, ledger *Ledger, horizonDays int) *SlotFinder {
	if horizonDays <= 0 {
		horizonDays = domain.DefaultSearchHorizonDays
	}
	return &SlotFinder{cal: cal, ledger: ledger, horizonDays: horizonDays}
}

// Find returns the earliest run of duration workdays starting on or after
// earliest in which every day has capacity for t and respects t's blackout.
// The candidate start never moves more than the horizon past the first
// eligible workday on or after earliest.
func (f *SlotFinder) Find(earliest time.Time, duration int, t domain.TaskType) (Slot, error) {
	excludeFriday := t.ExcludesFriday()
	start := f.cal.OnOrAfterWorkday(earliest, excludeFriday)
	limit := calendar.AddDays(start, f.horizonDays)

	for !start.After(limit) {
		days := f.cal.Workdays(start, duration)
		blocked, failed := f.firstBlocked(days, t)
		if !failed {
			for _, d := range days {
				f.ledger.Reserve(d, t)
			}
			return Slot{Start: start, Finish: lastOr(days, start)}, nil
		}
		// Every candidate up to the blocked day would include it.
		start = f.cal.OnOrAfterWorkday(f.cal.NextWorkday(blocked), excludeFriday)
	}
	return Slot{}, &SlotError{Type: t, Anchor: calendar.Day(earliest), Duration: duration, HorizonDays: f.horizonDays}
}

// FindBackward returns the latest run finishing on or before latestFinish.
// It is the end-anchored mirror of Find.
func (f *SlotFinder) FindBackward(latestFinish time.Time, duration int, t domain.TaskType) (Slot, error) {
	finish := f.onOrBefore(latestFinish, t)
	limit := calendar.AddDays(finish, -f.horizonDays)

	for !finish.Before(limit) {
		start := f.cal.SpanWorkdaysBack(finish, duration)
		days := f.cal.Workdays(start, duration)
		blocked, failed := f.lastBlocked(days, t)
		if !failed {
			for _, d := range days {
				f.ledger.Reserve(d, t)
			}
			return Slot{Start: start, Finish: finish}, nil
		}
		finish = f.onOrBefore(f.cal.BeforeWorkday(blocked), t)
	}
	return Slot{}, &SlotError{Type: t, Anchor: calendar.Day(latestFinish), Duration: duration, HorizonDays: f.horizonDays, Backward: true}
}

// ReserveRun books a run regardless of remaining capacity. Locked steps
// go through here so later placements see them as consumed.
func (f *SlotFinder) ReserveRun(start time.Time, duration int, t domain.TaskType) Slot {
	finish := f.cal.SpanWorkdays(start, duration)
	for _, d := range f.cal.Workdays(start, duration) {
		f.ledger.Reserve(d, t)
	}
	return Slot{Start: calendar.Day(start), Finish: finish}
}

func (f *SlotFinder) dayBlocked(d time.Time, t domain.TaskType) bool {
	if t.ExcludesFriday() && calendar.IsFriday(d) {
		return true
	}
	return !f.ledger.Available(d, t)
}

func (f *SlotFinder) firstBlocked(days []time.Time, t domain.TaskType) (time.Time, bool) {
	for _, d := range days {
		if f.dayBlocked(d, t) {
			return d, true
		}
	}
	return time.Time{}, false
}

func (f *SlotFinder) lastBlocked(days []time.Time, t domain.TaskType) (time.Time, bool) {
	for i := len(days) - 1; i >= 0; i-- {
		if f.dayBlocked(days[i], t) {
			return days[i], true
		}
	}
	return time.Time{}, false
}

func (f *SlotFinder) onOrBefore(d time.Time, t domain.TaskType) time.Time {
	cur := calendar.Day(d)
	if !f.cal.IsWorkday(cur) {
		cur = f.cal.BeforeWorkday(cur)
	}
	for i := 0; t.ExcludesFriday() && calendar.IsFriday(cur) && i < calendar.MaxScanDays; i++ {
		cur = f.cal.BeforeWorkday(cur)
	}
	return cur
}

func lastOr(days []time.Time, fallback time.Time) time.Time {
	if len(days) == 0 {
		return fallback
	}
	return days[len(days)-1]
}
