// Package calendar holds the workday arithmetic every scheduling boundary
// goes through. Days are time.Time values at UTC midnight; weekend and
// holiday policy lives here and nowhere else.
package calendar

import (
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
)

// MaxScanDays bounds every single-direction workday search. A holiday set
// would have to cover ten consecutive years to hit it.
const MaxScanDays = 3660

const keyLayout = "2006-01-02"

// Calendar answers workday questions against a fixed holiday set.
type Calendar struct {
	holidays map[string]string
}

// New indexes holidays by calendar day. Time-of-day is ignored.
func New(holidays []domain.Holiday) *Calendar {
	idx := make(map[string]string, len(holidays))
	for _, h := range holidays {
		if h.Date.IsZero() {
			continue
		}
		idx[Key(h.Date)] = h.Label
	}
	return &Calendar{holidays: idx}
}

// Day truncates t to its calendar day, read in t's own location, and
// returns it at UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Key returns the YYYY-MM-DD form of t's calendar day.
func Key(t time.Time) string {
	return Day(t).Format(keyLayout)
}

// AddDays moves a day by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

func IsWeekend(t time.Time) bool {
	wd := Day(t).Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func IsFriday(t time.Time) bool {
	return Day(t).Weekday() == time.Friday
}

// Holiday returns the label of the holiday on t's day, if any.
func (c *Calendar) Holiday(t time.Time) (string, bool) {
	if c == nil || t.IsZero() {
		return "", false
	}
	label, ok := c.holidays[Key(t)]
	return label, ok
}

// IsWorkday is false for weekends, holidays and the zero time.
func (c *Calendar) IsWorkday(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	if IsWeekend(t) {
		return false
	}
	_, holiday := c.Holiday(t)
	return !holiday
}

func (c *Calendar) qualifies(t time.Time, excludeFriday bool) bool {
	if !c.IsWorkday(t) {
		return false
	}
	return !(excludeFriday && IsFriday(t))
}

// OnOrAfterWorkday returns t's day if it is a workday, else the first
// workday after it. With excludeFriday, Fridays are skipped as well.
// A zero t stays zero.
func (c *Calendar) OnOrAfterWorkday(t time.Time, excludeFriday bool) time.Time {
	if t.IsZero() {
		return t
	}
	cur := Day(t)
	for i := 0; i < MaxScanDays && !c.qualifies(cur, excludeFriday); i++ {
		cur = cur.AddDate(0, 0, 1)
	}
	return cur
}

// NextWorkday returns the first workday strictly after t.
func (c *Calendar) NextWorkday(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return c.OnOrAfterWorkday(AddDays(t, 1), false)
}

// BeforeWorkday returns the last workday strictly before t.
func (c *Calendar) BeforeWorkday(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	cur := AddDays(t, -1)
	for i := 0; i < MaxScanDays && !c.IsWorkday(cur); i++ {
		cur = cur.AddDate(0, 0, -1)
	}
	return cur
}

// SpanWorkdays counts duration workdays starting at start (start is day 1)
// and returns the last one. duration <= 1 returns start unchanged.
func (c *Calendar) SpanWorkdays(start time.Time, duration int) time.Time {
	cur := Day(start)
	if start.IsZero() || duration <= 1 {
		return cur
	}
	remaining := duration - 1
	for i := 0; remaining > 0 && i < MaxScanDays; i++ {
		cur = cur.AddDate(0, 0, 1)
		if c.IsWorkday(cur) {
			remaining--
		}
	}
	return cur
}

// SpanWorkdaysBack is SpanWorkdays mirrored: finish is the last day and the
// returned date is the first of duration workdays.
func (c *Calendar) SpanWorkdaysBack(finish time.Time, duration int) time.Time {
	cur := Day(finish)
	if finish.IsZero() || duration <= 1 {
		return cur
	}
	remaining := duration - 1
	for i := 0; remaining > 0 && i < MaxScanDays; i++ {
		cur = cur.AddDate(0, 0, -1)
		if c.IsWorkday(cur) {
			remaining--
		}
	}
	return cur
}

// Workdays lists the duration workdays of the run starting at start.
// Non-positive durations yield an empty run.
func (c *Calendar) Workdays(start time.Time, duration int) []time.Time {
	if duration <= 0 || start.IsZero() {
		return nil
	}
	days := make([]time.Time, 0, duration)
	cur := Day(start)
	days = append(days, cur)
	for i := 0; len(days) < duration && i < MaxScanDays; i++ {
		cur = cur.AddDate(0, 0, 1)
		if c.IsWorkday(cur) {
			days = append(days, cur)
		}
	}
	return days
}

// ShiftByMonthsAndSnap adds calendar months (not workdays) and snaps the
// result forward to a workday.
func (c *Calendar) ShiftByMonthsAndSnap(t time.Time, months int) time.Time {
	if t.IsZero() {
		return t
	}
	return c.OnOrAfterWorkday(Day(t).AddDate(0, months, 0), false)
}
