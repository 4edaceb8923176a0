package calendar

import (
	"testing"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func easter2026() *Calendar {
	return New([]domain.Holiday{
		{Date: day("2026-04-03"), Label: "Good Friday"},
		{Date: day("2026-04-06"), Label: "Easter Monday"},
	})
}

func TestIsWorkday(t *testing.T) {
	cal := easter2026()

	assert.True(t, cal.IsWorkday(day("2026-01-05")), "Monday")
	assert.False(t, cal.IsWorkday(day("2026-01-10")), "Saturday")
	assert.False(t, cal.IsWorkday(day("2026-01-11")), "Sunday")
	assert.False(t, cal.IsWorkday(day("2026-04-03")), "holiday")
	assert.False(t, cal.IsWorkday(time.Time{}), "zero time is never a workday")
}

func TestIsWorkday_IgnoresTimeOfDay(t *testing.T) {
	cal := New([]domain.Holiday{{Date: time.Date(2026, 4, 3, 17, 30, 0, 0, time.UTC)}})
	assert.False(t, cal.IsWorkday(time.Date(2026, 4, 3, 9, 0, 0, 0, time.UTC)))
}

func TestHolidayLabel(t *testing.T) {
	cal := easter2026()
	label, ok := cal.Holiday(day("2026-04-06"))
	require.True(t, ok)
	assert.Equal(t, "Easter Monday", label)

	_, ok = cal.Holiday(day("2026-04-07"))
	assert.False(t, ok)
}

func TestOnOrAfterWorkday(t *testing.T) {
	cal := easter2026()

	assert.Equal(t, day("2026-01-05"), cal.OnOrAfterWorkday(day("2026-01-05"), false), "already a workday")
	assert.Equal(t, day("2026-01-12"), cal.OnOrAfterWorkday(day("2026-01-10"), false), "Saturday rolls to Monday")
	assert.Equal(t, day("2026-04-07"), cal.OnOrAfterWorkday(day("2026-04-03"), false), "Good Friday + weekend + Easter Monday")
	assert.Equal(t, day("2026-01-12"), cal.OnOrAfterWorkday(day("2026-01-09"), true), "Friday excluded")
	assert.Equal(t, day("2026-01-09"), cal.OnOrAfterWorkday(day("2026-01-09"), false))
	assert.True(t, cal.OnOrAfterWorkday(time.Time{}, false).IsZero())
}

func TestNextAndBeforeWorkday(t *testing.T) {
	cal := easter2026()

	assert.Equal(t, day("2026-01-12"), cal.NextWorkday(day("2026-01-09")))
	assert.Equal(t, day("2026-01-06"), cal.NextWorkday(day("2026-01-05")))
	assert.Equal(t, day("2026-02-27"), cal.BeforeWorkday(day("2026-03-02")), "Monday looks back to Friday")
	assert.Equal(t, day("2026-04-02"), cal.BeforeWorkday(day("2026-04-07")), "skips Easter Monday, weekend, Good Friday")
}

func TestSpanWorkdays(t *testing.T) {
	cal := easter2026()

	assert.Equal(t, day("2026-01-05"), cal.SpanWorkdays(day("2026-01-05"), 1))
	assert.Equal(t, day("2026-01-06"), cal.SpanWorkdays(day("2026-01-05"), 2))
	assert.Equal(t, day("2026-01-12"), cal.SpanWorkdays(day("2026-01-08"), 3), "crosses weekend")
	assert.Equal(t, day("2026-04-08"), cal.SpanWorkdays(day("2026-04-02"), 3), "crosses Easter")
}

func TestSpanWorkdays_NonPositiveIsNoMovement(t *testing.T) {
	cal := New(nil)
	start := day("2026-01-05")
	assert.Equal(t, start, cal.SpanWorkdays(start, 0))
	assert.Equal(t, start, cal.SpanWorkdays(start, -4))
	assert.Equal(t, start, cal.SpanWorkdaysBack(start, 0))
}

func TestSpanWorkdaysBack_InvertsForward(t *testing.T) {
	cal := easter2026()
	start := day("2026-03-30")
	for d := 1; d <= 12; d++ {
		finish := cal.SpanWorkdays(start, d)
		assert.Equal(t, start, cal.SpanWorkdaysBack(finish, d), "duration %d", d)
	}
}

func TestWorkdays(t *testing.T) {
	cal := easter2026()
	got := cal.Workdays(day("2026-04-02"), 3)
	assert.Equal(t, []time.Time{day("2026-04-02"), day("2026-04-07"), day("2026-04-08")}, got)
	assert.Empty(t, cal.Workdays(day("2026-04-02"), 0))
}

func TestShiftByMonthsAndSnap(t *testing.T) {
	cal := easter2026()

	assert.Equal(t, day("2026-04-07"), cal.ShiftByMonthsAndSnap(day("2026-01-03"), 3),
		"2026-04-03 is Good Friday, snaps past Easter")
	assert.Equal(t, day("2026-07-06"), cal.ShiftByMonthsAndSnap(day("2026-01-04"), 6),
		"2026-07-04 is a Saturday")
	assert.Equal(t, day("2026-01-05"), cal.ShiftByMonthsAndSnap(day("2026-01-05"), 0))
}

func TestDay_TruncatesInOwnLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	late := time.Date(2026, 1, 5, 23, 0, 0, 0, loc)
	assert.Equal(t, day("2026-01-05"), Day(late))
}
