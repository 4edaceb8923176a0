package calendar

import (
	"fmt"
	"strings"
	"time"
)

const ukLayout = "02/01/2006"

var dateLayouts = []struct {
	layout    string
	shortYear bool
}{
	{ukLayout, false},
	{"2/1/2006", false},
	{"02/01/06", true},
	{"2/1/06", true},
	{keyLayout, false},
	{time.RFC3339, false},
	{time.RFC3339Nano, false},
}

// ParseDate accepts UK day-first dates (dd/MM/yyyy, d/M/yyyy, dd/MM/yy,
// d/M/yy), ISO dates and RFC3339 timestamps. Two-digit years land in the
// 2000s. The result is a day at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, l := range dateLayouts {
		t, err := time.Parse(l.layout, s)
		if err != nil {
			continue
		}
		if l.shortYear && t.Year() < 2000 {
			t = t.AddDate(100, 0, 0)
		}
		return Day(t), nil
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q (expected dd/mm/yyyy or yyyy-mm-dd)", s)
}

// ParseDateOr degrades to fallback instead of failing.
func ParseDateOr(s string, fallback time.Time) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		return fallback
	}
	return t
}

// FormatUK renders a day as dd/mm/yyyy. The zero time renders empty.
func FormatUK(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return Day(t).Format(ukLayout)
}

// FormatISO renders a day as yyyy-mm-dd. The zero time renders empty.
func FormatISO(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return Key(t)
}
