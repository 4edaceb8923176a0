package repository

import (
	"database/sql"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
)

// ErrNotFound is wrapped by every lookup that matches no row.
var ErrNotFound = domain.ErrNotFound

const dateLayout = "2006-01-02"

// parseNullableDate parses a sql.NullString into a *time.Time.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableDate(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// parseDateOrZero is parseNullableDate for non-pointer fields.
func parseDateOrZero(s sql.NullString) time.Time {
	if t := parseNullableDate(s); t != nil {
		return *t
	}
	return time.Time{}
}

// nullableDate converts a *time.Time to a value suitable for SQLite storage.
func nullableDate(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.Format(dateLayout)
}

// dateOrNull stores the zero time as NULL.
func dateOrNull(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(dateLayout)
}

func nullableBool(b *bool) any {
	if b == nil {
		return nil
	}
	return boolToInt(*b)
}

func parseNullableBool(v sql.NullInt64) *bool {
	if !v.Valid {
		return nil
	}
	b := v.Int64 != 0
	return &b
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
