package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/siteplan/internal/calendar"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/spf13/pflag"
)

// resolveSite finds a site by full ID, unique ID prefix or name.
func resolveSite(ctx context.Context, app *App, input string) (*domain.Site, error) {
	if input == "" {
		return nil, fmt.Errorf("site is required")
	}

	sites, err := app.Sites.List(ctx)
	if err != nil {
		return nil, err
	}

	// 1. Exact ID
	for _, s := range sites {
		if s.ID == input {
			return s, nil
		}
	}

	// 2. Name, with or without the version suffix (case-insensitive)
	var matches []*domain.Site
	for _, s := range sites {
		if strings.EqualFold(s.DisplayName(), input) {
			return s, nil
		}
		if strings.EqualFold(s.Name, input) {
			matches = append(matches, s)
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	if len(matches) > 1 {
		return nil, fmt.Errorf("site name %q is ambiguous (%d versions); use the ID", input, len(matches))
	}

	// 3. ID prefix
	for _, s := range sites {
		if strings.HasPrefix(s.ID, input) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("site not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("site ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveHolidayID finds a holiday by full ID, unique ID prefix or date.
func resolveHolidayID(ctx context.Context, app *App, input string) (string, error) {
	holidays, err := app.Holidays.List(ctx)
	if err != nil {
		return "", err
	}

	if date, err := calendar.ParseDate(input); err == nil {
		for _, h := range holidays {
			if h.Date.Equal(date) {
				return h.ID, nil
			}
		}
	}

	var matches []string
	for _, h := range holidays {
		if h.ID == input {
			return h.ID, nil
		}
		if strings.HasPrefix(h.ID, input) {
			matches = append(matches, h.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("holiday not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("holiday ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// taskFlag is a --task value; it accepts task keys and labels.
type taskFlag struct {
	t domain.TaskType
}

var _ pflag.Value = (*taskFlag)(nil)

func (f *taskFlag) String() string { return string(f.t) }

func (f *taskFlag) Set(s string) error {
	t, err := domain.ParseTaskType(s)
	if err != nil {
		return err
	}
	f.t = t
	return nil
}

func (f *taskFlag) Type() string { return "task" }

func (f *taskFlag) get() (domain.TaskType, error) {
	if f.t == "" {
		return "", fmt.Errorf("--task is required")
	}
	return f.t, nil
}

func parseDateFlag(flag, s string) (time.Time, error) {
	d, err := calendar.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s: %w", flag, err)
	}
	return d, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
