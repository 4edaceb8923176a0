package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/siteplan/internal/calendar"
	"github.com/alexanderramin/siteplan/internal/domain"
)

// ValidateDocument checks a plan document before conversion.
// Returns a slice of all validation errors found.
func ValidateDocument(doc *Document) []error {
	var errs []error

	if len(doc.Plan) == 0 && len(doc.Holidays) == 0 {
		errs = append(errs, fmt.Errorf("plan document is empty"))
	}

	seen := make(map[string]int)
	for i, row := range doc.Plan {
		prefix := fmt.Sprintf("plan[%d]", i)
		errs = append(errs, validateRow(prefix, row)...)

		t, err := domain.ParseTaskType(row.Task)
		if err != nil {
			continue
		}
		key := siteKey(row) + "\x00" + string(t)
		if first, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate %s step for site %q (first at plan[%d])", prefix, t.Label(), row.SiteName, first))
			continue
		}
		seen[key] = i
	}

	for i, h := range doc.Holidays {
		prefix := fmt.Sprintf("holidays[%d]", i)
		if strings.TrimSpace(h.Date) == "" {
			errs = append(errs, fmt.Errorf("%s.date is required", prefix))
		} else if _, err := calendar.ParseDate(h.Date); err != nil {
			errs = append(errs, fmt.Errorf("%s.date: %w", prefix, err))
		}
	}

	return errs
}

func validateRow(prefix string, row PlanRow) []error {
	var errs []error

	if strings.TrimSpace(row.SiteName) == "" {
		errs = append(errs, fmt.Errorf("%s.site_name is required", prefix))
	}
	if row.Task == "" {
		errs = append(errs, fmt.Errorf("%s.task is required", prefix))
	} else if _, err := domain.ParseTaskType(row.Task); err != nil {
		errs = append(errs, fmt.Errorf("%s.task: %w", prefix, err))
	}
	if row.Status != "" && !validStatus(row.Status) {
		errs = append(errs, fmt.Errorf("%s.status: invalid value %q (expected Booked or TBC)", prefix, row.Status))
	}
	for _, d := range []struct{ field, value string }{{"start", row.Start}, {"finish", row.Finish}} {
		if d.value == "" {
			continue
		}
		if _, err := calendar.ParseDate(d.value); err != nil {
			errs = append(errs, fmt.Errorf("%s.%s: %w", prefix, d.field, err))
		}
	}
	if row.Duration < 0 {
		errs = append(errs, fmt.Errorf("%s.duration must be >= 0, got %d", prefix, row.Duration))
	}
	if _, err := parseYesNo(row.Confirmed); err != nil {
		errs = append(errs, fmt.Errorf("%s.confirmed: %w", prefix, err))
	}
	done, err := parseYesNo(row.Done)
	if err != nil {
		errs = append(errs, fmt.Errorf("%s.done: %w", prefix, err))
	} else if done && row.Start == "" {
		errs = append(errs, fmt.Errorf("%s: a done step needs a start date", prefix))
	}
	if _, err := parseYesNo(row.Excluded); err != nil {
		errs = append(errs, fmt.Errorf("%s.excluded: %w", prefix, err))
	}
	if row.Version < 0 {
		errs = append(errs, fmt.Errorf("%s.version must be >= 0, got %d", prefix, row.Version))
	}
	if row.Order < 0 {
		errs = append(errs, fmt.Errorf("%s.order must be >= 0, got %d", prefix, row.Order))
	}

	return errs
}

func validStatus(s string) bool {
	s = strings.TrimSpace(s)
	return strings.EqualFold(s, string(domain.SiteBooked)) || strings.EqualFold(s, string(domain.SiteTBC))
}

// parseYesNo reads the Yes/No columns. Empty means No.
func parseYesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "no", "n", "false":
		return false, nil
	case "yes", "y", "true":
		return true, nil
	default:
		return false, fmt.Errorf("invalid value %q (expected Yes or No)", s)
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// siteKey groups rows by site id, falling back to the site name.
func siteKey(row PlanRow) string {
	return domain.CoalesceStr(strings.TrimSpace(row.SiteID), strings.TrimSpace(row.SiteName))
}
