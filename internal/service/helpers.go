package service

import (
	"fmt"

	"github.com/alexanderramin/siteplan/internal/contract"
	"github.com/alexanderramin/siteplan/internal/domain"
)

// filterSitesByScope returns only sites whose ID is in scope.
// If scope is empty, all sites are returned unchanged.
func filterSitesByScope(sites []domain.Site, scope []string) []domain.Site {
	if len(scope) == 0 {
		return sites
	}
	scopeSet := make(map[string]bool, len(scope))
	for _, id := range scope {
		scopeSet[id] = true
	}
	filtered := make([]domain.Site, 0, len(scope))
	for _, s := range sites {
		if scopeSet[s.ID] {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// filterBlockersByScope returns only blockers of sites in scope.
// If scope is empty, all blockers are returned unchanged.
func filterBlockersByScope(blockers []contract.ScheduleBlocker, scope []string) []contract.ScheduleBlocker {
	if len(scope) == 0 {
		return blockers
	}
	scopeSet := make(map[string]bool, len(scope))
	for _, id := range scope {
		scopeSet[id] = true
	}
	var filtered []contract.ScheduleBlocker
	for _, b := range blockers {
		if scopeSet[b.SiteID] {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

func invalidInput(format string, args ...any) error {
	return &contract.PlanError{Code: contract.PlanErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
