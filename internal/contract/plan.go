package contract

import (
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
)

type PlanRequest struct {
	// Now overrides the wall clock; TBC sites start on or after it.
	Now *time.Time
	// SiteScope restricts the returned sites. Capacity is still computed
	// across every stored site.
	SiteScope []string
}

func NewPlanRequest() PlanRequest {
	return PlanRequest{}
}

type PlanResponse struct {
	GeneratedAt time.Time
	Sites       []domain.Site
	Holidays    []domain.Holiday
	Blockers    []ScheduleBlocker
}

// Step finds a scheduled step in the response.
func (r *PlanResponse) Step(siteID string, t domain.TaskType) (*domain.Step, bool) {
	for i := range r.Sites {
		if r.Sites[i].ID == siteID {
			return r.Sites[i].StepFor(t)
		}
	}
	return nil, false
}

type PlanErrorCode string

const (
	PlanErrInvalidConfig PlanErrorCode = "INVALID_CONFIG"
	PlanErrSiteNotFound  PlanErrorCode = "SITE_NOT_FOUND"
	PlanErrInvalidInput  PlanErrorCode = "INVALID_INPUT"
	PlanErrInternal      PlanErrorCode = "INTERNAL"
)

type PlanError struct {
	Code    PlanErrorCode
	Message string
}

func (e *PlanError) Error() string {
	return string(e.Code) + ": " + e.Message
}
