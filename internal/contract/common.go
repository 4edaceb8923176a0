package contract

import (
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
)

type ScheduleBlockerCode string

const (
	// BlockerNoFeasibleSlot: the slot search ran past its horizon.
	BlockerNoFeasibleSlot ScheduleBlockerCode = "NO_FEASIBLE_SLOT"
	// BlockerPredecessorUnschedulable: an earlier stage of the same site could
	// not be placed, so this one has no cursor to start from.
	BlockerPredecessorUnschedulable ScheduleBlockerCode = "PREDECESSOR_UNSCHEDULABLE"
)

// ScheduleBlocker explains why a step was emitted without dates.
type ScheduleBlocker struct {
	SiteID   string
	SiteName string
	TaskType domain.TaskType
	Code     ScheduleBlockerCode
	Earliest time.Time
	Message  string
}
