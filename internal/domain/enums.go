package domain

import (
	"fmt"
	"strings"
)

type TaskType string

const (
	TaskPreWork           TaskType = "pre_work"
	TaskSiteVisit         TaskType = "site_visit"
	TaskReportWriting     TaskType = "report_writing"
	TaskFinalPresentation TaskType = "final_presentation"
	TaskRevisit           TaskType = "revisit"
)

// Pipeline is the fixed dependency order every site walks through.
// Exclusions are applied as predicates over this array, never by reshaping it.
var Pipeline = [...]TaskType{
	TaskPreWork,
	TaskSiteVisit,
	TaskReportWriting,
	TaskFinalPresentation,
	TaskRevisit,
}

// RevisitPrerequisites lists the stages that must all be done before a
// Revisit is generated.
var RevisitPrerequisites = [...]TaskType{
	TaskPreWork,
	TaskSiteVisit,
	TaskReportWriting,
	TaskFinalPresentation,
}

var taskLabels = map[TaskType]string{
	TaskPreWork:           "Pre-work",
	TaskSiteVisit:         "Site visit",
	TaskReportWriting:     "Report writing",
	TaskFinalPresentation: "Final presentation",
	TaskRevisit:           "Revisit",
}

// Label returns the human-readable name used in tables and plan documents.
func (t TaskType) Label() string {
	if l, ok := taskLabels[t]; ok {
		return l
	}
	return string(t)
}

// Index returns the position of t in Pipeline, or -1.
func (t TaskType) Index() int {
	for i, p := range Pipeline {
		if p == t {
			return i
		}
	}
	return -1
}

// ExcludesFriday is the stage's blackout rule: a site visit may neither
// start on nor span a Friday.
func (t TaskType) ExcludesFriday() bool {
	return t == TaskSiteVisit
}

func (t TaskType) Valid() bool {
	return t.Index() >= 0
}

// ParseTaskType accepts either the canonical key ("site_visit") or the
// display label ("Site visit"), case-insensitively.
func ParseTaskType(s string) (TaskType, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	for _, t := range Pipeline {
		if string(t) == norm {
			return t, nil
		}
		label := strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(t.Label()))
		if label == norm {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown task type %q", s)
}

type SiteStatus string

const (
	SiteBooked SiteStatus = "booked"
	SiteTBC    SiteStatus = "tbc"
)

// ParseSiteStatus maps "Booked"/"TBC" (any case) to a SiteStatus. Anything
// unrecognised is treated as TBC.
func ParseSiteStatus(s string) SiteStatus {
	if strings.EqualFold(strings.TrimSpace(s), string(SiteBooked)) {
		return SiteBooked
	}
	return SiteTBC
}

func (s SiteStatus) Label() string {
	if s == SiteBooked {
		return "Booked"
	}
	return "TBC"
}

type SortMode string

const (
	SortCreation SortMode = "creation"
	SortName     SortMode = "name"
	SortDate     SortMode = "date"
)

// ValidSortModes is the canonical set of accepted sort mode strings.
var ValidSortModes = map[SortMode]bool{
	SortCreation: true, SortName: true, SortDate: true,
}

// BookedAnchor selects what a Booked site's fixed date pins.
type BookedAnchor string

const (
	// AnchorStart pins the earliest start of the first pipeline stage.
	AnchorStart BookedAnchor = "start"
	// AnchorVisit pins the site visit; pre-work is end-anchored before it.
	AnchorVisit BookedAnchor = "visit"
)

type StepState string

const (
	StepScheduled     StepState = "scheduled"
	StepLocked        StepState = "locked"
	StepUnschedulable StepState = "unschedulable"
)
