package domain

import (
	"fmt"
	"maps"
)

// CapacityTable maps a task type to the number of steps of that type allowed
// to occupy the same calendar day across all sites.
type CapacityTable map[TaskType]int

// DurationTable maps a task type to a length in workdays.
type DurationTable map[TaskType]int

// DefaultDurations returns the stock per-stage durations in workdays.
func DefaultDurations() DurationTable {
	return DurationTable{
		TaskPreWork:           2,
		TaskSiteVisit:         2,
		TaskReportWriting:     4,
		TaskFinalPresentation: 1,
		TaskRevisit:           1,
	}
}

// DefaultCapacity returns the stock daily capacity per stage.
func DefaultCapacity() CapacityTable {
	return CapacityTable{
		TaskPreWork:           3,
		TaskSiteVisit:         5,
		TaskReportWriting:     3,
		TaskFinalPresentation: 2,
		TaskRevisit:           2,
	}
}

const (
	DefaultRevisitOffsetMonths   = 3
	DefaultSearchHorizonDays     = 730
	DefaultRegenerateDelayMonths = 12
)

type SchedulingConfig struct {
	DefaultDurations    DurationTable
	Capacity            CapacityTable
	RevisitOffsetMonths int
	SortMode            SortMode
	IncludeRevisit      bool
	// SearchHorizonDays bounds how far past its earliest date a slot search
	// may move before the step is reported unschedulable.
	SearchHorizonDays int
	BookedAnchor      BookedAnchor

	AutoRegenerateVisit   bool
	RegenerateDelayMonths int
}

func DefaultSchedulingConfig() SchedulingConfig {
	return SchedulingConfig{
		DefaultDurations:      DefaultDurations(),
		Capacity:              DefaultCapacity(),
		RevisitOffsetMonths:   DefaultRevisitOffsetMonths,
		SortMode:              SortCreation,
		IncludeRevisit:        true,
		SearchHorizonDays:     DefaultSearchHorizonDays,
		BookedAnchor:          AnchorStart,
		RegenerateDelayMonths: DefaultRegenerateDelayMonths,
	}
}

// Normalize returns a copy with every missing table entry and zero-valued
// knob filled from the defaults. Maps are copied, never shared.
func (c SchedulingConfig) Normalize() SchedulingConfig {
	out := c
	durations := DefaultDurations()
	maps.Copy(durations, c.DefaultDurations)
	out.DefaultDurations = durations

	capacity := DefaultCapacity()
	maps.Copy(capacity, c.Capacity)
	out.Capacity = capacity

	if out.SortMode == "" {
		out.SortMode = SortCreation
	}
	if out.BookedAnchor == "" {
		out.BookedAnchor = AnchorStart
	}
	if out.SearchHorizonDays <= 0 {
		out.SearchHorizonDays = DefaultSearchHorizonDays
	}
	if out.RegenerateDelayMonths <= 0 {
		out.RegenerateDelayMonths = DefaultRegenerateDelayMonths
	}
	return out
}

// Validate checks the knobs a user can set from configuration.
func (c SchedulingConfig) Validate() error {
	if c.SortMode != "" && !ValidSortModes[c.SortMode] {
		return fmt.Errorf("unknown sort mode %q", c.SortMode)
	}
	if c.BookedAnchor != "" && c.BookedAnchor != AnchorStart && c.BookedAnchor != AnchorVisit {
		return fmt.Errorf("unknown booked anchor %q", c.BookedAnchor)
	}
	if c.RevisitOffsetMonths < 0 {
		return fmt.Errorf("revisit offset must be >= 0, got %d", c.RevisitOffsetMonths)
	}
	for t, d := range c.DefaultDurations {
		if !t.Valid() {
			return fmt.Errorf("default duration for unknown task type %q", t)
		}
		if d < 1 {
			return fmt.Errorf("default duration for %s must be >= 1, got %d", t, d)
		}
	}
	for t, n := range c.Capacity {
		if !t.Valid() {
			return fmt.Errorf("capacity for unknown task type %q", t)
		}
		if n < 1 {
			return fmt.Errorf("capacity for %s must be >= 1, got %d", t, n)
		}
	}
	return nil
}
