package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepLock_DoneBeatsManual(t *testing.T) {
	manual := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	stored := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	st := Step{Done: true, ManualStart: &manual, Start: stored}
	lock := st.Lock()
	assert.Equal(t, LockDone, lock.Kind)
	assert.Equal(t, manual, lock.Date)

	st.ManualStart = nil
	lock = st.Lock()
	assert.Equal(t, LockDone, lock.Kind)
	assert.Equal(t, stored, lock.Date, "done without manual falls back to stored start")
}

func TestStepLock_ManualOnly(t *testing.T) {
	manual := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	lock := Step{ManualStart: &manual}.Lock()
	assert.Equal(t, LockManual, lock.Kind)
	assert.True(t, lock.Locked())
}

func TestStepLock_ZeroManualIsUnset(t *testing.T) {
	var zero time.Time
	lock := Step{ManualStart: &zero}.Lock()
	assert.Equal(t, LockUnset, lock.Kind)
	assert.False(t, lock.Locked())
}

func TestSiteClone_DoesNotShareState(t *testing.T) {
	booked := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	manual := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	s := Site{
		ID:         "s1",
		BookedDate: &booked,
		Durations:  map[TaskType]int{TaskPreWork: 5},
		Excluded:   map[TaskType]bool{TaskRevisit: true},
		Steps:      []Step{{Type: TaskPreWork, ManualStart: &manual}},
	}

	c := s.Clone()
	c.Durations[TaskPreWork] = 9
	c.Excluded[TaskSiteVisit] = true
	*c.BookedDate = booked.AddDate(0, 0, 1)
	*c.Steps[0].ManualStart = manual.AddDate(0, 0, 1)
	c.Steps[0].Done = true

	assert.Equal(t, 5, s.Durations[TaskPreWork])
	assert.False(t, s.Excluded[TaskSiteVisit])
	assert.Equal(t, booked, *s.BookedDate)
	assert.Equal(t, manual, *s.Steps[0].ManualStart)
	assert.False(t, s.Steps[0].Done)
}

func TestSite_RevisitReady(t *testing.T) {
	s := Site{}
	for _, tt := range RevisitPrerequisites {
		s.Steps = append(s.Steps, Step{Type: tt, Done: true})
	}
	assert.True(t, s.RevisitReady())

	s.Steps[2].Done = false
	assert.False(t, s.RevisitReady())

	s.Steps = s.Steps[:3]
	assert.False(t, s.RevisitReady(), "missing final presentation")
}

func TestSite_DisplayName(t *testing.T) {
	s := Site{Name: "Depot", Version: 1}
	assert.Equal(t, "Depot", s.DisplayName())
	s.Version = 3
	assert.Equal(t, "Depot (V3)", s.DisplayName())
	assert.Equal(t, "Depot", BaseName("Depot (V2)"))
	assert.Equal(t, "Depot", BaseName("Depot"))
}

func TestParseTaskType(t *testing.T) {
	cases := map[string]TaskType{
		"pre_work":           TaskPreWork,
		"Pre-work":           TaskPreWork,
		"Site visit":         TaskSiteVisit,
		"REPORT_WRITING":     TaskReportWriting,
		"final presentation": TaskFinalPresentation,
		"revisit":            TaskRevisit,
	}
	for in, want := range cases {
		got, err := ParseTaskType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTaskType("lunch")
	assert.Error(t, err)
}

func TestSchedulingConfig_NormalizeFillsGaps(t *testing.T) {
	cfg := SchedulingConfig{
		DefaultDurations: DurationTable{TaskReportWriting: 7},
		Capacity:         CapacityTable{TaskSiteVisit: 1},
	}
	n := cfg.Normalize()

	assert.Equal(t, 7, n.DefaultDurations[TaskReportWriting])
	assert.Equal(t, 2, n.DefaultDurations[TaskPreWork])
	assert.Equal(t, 1, n.Capacity[TaskSiteVisit])
	assert.Equal(t, 3, n.Capacity[TaskPreWork])
	assert.Equal(t, SortCreation, n.SortMode)
	assert.Equal(t, AnchorStart, n.BookedAnchor)
	assert.Equal(t, DefaultSearchHorizonDays, n.SearchHorizonDays)

	n.Capacity[TaskPreWork] = 99
	assert.NotContains(t, cfg.Capacity, TaskPreWork, "normalize must not alias the input map")
}

func TestSchedulingConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultSchedulingConfig().Validate())

	bad := DefaultSchedulingConfig()
	bad.SortMode = "random"
	assert.Error(t, bad.Validate())

	bad = DefaultSchedulingConfig()
	bad.Capacity[TaskSiteVisit] = 0
	assert.Error(t, bad.Validate())

	bad = DefaultSchedulingConfig()
	bad.DefaultDurations["lunch"] = 1
	assert.Error(t, bad.Validate())
}
