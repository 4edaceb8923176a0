package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/siteplan/internal/calendar"
	"github.com/alexanderramin/siteplan/internal/contract"
	"github.com/alexanderramin/siteplan/internal/domain"
)

// Result is the output of one scheduling run.
type Result struct {
	// Sites in placement order, each with a freshly computed step list.
	Sites []domain.Site
	// Blockers lists every step emitted without dates.
	Blockers []contract.ScheduleBlocker
}

// stage is one active pipeline entry of a site, resolved before placement.
type stage struct {
	typ      domain.TaskType
	existing *domain.Step
	duration int
	lock     domain.Lock
}

// ScheduleAll dates every site's pipeline against holidays and per-type
// capacity. It never mutates its inputs and keeps no state between calls:
// the capacity ledger lives and dies inside this function.
//
// now anchors TBC sites and stands in for missing dates; a zero now means
// the wall clock.
func ScheduleAll(sites []domain.Site, holidays []domain.Holiday, cfg domain.SchedulingConfig, now time.Time) Result {
	cfg = cfg.Normalize()
	if now.IsZero() {
		now = time.Now()
	}
	today := calendar.Day(now)

	cal := calendar.New(holidays)
	ledger := NewLedger(cfg.Capacity)
	finder := NewSlotFinder(cal, ledger, cfg.SearchHorizonDays)

	ordered := SortSites(sites, cfg.SortMode)
	plans := make([][]stage, len(ordered))
	for i := range ordered {
		plans[i] = activeStages(&ordered[i], cfg)
	}

	// Locked runs are authoritative regardless of placement order, so they
	// are booked before any unlocked step searches for capacity.
	for _, stages := range plans {
		for _, st := range stages {
			if st.lock.Locked() {
				finder.ReserveRun(lockStart(cal, st.lock, today), st.duration, st.typ)
			}
		}
	}

	res := Result{Sites: make([]domain.Site, 0, len(ordered))}
	for i := range ordered {
		site, blockers := placeSite(ordered[i], plans[i], cal, finder, cfg, today)
		res.Sites = append(res.Sites, site)
		res.Blockers = append(res.Blockers, blockers...)
	}
	return res
}

// activeStages filters the fixed pipeline down to the stages this site
// walks on this run and resolves each stage's duration and lock.
func activeStages(site *domain.Site, cfg domain.SchedulingConfig) []stage {
	revisitReady := site.RevisitReady()
	stages := make([]stage, 0, len(domain.Pipeline))
	for _, t := range domain.Pipeline {
		if t == domain.TaskRevisit && !cfg.IncludeRevisit {
			continue
		}
		if site.IsExcluded(t) {
			continue
		}

		existing, has := site.StepFor(t)
		var lock domain.Lock
		if has {
			lock = existing.Lock()
		} else {
			existing = nil
		}

		// Revisit appears once the four prior stages are done, or when the
		// revisit itself was already pinned.
		if t == domain.TaskRevisit && !revisitReady && !lock.Locked() {
			continue
		}

		stages = append(stages, stage{
			typ:      t,
			existing: existing,
			duration: resolveDuration(site, existing, t, cfg),
			lock:     lock,
		})
	}
	return stages
}

// resolveDuration: site override, then stored step duration, then default.
// A site override is honoured even when non-positive; the calendar treats
// that as a zero-length run.
func resolveDuration(site *domain.Site, existing *domain.Step, t domain.TaskType, cfg domain.SchedulingConfig) int {
	if d, ok := site.Durations[t]; ok {
		return d
	}
	stored := 0
	if existing != nil {
		stored = existing.Duration
	}
	return domain.FirstPositive(cfg.DefaultDurations[t], stored)
}

func lockStart(cal *calendar.Calendar, lock domain.Lock, today time.Time) time.Time {
	date := lock.Date
	if date.IsZero() {
		date = today
	}
	return cal.OnOrAfterWorkday(date, false)
}

func siteCursor(cal *calendar.Calendar, site *domain.Site, today time.Time) time.Time {
	if site.Status == domain.SiteBooked {
		if site.BookedDate != nil && !site.BookedDate.IsZero() {
			return calendar.Day(*site.BookedDate)
		}
		return today
	}
	return cal.OnOrAfterWorkday(today, false)
}

func placeSite(
	site domain.Site,
	stages []stage,
	cal *calendar.Calendar,
	finder *SlotFinder,
	cfg domain.SchedulingConfig,
	today time.Time,
) (domain.Site, []contract.ScheduleBlocker) {
	out := site.Clone()
	out.Steps = make([]domain.Step, 0, len(stages))

	var blockers []contract.ScheduleBlocker
	cursor := siteCursor(cal, &site, today)
	earliest := cursor
	cursorLost := false
	visitAnchored := site.Status == domain.SiteBooked && cfg.BookedAnchor == domain.AnchorVisit

	var fpFinish time.Time

	for i, st := range stages {
		step := newStep(&site, st)
		confirmed := domain.BoolFromPtrWithDefault(site.Status == domain.SiteBooked, stepConfirmed(st.existing))
		step.Confirmed = &confirmed
		step.Tentative = !confirmed

		var slot Slot
		var err error
		anchoredBack := false

		switch {
		case st.lock.Locked():
			start := lockStart(cal, st.lock, today)
			slot = Slot{Start: start, Finish: cal.SpanWorkdays(start, st.duration)}
			step.State = domain.StepLocked

		case st.typ == domain.TaskRevisit && !fpFinish.IsZero():
			start := cal.ShiftByMonthsAndSnap(fpFinish, cfg.RevisitOffsetMonths)
			slot = finder.ReserveRun(start, st.duration, st.typ)
			step.State = domain.StepScheduled

		case cursorLost:
			step.State = domain.StepUnschedulable
			blockers = append(blockers, contract.ScheduleBlocker{
				SiteID:   site.ID,
				SiteName: site.DisplayName(),
				TaskType: st.typ,
				Code:     contract.BlockerPredecessorUnschedulable,
				Message:  fmt.Sprintf("%s has no start: an earlier stage could not be placed", st.typ.Label()),
			})
			out.Steps = append(out.Steps, step)
			continue

		case visitAnchored && i == 0 && st.typ == domain.TaskPreWork:
			slot, err = finder.FindBackward(cal.BeforeWorkday(cursor), st.duration, st.typ)
			step.State = domain.StepScheduled
			anchoredBack = true

		default:
			from := earliest
			if visitAnchored && st.typ == domain.TaskSiteVisit && from.Before(cursor) {
				from = cursor
			}
			slot, err = finder.Find(from, st.duration, st.typ)
			step.State = domain.StepScheduled
		}

		if err != nil {
			step.State = domain.StepUnschedulable
			blockers = append(blockers, slotBlocker(&site, st.typ, err))
			out.Steps = append(out.Steps, step)
			if anchoredBack {
				// The visit still has its booked date.
				earliest = cursor
			} else {
				cursorLost = true
			}
			continue
		}

		step.Start = slot.Start
		step.Finish = slot.Finish
		out.Steps = append(out.Steps, step)

		if st.typ == domain.TaskFinalPresentation {
			fpFinish = slot.Finish
		}
		cursorLost = false
		if anchoredBack {
			// The visit itself is pinned to the booked date.
			earliest = cursor
		} else {
			earliest = calendar.AddDays(slot.Finish, 1)
		}
	}
	return out, blockers
}

func newStep(site *domain.Site, st stage) domain.Step {
	step := domain.Step{
		ID:       site.ID + "-" + string(st.typ),
		SiteID:   site.ID,
		Type:     st.typ,
		Duration: st.duration,
	}
	if st.existing != nil {
		if st.existing.ID != "" {
			step.ID = st.existing.ID
		}
		step.Done = st.existing.Done
		if st.existing.ManualStart != nil {
			d := *st.existing.ManualStart
			step.ManualStart = &d
		}
	}
	return step
}

func stepConfirmed(existing *domain.Step) *bool {
	if existing == nil {
		return nil
	}
	return existing.Confirmed
}

func slotBlocker(site *domain.Site, t domain.TaskType, err error) contract.ScheduleBlocker {
	b := contract.ScheduleBlocker{
		SiteID:   site.ID,
		SiteName: site.DisplayName(),
		TaskType: t,
		Code:     contract.BlockerNoFeasibleSlot,
		Message:  err.Error(),
	}
	var se *SlotError
	if errors.As(err, &se) {
		b.Earliest = se.Anchor
	}
	return b
}
