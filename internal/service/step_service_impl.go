package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/alexanderramin/siteplan/internal/calendar"
	"github.com/alexanderramin/siteplan/internal/contract"
	"github.com/alexanderramin/siteplan/internal/db"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/repository"
	"github.com/google/uuid"
)

type stepService struct {
	uow      db.UnitOfWork
	plan     PlanService
	clock    func() time.Time
	observer UseCaseObserver
}

// NewStepService edits stored steps. Edits that depend on the current
// schedule (marking done, pinning a new step) run the planner first.
// A nil clock means the wall clock.
func NewStepService(uow db.UnitOfWork, plan PlanService, clock func() time.Time, observers ...UseCaseObserver) StepService {
	if clock == nil {
		clock = time.Now
	}
	return &stepService{uow: uow, plan: plan, clock: clock, observer: useCaseObserverOrNoop(observers)}
}

func (s *stepService) ToggleDone(ctx context.Context, siteID string, t domain.TaskType) (result *domain.Step, err error) {
	started := time.Now()
	fields := map[string]any{"site_id": siteID, "task": string(t)}
	defer observe(ctx, s.observer, "toggle_done", started, &err, fields)

	now := s.clock()
	resp, err := s.plan.Plan(ctx, contract.PlanRequest{Now: &now, SiteScope: []string{siteID}})
	if err != nil {
		return nil, err
	}
	scheduled, _ := resp.Step(siteID, t)
	cfg := s.plan.Config()
	cal := calendar.New(resp.Holidays)

	err = s.withStep(ctx, siteID, t, func(txSites *repository.SQLiteSiteRepo, site *domain.Site, st *domain.Step) error {
		st.Done = !st.Done
		fields["done"] = st.Done
		if !st.Done {
			// The manual start stays, so the step keeps its place.
			return nil
		}
		pinDone(st, scheduled, cal, cfg, now)

		if t == domain.TaskRevisit && cfg.AutoRegenerateVisit {
			successor, err := regenerate(ctx, txSites, site, st, cal, cfg)
			if err != nil {
				return err
			}
			if successor != nil {
				fields["successor_id"] = successor.ID
			}
		}
		return nil
	}, func(st *domain.Step) { result = st })
	if err != nil {
		return nil, err
	}
	return result, nil
}

// pinDone fixes a step being marked done at its scheduled run. A step the
// planner could not place is pinned to its manual start or today.
func pinDone(st *domain.Step, scheduled *domain.Step, cal *calendar.Calendar, cfg domain.SchedulingConfig, now time.Time) {
	if scheduled != nil && scheduled.State != domain.StepUnschedulable && !scheduled.Start.IsZero() {
		start := scheduled.Start
		st.ManualStart = &start
		st.Start = start
		st.Finish = scheduled.Finish
		st.Duration = scheduled.Duration
		return
	}
	start := calendar.Day(now)
	if st.ManualStart != nil {
		start = calendar.Day(*st.ManualStart)
	}
	start = cal.OnOrAfterWorkday(start, st.Type.ExcludesFriday())
	st.ManualStart = &start
	st.Start = start
	st.Duration = domain.FirstPositive(cfg.DefaultDurations[st.Type], st.Duration)
	st.Finish = cal.SpanWorkdays(start, st.Duration)
}

// regenerate books the next visit of a site whose revisit was just marked
// done. A site is regenerated at most once.
func regenerate(ctx context.Context, txSites *repository.SQLiteSiteRepo, site *domain.Site, revisit *domain.Step, cal *calendar.Calendar, cfg domain.SchedulingConfig) (*domain.Site, error) {
	if _, err := txSites.FindSuccessor(ctx, site.ID); err == nil {
		return nil, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	finish := revisit.Finish
	if finish.IsZero() {
		finish = cal.SpanWorkdays(revisit.Start, revisit.Duration)
	}
	booked := cal.ShiftByMonthsAndSnap(finish, cfg.RegenerateDelayMonths)

	next, err := txSites.NextOrder(ctx)
	if err != nil {
		return nil, err
	}
	predecessor := site.ID
	successor := &domain.Site{
		ID:            uuid.New().String(),
		Name:          domain.BaseName(site.Name),
		Owner:         site.Owner,
		Notes:         site.Notes,
		Status:        domain.SiteBooked,
		BookedDate:    &booked,
		CreatedAt:     time.Now().UTC(),
		Order:         next,
		Version:       site.Version + 1,
		PredecessorID: &predecessor,
		Durations:     maps.Clone(site.Durations),
		Excluded:      maps.Clone(site.Excluded),
	}
	if err := txSites.Create(ctx, successor); err != nil {
		return nil, fmt.Errorf("creating successor of %s: %w", site.ID, err)
	}
	return successor, nil
}

func (s *stepService) Move(ctx context.Context, siteID string, t domain.TaskType, date time.Time) error {
	if date.IsZero() {
		return invalidInput("a start date is required")
	}
	now := s.clock()
	resp, err := s.plan.Plan(ctx, contract.PlanRequest{Now: &now, SiteScope: []string{siteID}})
	if err != nil {
		return err
	}
	scheduled, _ := resp.Step(siteID, t)

	return s.withStep(ctx, siteID, t, func(_ *repository.SQLiteSiteRepo, _ *domain.Site, st *domain.Step) error {
		d := calendar.Day(date)
		st.ManualStart = &d
		if st.Duration <= 0 && scheduled != nil {
			st.Duration = scheduled.Duration
		}
		return nil
	}, nil)
}

func (s *stepService) ClearManualStart(ctx context.Context, siteID string, t domain.TaskType) error {
	return s.withStep(ctx, siteID, t, func(_ *repository.SQLiteSiteRepo, _ *domain.Site, st *domain.Step) error {
		if st.Done {
			return invalidInput("%s is done; mark it not done before releasing it", t.Label())
		}
		st.ManualStart = nil
		return nil
	}, nil)
}

func (s *stepService) SetDuration(ctx context.Context, siteID string, t domain.TaskType, days int) error {
	if days < 1 {
		return invalidInput("duration must be at least 1 workday, got %d", days)
	}
	return s.withStep(ctx, siteID, t, func(_ *repository.SQLiteSiteRepo, _ *domain.Site, st *domain.Step) error {
		st.Duration = days
		return nil
	}, nil)
}

func (s *stepService) SetConfirmed(ctx context.Context, siteID string, t domain.TaskType, confirmed *bool) error {
	return s.withStep(ctx, siteID, t, func(_ *repository.SQLiteSiteRepo, _ *domain.Site, st *domain.Step) error {
		if confirmed == nil {
			st.Confirmed = nil
			return nil
		}
		c := *confirmed
		st.Confirmed = &c
		return nil
	}, nil)
}

// withStep loads the stored step of type t, creating it when absent, lets
// mutate edit it and writes it back, all in one transaction. done, when
// set, receives the written step.
func (s *stepService) withStep(
	ctx context.Context,
	siteID string,
	t domain.TaskType,
	mutate func(txSites *repository.SQLiteSiteRepo, site *domain.Site, st *domain.Step) error,
	done func(*domain.Step),
) error {
	if !t.Valid() {
		return invalidInput("unknown task type %q", t)
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSites := repository.NewSQLiteSiteRepo(tx)
		site, err := txSites.GetByID(ctx, siteID)
		if err != nil {
			return err
		}
		st := domain.Step{SiteID: site.ID, Type: t}
		if existing, ok := site.StepFor(t); ok {
			st = existing.Clone()
		}
		if err := mutate(txSites, site, &st); err != nil {
			return err
		}
		if err := txSites.UpsertStep(ctx, &st); err != nil {
			return err
		}
		if done != nil {
			done(&st)
		}
		return nil
	})
}
