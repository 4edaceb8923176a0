package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/siteplan/internal/contract"
	"github.com/alexanderramin/siteplan/internal/db"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/metrics"
	"github.com/alexanderramin/siteplan/internal/repository"
	"github.com/alexanderramin/siteplan/internal/scheduler"
	"github.com/rs/zerolog"
)

type planService struct {
	uow      db.UnitOfWork
	log      zerolog.Logger
	recorder metrics.Recorder
	observer UseCaseObserver

	mu  sync.RWMutex
	cfg domain.SchedulingConfig
}

// NewPlanService schedules the stored plan on demand. A nil recorder
// disables metrics.
func NewPlanService(
	uow db.UnitOfWork,
	cfg domain.SchedulingConfig,
	log zerolog.Logger,
	recorder metrics.Recorder,
	observers ...UseCaseObserver,
) PlanService {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &planService{
		uow:      uow,
		log:      log,
		recorder: recorder,
		observer: useCaseObserverOrNoop(observers),
		cfg:      cfg.Normalize(),
	}
}

func (s *planService) Config() domain.SchedulingConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// SetConfig swaps the configuration used by later runs. An invalid
// configuration is rejected and the current one kept.
func (s *planService) SetConfig(cfg domain.SchedulingConfig) error {
	if err := cfg.Validate(); err != nil {
		return &contract.PlanError{Code: contract.PlanErrInvalidConfig, Message: err.Error()}
	}
	s.mu.Lock()
	s.cfg = cfg.Normalize()
	s.mu.Unlock()
	return nil
}

func (s *planService) Plan(ctx context.Context, req contract.PlanRequest) (resp *contract.PlanResponse, err error) {
	started := time.Now()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "plan", started, &err, fields)

	now := time.Now().UTC()
	if req.Now != nil {
		now = *req.Now
	}
	cfg := s.Config()
	if err := cfg.Validate(); err != nil {
		return nil, &contract.PlanError{Code: contract.PlanErrInvalidConfig, Message: err.Error()}
	}

	var (
		stored   []*domain.Site
		holidays []domain.Holiday
	)
	err = s.uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		if stored, err = repository.NewSQLiteSiteRepo(tx).List(ctx); err != nil {
			return fmt.Errorf("loading sites: %w", err)
		}
		if holidays, err = repository.NewSQLiteHolidayRepo(tx).List(ctx); err != nil {
			return fmt.Errorf("loading holidays: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := checkScope(stored, req.SiteScope); err != nil {
		return nil, err
	}

	sites := make([]domain.Site, len(stored))
	for i, st := range stored {
		sites[i] = *st
	}

	runStarted := time.Now()
	res := scheduler.ScheduleAll(sites, holidays, cfg, now)
	s.recorder.RecordRun(time.Since(runStarted), res.Sites, res.Blockers)

	for _, b := range res.Blockers {
		s.log.Warn().
			Str("site_id", b.SiteID).
			Str("site", b.SiteName).
			Str("task", string(b.TaskType)).
			Str("code", string(b.Code)).
			Time("earliest", b.Earliest).
			Msg(b.Message)
	}

	fields["sites"] = len(res.Sites)
	fields["blockers"] = len(res.Blockers)

	return &contract.PlanResponse{
		GeneratedAt: now,
		Sites:       filterSitesByScope(res.Sites, req.SiteScope),
		Holidays:    holidays,
		Blockers:    filterBlockersByScope(res.Blockers, req.SiteScope),
	}, nil
}

func checkScope(sites []*domain.Site, scope []string) error {
	if len(scope) == 0 {
		return nil
	}
	known := make(map[string]bool, len(sites))
	for _, s := range sites {
		known[s.ID] = true
	}
	for _, id := range scope {
		if !known[id] {
			return &contract.PlanError{Code: contract.PlanErrSiteNotFound, Message: "site " + id}
		}
	}
	return nil
}
