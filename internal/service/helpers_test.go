package service

import (
	"bytes"
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/siteplan/internal/contract"
	"github.com/alexanderramin/siteplan/internal/db"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/repository"
	"github.com/alexanderramin/siteplan/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// Thursday; the first Monday after it is 2026-01-05.
var testNow = testutil.Day("2026-01-01")

func fixedClock() time.Time { return testNow }

type recordedRun struct {
	sites    int
	blockers int
}

type fakeRecorder struct {
	mu   sync.Mutex
	runs []recordedRun
}

func (r *fakeRecorder) RecordRun(_ time.Duration, sites []domain.Site, blockers []contract.ScheduleBlocker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, recordedRun{sites: len(sites), blockers: len(blockers)})
}

type harness struct {
	db       *sql.DB
	uow      db.UnitOfWork
	siteRepo *repository.SQLiteSiteRepo
	holRepo  *repository.SQLiteHolidayRepo
	logs     *bytes.Buffer
	recorder *fakeRecorder

	plan     PlanService
	sites    SiteService
	steps    StepService
	holidays HolidayService
	imports  ImportService
	exports  ExportService
}

func newHarness(t *testing.T, cfg domain.SchedulingConfig) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	h := &harness{
		db:       database,
		uow:      testutil.NewTestUoW(database),
		siteRepo: repository.NewSQLiteSiteRepo(database),
		holRepo:  repository.NewSQLiteHolidayRepo(database),
		logs:     &bytes.Buffer{},
		recorder: &fakeRecorder{},
	}
	log := zerolog.New(h.logs).Level(zerolog.WarnLevel)
	h.plan = NewPlanService(h.uow, cfg, log, h.recorder)
	h.sites = NewSiteService(h.siteRepo, h.uow)
	h.steps = NewStepService(h.uow, h.plan, fixedClock)
	h.holidays = NewHolidayService(h.holRepo, h.uow)
	h.imports = NewImportService(h.uow, h.plan)
	h.exports = NewExportService(h.plan)
	return h
}

func (h *harness) createSite(t *testing.T, site *domain.Site) *domain.Site {
	t.Helper()
	require.NoError(t, h.siteRepo.Create(context.Background(), site))
	return site
}

func (h *harness) planAt(t *testing.T, now time.Time) *contract.PlanResponse {
	t.Helper()
	resp, err := h.plan.Plan(context.Background(), contract.PlanRequest{Now: &now})
	require.NoError(t, err)
	return resp
}

func scheduledStep(t *testing.T, resp *contract.PlanResponse, siteID string, typ domain.TaskType) *domain.Step {
	t.Helper()
	st, ok := resp.Step(siteID, typ)
	require.True(t, ok, "no %s step for site %s", typ, siteID)
	return st
}

func boolPtr(b bool) *bool { return &b }
