package service

import (
	"context"
	"time"

	"github.com/alexanderramin/siteplan/internal/contract"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/importer"
)

// NewSite is the input of SiteService.Add.
type NewSite struct {
	Name  string
	Owner string
	Notes string
	// BookedDate, when set, creates the site Booked on that date.
	BookedDate *time.Time
}

type SiteService interface {
	Add(ctx context.Context, in NewSite) (*domain.Site, error)
	GetByID(ctx context.Context, id string) (*domain.Site, error)
	List(ctx context.Context) ([]*domain.Site, error)
	Remove(ctx context.Context, id string) error
	// Confirm books a TBC site on date.
	Confirm(ctx context.Context, id string, date time.Time) error
	// SetSiteDuration stores a site-level override that wins over any step duration.
	SetSiteDuration(ctx context.Context, id string, t domain.TaskType, days int) error
	ClearSiteDuration(ctx context.Context, id string, t domain.TaskType) error
	SetExcluded(ctx context.Context, id string, t domain.TaskType, excluded bool) error
}

type StepService interface {
	// ToggleDone flips the done flag of a step. Marking done pins the step
	// to its currently scheduled start and duration.
	ToggleDone(ctx context.Context, siteID string, t domain.TaskType) (*domain.Step, error)
	// Move pins a step's start to date.
	Move(ctx context.Context, siteID string, t domain.TaskType, date time.Time) error
	// ClearManualStart releases a pinned, not-done step back to the scheduler.
	ClearManualStart(ctx context.Context, siteID string, t domain.TaskType) error
	SetDuration(ctx context.Context, siteID string, t domain.TaskType, days int) error
	// SetConfirmed stores an explicit confirmation; nil falls back to the site status.
	SetConfirmed(ctx context.Context, siteID string, t domain.TaskType, confirmed *bool) error
}

type HolidayService interface {
	Add(ctx context.Context, date time.Time, label string) (*domain.Holiday, error)
	List(ctx context.Context) ([]domain.Holiday, error)
	Remove(ctx context.Context, id string) error
	// Seed inserts the bundled bank holidays, skipping dates already present.
	Seed(ctx context.Context) (int, error)
}

type PlanService interface {
	Plan(ctx context.Context, req contract.PlanRequest) (*contract.PlanResponse, error)
	Config() domain.SchedulingConfig
	SetConfig(cfg domain.SchedulingConfig) error
}

// ImportResult holds the outcome of a plan import.
type ImportResult struct {
	SiteCount    int
	StepCount    int
	HolidayCount int
}

type ImportService interface {
	ImportPlan(ctx context.Context, filePath string) (*ImportResult, error)
	ImportPlanFromDocument(ctx context.Context, doc *importer.Document) (*ImportResult, error)
}

type ExportService interface {
	// ExportPlan schedules the stored plan at now and writes it to filePath.
	ExportPlan(ctx context.Context, filePath string, now *time.Time) (*importer.Document, error)
}
