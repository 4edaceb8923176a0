package repository

import (
	"context"

	"github.com/alexanderramin/siteplan/internal/domain"
)

// SiteRepo persists sites together with their per-site overrides and
// stored steps. Loaded sites always carry Durations, Excluded and Steps.
type SiteRepo interface {
	Create(ctx context.Context, s *domain.Site) error
	GetByID(ctx context.Context, id string) (*domain.Site, error)
	List(ctx context.Context) ([]*domain.Site, error)
	// FindSuccessor returns the site regenerated from predecessorID.
	FindSuccessor(ctx context.Context, predecessorID string) (*domain.Site, error)
	// Update writes the site row and replaces its overrides. Steps are untouched.
	Update(ctx context.Context, s *domain.Site) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	NextOrder(ctx context.Context) (int, error)

	UpsertStep(ctx context.Context, st *domain.Step) error
	ReplaceSteps(ctx context.Context, siteID string, steps []domain.Step) error
}

type HolidayRepo interface {
	Create(ctx context.Context, h *domain.Holiday) error
	// CreateIfAbsent inserts h unless a holiday already falls on its date.
	CreateIfAbsent(ctx context.Context, h *domain.Holiday) (bool, error)
	List(ctx context.Context) ([]domain.Holiday, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}
