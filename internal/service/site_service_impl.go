package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/siteplan/internal/calendar"
	"github.com/alexanderramin/siteplan/internal/db"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/repository"
	"github.com/google/uuid"
)

type siteService struct {
	sites repository.SiteRepo
	uow   db.UnitOfWork
}

func NewSiteService(sites repository.SiteRepo, uow db.UnitOfWork) SiteService {
	return &siteService{sites: sites, uow: uow}
}

func (s *siteService) Add(ctx context.Context, in NewSite) (*domain.Site, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalidInput("site name is required")
	}
	site := &domain.Site{
		ID:        uuid.New().String(),
		Name:      name,
		Owner:     strings.TrimSpace(in.Owner),
		Notes:     in.Notes,
		Status:    domain.SiteTBC,
		CreatedAt: time.Now().UTC(),
		Version:   1,
	}
	if in.BookedDate != nil {
		d := calendar.Day(*in.BookedDate)
		site.Status = domain.SiteBooked
		site.BookedDate = &d
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSites := repository.NewSQLiteSiteRepo(tx)
		next, err := txSites.NextOrder(ctx)
		if err != nil {
			return err
		}
		site.Order = next
		return txSites.Create(ctx, site)
	})
	if err != nil {
		return nil, err
	}
	return site, nil
}

func (s *siteService) GetByID(ctx context.Context, id string) (*domain.Site, error) {
	return s.sites.GetByID(ctx, id)
}

func (s *siteService) List(ctx context.Context) ([]*domain.Site, error) {
	return s.sites.List(ctx)
}

func (s *siteService) Remove(ctx context.Context, id string) error {
	return s.sites.Delete(ctx, id)
}

func (s *siteService) Confirm(ctx context.Context, id string, date time.Time) error {
	if date.IsZero() {
		return invalidInput("a booking date is required")
	}
	return s.update(ctx, id, func(site *domain.Site) error {
		d := calendar.Day(date)
		site.Status = domain.SiteBooked
		site.BookedDate = &d
		return nil
	})
}

func (s *siteService) SetSiteDuration(ctx context.Context, id string, t domain.TaskType, days int) error {
	if days < 1 {
		return invalidInput("duration must be at least 1 workday, got %d", days)
	}
	return s.update(ctx, id, func(site *domain.Site) error {
		if site.Durations == nil {
			site.Durations = map[domain.TaskType]int{}
		}
		site.Durations[t] = days
		return nil
	})
}

func (s *siteService) ClearSiteDuration(ctx context.Context, id string, t domain.TaskType) error {
	return s.update(ctx, id, func(site *domain.Site) error {
		delete(site.Durations, t)
		return nil
	})
}

func (s *siteService) SetExcluded(ctx context.Context, id string, t domain.TaskType, excluded bool) error {
	return s.update(ctx, id, func(site *domain.Site) error {
		if site.Excluded == nil {
			site.Excluded = map[domain.TaskType]bool{}
		}
		if excluded {
			site.Excluded[t] = true
		} else {
			delete(site.Excluded, t)
		}
		return nil
	})
}

// update runs a read-modify-write of one site row inside a transaction.
func (s *siteService) update(ctx context.Context, id string, mutate func(*domain.Site) error) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSites := repository.NewSQLiteSiteRepo(tx)
		site, err := txSites.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := mutate(site); err != nil {
			return err
		}
		return txSites.Update(ctx, site)
	})
}
