package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/siteplan/internal/contract"
	"github.com/alexanderramin/siteplan/internal/db"
	"github.com/alexanderramin/siteplan/internal/importer"
	"github.com/alexanderramin/siteplan/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	plan     PlanService
	observer UseCaseObserver
}

// NewImportService replaces the stored plan with the content of a plan
// document. The planner supplies the booked-date anchor.
func NewImportService(uow db.UnitOfWork, plan PlanService, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, plan: plan, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportPlan(ctx context.Context, filePath string) (*ImportResult, error) {
	doc, err := importer.LoadDocument(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportPlanFromDocument(ctx, doc)
}

func (s *importService) ImportPlanFromDocument(ctx context.Context, doc *importer.Document) (result *ImportResult, err error) {
	started := time.Now()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "import_plan", started, &err, fields)

	if errs := importer.ValidateDocument(doc); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	plan, err := importer.Convert(doc, s.plan.Config().BookedAnchor)
	if err != nil {
		return nil, fmt.Errorf("converting plan document: %w", err)
	}

	result = &ImportResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSites := repository.NewSQLiteSiteRepo(tx)
		txHolidays := repository.NewSQLiteHolidayRepo(tx)

		if err := txSites.DeleteAll(ctx); err != nil {
			return err
		}
		if err := txHolidays.DeleteAll(ctx); err != nil {
			return err
		}

		for _, site := range plan.Sites {
			if err := txSites.Create(ctx, site); err != nil {
				return fmt.Errorf("creating site %q: %w", site.Name, err)
			}
			result.SiteCount++
			result.StepCount += len(site.Steps)
		}
		for _, h := range plan.Holidays {
			added, err := txHolidays.CreateIfAbsent(ctx, h)
			if err != nil {
				return fmt.Errorf("creating holiday %s: %w", h.Date.Format("2006-01-02"), err)
			}
			if added {
				result.HolidayCount++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["sites"] = result.SiteCount
	fields["steps"] = result.StepCount
	fields["holidays"] = result.HolidayCount
	return result, nil
}

type exportService struct {
	plan PlanService
}

func NewExportService(plan PlanService) ExportService {
	return &exportService{plan: plan}
}

func (s *exportService) ExportPlan(ctx context.Context, filePath string, now *time.Time) (*importer.Document, error) {
	resp, err := s.plan.Plan(ctx, contract.PlanRequest{Now: now})
	if err != nil {
		return nil, err
	}
	doc := importer.Export(resp.Sites, resp.Holidays)
	if err := importer.WriteDocument(filePath, doc); err != nil {
		return nil, fmt.Errorf("writing export file: %w", err)
	}
	return doc, nil
}
