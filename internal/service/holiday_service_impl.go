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

// seedHolidays are the England and Wales bank holidays of 2026.
var seedHolidays = []struct {
	date  string
	label string
}{
	{"2026-01-01", "New Year's Day"},
	{"2026-04-03", "Good Friday"},
	{"2026-04-06", "Easter Monday"},
	{"2026-05-04", "Early May bank holiday"},
	{"2026-05-25", "Spring bank holiday"},
	{"2026-08-31", "Summer bank holiday"},
	{"2026-12-25", "Christmas Day"},
	{"2026-12-28", "Boxing Day (substitute day)"},
}

type holidayService struct {
	holidays repository.HolidayRepo
	uow      db.UnitOfWork
}

func NewHolidayService(holidays repository.HolidayRepo, uow db.UnitOfWork) HolidayService {
	return &holidayService{holidays: holidays, uow: uow}
}

func (s *holidayService) Add(ctx context.Context, date time.Time, label string) (*domain.Holiday, error) {
	if date.IsZero() {
		return nil, invalidInput("a holiday date is required")
	}
	h := &domain.Holiday{
		ID:    uuid.New().String(),
		Date:  calendar.Day(date),
		Label: strings.TrimSpace(label),
	}
	if err := s.holidays.Create(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *holidayService) List(ctx context.Context) ([]domain.Holiday, error) {
	return s.holidays.List(ctx)
}

func (s *holidayService) Remove(ctx context.Context, id string) error {
	return s.holidays.Delete(ctx, id)
}

func (s *holidayService) Seed(ctx context.Context) (int, error) {
	added := 0
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txHolidays := repository.NewSQLiteHolidayRepo(tx)
		for _, sh := range seedHolidays {
			date, err := calendar.ParseDate(sh.date)
			if err != nil {
				return err
			}
			ok, err := txHolidays.CreateIfAbsent(ctx, &domain.Holiday{
				ID:    uuid.New().String(),
				Date:  date,
				Label: sh.label,
			})
			if err != nil {
				return err
			}
			if ok {
				added++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}
