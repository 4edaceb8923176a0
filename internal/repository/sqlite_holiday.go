package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/siteplan/internal/db"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/google/uuid"
)

type SQLiteHolidayRepo struct {
	db db.DBTX
}

func NewSQLiteHolidayRepo(conn db.DBTX) *SQLiteHolidayRepo {
	return &SQLiteHolidayRepo{db: conn}
}

func (r *SQLiteHolidayRepo) Create(ctx context.Context, h *domain.Holiday) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO holidays (id, date, label, created_at) VALUES (?, ?, ?, ?)`,
		h.ID, h.Date.Format(dateLayout), h.Label, nowUTC())
	if err != nil {
		return fmt.Errorf("inserting holiday: %w", err)
	}
	return nil
}

func (r *SQLiteHolidayRepo) CreateIfAbsent(ctx context.Context, h *domain.Holiday) (bool, error) {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO holidays (id, date, label, created_at) VALUES (?, ?, ?, ?)`,
		h.ID, h.Date.Format(dateLayout), h.Label, nowUTC())
	if err != nil {
		return false, fmt.Errorf("inserting holiday: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading insert result: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteHolidayRepo) List(ctx context.Context) ([]domain.Holiday, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, date, label FROM holidays ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("listing holidays: %w", err)
	}
	defer rows.Close()

	var out []domain.Holiday
	for rows.Next() {
		var h domain.Holiday
		var date string
		if err := rows.Scan(&h.ID, &date, &h.Label); err != nil {
			return nil, fmt.Errorf("scanning holiday: %w", err)
		}
		h.Date, err = time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parsing holiday date %q: %w", date, err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating holidays: %w", err)
	}
	return out, nil
}

func (r *SQLiteHolidayRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting holiday: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("holiday %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteHolidayRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM holidays`); err != nil {
		return fmt.Errorf("deleting holidays: %w", err)
	}
	return nil
}
