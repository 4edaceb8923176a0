package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/siteplan/internal/db"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/google/uuid"
)

// SQLiteSiteRepo implements SiteRepo on a DBTX, so it can run inside a
// UnitOfWork transaction or directly against the database.
type SQLiteSiteRepo struct {
	db db.DBTX
}

func NewSQLiteSiteRepo(conn db.DBTX) *SQLiteSiteRepo {
	return &SQLiteSiteRepo{db: conn}
}

const siteColumns = `id, name, owner, notes, status, booked_date, order_index, version, predecessor_id, created_at`

const stepColumns = `id, site_id, task_type, duration, start_date, finish_date, done, manual_start, confirmed`

func (r *SQLiteSiteRepo) Create(ctx context.Context, s *domain.Site) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if s.Version < 1 {
		s.Version = 1
	}
	if s.Status == "" {
		s.Status = domain.SiteTBC
	}

	query := `INSERT INTO sites (` + siteColumns + `, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Name,
		s.Owner,
		s.Notes,
		string(s.Status),
		nullableDate(s.BookedDate),
		s.Order,
		s.Version,
		nullableString(s.PredecessorID),
		s.CreatedAt.UTC().Format(time.RFC3339),
		nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting site: %w", err)
	}

	if err := r.writeOverrides(ctx, s); err != nil {
		return err
	}
	return r.ReplaceSteps(ctx, s.ID, s.Steps)
}

func (r *SQLiteSiteRepo) GetByID(ctx context.Context, id string) (*domain.Site, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+siteColumns+` FROM sites WHERE id = ?`, id)
	s, err := scanSite(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("site %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning site: %w", err)
	}
	if err := r.loadChildren(ctx, []*domain.Site{s}); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SQLiteSiteRepo) FindSuccessor(ctx context.Context, predecessorID string) (*domain.Site, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+siteColumns+` FROM sites WHERE predecessor_id = ? ORDER BY version DESC LIMIT 1`, predecessorID)
	s, err := scanSite(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("successor of %s: %w", predecessorID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning site: %w", err)
	}
	if err := r.loadChildren(ctx, []*domain.Site{s}); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SQLiteSiteRepo) List(ctx context.Context) ([]*domain.Site, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+siteColumns+` FROM sites ORDER BY order_index, created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing sites: %w", err)
	}
	defer rows.Close()

	var sites []*domain.Site
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning site row: %w", err)
		}
		sites = append(sites, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sites: %w", err)
	}
	if err := r.loadChildren(ctx, sites); err != nil {
		return nil, err
	}
	return sites, nil
}

func (r *SQLiteSiteRepo) Update(ctx context.Context, s *domain.Site) error {
	query := `UPDATE sites SET name = ?, owner = ?, notes = ?, status = ?, booked_date = ?,
		order_index = ?, version = ?, predecessor_id = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.Name,
		s.Owner,
		s.Notes,
		string(s.Status),
		nullableDate(s.BookedDate),
		s.Order,
		s.Version,
		nullableString(s.PredecessorID),
		nowUTC(),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating site: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("site %s: %w", s.ID, ErrNotFound)
	}
	return r.writeOverrides(ctx, s)
}

func (r *SQLiteSiteRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sites WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting site: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("site %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteAll removes every site. Steps and overrides go with them via cascade.
func (r *SQLiteSiteRepo) DeleteAll(ctx context.Context) error {
	// Successor links would otherwise be rewritten row by row.
	if _, err := r.db.ExecContext(ctx, `UPDATE sites SET predecessor_id = NULL`); err != nil {
		return fmt.Errorf("clearing site links: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sites`); err != nil {
		return fmt.Errorf("deleting sites: %w", err)
	}
	return nil
}

func (r *SQLiteSiteRepo) NextOrder(ctx context.Context) (int, error) {
	var next int
	if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(order_index), -1) + 1 FROM sites`).Scan(&next); err != nil {
		return 0, fmt.Errorf("computing next site order: %w", err)
	}
	return next, nil
}

// UpsertStep writes the stored step of st.Type for st.SiteID, keeping the
// existing row's ID when one is already there.
func (r *SQLiteSiteRepo) UpsertStep(ctx context.Context, st *domain.Step) error {
	res, err := r.db.ExecContext(ctx, `UPDATE site_steps SET duration = ?, start_date = ?, finish_date = ?,
		done = ?, manual_start = ?, confirmed = ?
		WHERE site_id = ? AND task_type = ?`,
		st.Duration,
		dateOrNull(st.Start),
		dateOrNull(st.Finish),
		boolToInt(st.Done),
		nullableDate(st.ManualStart),
		nullableBool(st.Confirmed),
		st.SiteID,
		string(st.Type),
	)
	if err != nil {
		return fmt.Errorf("updating %s step: %w", st.Type, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO site_steps (`+stepColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stepArgs(st)...); err != nil {
		return fmt.Errorf("inserting %s step: %w", st.Type, err)
	}
	return nil
}

// ReplaceSteps swaps the stored step set of a site for steps.
func (r *SQLiteSiteRepo) ReplaceSteps(ctx context.Context, siteID string, steps []domain.Step) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM site_steps WHERE site_id = ?`, siteID); err != nil {
		return fmt.Errorf("clearing steps: %w", err)
	}
	for i := range steps {
		st := steps[i]
		st.SiteID = siteID
		if st.ID == "" {
			st.ID = uuid.New().String()
		}
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO site_steps (`+stepColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			stepArgs(&st)...); err != nil {
			return fmt.Errorf("inserting %s step: %w", st.Type, err)
		}
	}
	return nil
}

func stepArgs(st *domain.Step) []any {
	return []any{
		st.ID,
		st.SiteID,
		string(st.Type),
		st.Duration,
		dateOrNull(st.Start),
		dateOrNull(st.Finish),
		boolToInt(st.Done),
		nullableDate(st.ManualStart),
		nullableBool(st.Confirmed),
	}
}

func (r *SQLiteSiteRepo) writeOverrides(ctx context.Context, s *domain.Site) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM site_durations WHERE site_id = ?`, s.ID); err != nil {
		return fmt.Errorf("clearing duration overrides: %w", err)
	}
	for t, d := range s.Durations {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO site_durations (site_id, task_type, duration) VALUES (?, ?, ?)`,
			s.ID, string(t), d); err != nil {
			return fmt.Errorf("inserting duration override: %w", err)
		}
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM site_exclusions WHERE site_id = ?`, s.ID); err != nil {
		return fmt.Errorf("clearing exclusions: %w", err)
	}
	for t, excluded := range s.Excluded {
		if !excluded {
			continue
		}
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO site_exclusions (site_id, task_type) VALUES (?, ?)`,
			s.ID, string(t)); err != nil {
			return fmt.Errorf("inserting exclusion: %w", err)
		}
	}
	return nil
}

// loadChildren fills overrides and steps for sites with one query per table.
func (r *SQLiteSiteRepo) loadChildren(ctx context.Context, sites []*domain.Site) error {
	if len(sites) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Site, len(sites))
	ids := make([]any, 0, len(sites))
	for _, s := range sites {
		s.Durations = map[domain.TaskType]int{}
		s.Excluded = map[domain.TaskType]bool{}
		s.Steps = nil
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}
	in := placeholders(len(ids))

	rows, err := r.db.QueryContext(ctx,
		`SELECT site_id, task_type, duration FROM site_durations WHERE site_id IN (`+in+`)`, ids...)
	if err != nil {
		return fmt.Errorf("loading duration overrides: %w", err)
	}
	for rows.Next() {
		var siteID, typ string
		var d int
		if err := rows.Scan(&siteID, &typ, &d); err != nil {
			rows.Close()
			return fmt.Errorf("scanning duration override: %w", err)
		}
		byID[siteID].Durations[domain.TaskType(typ)] = d
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx,
		`SELECT site_id, task_type FROM site_exclusions WHERE site_id IN (`+in+`)`, ids...)
	if err != nil {
		return fmt.Errorf("loading exclusions: %w", err)
	}
	for rows.Next() {
		var siteID, typ string
		if err := rows.Scan(&siteID, &typ); err != nil {
			rows.Close()
			return fmt.Errorf("scanning exclusion: %w", err)
		}
		byID[siteID].Excluded[domain.TaskType(typ)] = true
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx,
		`SELECT `+stepColumns+` FROM site_steps WHERE site_id IN (`+in+`)`, ids...)
	if err != nil {
		return fmt.Errorf("loading steps: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		st, err := scanStep(rows)
		if err != nil {
			return err
		}
		s := byID[st.SiteID]
		s.Steps = append(s.Steps, st)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating steps: %w", err)
	}

	for _, s := range sites {
		sortSteps(s.Steps)
	}
	return nil
}

// sortSteps orders stored steps by pipeline position.
func sortSteps(steps []domain.Step) {
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].Type.Index() < steps[j].Type.Index()
	})
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSite(row scanner) (*domain.Site, error) {
	var s domain.Site
	var status, createdAt string
	var booked, predecessor sql.NullString

	if err := row.Scan(
		&s.ID, &s.Name, &s.Owner, &s.Notes,
		&status, &booked, &s.Order, &s.Version, &predecessor,
		&createdAt,
	); err != nil {
		return nil, err
	}

	s.Status = domain.SiteStatus(status)
	s.BookedDate = parseNullableDate(booked)
	if predecessor.Valid {
		s.PredecessorID = &predecessor.String
	}

	var err error
	s.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &s, nil
}

func scanStep(row scanner) (domain.Step, error) {
	var st domain.Step
	var typ string
	var start, finish, manual sql.NullString
	var done int
	var confirmed sql.NullInt64

	if err := row.Scan(
		&st.ID, &st.SiteID, &typ, &st.Duration,
		&start, &finish, &done, &manual, &confirmed,
	); err != nil {
		return domain.Step{}, fmt.Errorf("scanning step: %w", err)
	}

	st.Type = domain.TaskType(typ)
	st.Start = parseDateOrZero(start)
	st.Finish = parseDateOrZero(finish)
	st.Done = done != 0
	st.ManualStart = parseNullableDate(manual)
	st.Confirmed = parseNullableBool(confirmed)
	return st, nil
}
