package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sites (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		owner          TEXT NOT NULL DEFAULT '',
		notes          TEXT NOT NULL DEFAULT '',
		status         TEXT NOT NULL DEFAULT 'tbc'
		               CHECK(status IN ('booked','tbc')),
		booked_date    TEXT,
		order_index    INTEGER NOT NULL DEFAULT 0,
		version        INTEGER NOT NULL DEFAULT 1,
		predecessor_id TEXT REFERENCES sites(id) ON DELETE SET NULL,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sites_status ON sites(status)`,

	`CREATE TABLE IF NOT EXISTS site_steps (
		id           TEXT PRIMARY KEY,
		site_id      TEXT NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
		task_type    TEXT NOT NULL
		             CHECK(task_type IN ('pre_work','site_visit','report_writing','final_presentation','revisit')),
		duration     INTEGER NOT NULL DEFAULT 0,
		start_date   TEXT,
		finish_date  TEXT,
		done         INTEGER NOT NULL DEFAULT 0,
		manual_start TEXT,
		confirmed    INTEGER,
		UNIQUE(site_id, task_type)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_site_steps_site ON site_steps(site_id)`,

	`CREATE TABLE IF NOT EXISTS site_durations (
		site_id   TEXT NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
		task_type TEXT NOT NULL,
		duration  INTEGER NOT NULL,
		PRIMARY KEY (site_id, task_type)
	)`,

	`CREATE TABLE IF NOT EXISTS site_exclusions (
		site_id   TEXT NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
		task_type TEXT NOT NULL,
		PRIMARY KEY (site_id, task_type)
	)`,

	`CREATE TABLE IF NOT EXISTS holidays (
		id         TEXT PRIMARY KEY,
		date       TEXT NOT NULL UNIQUE,
		label      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	// Columns added after the first release. Re-running them on a current
	// schema fails with "duplicate column name", which Migrate tolerates.
	`ALTER TABLE sites ADD COLUMN version INTEGER NOT NULL DEFAULT 1`,
	`ALTER TABLE sites ADD COLUMN predecessor_id TEXT REFERENCES sites(id) ON DELETE SET NULL`,
	`CREATE INDEX IF NOT EXISTS idx_sites_predecessor ON sites(predecessor_id)`,
}

// Migrate runs all schema migrations. It is safe to call repeatedly.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillOrderIndex(db); err != nil {
		return fmt.Errorf("backfilling site order: %w", err)
	}
	return nil
}

// migrateBackfillOrderIndex numbers sites by creation time when more than
// one of them still carries the zero order index, which is how rows written
// before ordering existed look. Idempotent: a numbered table has at most
// one zero.
func migrateBackfillOrderIndex(db *sql.DB) error {
	ctx := context.Background()

	var zeros int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sites WHERE order_index = 0`).Scan(&zeros); err != nil {
		return fmt.Errorf("counting unordered sites: %w", err)
	}
	if zeros <= 1 {
		return nil
	}

	rows, err := db.QueryContext(ctx, `SELECT id FROM sites ORDER BY order_index, created_at, id`)
	if err != nil {
		return fmt.Errorf("listing sites: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scanning site id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for i, id := range ids {
		if _, err := db.ExecContext(ctx, `UPDATE sites SET order_index = ? WHERE id = ?`, i, id); err != nil {
			return fmt.Errorf("updating order for site %s: %w", id, err)
		}
	}
	return nil
}
