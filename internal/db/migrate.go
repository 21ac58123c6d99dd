package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// migrations is the ordered list of schema statements. Each statement is
// idempotent; the whole list re-runs on every open.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS report_context (
		id          INTEGER PRIMARY KEY CHECK (id = 1),
		project_id  TEXT NOT NULL,
		report_date TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS staged_entries (
		client_key       TEXT PRIMARY KEY,
		project_id       TEXT NOT NULL,
		report_date      TEXT NOT NULL,
		category         TEXT NOT NULL
		                 CHECK (category IN ('labor','equipment','material','note','subcontractor')),
		seq              INTEGER NOT NULL,
		entity_id        TEXT,
		manual_name      TEXT,
		measure          REAL NOT NULL DEFAULT 0,
		activity_code_id TEXT,
		payment_item_id  TEXT,
		work_package_id  TEXT,
		work_order_id    TEXT,
		note             TEXT NOT NULL DEFAULT '',
		staged_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_staged_entries_scope
		ON staged_entries (project_id, report_date, category, seq)`,
}

// Migrate runs all schema migrations.
func Migrate(database *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := database.Exec(stmt); err != nil {
			// Tolerate ALTER TABLE re-runs from older statement lists.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
