package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pascalpat/sitelog/internal/db"
)

// SQLiteContextRepo stores the single active report context row.
type SQLiteContextRepo struct {
	db db.DBTX
}

// NewSQLiteContextRepo creates a new SQLiteContextRepo.
func NewSQLiteContextRepo(dbtx db.DBTX) *SQLiteContextRepo {
	return &SQLiteContextRepo{db: dbtx}
}

func (r *SQLiteContextRepo) Get(ctx context.Context) (*ReportContext, error) {
	query := `SELECT project_id, report_date, updated_at FROM report_context WHERE id = 1`
	row := r.db.QueryRowContext(ctx, query)

	var rc ReportContext
	var updatedAtStr string
	if err := row.Scan(&rc.ProjectID, &rc.ReportDate, &updatedAtStr); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("report context: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning report context: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, updatedAtStr); err == nil {
		rc.UpdatedAt = t
	}
	return &rc, nil
}

func (r *SQLiteContextRepo) Set(ctx context.Context, rc *ReportContext) error {
	rc.UpdatedAt = time.Now().UTC()
	query := `INSERT INTO report_context (id, project_id, report_date, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			report_date = excluded.report_date,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		rc.ProjectID,
		rc.ReportDate,
		rc.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving report context: %w", err)
	}
	return nil
}
