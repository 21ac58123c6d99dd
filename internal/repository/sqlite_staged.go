package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pascalpat/sitelog/internal/db"
	"github.com/pascalpat/sitelog/internal/domain"
	"github.com/pascalpat/sitelog/internal/ledger"
)

// SQLiteStagedEntryRepo implements StagedEntryRepo using the local SQLite
// database. Insertion order is preserved through a per-scope seq column.
type SQLiteStagedEntryRepo struct {
	db db.DBTX
}

// NewSQLiteStagedEntryRepo creates a new SQLiteStagedEntryRepo.
func NewSQLiteStagedEntryRepo(dbtx db.DBTX) *SQLiteStagedEntryRepo {
	return &SQLiteStagedEntryRepo{db: dbtx}
}

func (r *SQLiteStagedEntryRepo) Create(ctx context.Context, scope ledger.Scope, e *domain.DraftEntry) error {
	var entityID, manualName any
	if e.Identity.IsManual() {
		manualName = e.Identity.ManualName()
	} else {
		entityID = e.Identity.CatalogID()
	}

	query := `INSERT INTO staged_entries
		(client_key, project_id, report_date, category, seq,
		 entity_id, manual_name, measure,
		 activity_code_id, payment_item_id, work_package_id, work_order_id,
		 note, staged_at)
		VALUES (?, ?, ?, ?,
			COALESCE((SELECT MAX(seq) + 1 FROM staged_entries
				WHERE project_id = ? AND report_date = ? AND category = ?), 0),
			?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ClientKey, scope.ProjectID, scope.Date, string(scope.Category),
		scope.ProjectID, scope.Date, string(scope.Category),
		entityID, manualName, e.Measure,
		nullable(e.Classification.ActivityCodeID),
		nullable(e.Classification.PaymentItemID),
		nullable(e.Classification.WorkPackageID),
		nullable(e.Classification.WorkOrderID),
		e.Note,
		e.StagedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting staged entry: %w", err)
	}
	return nil
}

func (r *SQLiteStagedEntryRepo) ListByScope(ctx context.Context, scope ledger.Scope) ([]domain.DraftEntry, error) {
	query := `SELECT client_key, entity_id, manual_name, measure,
		activity_code_id, payment_item_id, work_package_id, work_order_id,
		note, staged_at
		FROM staged_entries
		WHERE project_id = ? AND report_date = ? AND category = ?
		ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, scope.ProjectID, scope.Date, string(scope.Category))
	if err != nil {
		return nil, fmt.Errorf("listing staged entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.DraftEntry
	for rows.Next() {
		var e domain.DraftEntry
		var entityID, manualName, actID, payID, wpID, woID sql.NullString
		var stagedAtStr string

		err := rows.Scan(&e.ClientKey, &entityID, &manualName, &e.Measure,
			&actID, &payID, &wpID, &woID, &e.Note, &stagedAtStr)
		if err != nil {
			return nil, fmt.Errorf("scanning staged entry: %w", err)
		}

		e.Category = scope.Category
		e.Status = domain.EntryStaged
		if manualName.Valid && manualName.String != "" {
			e.Identity = domain.Manual(manualName.String)
		} else if entityID.Valid {
			e.Identity = domain.CatalogRef(entityID.String)
		}
		e.Classification = domain.Classification{
			ActivityCodeID: stringOrEmpty(actID),
			PaymentItemID:  stringOrEmpty(payID),
			WorkPackageID:  stringOrEmpty(wpID),
			WorkOrderID:    stringOrEmpty(woID),
		}
		if t, err := time.Parse(time.RFC3339, stagedAtStr); err == nil {
			e.StagedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *SQLiteStagedEntryRepo) Delete(ctx context.Context, clientKey string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM staged_entries WHERE client_key = ?`, clientKey)
	if err != nil {
		return fmt.Errorf("deleting staged entry: %w", err)
	}
	return nil
}

func (r *SQLiteStagedEntryRepo) DeleteByScope(ctx context.Context, scope ledger.Scope) error {
	query := `DELETE FROM staged_entries WHERE project_id = ? AND report_date = ? AND category = ?`
	_, err := r.db.ExecContext(ctx, query, scope.ProjectID, scope.Date, string(scope.Category))
	if err != nil {
		return fmt.Errorf("deleting staged entries for scope: %w", err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func stringOrEmpty(s sql.NullString) string {
	if s.Valid {
		return s.String
	}
	return ""
}
