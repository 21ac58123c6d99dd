package repository

import (
	"context"
	"errors"
	"time"

	"github.com/pascalpat/sitelog/internal/domain"
	"github.com/pascalpat/sitelog/internal/ledger"
)

// ErrNotFound indicates the requested row does not exist locally.
var ErrNotFound = errors.New("not found")

// ReportContext is the active (project, date) pair every command operates
// against until changed.
type ReportContext struct {
	ProjectID  string
	ReportDate string
	UpdatedAt  time.Time
}

// Validate rejects a context missing either half of the pair. Commands
// short-circuit on this before any network call.
func (c ReportContext) Validate() error {
	if c.ProjectID == "" {
		return errors.New("no active project (run: sitelog use --project <id>)")
	}
	if c.ReportDate == "" {
		return errors.New("no active report date (run: sitelog use --date YYYY-MM-DD)")
	}
	return nil
}

type ContextRepo interface {
	Get(ctx context.Context) (*ReportContext, error)
	Set(ctx context.Context, rc *ReportContext) error
}

// StagedEntryRepo snapshots staged drafts so they survive across CLI
// invocations. Rows mirror the in-memory ledger for one scope and are
// drained in the same transaction that a confirm succeeds in.
type StagedEntryRepo interface {
	Create(ctx context.Context, scope ledger.Scope, e *domain.DraftEntry) error
	ListByScope(ctx context.Context, scope ledger.Scope) ([]domain.DraftEntry, error)
	Delete(ctx context.Context, clientKey string) error
	DeleteByScope(ctx context.Context, scope ledger.Scope) error
}
