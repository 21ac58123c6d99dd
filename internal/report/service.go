package report

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pascalpat/sitelog/internal/backend"
	"github.com/pascalpat/sitelog/internal/catalog"
	"github.com/pascalpat/sitelog/internal/db"
	"github.com/pascalpat/sitelog/internal/domain"
	"github.com/pascalpat/sitelog/internal/ledger"
	"github.com/pascalpat/sitelog/internal/repository"
)

var (
	// ErrNothingStaged indicates a confirm with an empty ledger; no
	// network call is made.
	ErrNothingStaged = errors.New("nothing staged to confirm")

	// ErrConfirmInFlight indicates a confirm was attempted while one is
	// already pending for the same ledger.
	ErrConfirmInFlight = errors.New("a confirmation is already in flight")

	// ErrStaleSnapshot indicates the backend accepted the batch but the
	// local snapshot rows could not be removed. The entries are confirmed
	// and must not be submitted again; the leftover rows will rehydrate
	// as drafts on the next run and need discarding.
	ErrStaleSnapshot = errors.New("batch confirmed but stale staged rows remain")
)

// Service runs the staging and confirmation workflow for one category
// within one (project, date) context. It owns the ledger exclusively and
// mirrors it into the local staged-entry store so drafts survive between
// runs.
type Service struct {
	strategy Strategy
	cache    *catalog.Cache
	client   backend.Client
	staged   repository.StagedEntryRepo
	uow      db.UnitOfWork

	mu         sync.Mutex
	ledger     *ledger.Ledger
	confirming bool
}

// NewService creates the category service for the given scope and hydrates
// its ledger from any staged rows left by a previous run.
func NewService(ctx context.Context, cat domain.Category, rc repository.ReportContext,
	cache *catalog.Cache, client backend.Client,
	staged repository.StagedEntryRepo, uow db.UnitOfWork) (*Service, error) {

	strategy, err := StrategyFor(cat)
	if err != nil {
		return nil, err
	}
	if err := rc.Validate(); err != nil {
		return nil, err
	}

	scope := ledger.Scope{ProjectID: rc.ProjectID, Date: rc.ReportDate, Category: cat}
	led := ledger.New(scope)

	drafts, err := staged.ListByScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("restoring staged entries: %w", err)
	}
	for _, d := range drafts {
		led.Append(d)
	}

	return &Service{
		strategy: strategy,
		cache:    cache,
		client:   client,
		staged:   staged,
		uow:      uow,
		ledger:   led,
	}, nil
}

// Strategy returns the category's strategy, for building forms and labels.
func (s *Service) Strategy() Strategy {
	return s.strategy
}

// Scope returns the (project, date, category) context the service serves.
func (s *Service) Scope() ledger.Scope {
	return s.ledger.Scope()
}

// Stage validates raw form input and appends the resulting draft to the
// ledger and the local snapshot. On validation failure nothing is staged.
func (s *Service) Stage(ctx context.Context, form RawForm) (domain.DraftEntry, error) {
	d, err := BuildDraft(s.strategy, form, s.cache)
	if err != nil {
		return domain.DraftEntry{}, err
	}
	d.ClientKey = uuid.New().String()
	d.StagedAt = time.Now().UTC()

	if err := s.staged.Create(ctx, s.ledger.Scope(), &d); err != nil {
		return domain.DraftEntry{}, fmt.Errorf("saving staged entry: %w", err)
	}

	s.mu.Lock()
	s.ledger.Append(d)
	s.mu.Unlock()
	return d, nil
}

// Staged returns a snapshot of the ledger in insertion order.
func (s *Service) Staged() []domain.DraftEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.All()
}

// Discard removes one staged entry by client key. The snapshot row goes
// first: a draft dropped from the ledger alone would come back on the
// next run.
func (s *Service) Discard(ctx context.Context, clientKey string) error {
	s.mu.Lock()
	_, ok := s.ledger.Get(clientKey)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("no staged entry %q", clientKey)
	}
	if err := s.staged.Delete(ctx, clientKey); err != nil {
		return fmt.Errorf("removing staged entry: %w", err)
	}
	s.mu.Lock()
	s.ledger.Remove(clientKey)
	s.mu.Unlock()
	return nil
}

// DiscardAll empties the snapshot and then the ledger.
func (s *Service) DiscardAll(ctx context.Context) error {
	if err := s.staged.DeleteByScope(ctx, s.ledger.Scope()); err != nil {
		return fmt.Errorf("removing staged entries: %w", err)
	}
	s.mu.Lock()
	s.ledger.Clear()
	s.mu.Unlock()
	return nil
}

// Confirm submits every staged entry in one batch. The whole batch either
// confirms or fails: on a rejected or unanswered submission the ledger is
// left intact, in order, for a retry. Once the backend has accepted the
// batch the ledger clears even if dropping the local snapshot rows fails;
// that case returns the records alongside ErrStaleSnapshot. The backend
// is assumed to apply the batch atomically; no per-line partial success
// is parsed. At most one confirm may be in flight per ledger; concurrent
// attempts fail with ErrConfirmInFlight.
func (s *Service) Confirm(ctx context.Context) ([]domain.ConfirmedEntry, error) {
	s.mu.Lock()
	if s.confirming {
		s.mu.Unlock()
		return nil, ErrConfirmInFlight
	}
	if s.ledger.Len() == 0 {
		s.mu.Unlock()
		return nil, ErrNothingStaged
	}
	s.confirming = true
	s.ledger.SetStatus(domain.EntrySubmitting)
	drafts := s.ledger.All()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.confirming = false
		s.mu.Unlock()
	}()

	lines := make([]backend.DraftEntryPayload, 0, len(drafts))
	for _, d := range drafts {
		lines = append(lines, backend.EncodeDraft(d))
	}

	scope := s.ledger.Scope()
	records, err := s.client.ConfirmBatch(ctx, scope.Category, scope.ProjectID, scope.Date, lines)
	if err != nil {
		s.mu.Lock()
		s.ledger.SetStatus(domain.EntryStaged)
		s.mu.Unlock()
		return nil, err
	}

	// The backend owns the records now; the ledger clears no matter what
	// happens to the local snapshot. Leaving the entries staged after an
	// accepted batch would resubmit them on the next confirm.
	drainErr := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteStagedEntryRepo(tx).DeleteByScope(ctx, scope)
	})

	s.mu.Lock()
	s.ledger.Clear()
	s.mu.Unlock()

	if drainErr != nil {
		return records, fmt.Errorf("%w: %v", ErrStaleSnapshot, drainErr)
	}
	return records, nil
}

// LoadConfirmed fetches the authoritative confirmed entries for the
// scope. Every success path re-reads rather than patching locally.
func (s *Service) LoadConfirmed(ctx context.Context) ([]domain.ConfirmedEntry, error) {
	scope := s.ledger.Scope()
	return s.client.ListConfirmed(ctx, scope.Category, scope.ProjectID, scope.Date)
}

// SaveEdit applies a single-row update keyed by server id. Callers re-load
// the confirmed view afterwards; on failure the row keeps its pre-edit
// state server-side.
func (s *Service) SaveEdit(ctx context.Context, serverID string, update backend.EntryUpdate) error {
	if err := validateUpdate(s.strategy, update); err != nil {
		return err
	}
	return s.client.UpdateEntry(ctx, s.strategy.Category, serverID, update)
}

// Delete removes a single confirmed entry. Deleting an already-deleted
// entry surfaces the backend's 404 as backend.ErrNotFound.
func (s *Service) Delete(ctx context.Context, serverID string) error {
	return s.client.DeleteEntry(ctx, s.strategy.Category, serverID)
}

func validateUpdate(strategy Strategy, update backend.EntryUpdate) error {
	check := func(v *float64) error {
		if v != nil && *v <= 0 {
			return fmt.Errorf("%w (got %v)", domain.ErrInvalidMeasure, *v)
		}
		return nil
	}
	if err := check(update.Hours); err != nil {
		return err
	}
	return check(update.Quantity)
}

// DraftLabel renders the identity of a staged entry for display, using
// the catalog for referenced identities.
func (s *Service) DraftLabel(d domain.DraftEntry) string {
	if d.Identity.IsManual() {
		return d.Identity.ManualName()
	}
	return s.cache.Label(s.strategy.IdentityKind, d.Identity.CatalogID())
}

// ClassificationLabels resolves a draft's classification ids for display.
func (s *Service) ClassificationLabels(c domain.Classification) (activity, payment, workPackage string) {
	if c.ActivityCodeID != "" {
		activity = s.cache.Label(domain.KindActivityCode, c.ActivityCodeID)
	}
	if c.PaymentItemID != "" {
		payment = s.cache.Label(domain.KindPaymentItem, c.PaymentItemID)
	}
	if c.WorkPackageID != "" {
		workPackage = s.cache.Label(domain.KindWorkPackage, c.WorkPackageID)
	}
	return activity, payment, workPackage
}
