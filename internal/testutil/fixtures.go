package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/pascalpat/sitelog/internal/domain"
	"github.com/pascalpat/sitelog/internal/ledger"
)

// Draft options
type DraftOption func(*domain.DraftEntry)

func WithManualName(name string) DraftOption {
	return func(d *domain.DraftEntry) {
		d.Identity = domain.Manual(name)
	}
}

func WithCatalogRef(id string) DraftOption {
	return func(d *domain.DraftEntry) {
		d.Identity = domain.CatalogRef(id)
	}
}

func WithMeasure(m float64) DraftOption {
	return func(d *domain.DraftEntry) {
		d.Measure = m
	}
}

func WithActivityCode(id string) DraftOption {
	return func(d *domain.DraftEntry) {
		d.Classification.ActivityCodeID = id
	}
}

func WithNote(note string) DraftOption {
	return func(d *domain.DraftEntry) {
		d.Note = note
	}
}

// NewTestDraft builds a valid staged labor draft referencing catalog
// worker 7 with 8 hours, overridable through options.
func NewTestDraft(category domain.Category, opts ...DraftOption) *domain.DraftEntry {
	d := &domain.DraftEntry{
		ClientKey: uuid.New().String(),
		Category:  category,
		Identity:  domain.CatalogRef("7"),
		Measure:   8,
		Status:    domain.EntryStaged,
		StagedAt:  time.Now().UTC(),
	}
	if category == domain.CategoryNote || category == domain.CategorySubcontractor {
		d.Measure = 0
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// TestScope returns the (P1, 2024-05-01) scope used across tests.
func TestScope(category domain.Category) ledger.Scope {
	return ledger.Scope{ProjectID: "P1", Date: "2024-05-01", Category: category}
}

// TestCatalog returns a small catalog covering every kind, keyed the way
// the backend serves it.
func TestCatalog() map[domain.CatalogKind][]domain.CatalogItem {
	return map[domain.CatalogKind][]domain.CatalogItem{
		domain.KindWorker: {
			{ID: "7", Kind: domain.KindWorker, Label: "Marc Gagnon"},
			{ID: "8", Kind: domain.KindWorker, Label: "Alice Roy"},
		},
		domain.KindEquipment: {
			{ID: "12", Kind: domain.KindEquipment, Label: "Excavator 320"},
		},
		domain.KindActivityCode: {
			{ID: "A1", Kind: domain.KindActivityCode, Label: "A1", Description: "Excavation"},
			{ID: "A2", Kind: domain.KindActivityCode, Label: "A2", Description: "Backfill"},
		},
		domain.KindPaymentItem: {
			{ID: "20", Kind: domain.KindPaymentItem, Label: "PI-4", Description: "Granular A"},
		},
		domain.KindWorkPackage: {
			{ID: "CWP-02", Kind: domain.KindWorkPackage, Label: "CWP-02"},
		},
	}
}
