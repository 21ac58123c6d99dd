package report

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pascalpat/sitelog/internal/catalog"
	"github.com/pascalpat/sitelog/internal/domain"
)

// RawForm is the unvalidated input state for one entry: the manual-entry
// toggle, the catalog selection, and the raw text fields as typed.
type RawForm struct {
	ManualMode bool
	ManualText string

	CatalogID string

	MeasureText string

	ActivityCodeID string
	PaymentItemID  string
	WorkPackageID  string
	WorkOrderID    string

	NoteText string
}

// BuildDraft resolves identity, parses the measure, and checks the
// category's required fields, producing a normalized draft. It has no side
// effects: on any failure nothing is staged and the single returned error
// is the user-facing message.
//
// Identity resolution order is fixed: a non-empty manual text with manual
// mode on wins; otherwise a catalog selection; otherwise the form is
// rejected.
func BuildDraft(strategy Strategy, form RawForm, cache *catalog.Cache) (domain.DraftEntry, error) {
	d := domain.DraftEntry{
		Category: strategy.Category,
		Status:   domain.EntryStaged,
		Note:     strings.TrimSpace(form.NoteText),
	}

	identity, err := resolveIdentity(strategy, form, cache)
	if err != nil {
		return domain.DraftEntry{}, err
	}
	d.Identity = identity

	if strategy.HasMeasure {
		measure, err := parseMeasure(strategy, form.MeasureText)
		if err != nil {
			return domain.DraftEntry{}, err
		}
		d.Measure = measure
	}

	cls, err := resolveClassification(strategy, form, cache)
	if err != nil {
		return domain.DraftEntry{}, err
	}
	d.Classification = cls

	if strategy.RequiresNote && d.Note == "" {
		return domain.DraftEntry{}, fmt.Errorf("%w: note text is required", domain.ErrMissingClassification)
	}

	if err := d.Validate(); err != nil {
		return domain.DraftEntry{}, err
	}
	return d, nil
}

func resolveIdentity(strategy Strategy, form RawForm, cache *catalog.Cache) (domain.Identity, error) {
	manualText := strings.TrimSpace(form.ManualText)

	// Manual-only categories have no selector to fall back to.
	if strategy.ManualOnly() {
		if manualText == "" {
			return domain.Identity{}, domain.ErrMissingIdentity
		}
		return domain.Manual(manualText), nil
	}

	if form.ManualMode && manualText != "" {
		return domain.Manual(manualText), nil
	}

	if form.CatalogID != "" {
		if _, ok := cache.Lookup(strategy.IdentityKind, form.CatalogID); !ok {
			return domain.Identity{}, fmt.Errorf("%w: %s %q", domain.ErrUnknownCatalogRef, strategy.IdentityKind, form.CatalogID)
		}
		return domain.CatalogRef(form.CatalogID), nil
	}

	return domain.Identity{}, domain.ErrMissingIdentity
}

func parseMeasure(strategy Strategy, text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("%w: %s is required", domain.ErrInvalidMeasure, strategy.MeasureLabel)
	}
	measure, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidMeasure, text)
	}
	if math.IsNaN(measure) || math.IsInf(measure, 0) || measure <= 0 {
		return 0, fmt.Errorf("%w (got %v)", domain.ErrInvalidMeasure, measure)
	}
	return measure, nil
}

func resolveClassification(strategy Strategy, form RawForm, cache *catalog.Cache) (domain.Classification, error) {
	if strategy.RequiresActivityCode && form.ActivityCodeID == "" {
		return domain.Classification{}, fmt.Errorf("%w: activity code is required", domain.ErrMissingClassification)
	}

	refs := []struct {
		kind domain.CatalogKind
		id   string
	}{
		{domain.KindActivityCode, form.ActivityCodeID},
		{domain.KindPaymentItem, form.PaymentItemID},
		{domain.KindWorkPackage, form.WorkPackageID},
	}
	for _, ref := range refs {
		if ref.id == "" {
			continue
		}
		if _, ok := cache.Lookup(ref.kind, ref.id); !ok {
			return domain.Classification{}, fmt.Errorf("%w: %s %q", domain.ErrUnknownCatalogRef, ref.kind, ref.id)
		}
	}

	return domain.Classification{
		ActivityCodeID: form.ActivityCodeID,
		PaymentItemID:  form.PaymentItemID,
		WorkPackageID:  form.WorkPackageID,
		WorkOrderID:    form.WorkOrderID,
	}, nil
}

// IsValidationError reports whether err is a client-side validation
// failure that never reached the network.
func IsValidationError(err error) bool {
	return errors.Is(err, domain.ErrMissingIdentity) ||
		errors.Is(err, domain.ErrConflictingIdentity) ||
		errors.Is(err, domain.ErrInvalidMeasure) ||
		errors.Is(err, domain.ErrMissingClassification) ||
		errors.Is(err, domain.ErrUnknownCatalogRef)
}
