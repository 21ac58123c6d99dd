// Package report implements the staging and confirmation workflow shared
// by every data-entry category: build a validated draft from raw form
// input, hold drafts in a staging ledger, flush them to the backend in one
// batch, and edit or delete the confirmed records that come back. The
// per-category differences live entirely in a Strategy value; the
// machinery is written once.
package report

import (
	"fmt"

	"github.com/pascalpat/sitelog/internal/domain"
)

// Strategy describes how one category maps onto the shared workflow:
// which catalog (if any) supplies identities, what the measure means, and
// which fields are required before a line may be staged.
type Strategy struct {
	Category domain.Category

	// IdentityKind is the catalog backing the identity selector, or ""
	// for categories whose subjects are always typed in (materials,
	// notes, subcontractors).
	IdentityKind domain.CatalogKind

	// HasMeasure is set for categories whose lines carry a quantity.
	MeasureLabel string
	MeasureUnit  string
	HasMeasure   bool

	RequiresActivityCode bool
	RequiresNote         bool
}

var strategies = map[domain.Category]Strategy{
	domain.CategoryLabor: {
		Category:             domain.CategoryLabor,
		IdentityKind:         domain.KindWorker,
		MeasureLabel:         "hours worked",
		MeasureUnit:          "h",
		HasMeasure:           true,
		RequiresActivityCode: true,
	},
	domain.CategoryEquipment: {
		Category:             domain.CategoryEquipment,
		IdentityKind:         domain.KindEquipment,
		MeasureLabel:         "hours used",
		MeasureUnit:          "h",
		HasMeasure:           true,
		RequiresActivityCode: true,
	},
	domain.CategoryMaterial: {
		Category:             domain.CategoryMaterial,
		MeasureLabel:         "quantity consumed",
		MeasureUnit:          "",
		HasMeasure:           true,
		RequiresActivityCode: true,
	},
	domain.CategoryNote: {
		Category:     domain.CategoryNote,
		RequiresNote: true,
	},
	domain.CategorySubcontractor: {
		Category: domain.CategorySubcontractor,
	},
}

// StrategyFor returns the strategy for a category.
func StrategyFor(cat domain.Category) (Strategy, error) {
	s, ok := strategies[cat]
	if !ok {
		return Strategy{}, fmt.Errorf("unknown category %q", cat)
	}
	return s, nil
}

// ManualOnly reports whether the category has no identity catalog.
func (s Strategy) ManualOnly() bool {
	return s.IdentityKind == ""
}
