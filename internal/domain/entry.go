package domain

import (
	"fmt"
	"math"
	"time"
)

// Classification holds the optional references attached to an entry. Each
// field is either a valid catalog item id or empty; resolution against the
// loaded catalog happens when the draft is built.
type Classification struct {
	ActivityCodeID string
	PaymentItemID  string
	WorkPackageID  string
	WorkOrderID    string
}

// IsZero reports whether no classification reference is set.
func (c Classification) IsZero() bool {
	return c == Classification{}
}

// DraftEntry is one staged line of a daily report: entered locally, not yet
// accepted by the backend. It never carries a server id.
type DraftEntry struct {
	ClientKey      string
	Category       Category
	Identity       Identity
	Measure        float64
	Classification Classification
	Note           string
	Status         EntryStatus
	StagedAt       time.Time
}

// MeasuredCategories are the categories whose entries carry a quantity
// (hours worked or quantity consumed).
var MeasuredCategories = map[Category]bool{
	CategoryLabor:     true,
	CategoryEquipment: true,
	CategoryMaterial:  true,
}

// Validate checks the draft's invariants: a well-formed identity, and a
// finite positive measure for measured categories.
func (d *DraftEntry) Validate() error {
	if !ValidCategories[string(d.Category)] {
		return fmt.Errorf("unknown category %q", d.Category)
	}
	if err := d.Identity.Validate(); err != nil {
		return err
	}
	if MeasuredCategories[d.Category] {
		if math.IsNaN(d.Measure) || math.IsInf(d.Measure, 0) || d.Measure <= 0 {
			return fmt.Errorf("%w (got %v)", ErrInvalidMeasure, d.Measure)
		}
	}
	return nil
}

// ConfirmedEntry is the durable projection of a draft once the backend has
// accepted it. ServerID is opaque and stable; label fields are resolved by
// the backend for display.
type ConfirmedEntry struct {
	ServerID         string
	Category         Category
	Label            string
	IsManual         bool
	Measure          float64
	ActivityCode     string
	ActivityLabel    string
	PaymentItemLabel string
	WorkPackage      string
	Note             string
}
