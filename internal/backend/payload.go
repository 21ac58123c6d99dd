package backend

import (
	"github.com/pascalpat/sitelog/internal/domain"
)

// DraftEntryPayload is one line of a confirm batch. Identity is encoded as
// exactly one of entity_id or is_manual+manual_name; the backend branches
// on this pair, so the encoding mirrors the draft's identity union exactly.
type DraftEntryPayload struct {
	EntityID   *string `json:"entity_id,omitempty"`
	IsManual   bool    `json:"is_manual,omitempty"`
	ManualName string  `json:"manual_name,omitempty"`

	Hours    *float64 `json:"hours,omitempty"`
	Quantity *float64 `json:"quantity,omitempty"`

	ActivityCodeID *string `json:"activity_code_id"`
	PaymentItemID  *string `json:"payment_item_id"`
	CWP            *string `json:"cwp"`
	WorkOrderID    *string `json:"work_order_id"`

	Note string `json:"note,omitempty"`
}

// EncodeDraft converts a validated draft into its wire form. Measured
// categories put the measure under hours (labor, equipment) or quantity
// (material); the other categories carry none.
func EncodeDraft(d domain.DraftEntry) DraftEntryPayload {
	p := DraftEntryPayload{
		ActivityCodeID: optional(d.Classification.ActivityCodeID),
		PaymentItemID:  optional(d.Classification.PaymentItemID),
		CWP:            optional(d.Classification.WorkPackageID),
		WorkOrderID:    optional(d.Classification.WorkOrderID),
		Note:           d.Note,
	}

	if d.Identity.IsManual() {
		p.IsManual = true
		p.ManualName = d.Identity.ManualName()
	} else {
		id := d.Identity.CatalogID()
		p.EntityID = &id
	}

	switch d.Category {
	case domain.CategoryLabor, domain.CategoryEquipment:
		m := d.Measure
		p.Hours = &m
	case domain.CategoryMaterial:
		m := d.Measure
		p.Quantity = &m
	}

	return p
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// confirmRequest is the JSON body sent to POST /{category}/confirm-*.
// The project/date context is carried once, not per line.
type confirmRequest struct {
	ProjectID    string              `json:"project_id"`
	DateOfReport string              `json:"date_of_report"`
	Usage        []DraftEntryPayload `json:"usage"`
}

// entryRecord is the wire form of a confirmed entry as the backend reports
// it, both in confirm responses and in by-project-date read-backs.
type entryRecord struct {
	ID                  flexID   `json:"id"`
	Name                string   `json:"name"`
	IsManual            bool     `json:"is_manual"`
	Hours               *float64 `json:"hours"`
	Quantity            *float64 `json:"quantity"`
	ActivityCode        string   `json:"activity_code"`
	ActivityDescription string   `json:"activity_description"`
	PaymentItem         string   `json:"payment_item"`
	CWP                 string   `json:"cwp"`
	Note                string   `json:"note"`
}

func (r entryRecord) toDomain(cat domain.Category) domain.ConfirmedEntry {
	e := domain.ConfirmedEntry{
		ServerID:         string(r.ID),
		Category:         cat,
		Label:            r.Name,
		IsManual:         r.IsManual,
		ActivityCode:     r.ActivityCode,
		ActivityLabel:    r.ActivityCode,
		PaymentItemLabel: r.PaymentItem,
		WorkPackage:      r.CWP,
		Note:             r.Note,
	}
	if r.ActivityDescription != "" {
		e.ActivityLabel = r.ActivityCode + " – " + r.ActivityDescription
	}
	switch {
	case r.Hours != nil:
		e.Measure = *r.Hours
	case r.Quantity != nil:
		e.Measure = *r.Quantity
	}
	return e
}

// EntryUpdate carries the editable fields of a single-row update. Nil
// fields are omitted and left untouched server-side.
type EntryUpdate struct {
	Hours          *float64 `json:"hours,omitempty"`
	Quantity       *float64 `json:"quantity,omitempty"`
	ActivityCodeID *string  `json:"activity_code_id,omitempty"`
	PaymentItemID  *string  `json:"payment_item_id,omitempty"`
	CWP            *string  `json:"cwp,omitempty"`
	WorkOrderID    *string  `json:"work_order_id,omitempty"`
	Note           *string  `json:"note,omitempty"`
}

// catalogPaths maps a catalog kind to its list route segment.
var catalogPaths = map[domain.CatalogKind]string{
	domain.KindWorker:       "workers",
	domain.KindEquipment:    "equipment",
	domain.KindActivityCode: "activity_codes",
	domain.KindPaymentItem:  "payment_items",
	domain.KindWorkPackage:  "cwp",
}

// categoryRoute holds the per-category endpoint shapes. Path structure
// varies by category (the backend grew one blueprint at a time) but the
// contract is uniform.
type categoryRoute struct {
	base        string
	confirmPath string
	listKey     string
}

var categoryRoutes = map[domain.Category]categoryRoute{
	domain.CategoryLabor:         {base: "labor", confirmPath: "confirm-labor", listKey: "workers"},
	domain.CategoryEquipment:     {base: "equipment", confirmPath: "confirm-equipment", listKey: "equipment"},
	domain.CategoryMaterial:      {base: "materials", confirmPath: "confirm-materials", listKey: "materials"},
	domain.CategoryNote:          {base: "daily_notes", confirmPath: "confirm-notes", listKey: "notes"},
	domain.CategorySubcontractor: {base: "subcontractors", confirmPath: "confirm-entries", listKey: "subcontractors"},
}
