package domain

type Category string

const (
	CategoryLabor         Category = "labor"
	CategoryEquipment     Category = "equipment"
	CategoryMaterial      Category = "material"
	CategoryNote          Category = "note"
	CategorySubcontractor Category = "subcontractor"
)

// AllCategories lists every entry category in tab order.
var AllCategories = []Category{
	CategoryLabor,
	CategoryEquipment,
	CategoryMaterial,
	CategoryNote,
	CategorySubcontractor,
}

// ValidCategories is the canonical set of accepted category strings.
var ValidCategories = map[string]bool{
	"labor": true, "equipment": true, "material": true,
	"note": true, "subcontractor": true,
}

type CatalogKind string

const (
	KindWorker       CatalogKind = "worker"
	KindEquipment    CatalogKind = "equipment"
	KindActivityCode CatalogKind = "activity_code"
	KindPaymentItem  CatalogKind = "payment_item"
	KindWorkPackage  CatalogKind = "work_package"
)

// AllCatalogKinds lists every catalog kind the backend serves.
var AllCatalogKinds = []CatalogKind{
	KindWorker,
	KindEquipment,
	KindActivityCode,
	KindPaymentItem,
	KindWorkPackage,
}

// ValidCatalogKinds is the canonical set of accepted catalog kind strings.
var ValidCatalogKinds = map[string]bool{
	"worker": true, "equipment": true, "activity_code": true,
	"payment_item": true, "work_package": true,
}

type EntryStatus string

const (
	EntryStaged     EntryStatus = "staged"
	EntrySubmitting EntryStatus = "submitting"
	EntryConfirmed  EntryStatus = "confirmed"
	EntryFailed     EntryStatus = "failed"
)

// Provenance tags a rendered row with where it came from, so a re-render
// only ever touches rows of the same origin.
type Provenance string

const (
	ProvenanceStaged    Provenance = "staged"
	ProvenanceConfirmed Provenance = "confirmed"
)
