package domain

// CatalogItem is one row of a shared reference list (workers, equipment,
// activity codes, payment items, work packages). Items are immutable for
// the lifetime of a session; the catalog cache owns them.
type CatalogItem struct {
	ID          string
	Kind        CatalogKind
	Label       string
	Description string
}

// DisplayLabel renders the item the way selection controls show it.
// Activity codes and payment items carry a code plus a description and are
// shown as "CODE – description"; everything else is just the label.
func (c CatalogItem) DisplayLabel() string {
	if c.Description == "" {
		return c.Label
	}
	switch c.Kind {
	case KindActivityCode, KindPaymentItem:
		return c.Label + " – " + c.Description
	default:
		return c.Label
	}
}
