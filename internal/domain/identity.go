package domain

import "fmt"

// Identity names the subject of a draft entry. It is a tagged union:
// either a reference into a catalog, or a free-text name with no catalog
// identity. Exactly one side is ever set; the constructors are the only
// supported way to build one.
type Identity struct {
	catalogRef string
	manualName string
}

// CatalogRef builds an identity referencing a catalog item by id.
func CatalogRef(id string) Identity {
	return Identity{catalogRef: id}
}

// Manual builds an identity for a free-text subject not in any catalog.
func Manual(name string) Identity {
	return Identity{manualName: name}
}

// IsManual reports whether the identity is a free-text name.
func (i Identity) IsManual() bool {
	return i.manualName != ""
}

// CatalogID returns the referenced catalog item id, or "" for manual
// identities.
func (i Identity) CatalogID() string {
	return i.catalogRef
}

// ManualName returns the free-text name, or "" for catalog identities.
func (i Identity) ManualName() string {
	return i.manualName
}

// Validate checks that exactly one side of the union is set.
func (i Identity) Validate() error {
	switch {
	case i.catalogRef == "" && i.manualName == "":
		return ErrMissingIdentity
	case i.catalogRef != "" && i.manualName != "":
		return fmt.Errorf("%w: catalog ref %q and manual name %q", ErrConflictingIdentity, i.catalogRef, i.manualName)
	}
	return nil
}
