package domain

import "errors"

var (
	// ErrMissingIdentity indicates an entry with neither a catalog
	// reference nor a manual name.
	ErrMissingIdentity = errors.New("no worker, equipment, or manual name selected")

	// ErrConflictingIdentity indicates an entry carrying both a catalog
	// reference and a manual name.
	ErrConflictingIdentity = errors.New("entry cannot be both a catalog reference and a manual name")

	// ErrInvalidMeasure indicates a quantity that is missing, not a
	// number, or not strictly positive.
	ErrInvalidMeasure = errors.New("quantity must be a number greater than zero")

	// ErrMissingClassification indicates a category-required
	// classification (e.g. activity code) was not provided.
	ErrMissingClassification = errors.New("required classification missing")

	// ErrUnknownCatalogRef indicates a classification or identity id that
	// does not resolve in the loaded catalog.
	ErrUnknownCatalogRef = errors.New("id not found in catalog")
)
