package selection

import "errors"

var (
	// ErrNoTermContext indicates no term and year have been established.
	ErrNoTermContext = errors.New("no term context")

	// ErrCatalogNotLoaded indicates no catalog snapshot is published yet.
	ErrCatalogNotLoaded = errors.New("catalog not loaded")

	// ErrTermMismatch indicates a section outside the active term and year.
	ErrTermMismatch = errors.New("section is not offered in the active term")
)
