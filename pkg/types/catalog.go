package types

import "errors"

// Catalog defines backend-agnostic access to stored samples and schemas.
// Callers attach to a backend, access tables by name, and detach when done.
type Catalog interface {
	// GetTable returns the Table for the given name.
	// Returns ErrTableNotFound if the name is not a standard table.
	GetTable(name string) (Table, error)

	// Attach connects the Catalog to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, GetTable returns ErrCatalogDetached.
	Detach() error
}

// Catalog lifecycle errors.
var (
	ErrCatalogDetached = errors.New("catalog is detached")
	ErrAlreadyAttached = errors.New("catalog is already attached")
	ErrTableNotFound   = errors.New("table not found")
)
