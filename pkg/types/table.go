package types

import "errors"

// Table provides uniform CRUD operations for a single entity type.
// Get and Fetch return any; callers type-assert to *Sample or *Schema.
type Table interface {
	// Get retrieves the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Get(id string) (any, error)

	// Set creates or updates an entity. When id is empty a new UUID v7 is
	// generated. Returns the actual ID used (generated or provided).
	Set(id string, data any) (string, error)

	// Delete removes the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Delete(id string) error

	// Fetch returns all entities matching the filter. An empty filter
	// returns every entity in the table.
	Fetch(filter map[string]any) ([]any, error)
}

// Table operation errors.
var (
	ErrNotFound    = errors.New("entity not found")
	ErrInvalidID   = errors.New("invalid entity ID")
	ErrInvalidData = errors.New("invalid entity data")
)

// Entity errors.
var (
	ErrInvalidName   = errors.New("invalid name")
	ErrDuplicateName = errors.New("name already in use")
	ErrInvalidLabel  = errors.New("invalid label")
	ErrInvalidSource = errors.New("invalid schema source")
	ErrInvalidFilter = errors.New("invalid filter value type")
)
