// Package sqlite provides the public API for the SQLite catalog backend.
// It exposes the factory while keeping implementation details internal.
package sqlite

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/kindof/internal/sqlite"
	"github.com/mesh-intelligence/kindof/pkg/types"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend(nil)
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".kindof",
//	})
//	defer backend.Detach()
func NewBackend(logger *zap.Logger) types.Catalog {
	return sqlite.NewBackend(sqlite.WithLogger(logger))
}
