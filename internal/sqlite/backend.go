// Package sqlite implements the SQLite storage backend for the kindof
// catalog. JSONL files in the data directory are the source of truth; on
// Attach they are loaded into a fresh SQLite database that serves queries,
// and every write rewrites the affected JSONL file atomically.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/kindof/pkg/types"
)

// dbFile is the query database created in DataDir on every Attach.
const dbFile = "kindof.db"

// Compile-time interface check.
var _ types.Catalog = (*Backend)(nil)

// Backend implements the Catalog interface using SQLite as the query engine
// and JSONL files as the source of truth.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	dataDir  string
	db       *sql.DB
	tables   map[string]types.Table
	logger   *zap.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for lifecycle and load diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		tables: make(map[string]types.Table),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// GetTable returns the Table for the specified name.
// Returns ErrCatalogDetached if the backend is not attached and
// ErrTableNotFound if the name is not recognized.
func (b *Backend) GetTable(name string) (types.Table, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrCatalogDetached
	}
	table, ok := b.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return table, nil
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, builds a fresh SQLite database,
// loads the JSONL files into it and seeds built-in schemas on first use.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.Dir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// The database is a cache of the JSONL files; start from scratch.
	dbPath := config.Path(dbFile)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return err
	}
	if err := initJSONLFiles(dataDir); err != nil {
		db.Close()
		return err
	}
	if err := loadAllJSONL(db, dataDir, b.logger); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}
	if err := seedBuiltInSchemas(db, dataDir); err != nil {
		db.Close()
		return fmt.Errorf("seed schemas: %w", err)
	}

	b.db = db
	b.config = config
	b.dataDir = dataDir
	b.attached = true
	b.tables[types.SamplesTable] = &samplesTable{backend: b}
	b.tables[types.SchemasTable] = &schemasTable{backend: b}

	b.logger.Debug("catalog attached",
		zap.String("backend", config.Backend),
		zap.String("data_dir", dataDir))
	return nil
}

// Detach releases all resources held by the backend. After Detach,
// GetTable returns ErrCatalogDetached and tables obtained earlier return
// ErrCatalogDetached from every operation. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.attached = false
	b.tables = make(map[string]types.Table)
	if b.db != nil {
		err := b.db.Close()
		b.db = nil
		if err != nil {
			return fmt.Errorf("closing database: %w", err)
		}
	}
	b.logger.Debug("catalog detached", zap.String("data_dir", b.dataDir))
	return nil
}

// querier is the subset of *sql.DB and *sql.Tx the tables use.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// inTx runs fn in a transaction and commits only if fn succeeds. Writes
// rewrite their JSONL file inside fn, so a failed rewrite leaves the
// database as it was.
func (b *Backend) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// generateUUID generates a new UUID v7 for entity IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// validID reports whether id is a well-formed UUID.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
