package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mesh-intelligence/kindof/internal/schema"
	"github.com/mesh-intelligence/kindof/pkg/types"
)

// Compile-time interface check: schemasTable must implement Table.
var _ types.Table = (*schemasTable)(nil)

const selectSchemas = "SELECT schema_id, name, source, created_at FROM schemas"

// schemasTable implements the Table interface for stored schemas. Names
// are unique and every source must compile before it is stored.
type schemasTable struct {
	backend *Backend
}

// Get retrieves a schema by ID.
func (st *schemasTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	b := st.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrCatalogDetached
	}

	var sid, name, source, createdAt string
	err := b.db.QueryRow(selectSchemas+" WHERE schema_id = ?", id).
		Scan(&sid, &name, &source, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting schema %s: %w", id, err)
	}
	return hydrateSchema(sid, name, source, createdAt)
}

// Set creates or updates a schema. data must be a *types.Schema whose
// Source compiles. Returns ErrDuplicateName if another schema already has
// the name.
func (st *schemasTable) Set(id string, data any) (string, error) {
	s, ok := data.(*types.Schema)
	if !ok || s == nil {
		return "", types.ErrInvalidData
	}
	if err := s.Validate(); err != nil {
		return "", err
	}
	if id != "" && !validID(id) {
		return "", types.ErrInvalidID
	}
	if _, err := schema.Load([]byte(s.Source)); err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrInvalidSource, err)
	}

	b := st.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return "", types.ErrCatalogDetached
	}

	if id == "" {
		id = generateUUID()
	}
	created := time.Now().UTC()
	err := b.inTx(func(tx *sql.Tx) error {
		var owner string
		err := tx.QueryRow("SELECT schema_id FROM schemas WHERE name = ?", s.Name).Scan(&owner)
		switch {
		case err == nil && owner != id:
			return types.ErrDuplicateName
		case err != nil && !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("checking schema name: %w", err)
		}

		var existing string
		err = tx.QueryRow("SELECT created_at FROM schemas WHERE schema_id = ?", id).Scan(&existing)
		switch {
		case err == nil:
			if t, perr := parseTime(existing); perr == nil {
				created = t
			}
		case errors.Is(err, sql.ErrNoRows):
			if !s.CreatedAt.IsZero() {
				created = s.CreatedAt.UTC()
			}
		default:
			return fmt.Errorf("checking schema existence: %w", err)
		}

		_, err = tx.Exec(`
			INSERT INTO schemas (schema_id, name, source, created_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(schema_id) DO UPDATE SET
				name = excluded.name,
				source = excluded.source`,
			id, s.Name, s.Source, formatTime(created))
		if err != nil {
			return fmt.Errorf("upserting schema: %w", err)
		}
		return persistSchemas(tx, b.dataDir)
	})
	if err != nil {
		return "", err
	}

	s.SchemaID = id
	s.CreatedAt = created
	return id, nil
}

// Delete removes a schema by ID.
func (st *schemasTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	b := st.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrCatalogDetached
	}

	return b.inTx(func(tx *sql.Tx) error {
		res, err := tx.Exec("DELETE FROM schemas WHERE schema_id = ?", id)
		if err != nil {
			return fmt.Errorf("deleting schema: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return types.ErrNotFound
		}
		return persistSchemas(tx, b.dataDir)
	})
}

// Fetch returns schemas matching the filter ordered by name. Supported
// keys: name, limit.
func (st *schemasTable) Fetch(filter map[string]any) ([]any, error) {
	if err := checkKeys(filter, types.FilterName, types.FilterLimit); err != nil {
		return nil, err
	}
	var q query
	if err := q.stringFilter(filter, types.FilterName, "name"); err != nil {
		return nil, err
	}
	if err := q.limitFilter(filter); err != nil {
		return nil, err
	}

	b := st.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrCatalogDetached
	}

	rows, err := b.db.Query(q.sql(selectSchemas, "name"), q.args...)
	if err != nil {
		return nil, fmt.Errorf("fetching schemas: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		var sid, name, source, createdAt string
		if err := rows.Scan(&sid, &name, &source, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning schema: %w", err)
		}
		s, err := hydrateSchema(sid, name, source, createdAt)
		if err != nil {
			return nil, err
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

// persistSchemas rewrites schemas.jsonl from q. The caller must hold the
// backend write lock.
func persistSchemas(q querier, dataDir string) error {
	rows, err := q.Query(selectSchemas + " ORDER BY created_at, schema_id")
	if err != nil {
		return fmt.Errorf("reading schemas for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var sid, name, source, createdAt string
		if err := rows.Scan(&sid, &name, &source, &createdAt); err != nil {
			return fmt.Errorf("scanning schema for JSONL: %w", err)
		}
		rec, err := dehydrateSchema(sid, name, source, createdAt)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(filepath.Join(dataDir, schemasJSONL), records)
}
