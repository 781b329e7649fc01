package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mesh-intelligence/kindof/pkg/kind"
	"github.com/mesh-intelligence/kindof/pkg/types"
)

// Compile-time interface check: samplesTable must implement Table.
var _ types.Table = (*samplesTable)(nil)

const selectSamples = "SELECT sample_id, name, label, payload, created_at FROM samples"

// samplesTable implements the Table interface for samples. Payloads are
// stored as JSON text and reclassified on every write, so the stored label
// always describes the stored payload.
type samplesTable struct {
	backend *Backend
}

// Get retrieves a sample by ID.
func (st *samplesTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	b := st.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrCatalogDetached
	}

	var sid, name, label, payload, createdAt string
	err := b.db.QueryRow(selectSamples+" WHERE sample_id = ?", id).
		Scan(&sid, &name, &label, &payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting sample %s: %w", id, err)
	}
	return hydrateSample(sid, name, label, payload, createdAt)
}

// Set creates or updates a sample. data must be a *types.Sample. The
// payload is normalized to its JSON form and the label recomputed; both
// are written back to the caller's Sample along with the ID and creation
// time.
func (st *samplesTable) Set(id string, data any) (string, error) {
	s, ok := data.(*types.Sample)
	if !ok || s == nil {
		return "", types.ErrInvalidData
	}
	if strings.TrimSpace(s.Name) == "" {
		return "", types.ErrInvalidName
	}
	if id != "" && !validID(id) {
		return "", types.ErrInvalidID
	}
	text, err := encodePayload(s.Payload)
	if err != nil {
		return "", err
	}
	payload, err := decodePayload(text)
	if err != nil {
		return "", err
	}

	b := st.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return "", types.ErrCatalogDetached
	}

	created := time.Now().UTC()
	fresh := id == ""
	if fresh {
		id = generateUUID()
	}
	label := kind.Of(payload)
	err = b.inTx(func(tx *sql.Tx) error {
		if !fresh {
			var existing string
			err := tx.QueryRow("SELECT created_at FROM samples WHERE sample_id = ?", id).Scan(&existing)
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
				return fmt.Errorf("checking sample existence: %w", err)
			}
		}

		_, err := tx.Exec(`
			INSERT INTO samples (sample_id, name, label, payload, created_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(sample_id) DO UPDATE SET
				name = excluded.name,
				label = excluded.label,
				payload = excluded.payload`,
			id, s.Name, string(label), text, formatTime(created))
		if err != nil {
			return fmt.Errorf("upserting sample: %w", err)
		}
		return st.persist(tx)
	})
	if err != nil {
		return "", err
	}

	s.SampleID = id
	s.Payload = payload
	s.Label = label
	s.CreatedAt = created
	return id, nil
}

// Delete removes a sample by ID.
func (st *samplesTable) Delete(id string) error {
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
		res, err := tx.Exec("DELETE FROM samples WHERE sample_id = ?", id)
		if err != nil {
			return fmt.Errorf("deleting sample: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return types.ErrNotFound
		}
		return st.persist(tx)
	})
}

// Fetch returns samples matching the filter in creation order. Supported
// keys: label, name, limit.
func (st *samplesTable) Fetch(filter map[string]any) ([]any, error) {
	if err := checkKeys(filter, types.FilterLabel, types.FilterName, types.FilterLimit); err != nil {
		return nil, err
	}
	var q query
	if err := q.labelFilter(filter); err != nil {
		return nil, err
	}
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

	rows, err := b.db.Query(q.sql(selectSamples, "created_at, sample_id"), q.args...)
	if err != nil {
		return nil, fmt.Errorf("fetching samples: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		var sid, name, label, payload, createdAt string
		if err := rows.Scan(&sid, &name, &label, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning sample: %w", err)
		}
		s, err := hydrateSample(sid, name, label, payload, createdAt)
		if err != nil {
			return nil, err
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

// persist rewrites samples.jsonl from q. The caller must hold the backend
// write lock.
func (st *samplesTable) persist(q querier) error {
	rows, err := q.Query(selectSamples + " ORDER BY created_at, sample_id")
	if err != nil {
		return fmt.Errorf("reading samples for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var sid, name, label, payload, createdAt string
		if err := rows.Scan(&sid, &name, &label, &payload, &createdAt); err != nil {
			return fmt.Errorf("scanning sample for JSONL: %w", err)
		}
		rec, err := dehydrateSample(sid, name, label, payload, createdAt)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(filepath.Join(st.backend.dataDir, samplesJSONL), records)
}
