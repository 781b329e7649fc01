package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// jsonlTableMapping maps JSONL filenames to their SQLite tables and column
// lists.
// Columns named in raw keep their JSON text verbatim.
var jsonlTableMapping = []struct {
	file    string
	table   string
	columns []string
	raw     []string
}{
	{samplesJSONL, "samples", []string{"sample_id", "name", "label", "payload", "created_at"}, []string{"payload"}},
	{schemasJSONL, "schemas", []string{"schema_id", "name", "source", "created_at"}, nil},
}

// loadAllJSONL reads each JSONL file from dataDir and inserts its records
// into the matching SQLite table. Loading is transactional: all files load
// or the database stays empty. Malformed lines and records that violate a
// constraint are skipped and logged. Unknown fields are ignored.
func loadAllJSONL(db *sql.DB, dataDir string, logger *zap.Logger) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, mapping := range jsonlTableMapping {
		records, malformed, err := readJSONL(filepath.Join(dataDir, mapping.file))
		if err != nil {
			return fmt.Errorf("reading %s: %w", mapping.file, err)
		}
		loaded, rejected, err := insertRecords(tx, mapping.table, mapping.columns, mapping.raw, records)
		if err != nil {
			return fmt.Errorf("loading %s into %s: %w", mapping.file, mapping.table, err)
		}
		logger.Debug("loaded JSONL",
			zap.String("file", mapping.file),
			zap.Int("records", loaded),
			zap.Int("malformed", malformed),
			zap.Int("rejected", rejected))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertRecords inserts parsed JSONL records into a SQLite table. Only
// columns listed in the mapping are extracted.
func insertRecords(tx *sql.Tx, table string, columns, raw []string, records []json.RawMessage) (loaded, rejected int, err error) {
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(rec, &obj); err != nil {
			rejected++
			continue
		}

		args := make([]any, len(columns))
		for i, col := range columns {
			val, ok := obj[col]
			if !ok {
				continue
			}
			if slices.Contains(raw, col) {
				args[i] = string(val)
				continue
			}
			args[i] = columnValue(val)
		}

		if _, err := stmt.Exec(args...); err != nil {
			rejected++
			continue
		}
		loaded++
	}
	return loaded, rejected, nil
}

// columnValue converts one JSON field to a column argument: strings are
// unquoted, null becomes SQL NULL, everything else is kept as JSON text.
func columnValue(raw json.RawMessage) any {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if string(raw) == "null" {
		return nil
	}
	return string(raw)
}
