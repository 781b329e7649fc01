package sqlite

import (
	"database/sql"
	"fmt"
	"slices"
)

// Schema DDL for all tables.
const (
	createSamples = `CREATE TABLE samples (
    sample_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    label TEXT NOT NULL,
    payload TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createSchemas = `CREATE TABLE schemas (
    schema_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    source TEXT NOT NULL,
    created_at TEXT NOT NULL
);`
)

// Index DDL for common queries.
const (
	idxSamplesLabel = `CREATE INDEX idx_samples_label ON samples(label);`
	idxSamplesName  = `CREATE INDEX idx_samples_name ON samples(name);`
)

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createSamples,
	createSchemas,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxSamplesLabel,
	idxSamplesName,
}

func createSchema(db *sql.DB) error {
	for _, stmt := range slices.Concat(schemaDDL, indexDDL) {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}
