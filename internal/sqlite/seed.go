package sqlite

import (
	"database/sql"
	"fmt"
	"time"
)

// builtInSchema describes a schema seeded on first startup.
type builtInSchema struct {
	name   string
	source string
}

// builtInSchemas are stored when the schemas table is empty after loading.
var builtInSchemas = []builtInSchema{
	{"string", "type: string\n"},
	{"number", "type: number\n"},
	{"boolean", "type: boolean\n"},
	{"string-list", "type: array\nelem: {type: string}\n"},
	{"string-map", "type: record\nkey: {type: string}\nvalue: {type: any}\n"},
	{"point", "type: tuple\nitems: [{type: number}, {type: number}]\n"},
}

// seedBuiltInSchemas creates the built-in schemas if the schemas table is
// empty, then persists schemas.jsonl. Seeding only runs when
// schemas.jsonl held no schemas, so deleting a built-in is permanent as
// long as another schema remains.
func seedBuiltInSchemas(db *sql.DB, dataDir string) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schemas").Scan(&count); err != nil {
		return fmt.Errorf("counting schemas: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for i, s := range builtInSchemas {
		// Offset by ordinal so creation order is stable.
		created := formatTime(now.Add(time.Duration(i) * time.Microsecond))
		if _, err := tx.Exec(
			"INSERT INTO schemas (schema_id, name, source, created_at) VALUES (?, ?, ?, ?)",
			generateUUID(), s.name, s.source, created,
		); err != nil {
			return fmt.Errorf("seeding schema %s: %w", s.name, err)
		}
	}
	if err := persistSchemas(tx, dataDir); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed transaction: %w", err)
	}
	return nil
}
