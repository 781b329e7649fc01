package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/kindof/pkg/kind"
	"github.com/mesh-intelligence/kindof/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoad_SkipsMalformedAndUnknownFields(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, samplesJSONL, `{"sample_id":"0195a000-0000-7000-8000-000000000001","name":"ok","label":"array","payload":[1,2],"created_at":"2025-01-15T10:30:00.000000000Z","future":"x"}
not json at all
{"sample_id":"0195a000-0000-7000-8000-000000000002","name":"no payload","label":"null","created_at":"2025-01-15T10:30:01.000000000Z"}

{"sample_id":"0195a000-0000-7000-8000-000000000003","name":"nullish","label":"null","payload":null,"created_at":"2025-01-15T10:30:02.000000000Z"}
`)

	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	defer b.Detach()

	all, err := table(t, b, types.SamplesTable).Fetch(nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	first := all[0].(*types.Sample)
	assert.Equal(t, "ok", first.Name)
	assert.Equal(t, []any{1, 2}, first.Payload)

	second := all[1].(*types.Sample)
	assert.Equal(t, kind.Nil, second.Payload)
	assert.Equal(t, kind.LabelNull, second.Label)
}

func TestLoad_RejectsDuplicateSchemaNames(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, schemasJSONL, `{"schema_id":"a","name":"dup","source":"type: string","created_at":"2025-01-15T10:30:00.000000000Z"}
{"schema_id":"b","name":"dup","source":"type: number","created_at":"2025-01-15T10:30:01.000000000Z"}
`)

	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	defer b.Detach()

	got, err := table(t, b, types.SchemasTable).Get("a")
	require.NoError(t, err)
	assert.Equal(t, "type: string", got.(*types.Schema).Source)

	_, err = table(t, b, types.SchemasTable).Get("b")
	assert.ErrorIs(t, err, types.ErrNotFound)

	// A non-empty schemas file disables seeding.
	assert.Equal(t, []string{"dup"}, schemaNames(t, table(t, b, types.SchemasTable), nil))
}

func TestReadJSONL(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.jsonl", "{\"a\":1}\n{broken\n\n[2]\n")

	records, skipped, err := readJSONL(filepath.Join(dir, "x.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, []json.RawMessage{json.RawMessage(`{"a":1}`), json.RawMessage(`[2]`)}, records)

	_, _, err = readJSONL(filepath.Join(dir, "missing.jsonl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteJSONL_Atomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.jsonl")
	writeFile(t, dir, "out.jsonl", "old\n")

	require.NoError(t, writeJSONL(path, []json.RawMessage{json.RawMessage(`{"a":1}`), json.RawMessage(`{"b":2}`)}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1}\n{\"b\":2}\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestColumnValue(t *testing.T) {
	assert.Equal(t, "x", columnValue(json.RawMessage(`"x"`)))
	assert.Nil(t, columnValue(json.RawMessage(`null`)))
	assert.Equal(t, "42", columnValue(json.RawMessage(`42`)))
	assert.Equal(t, `{"a":1}`, columnValue(json.RawMessage(`{"a":1}`)))
}
