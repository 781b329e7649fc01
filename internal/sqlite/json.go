package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/kindof/internal/document"
	"github.com/mesh-intelligence/kindof/pkg/kind"
	"github.com/mesh-intelligence/kindof/pkg/types"
)

// JSON record structures that mirror the JSONL file format.

// sampleJSON represents a sample in samples.jsonl. Payload is kept raw so
// the stored text is exactly what the database holds.
type sampleJSON struct {
	SampleID  string          `json:"sample_id"`
	Name      string          `json:"name"`
	Label     string          `json:"label"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt string          `json:"created_at"`
}

// schemaJSON represents a schema in schemas.jsonl.
type schemaJSON struct {
	SchemaID  string `json:"schema_id"`
	Name      string `json:"name"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
}

// timeFormat is used for every stored timestamp. The fixed-width fraction
// keeps lexical order equal to chronological order.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeFormat, s)
}

// encodePayload renders a payload as JSON text. Values JSON cannot hold,
// such as functions or maps with non-string keys, are rejected.
func encodePayload(v any) (string, error) {
	if v == nil {
		return "", fmt.Errorf("%w: payload is undefined", types.ErrInvalidData)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrInvalidData, err)
	}
	return string(data), nil
}

// decodePayload parses stored JSON text back into plain values, with JSON
// null mapped to kind.Nil.
func decodePayload(text string) (any, error) {
	v, err := document.Decode([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("parsing payload: %w", err)
	}
	return v, nil
}

// hydrateSample builds a Sample from column values.
func hydrateSample(id, name, label, payload, createdAt string) (*types.Sample, error) {
	v, err := decodePayload(payload)
	if err != nil {
		return nil, err
	}
	created, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing sample created_at: %w", err)
	}
	return &types.Sample{
		SampleID:  id,
		Name:      name,
		Label:     kind.Label(label),
		Payload:   v,
		CreatedAt: created,
	}, nil
}

// dehydrateSample renders a stored sample row as a JSONL record.
func dehydrateSample(id, name, label, payload, createdAt string) (json.RawMessage, error) {
	rec := sampleJSON{
		SampleID:  id,
		Name:      name,
		Label:     label,
		Payload:   json.RawMessage(payload),
		CreatedAt: createdAt,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding sample %s: %w", id, err)
	}
	return data, nil
}

// hydrateSchema builds a Schema from column values.
func hydrateSchema(id, name, source, createdAt string) (*types.Schema, error) {
	created, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing schema created_at: %w", err)
	}
	return &types.Schema{
		SchemaID:  id,
		Name:      name,
		Source:    source,
		CreatedAt: created,
	}, nil
}

// dehydrateSchema renders a stored schema row as a JSONL record.
func dehydrateSchema(id, name, source, createdAt string) (json.RawMessage, error) {
	data, err := json.Marshal(schemaJSON{
		SchemaID:  id,
		Name:      name,
		Source:    source,
		CreatedAt: createdAt,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding schema %s: %w", id, err)
	}
	return data, nil
}
