package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/kindof/pkg/kind"
)

func TestNewSample(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		want    kind.Label
	}{
		{"object", map[string]any{"a": 1}, kind.LabelObject},
		{"array", []any{1}, kind.LabelArray},
		{"null", kind.Nil, kind.LabelNull},
		{"undefined", nil, kind.LabelUndefined},
		{"string", "x", kind.LabelString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSample("s", tt.payload)
			assert.Equal(t, tt.want, s.Label)
			assert.NoError(t, s.Validate())
		})
	}
}

func TestSampleValidate(t *testing.T) {
	tests := []struct {
		name    string
		sample  Sample
		wantErr error
	}{
		{"empty name", Sample{Name: " ", Label: kind.LabelString, Payload: "x"}, ErrInvalidName},
		{"missing label", Sample{Name: "a", Payload: "x"}, ErrInvalidLabel},
		{"stale label", Sample{Name: "a", Label: kind.LabelNumber, Payload: "x"}, ErrInvalidLabel},
		{"valid", Sample{Name: "a", Label: kind.LabelString, Payload: "x"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sample.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSampleSetPayload(t *testing.T) {
	s := NewSample("s", "x")
	s.SetPayload([]any{})
	assert.Equal(t, kind.LabelArray, s.Label)
	assert.Contains(t, s.Describe().Passed(), "IsEmptyArray")
}

func TestSchemaValidate(t *testing.T) {
	assert.ErrorIs(t, (&Schema{Source: "type: string"}).Validate(), ErrInvalidName)
	assert.ErrorIs(t, (&Schema{Name: "s", Source: "\n"}).Validate(), ErrInvalidSource)
	assert.NoError(t, (&Schema{Name: "s", Source: "type: string"}).Validate())
}
