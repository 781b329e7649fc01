package types

import (
	"strings"
	"time"

	"github.com/mesh-intelligence/kindof/pkg/kind"
)

// Sample is a stored input value together with the label it classified as.
type Sample struct {
	SampleID  string     `json:"sample_id"`
	Name      string     `json:"name"`
	Label     kind.Label `json:"label"`
	Payload   any        `json:"payload"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewSample returns a sample named name holding payload, already
// classified.
func NewSample(name string, payload any) *Sample {
	s := &Sample{Name: name}
	s.SetPayload(payload)
	return s
}

// SetPayload replaces the payload and reclassifies the sample.
func (s *Sample) SetPayload(payload any) {
	s.Payload = payload
	s.Label = kind.Of(payload)
}

// Validate checks that the sample can be stored. The label must be the
// payload's own label; Validate does not reclassify.
func (s *Sample) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrInvalidName
	}
	if !s.Label.Valid() || s.Label != kind.Of(s.Payload) {
		return ErrInvalidLabel
	}
	return nil
}

// Describe runs every classifier predicate over the payload.
func (s *Sample) Describe() kind.Report {
	return kind.Describe(s.Payload)
}
