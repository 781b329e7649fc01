package types

import (
	"strings"
	"time"
)

// Schema is a named, stored schema document. Source holds the YAML text;
// the backend refuses sources that do not compile.
type Schema struct {
	SchemaID  string    `json:"schema_id"`
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the fields that do not need the schema compiler.
func (s *Schema) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(s.Source) == "" {
		return ErrInvalidSource
	}
	return nil
}
