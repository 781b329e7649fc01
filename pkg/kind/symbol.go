package kind

import "github.com/google/uuid"

// Symbol is a unique value with an optional description. Two symbols are
// equal only if one was copied from the other.
type Symbol struct {
	id          uuid.UUID
	description string
}

// NewSymbol returns a symbol distinct from every other symbol.
func NewSymbol(description string) Symbol {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return Symbol{id: id, description: description}
}

// Description returns the description given to NewSymbol.
func (s Symbol) Description() string {
	return s.description
}

func (s Symbol) String() string {
	return "Symbol(" + s.description + ")"
}

// Null is the type of Nil.
type Null struct{}

// Nil stands in for an explicit null, such as a decoded JSON null, where a
// bare nil would classify as undefined.
var Nil = Null{}

// MarshalJSON encodes Nil as null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// MarshalYAML encodes Nil as null.
func (Null) MarshalYAML() (any, error) {
	return nil, nil
}

func (Null) String() string {
	return "null"
}
