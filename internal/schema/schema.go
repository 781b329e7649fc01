// Package schema loads validators from YAML documents.
//
// A schema node names its type and the children that type needs:
//
//	type: object
//	fields:
//	  - name: id
//	    type: string
//	  - name: tags
//	    type: array
//	    optional: true
//	    elem: {type: string}
//
// Compile turns a node tree into a typer.Validator with the same behavior
// as the equivalent hand-built combinator.
package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/kindof/pkg/typer"
)

// Type names accepted in the type key.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeAny     = "any"
	TypeArray   = "array"
	TypeObject  = "object"
	TypeTuple   = "tuple"
	TypeRecord  = "record"
	TypeEnum    = "enum"
	TypeOr      = "or"
	TypeAnd     = "and"
)

// Schema errors.
var (
	ErrUnknownType   = errors.New("unknown schema type")
	ErrInvalidSchema = errors.New("invalid schema")
)

// Schema is one node of a schema document.
type Schema struct {
	Type     string    `yaml:"type"`
	Name     string    `yaml:"name,omitempty"`
	Optional bool      `yaml:"optional,omitempty"`
	Fields   []*Schema `yaml:"fields,omitempty"`
	Items    []*Schema `yaml:"items,omitempty"`
	Elem     *Schema   `yaml:"elem,omitempty"`
	Key      *Schema   `yaml:"key,omitempty"`
	Value    *Schema   `yaml:"value,omitempty"`
	Values   []string  `yaml:"values,omitempty"`
	AnyOf    []*Schema `yaml:"any_of,omitempty"`
	AllOf    []*Schema `yaml:"all_of,omitempty"`
}

// Parse reads one schema document. Unknown keys are rejected.
func Parse(data []byte) (*Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Schema
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidSchema)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	return &s, nil
}

// Load parses and compiles a schema document.
func Load(data []byte) (typer.Validator, error) {
	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return s.Compile()
}

// Compile builds the validator described by s.
func (s *Schema) Compile() (typer.Validator, error) {
	return s.compile("$")
}

func (s *Schema) compile(path string) (typer.Validator, error) {
	if s == nil {
		return nil, fmt.Errorf("%w at %s: missing node", ErrInvalidSchema, path)
	}
	v, err := s.build(path)
	if err != nil {
		return nil, err
	}
	if s.Optional {
		v = typer.Optional(v)
	}
	return v, nil
}

func (s *Schema) build(path string) (typer.Validator, error) {
	switch s.Type {
	case TypeString:
		return typer.String(), nil
	case TypeNumber:
		return typer.Number(), nil
	case TypeBoolean:
		return typer.Boolean(), nil
	case TypeAny:
		return typer.Any(), nil
	case TypeArray:
		elem, err := s.Elem.compile(path + ".elem")
		if err != nil {
			return nil, err
		}
		return typer.Array(elem), nil
	case TypeObject:
		return s.object(path)
	case TypeTuple:
		if len(s.Items) == 0 {
			return typer.Tuple(), nil
		}
		items, err := compileAll(s.Items, path+".items")
		if err != nil {
			return nil, err
		}
		return typer.Tuple(items...), nil
	case TypeRecord:
		key, err := s.Key.compile(path + ".key")
		if err != nil {
			return nil, err
		}
		value, err := s.Value.compile(path + ".value")
		if err != nil {
			return nil, err
		}
		return typer.Record(key, value), nil
	case TypeEnum:
		if len(s.Values) == 0 {
			return nil, fmt.Errorf("%w at %s: enum needs values", ErrInvalidSchema, path)
		}
		return typer.Enum(s.Values...), nil
	case TypeOr:
		alts, err := compileAll(s.AnyOf, path+".any_of")
		if err != nil {
			return nil, err
		}
		return typer.Or(alts...), nil
	case TypeAnd:
		parts, err := compileAll(s.AllOf, path+".all_of")
		if err != nil {
			return nil, err
		}
		return typer.And(parts...), nil
	case "":
		return nil, fmt.Errorf("%w at %s: type is required", ErrInvalidSchema, path)
	default:
		return nil, fmt.Errorf("%w at %s: %q", ErrUnknownType, path, s.Type)
	}
}

func (s *Schema) object(path string) (typer.Validator, error) {
	seen := make(map[string]bool, len(s.Fields))
	fields := make([]typer.FieldSpec, 0, len(s.Fields))
	for i, f := range s.Fields {
		fpath := fmt.Sprintf("%s.fields[%d]", path, i)
		if f == nil || strings.TrimSpace(f.Name) == "" {
			return nil, fmt.Errorf("%w at %s: field name is required", ErrInvalidSchema, fpath)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("%w at %s: duplicate field %q", ErrInvalidSchema, fpath, f.Name)
		}
		seen[f.Name] = true
		v, err := f.compile(fpath)
		if err != nil {
			return nil, err
		}
		fields = append(fields, typer.Field(f.Name, v))
	}
	return typer.Object(fields...), nil
}

func compileAll(nodes []*Schema, path string) ([]typer.Validator, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w at %s: at least one schema is required", ErrInvalidSchema, path)
	}
	out := make([]typer.Validator, 0, len(nodes))
	for i, n := range nodes {
		v, err := n.compile(fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
