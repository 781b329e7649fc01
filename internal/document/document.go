// Package document decodes YAML and JSON input into plain Go values for
// classification and validation.
//
// Mappings decode to map[string]any (map[any]any when a key is not a
// string), sequences to []any and scalars to string, int, float64 or bool.
// An explicit null decodes to kind.Nil so it classifies as null rather than
// undefined; an absent key stays absent.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/kindof/pkg/kind"
)

// StdinPath names standard input in ReadFile.
const StdinPath = "-"

// ErrEmptyDocument is returned when the input holds no document.
var ErrEmptyDocument = errors.New("empty document")

// Decode parses a single YAML or JSON document. Any documents after the
// first are ignored.
func Decode(data []byte) (any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return normalize(v), nil
}

// DecodeAll parses a stream of documents separated by "---".
func DecodeAll(data []byte) ([]any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []any
	for i := 0; ; i++ {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding document %d: %w", i, err)
		}
		docs = append(docs, normalize(v))
	}
	if len(docs) == 0 {
		return nil, ErrEmptyDocument
	}
	return docs, nil
}

// ReadFile reads and decodes all documents in path. A path of "-" reads
// standard input.
func ReadFile(path string) ([]any, error) {
	return ReadFrom(path, os.Stdin)
}

// ReadFrom is ReadFile with stdin supplied by the caller.
func ReadFrom(path string, stdin io.Reader) ([]any, error) {
	data, err := read(path, stdin)
	if err != nil {
		return nil, err
	}
	return DecodeAll(data)
}

func read(path string, stdin io.Reader) ([]byte, error) {
	if path == StdinPath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return kind.Nil
	case map[string]any:
		for k, e := range x {
			x[k] = normalize(e)
		}
		return x
	case map[any]any:
		for k, e := range x {
			x[k] = normalize(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = normalize(e)
		}
		return x
	default:
		return v
	}
}
