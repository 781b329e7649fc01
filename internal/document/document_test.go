package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/kindof/pkg/kind"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		label kind.Label
	}{
		{"json object", `{"a": 1}`, kind.LabelObject},
		{"json array", `[1, 2]`, kind.LabelArray},
		{"json null", `null`, kind.LabelNull},
		{"json string", `"x"`, kind.LabelString},
		{"json number", `1.5`, kind.LabelNumber},
		{"json bool", `true`, kind.LabelBoolean},
		{"yaml mapping", "a: 1\nb: [x]\n", kind.LabelObject},
		{"yaml sequence", "- 1\n- 2\n", kind.LabelArray},
		{"yaml tilde", "~", kind.LabelNull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Decode([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.label, kind.Of(v))
		})
	}
}

func TestDecode_NestedNulls(t *testing.T) {
	v, err := Decode([]byte(`{"a": null, "b": [null, 1], "c": {"d": null}}`))
	require.NoError(t, err)

	m := v.(map[string]any)
	assert.Equal(t, kind.Nil, m["a"])
	assert.Equal(t, []any{kind.Nil, 1}, m["b"])
	assert.Equal(t, map[string]any{"d": kind.Nil}, m["c"])

	_, ok := m["missing"]
	assert.False(t, ok)
}

func TestDecode_EmptyArrayAndObject(t *testing.T) {
	v, err := Decode([]byte(`[]`))
	require.NoError(t, err)
	assert.True(t, kind.IsEmptyArray(v))

	v, err = Decode([]byte(`{}`))
	require.NoError(t, err)
	assert.True(t, kind.IsEmptyObject(v))
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(nil)
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = Decode([]byte("a: [1, 2"))
	assert.ErrorContains(t, err, "decoding document")
}

func TestDecodeAll(t *testing.T) {
	docs, err := DecodeAll([]byte("a: 1\n---\n- x\n---\nnull\n"))
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, kind.LabelObject, kind.Of(docs[0]))
	assert.Equal(t, kind.LabelArray, kind.Of(docs[1]))
	assert.Equal(t, kind.LabelNull, kind.Of(docs[2]))

	_, err = DecodeAll([]byte(""))
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "x"}`), 0o644))

	docs, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"name": "x"}}, docs)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadFrom_Stdin(t *testing.T) {
	docs, err := ReadFrom(StdinPath, strings.NewReader("[1]\n---\n{}\n"))
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{1}, map[string]any{}}, docs)
}
