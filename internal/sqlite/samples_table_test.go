package sqlite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/kindof/pkg/kind"
	"github.com/mesh-intelligence/kindof/pkg/types"
)

func TestSamples_CRUD(t *testing.T) {
	b, _ := attach(t)
	tbl := table(t, b, types.SamplesTable)

	s := types.NewSample("users", []any{map[string]any{"name": "ada"}})
	id, err := tbl.Set("", s)
	require.NoError(t, err)
	assert.Equal(t, id, s.SampleID)
	assert.False(t, s.CreatedAt.IsZero())

	got, err := tbl.Get(id)
	require.NoError(t, err)
	g := got.(*types.Sample)
	assert.Equal(t, "users", g.Name)
	assert.Equal(t, kind.LabelArray, g.Label)
	assert.Equal(t, []any{map[string]any{"name": "ada"}}, g.Payload)
	assert.True(t, s.CreatedAt.Equal(g.CreatedAt))

	g.Name = "people"
	g.SetPayload("just text")
	_, err = tbl.Set(id, g)
	require.NoError(t, err)

	got, err = tbl.Get(id)
	require.NoError(t, err)
	g2 := got.(*types.Sample)
	assert.Equal(t, "people", g2.Name)
	assert.Equal(t, kind.LabelString, g2.Label)
	assert.True(t, s.CreatedAt.Equal(g2.CreatedAt), "update keeps creation time")

	require.NoError(t, tbl.Delete(id))
	_, err = tbl.Get(id)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, tbl.Delete(id), types.ErrNotFound)
}

func TestSamples_SetNormalizesPayload(t *testing.T) {
	b, _ := attach(t)
	tbl := table(t, b, types.SamplesTable)

	tests := []struct {
		name    string
		payload any
		want    any
		label   kind.Label
	}{
		{"null", kind.Nil, kind.Nil, kind.LabelNull},
		{"struct becomes object", struct{ A int }{1}, map[string]any{"A": 1}, kind.LabelObject},
		{"fixed array becomes array", [2]int{1, 2}, []any{1, 2}, kind.LabelArray},
		{"nested null", map[string]any{"x": nil}, map[string]any{"x": kind.Nil}, kind.LabelObject},
		{"numeric string stays string", "123", "123", kind.LabelString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &types.Sample{Name: tt.name, Payload: tt.payload}
			id, err := tbl.Set("", s)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Payload)
			assert.Equal(t, tt.label, s.Label)

			got, err := tbl.Get(id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.(*types.Sample).Payload)
			assert.Equal(t, tt.label, got.(*types.Sample).Label)
		})
	}
}

func TestSamples_SetErrors(t *testing.T) {
	b, _ := attach(t)
	tbl := table(t, b, types.SamplesTable)

	tests := []struct {
		name    string
		id      string
		data    any
		wantErr error
	}{
		{"wrong type", "", &types.Schema{Name: "x"}, types.ErrInvalidData},
		{"nil sample", "", (*types.Sample)(nil), types.ErrInvalidData},
		{"empty name", "", types.NewSample("", 1), types.ErrInvalidName},
		{"malformed id", "not-a-uuid", types.NewSample("a", 1), types.ErrInvalidID},
		{"undefined payload", "", types.NewSample("a", nil), types.ErrInvalidData},
		{"function payload", "", types.NewSample("a", func() {}), types.ErrInvalidData},
		{"non-string keys", "", types.NewSample("a", map[any]any{1: "x"}), types.ErrInvalidData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tbl.Set(tt.id, tt.data)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := tbl.Get("")
	assert.ErrorIs(t, err, types.ErrInvalidID)
	assert.ErrorIs(t, tbl.Delete(""), types.ErrInvalidID)
}

func TestSamples_SetWithCallerID(t *testing.T) {
	b, _ := attach(t)
	tbl := table(t, b, types.SamplesTable)

	id := generateUUID()
	got, err := tbl.Set(id, types.NewSample("fixed", true))
	require.NoError(t, err)
	assert.Equal(t, id, got)

	v, err := tbl.Get(id)
	require.NoError(t, err)
	assert.Equal(t, kind.LabelBoolean, v.(*types.Sample).Label)
}

func TestSamples_Fetch(t *testing.T) {
	b, _ := attach(t)
	tbl := table(t, b, types.SamplesTable)

	inputs := []*types.Sample{
		types.NewSample("a", []any{}),
		types.NewSample("b", map[string]any{}),
		types.NewSample("c", []any{1}),
		types.NewSample("a", "text"),
	}
	for _, s := range inputs {
		_, err := tbl.Set("", s)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		filter map[string]any
		want   []string
	}{
		{"all", nil, []string{"a", "b", "c", "a"}},
		{"by label", map[string]any{"label": "array"}, []string{"a", "c"}},
		{"by kind label", map[string]any{"label": kind.LabelObject}, []string{"b"}},
		{"by name", map[string]any{"name": "a"}, []string{"a", "a"}},
		{"label and name", map[string]any{"label": "string", "name": "a"}, []string{"a"}},
		{"limit", map[string]any{"limit": 2}, []string{"a", "b"}},
		{"no match", map[string]any{"label": "symbol"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tbl.Fetch(tt.filter)
			require.NoError(t, err)
			names := []string{}
			for _, v := range got {
				names = append(names, v.(*types.Sample).Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestSamples_FetchInvalidFilter(t *testing.T) {
	b, _ := attach(t)
	tbl := table(t, b, types.SamplesTable)

	filters := []map[string]any{
		{"label": "list"},
		{"label": 3},
		{"name": []string{"a"}},
		{"limit": "ten"},
		{"limit": -1},
		{"limit": 1.5},
		{"state": "ready"},
	}
	for _, f := range filters {
		_, err := tbl.Fetch(f)
		assert.ErrorIs(t, err, types.ErrInvalidFilter, "filter %v", f)
	}
}

func TestSamples_PersistedToJSONL(t *testing.T) {
	b, dir := attach(t)
	tbl := table(t, b, types.SamplesTable)

	id, err := tbl.Set("", types.NewSample("doc", map[string]any{"k": []any{1, "two", nil}}))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, samplesJSONL))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"sample_id":"`+id+`"`)
	assert.Contains(t, lines[0], `"payload":{"k":[1,"two",null]}`)
	assert.Contains(t, lines[0], `"label":"object"`)

	require.NoError(t, tbl.Delete(id))
	data, err = os.ReadFile(filepath.Join(dir, samplesJSONL))
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(string(data)))
}

func TestSamples_SurviveReattach(t *testing.T) {
	b, dir := attach(t)
	tbl := table(t, b, types.SamplesTable)

	want := map[string]any{"a": []any{1, 2.5, true, kind.Nil}, "b": map[string]any{}}
	id, err := tbl.Set("", types.NewSample("round", want))
	require.NoError(t, err)

	b2 := reattach(t, b, dir)
	got, err := table(t, b2, types.SamplesTable).Get(id)
	require.NoError(t, err)
	s := got.(*types.Sample)
	assert.Equal(t, want, s.Payload)
	assert.Equal(t, kind.LabelObject, s.Label)
	assert.True(t, kind.IsEmptyObject(s.Payload.(map[string]any)["b"]))
}

func TestSamples_ConcurrentWrites(t *testing.T) {
	b, dir := attach(t)
	tbl := table(t, b, types.SamplesTable)

	errs := make(chan error, 10)
	for i := range 10 {
		go func() {
			_, err := tbl.Set("", types.NewSample("n", i))
			errs <- err
		}()
	}
	for range 10 {
		if err := <-errs; err != nil {
			t.Errorf("concurrent Set failed: %v", err)
		}
	}

	b2 := reattach(t, b, dir)
	all, err := table(t, b2, types.SamplesTable).Fetch(nil)
	require.NoError(t, err)
	assert.Len(t, all, 10)
}

// blockJSONL replaces name in dir with a non-empty directory so the atomic
// rename in writeJSONL fails.
func blockJSONL(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.MkdirAll(filepath.Join(path, "blocked"), 0o755))
}

func TestSamples_FailedPersistRollsBack(t *testing.T) {
	b, dir := attach(t)
	tbl := table(t, b, types.SamplesTable)

	kept := types.NewSample("kept", "a")
	_, err := tbl.Set("", kept)
	require.NoError(t, err)

	blockJSONL(t, dir, samplesJSONL)

	_, err = tbl.Set("", types.NewSample("lost", "b"))
	require.Error(t, err)
	require.Error(t, tbl.Delete(kept.SampleID))

	all, err := tbl.Fetch(nil)
	require.NoError(t, err)
	require.Len(t, all, 1, "neither the insert nor the delete may survive")
	assert.Equal(t, kept.SampleID, all[0].(*types.Sample).SampleID)
}
