package types

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		wantErr error
	}{
		{"sqlite", BackendSQLite, nil},
		{"empty", "", ErrBackendEmpty},
		{"blank", "  ", ErrBackendEmpty},
		{"wrong case", "SQLite", ErrBackendUnknown},
		{"unsupported", "postgres", ErrBackendUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Config{Backend: tt.backend, DataDir: t.TempDir()}.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConfig_UnknownBackendNamesAlternatives(t *testing.T) {
	err := Config{Backend: "postgres"}.Validate()
	require.ErrorIs(t, err, ErrBackendUnknown)
	assert.Equal(t, `unknown backend "postgres" (supported: sqlite)`, err.Error())
}

func TestConfig_DataDirIsNotValidated(t *testing.T) {
	// The backend creates the directory on attach.
	assert.NoError(t, Config{Backend: BackendSQLite}.Validate())
	assert.NoError(t, Config{Backend: BackendSQLite, DataDir: "does/not/exist"}.Validate())
}

func TestConfig_Paths(t *testing.T) {
	assert.Equal(t, ".", Config{}.Dir())
	assert.Equal(t, "samples.jsonl", Config{}.Path("samples.jsonl"))

	dir := t.TempDir()
	c := Config{Backend: BackendSQLite, DataDir: dir}
	assert.Equal(t, dir, c.Dir())
	assert.Equal(t, filepath.Join(dir, "kindof.db"), c.Path("kindof.db"))
}

func TestBackends(t *testing.T) {
	got := Backends()
	assert.Equal(t, []string{BackendSQLite}, got)
	got[0] = "mutated"
	assert.Equal(t, []string{BackendSQLite}, Backends())
}
