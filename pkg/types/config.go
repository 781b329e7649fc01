package types

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Config selects the catalog backend and where it keeps its files. It is
// passed to Catalog.Attach.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// BackendSQLite keeps samples and schemas in JSONL files under DataDir and
// queries them through a SQLite database rebuilt on every attach.
const BackendSQLite = "sqlite"

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

var backends = []string{BackendSQLite}

// Backends returns the backend names Validate accepts.
func Backends() []string {
	return slices.Clone(backends)
}

// Validate reports whether the Config names a supported backend. An
// unknown backend error names the backend and lists the supported ones.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Backend) == "" {
		return ErrBackendEmpty
	}
	if !slices.Contains(backends, c.Backend) {
		return fmt.Errorf("%w %q (supported: %s)", ErrBackendUnknown, c.Backend, strings.Join(backends, ", "))
	}
	return nil
}

// Dir returns the data directory, the current directory when DataDir is
// empty.
func (c Config) Dir() string {
	if c.DataDir == "" {
		return "."
	}
	return c.DataDir
}

// Path returns the path of the named file inside the data directory.
func (c Config) Path(name string) string {
	return filepath.Join(c.Dir(), name)
}
