package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/kindof/internal/paths"
	"github.com/mesh-intelligence/kindof/pkg/kind"
	"github.com/mesh-intelligence/kindof/pkg/types"
)

// testEnv runs commands against private config and data directories.
type testEnv struct {
	t         *testing.T
	configDir string
	dataDir   string
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	return &testEnv{
		t:         t,
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
	}
}

func (e *testEnv) command(stdin string, args ...string) (*bytes.Buffer, func() error) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...))
	return &out, cmd.Execute
}

// run executes one command and returns its stdout.
func (e *testEnv) run(stdin string, args ...string) (string, error) {
	out, exec := e.command(stdin, args...)
	err := exec()
	return out.String(), err
}

func (e *testEnv) mustRun(stdin string, args ...string) string {
	e.t.Helper()
	out, err := e.run(stdin, args...)
	require.NoError(e.t, err, "kindof %v", args)
	return out
}

func (e *testEnv) writeFile(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.t.TempDir(), name)
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const userSchema = `type: object
fields:
  - {name: name, type: string}
  - {name: age, type: number, optional: true}
`

func TestVersion(t *testing.T) {
	out := newEnv(t).mustRun("", "version")
	assert.Equal(t, "kindof v"+Version+"\nmodule: "+modulePath+"\n", out)
}

func TestInit(t *testing.T) {
	env := newEnv(t)
	out := env.mustRun("", "init")
	assert.Contains(t, out, "kindof initialized")

	data, err := os.ReadFile(paths.ConfigFile(env.configDir))
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: sqlite")
	assert.Contains(t, string(data), "log_level: info")

	for _, name := range []string{"samples.jsonl", "schemas.jsonl"} {
		_, err := os.Stat(filepath.Join(env.dataDir, name))
		assert.NoError(t, err, name)
	}

	// Idempotent, and an existing config is left alone.
	require.NoError(t, os.WriteFile(paths.ConfigFile(env.configDir), []byte("backend: sqlite\nlog_level: warn\n"), 0o644))
	env.mustRun("", "init")
	data, err = os.ReadFile(paths.ConfigFile(env.configDir))
	require.NoError(t, err)
	assert.Contains(t, string(data), "log_level: warn")
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{"bad log level", "log_level: loud\n"},
		{"negative listeners", "max_listeners: -1\n"},
		{"unknown backend", "backend: postgres\n"},
		{"malformed yaml", "backend: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t)
			require.NoError(t, os.MkdirAll(env.configDir, 0o755))
			require.NoError(t, os.WriteFile(paths.ConfigFile(env.configDir), []byte(tt.config), 0o644))

			_, err := env.run("", "sample", "list")
			require.Error(t, err)
			assert.Equal(t, exitUserError, exitCode(err))
		})
	}
}

func TestClassify(t *testing.T) {
	env := newEnv(t)

	out := env.mustRun("[]\n---\n{}\n---\nnull\n---\n\"\"\n", "classify")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "document 0: array ("), lines[0])
	assert.Contains(t, lines[0], "IsEmptyLiteralArray")
	assert.True(t, strings.HasPrefix(lines[1], "document 1: object ("), lines[1])
	assert.Contains(t, lines[1], "IsEmptyObject")
	assert.True(t, strings.HasPrefix(lines[2], "document 2: null ("), lines[2])
	assert.Contains(t, lines[3], "IsEmptyString")
}

func TestClassify_FileAndJSON(t *testing.T) {
	env := newEnv(t)
	path := env.writeFile("doc.json", `{"items": [1, 2]}`)

	out := env.mustRun("", "--json", "classify", path)
	var reports []kind.Report
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, kind.LabelObject, reports[0].Label)
	assert.Len(t, reports[0].Checks, len(kind.Predicates()))
}

func TestClassify_All(t *testing.T) {
	out := newEnv(t).mustRun("1\n---\n[1]\n", "classify", "--all")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(kind.Predicates())+1)
	assert.Equal(t, []string{"PREDICATE", "DOC", "0", "DOC", "1"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"IsArray", "false", "true"}, strings.Fields(lines[4]))
}

func TestClassify_Errors(t *testing.T) {
	env := newEnv(t)

	_, err := env.run("", "classify")
	assert.Equal(t, exitUserError, exitCode(err))

	_, err = env.run("", "classify", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestValidate(t *testing.T) {
	env := newEnv(t)
	schemaPath := env.writeFile("user.yaml", userSchema)

	out := env.mustRun(`{"name": "ada", "age": 36}`, "validate", "--schema", schemaPath)
	assert.Equal(t, "document 0: ok\n", out)

	out, err := env.run("{\"name\": \"ada\"}\n---\n{\"name\": 1}\n---\n[]\n", "validate", "--schema", schemaPath)
	require.ErrorIs(t, err, errValidationFailed)
	assert.Equal(t, exitUserError, exitCode(err))
	assert.Equal(t, "document 0: ok\n"+
		"document 1: name: expected string, but got number\n"+
		"document 2: expected object, but got array\n", out)
}

func TestValidate_JSON(t *testing.T) {
	env := newEnv(t)
	schemaPath := env.writeFile("user.yaml", userSchema)

	out, err := env.run(`{"name": "ada", "age": "old"}`, "--json", "validate", "--schema", schemaPath)
	require.ErrorIs(t, err, errValidationFailed)

	var results []result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.False(t, results[0].Valid)
	assert.Equal(t, []string{"age"}, results[0].Path)
}

func TestValidate_StoredSchema(t *testing.T) {
	env := newEnv(t)

	env.mustRun("[a, b]", "validate", "--schema-name", "string-list")
	_, err := env.run("[a, 1]", "validate", "--schema-name", "string-list")
	assert.ErrorIs(t, err, errValidationFailed)

	_, err = env.run("[]", "validate", "--schema-name", "nope")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestValidate_FlagErrors(t *testing.T) {
	env := newEnv(t)
	schemaPath := env.writeFile("s.yaml", "type: string")

	_, err := env.run("x", "validate")
	assert.Error(t, err, "a schema flag is required")

	_, err = env.run("x", "validate", "--schema", schemaPath, "--schema-name", "string")
	assert.Error(t, err)

	_, err = env.run("x", "validate", "--schema", env.writeFile("bad.yaml", "type: date"))
	assert.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))

	_, err = env.run("x", "validate", "--schema", schemaPath, "--watch")
	assert.ErrorContains(t, err, "--watch needs an input file")
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestValidate_Watch(t *testing.T) {
	env := newEnv(t)
	schemaPath := env.writeFile("user.yaml", userSchema)
	input := env.writeFile("input.json", `{"name": "ada"}`)

	cmd := NewRootCmd()
	var out syncBuffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config-dir", env.configDir, "--data-dir", env.dataDir,
		"validate", "--schema", schemaPath, "--watch", input})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "document 0: ok")
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(input, []byte(`{"name": 7}`), 0o644))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "name: expected string, but got number")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestSampleLifecycle(t *testing.T) {
	env := newEnv(t)
	env.mustRun("", "init")

	out := env.mustRun("{\"name\": \"ada\"}\n---\n[1, 2]\n", "sample", "add", "people")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	objectID := strings.Fields(lines[0])[0]
	assert.Equal(t, "object", strings.Fields(lines[0])[1])
	assert.Equal(t, "array", strings.Fields(lines[1])[1])

	out = env.mustRun("", "sample", "list")
	assert.Contains(t, out, "Total: 2 sample(s)")

	out = env.mustRun("", "--json", "sample", "list", "--label", "array")
	var samples []types.Sample
	require.NoError(t, json.Unmarshal([]byte(out), &samples))
	require.Len(t, samples, 1)
	assert.Equal(t, kind.LabelArray, samples[0].Label)

	out = env.mustRun("", "sample", "get", objectID)
	assert.Contains(t, out, "Label:   object")
	assert.Contains(t, out, `"name": "ada"`)

	schemaPath := env.writeFile("user.yaml", userSchema)
	out = env.mustRun("", "sample", "check", objectID, "--schema", schemaPath)
	assert.Equal(t, "document 0: ok\n", out)

	_, err := env.run("", "sample", "check", objectID, "--schema-name", "string-list")
	assert.ErrorIs(t, err, errValidationFailed)

	env.mustRun("", "sample", "delete", objectID)
	_, err = env.run("", "sample", "get", objectID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, exitUserError, exitCode(err))

	_, err = env.run("", "sample", "list", "--label", "list")
	assert.ErrorIs(t, err, types.ErrInvalidFilter)
}

func TestSchemaLifecycle(t *testing.T) {
	env := newEnv(t)
	schemaPath := env.writeFile("user.yaml", userSchema)

	out := env.mustRun("", "schema", "add", "user", schemaPath)
	assert.Contains(t, out, " user")

	out = env.mustRun("", "schema", "get", "user")
	assert.Contains(t, out, "# user (")
	assert.Contains(t, out, "type: object")

	out = env.mustRun("", "schema", "list")
	assert.Contains(t, out, "user")
	assert.Contains(t, out, "string-list")

	// Re-adding a name replaces its source.
	env.mustRun("", "schema", "add", "user", env.writeFile("v2.yaml", "type: string\n"))
	out = env.mustRun("", "schema", "get", "user")
	assert.Contains(t, out, "type: string")

	_, err := env.run("", "schema", "add", "broken", env.writeFile("bad.yaml", "type: object\nfields: [{type: string}]\n"))
	assert.ErrorIs(t, err, types.ErrInvalidSource)

	env.mustRun("", "schema", "delete", "user")
	_, err = env.run("", "schema", "get", "user")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(errors.New("unknown flag")))
	assert.Equal(t, exitUserError, exitCode(userError(errValidationFailed)))
	assert.Equal(t, exitSysError, exitCode(sysError("attach catalog", errors.New("disk full"))))
	assert.Equal(t, "attach catalog: disk full", sysError("attach catalog", errors.New("disk full")).Error())
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("warn", false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = newLogger("warn", true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel), "verbose overrides the level")

	_, err = newLogger("loud", false)
	assert.ErrorContains(t, err, "invalid log_level")
}
