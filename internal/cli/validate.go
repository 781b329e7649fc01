package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/kindof/internal/document"
	"github.com/mesh-intelligence/kindof/internal/schema"
	"github.com/mesh-intelligence/kindof/pkg/see"
	"github.com/mesh-intelligence/kindof/pkg/track"
	"github.com/mesh-intelligence/kindof/pkg/typer"
	"github.com/mesh-intelligence/kindof/pkg/types"
)

// result is the outcome of validating one document.
type result struct {
	Document int      `json:"document"`
	Valid    bool     `json:"valid"`
	Error    string   `json:"error,omitempty"`
	Path     []string `json:"path,omitempty"`
}

func (a *app) newValidateCmd() *cobra.Command {
	var (
		schemaFile string
		schemaName string
		watch      bool
	)
	cmd := &cobra.Command{
		Use:   "validate (--schema FILE | --schema-name NAME) [file|-]",
		Short: "Validate documents against a schema",
		Long: `Validate checks each YAML or JSON document in the input against a schema
read from a file or stored in the catalog. The command exits with code 1
if any document fails.

With --watch the input file is validated again every time it changes,
until interrupted.

Example:
  kindof validate --schema user.yaml users.json
  kindof validate --schema-name string-list tags.yaml
  kindof validate --schema user.yaml --watch users.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.loadValidator(cmd, schemaFile, schemaName)
			if err != nil {
				return err
			}
			check := a.checker(v)
			path := inputPath(args)

			if watch {
				if path == document.StdinPath {
					return userError(errors.New("--watch needs an input file"))
				}
				return a.watch(cmd.Context(), cmd.OutOrStdout(), path, check)
			}

			docs, err := readDocuments(cmd, path)
			if err != nil {
				return err
			}
			if failed := a.report(cmd.OutOrStdout(), docs, check); failed > 0 {
				return userError(fmt.Errorf("%w: %d of %d documents", errValidationFailed, failed, len(docs)))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaFile, "schema", "", "schema file")
	cmd.Flags().StringVar(&schemaName, "schema-name", "", "name of a stored schema")
	cmd.Flags().BoolVar(&watch, "watch", false, "revalidate when the input file changes")
	cmd.MarkFlagsOneRequired("schema", "schema-name")
	cmd.MarkFlagsMutuallyExclusive("schema", "schema-name")
	return cmd
}

// loadValidator compiles the schema named by exactly one of file or name.
func (a *app) loadValidator(cmd *cobra.Command, file, name string) (typer.Validator, error) {
	var source []byte
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, userError(fmt.Errorf("read schema: %w", err))
		}
		source = data
	} else {
		s, err := a.findSchema(name)
		if err != nil {
			return nil, err
		}
		source = []byte(s.Source)
	}
	v, err := schema.Load(source)
	if err != nil {
		return nil, userError(err)
	}
	return v, nil
}

// findSchema looks up a stored schema by name or ID.
func (a *app) findSchema(ref string) (*types.Schema, error) {
	var found *types.Schema
	err := a.table(types.SchemasTable, func(tbl types.Table) error {
		s, err := lookupSchema(tbl, ref)
		found = s
		return err
	})
	return found, err
}

// checker returns a function that runs v over a document through a see
// pipeline sharing one Maker.
func (a *app) checker(v typer.Validator) func(any) error {
	maker := see.NewMaker(see.WithLogger(a.logger))
	return func(doc any) error {
		return see.From(maker, doc).Check(typer.WithTyper[any](v)).Err()
	}
}

// report validates docs, prints one line (or one JSON record) per document
// and returns the number of failures.
func (a *app) report(w io.Writer, docs []any, check func(any) error) int {
	results := make([]result, len(docs))
	failed := 0
	for i, d := range docs {
		results[i] = result{Document: i, Valid: true}
		if err := check(d); err != nil {
			failed++
			results[i].Valid = false
			results[i].Error = err.Error()
			var ve *typer.ValidationError
			if errors.As(err, &ve) {
				results[i].Path = ve.Path
			}
		}
	}

	if a.jsonMode {
		if err := printJSON(w, results); err != nil {
			a.logger.Warn("writing results", zap.Error(err))
		}
		return failed
	}
	for _, r := range results {
		if r.Valid {
			fmt.Fprintf(w, "document %d: ok\n", r.Document)
		} else {
			fmt.Fprintf(w, "document %d: %s\n", r.Document, r.Error)
		}
	}
	return failed
}

// watch validates path now and after every change until ctx is done. The
// decoded documents live in a track.Track; the reporter observes it.
func (a *app) watch(ctx context.Context, w io.Writer, path string, check func(any) error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return sysError("resolve input", err)
	}
	docs, err := document.ReadFile(abs)
	if err != nil {
		return userError(err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return sysError("start watcher", err)
	}
	defer watcher.Close()
	// Watch the directory: editors often replace the file rather than
	// write it in place.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return sysError("watch "+filepath.Dir(abs), err)
	}

	current := track.New(docs, track.WithCapacity(a.settings.MaxListeners))
	reporter := track.NewListener(func(docs []any) {
		fmt.Fprintf(w, "== %s\n", path)
		a.report(w, docs, check)
	})
	current.Observe(reporter)
	current.Watch(track.NewListener(func(docs []any) {
		a.logger.Debug("input reloaded", zap.String("path", abs), zap.Int("documents", len(docs)))
	}))
	if current.Saturated() {
		a.logger.Debug("listener capacity reached", zap.Int("capacity", current.Cap()))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			docs, err := document.ReadFile(abs)
			if err != nil {
				fmt.Fprintf(w, "== %s\nreload failed: %v\n", path, err)
				continue
			}
			current.Set(docs)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watcher error", zap.Error(err))
		}
	}
}
