package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kindof/internal/schema"
	"github.com/mesh-intelligence/kindof/pkg/types"
)

func (a *app) newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage stored schemas",
		Long:  "Schemas are YAML validator descriptions stored in the catalog under a\nunique name.",
	}
	cmd.AddCommand(a.newSchemaAddCmd())
	cmd.AddCommand(a.newSchemaGetCmd())
	cmd.AddCommand(a.newSchemaListCmd())
	cmd.AddCommand(a.newSchemaDeleteCmd())
	return cmd
}

func (a *app) newSchemaAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME FILE",
		Short: "Store a schema file under NAME",
		Long: `Add compiles the schema in FILE and stores it under NAME. Names are unique;
adding an existing name replaces its source.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, file := args[0], args[1]
			source, err := os.ReadFile(file)
			if err != nil {
				return userError(fmt.Errorf("read schema: %w", err))
			}

			var stored *types.Schema
			err = a.table(types.SchemasTable, func(tbl types.Table) error {
				s := &types.Schema{Name: name, Source: string(source)}
				id := ""
				if existing, err := lookupSchema(tbl, name); err == nil && existing.Name == name {
					id = existing.SchemaID
				}
				if _, err := tbl.Set(id, s); err != nil {
					return userError(fmt.Errorf("add schema: %w", err))
				}
				stored = s
				return nil
			})
			if err != nil {
				return err
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), stored)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", stored.SchemaID, stored.Name)
			return nil
		},
	}
}

func (a *app) newSchemaGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME|ID",
		Short: "Print a stored schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.findSchema(args[0])
			if err != nil {
				return err
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), s)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s (%s)\n%s", s.Name, s.SchemaID, s.Source)
			return nil
		},
	}
}

func (a *app) newSchemaListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := map[string]any{}
			if limit > 0 {
				filter[types.FilterLimit] = limit
			}
			var schemas []*types.Schema
			err := a.table(types.SchemasTable, func(tbl types.Table) error {
				entities, err := tbl.Fetch(filter)
				if err != nil {
					return userError(fmt.Errorf("fetch schemas: %w", err))
				}
				for _, e := range entities {
					schemas = append(schemas, e.(*types.Schema))
				}
				return nil
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.jsonMode {
				if schemas == nil {
					schemas = []*types.Schema{}
				}
				return printJSON(out, schemas)
			}
			if len(schemas) == 0 {
				fmt.Fprintln(out, "No schemas found.")
				return nil
			}
			rows := make([][]string, len(schemas))
			for i, s := range schemas {
				rows[i] = []string{shortID(s.SchemaID), s.Name, rootType(s.Source)}
			}
			printTable(out, []string{"ID", "NAME", "TYPE"}, rows)
			fmt.Fprintf(out, "Total: %d schema(s)\n", len(schemas))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of results (0 = no limit)")
	return cmd
}

func (a *app) newSchemaDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME|ID",
		Short: "Delete a stored schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var deleted *types.Schema
			err := a.table(types.SchemasTable, func(tbl types.Table) error {
				s, err := lookupSchema(tbl, args[0])
				if err != nil {
					return err
				}
				if err := tbl.Delete(s.SchemaID); err != nil {
					return userError(fmt.Errorf("delete schema: %w", err))
				}
				deleted = s
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", deleted.Name)
			return nil
		},
	}
}

// lookupSchema finds a schema by name, falling back to ID.
func lookupSchema(tbl types.Table, ref string) (*types.Schema, error) {
	byName, err := tbl.Fetch(map[string]any{types.FilterName: ref})
	if err != nil {
		return nil, userError(err)
	}
	if len(byName) > 0 {
		return byName[0].(*types.Schema), nil
	}
	e, err := tbl.Get(ref)
	if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrInvalidID) {
		return nil, userError(fmt.Errorf("schema %q: %w", ref, types.ErrNotFound))
	}
	if err != nil {
		return nil, sysError("get schema", err)
	}
	return e.(*types.Schema), nil
}

// rootType returns the top-level type of a schema source, or "?" if it no
// longer parses.
func rootType(source string) string {
	s, err := schema.Parse([]byte(source))
	if err != nil {
		return "?"
	}
	return s.Type
}
