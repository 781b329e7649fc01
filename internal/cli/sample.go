package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kindof/pkg/kind"
	"github.com/mesh-intelligence/kindof/pkg/types"
)

func (a *app) newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Manage stored samples",
		Long:  "Samples are decoded documents stored in the catalog together with the\nlabel they classify as.",
	}
	cmd.AddCommand(a.newSampleAddCmd())
	cmd.AddCommand(a.newSampleGetCmd())
	cmd.AddCommand(a.newSampleListCmd())
	cmd.AddCommand(a.newSampleDeleteCmd())
	cmd.AddCommand(a.newSampleCheckCmd())
	return cmd
}

func (a *app) newSampleAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME [file|-]",
		Short: "Store every document in the input as a sample",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := readDocuments(cmd, inputPath(args[1:]))
			if err != nil {
				return err
			}
			var added []*types.Sample
			err = a.table(types.SamplesTable, func(tbl types.Table) error {
				for _, d := range docs {
					s := types.NewSample(args[0], d)
					if _, err := tbl.Set("", s); err != nil {
						return userError(fmt.Errorf("add sample: %w", err))
					}
					added = append(added, s)
				}
				return nil
			})
			if err != nil {
				return err
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), added)
			}
			for _, s := range added {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", s.SampleID, s.Label)
			}
			return nil
		},
	}
}

func (a *app) newSampleGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show a sample and its classification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.getSample(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.jsonMode {
				return printJSON(out, struct {
					*types.Sample
					Report kind.Report `json:"report"`
				}{s, s.Describe()})
			}
			fmt.Fprintf(out, "ID:      %s\nName:    %s\nLabel:   %s\nCreated: %s\n",
				s.SampleID, s.Name, s.Label, s.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "Passes:  %v\n", s.Describe().Passed())
			return printJSON(out, s.Payload)
		},
	}
}

func (a *app) newSampleListCmd() *cobra.Command {
	var (
		label string
		name  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored samples",
		Long: `List fetches stored samples in the order they were added.

Example:
  kindof sample list
  kindof sample list --label array
  kindof sample list --name users --limit 10 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := map[string]any{}
			if label != "" {
				filter[types.FilterLabel] = label
			}
			if name != "" {
				filter[types.FilterName] = name
			}
			if limit > 0 {
				filter[types.FilterLimit] = limit
			}

			var samples []*types.Sample
			err := a.table(types.SamplesTable, func(tbl types.Table) error {
				entities, err := tbl.Fetch(filter)
				if err != nil {
					return userError(fmt.Errorf("fetch samples: %w", err))
				}
				for _, e := range entities {
					samples = append(samples, e.(*types.Sample))
				}
				return nil
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.jsonMode {
				if samples == nil {
					samples = []*types.Sample{}
				}
				return printJSON(out, samples)
			}
			if len(samples) == 0 {
				fmt.Fprintln(out, "No samples found.")
				return nil
			}
			rows := make([][]string, len(samples))
			for i, s := range samples {
				rows[i] = []string{shortID(s.SampleID), truncate(s.Name, 40), string(s.Label), s.CreatedAt.Format("2006-01-02")}
			}
			printTable(out, []string{"ID", "NAME", "LABEL", "CREATED"}, rows)
			fmt.Fprintf(out, "Total: %d sample(s)\n", len(samples))
			return nil
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "filter by label ("+labelList()+")")
	cmd.Flags().StringVar(&name, "name", "", "filter by name")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of results (0 = no limit)")
	return cmd
}

func (a *app) newSampleDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a stored sample",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.table(types.SamplesTable, func(tbl types.Table) error {
				if err := tbl.Delete(args[0]); err != nil {
					return userError(fmt.Errorf("delete sample %s: %w", args[0], err))
				}
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func (a *app) newSampleCheckCmd() *cobra.Command {
	var schemaFile, schemaName string
	cmd := &cobra.Command{
		Use:   "check ID (--schema FILE | --schema-name NAME)",
		Short: "Validate a stored sample against a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.loadValidator(cmd, schemaFile, schemaName)
			if err != nil {
				return err
			}
			s, err := a.getSample(args[0])
			if err != nil {
				return err
			}
			if a.report(cmd.OutOrStdout(), []any{s.Payload}, a.checker(v)) > 0 {
				return userError(fmt.Errorf("%w: sample %s", errValidationFailed, s.SampleID))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaFile, "schema", "", "schema file")
	cmd.Flags().StringVar(&schemaName, "schema-name", "", "name of a stored schema")
	cmd.MarkFlagsOneRequired("schema", "schema-name")
	cmd.MarkFlagsMutuallyExclusive("schema", "schema-name")
	return cmd
}

func (a *app) getSample(id string) (*types.Sample, error) {
	var s *types.Sample
	err := a.table(types.SamplesTable, func(tbl types.Table) error {
		e, err := tbl.Get(id)
		if err != nil {
			return userError(fmt.Errorf("get sample %s: %w", id, err))
		}
		s = e.(*types.Sample)
		return nil
	})
	return s, err
}

func labelList() string {
	names := make([]string, 0, len(kind.Labels()))
	for _, l := range kind.Labels() {
		names = append(names, string(l))
	}
	return strings.Join(names, ", ")
}
