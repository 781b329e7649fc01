package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kindof/pkg/kind"
)

func (a *app) newClassifyCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "classify [file|-]",
		Short: "Print the kind of each document",
		Long: `Classify decodes each YAML or JSON document in the input and prints its
label and the classifier predicates that hold for it.

Example:
  kindof classify data.json
  echo '[]' | kindof classify
  kindof classify --all --json data.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := readDocuments(cmd, inputPath(args))
			if err != nil {
				return err
			}
			reports := make([]kind.Report, len(docs))
			for i, d := range docs {
				reports[i] = kind.Describe(d)
			}

			out := cmd.OutOrStdout()
			if a.jsonMode {
				return printJSON(out, reports)
			}
			if all {
				header := []string{"PREDICATE"}
				for i := range reports {
					header = append(header, "DOC "+strconv.Itoa(i))
				}
				var rows [][]string
				for j, p := range kind.Predicates() {
					row := []string{p.Name}
					for _, r := range reports {
						row = append(row, strconv.FormatBool(r.Checks[j].Result))
					}
					rows = append(rows, row)
				}
				printTable(out, header, rows)
				return nil
			}
			for i, r := range reports {
				passed := r.Passed()
				if len(passed) == 0 {
					passed = []string{"-"}
				}
				fmt.Fprintf(out, "document %d: %s (%s)\n", i, r.Label, strings.Join(passed, ", "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "print every predicate as a table")
	return cmd
}
