package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kindof/internal/document"
)

// inputPath returns the single optional file argument, defaulting to stdin.
func inputPath(args []string) string {
	if len(args) == 0 {
		return document.StdinPath
	}
	return args[0]
}

// readDocuments decodes every document in path, reading stdin for "-".
func readDocuments(cmd *cobra.Command, path string) ([]any, error) {
	docs, err := document.ReadFrom(path, cmd.InOrStdin())
	if err != nil {
		return nil, userError(err)
	}
	return docs, nil
}
