package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kindof/pkg/types"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize kindof configuration and storage",
		Long:  "Create the configuration directory and config.yaml, then initialize the\ncatalog in the data directory.",
		Args:  cobra.NoArgs,
		RunE:  a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(a.configDir, 0o755); err != nil {
		return sysError("create config directory", err)
	}
	dataDir, err := a.resolveDataDir()
	if err != nil {
		return sysError("resolve data dir", err)
	}
	if _, err := writeConfigIfMissing(a.configDir, dataDir); err != nil {
		return sysError("write config", err)
	}

	// Attach creates the data directory, the JSONL files and the built-in
	// schemas.
	if err := a.withCatalog(func(types.Catalog) error { return nil }); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "kindof initialized\nconfig: %s\ndata: %s\n", a.configDir, dataDir)
	return nil
}
