// Package cli implements the kindof command-line interface.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/kindof/internal/paths"
	"github.com/mesh-intelligence/kindof/pkg/sqlite"
	"github.com/mesh-intelligence/kindof/pkg/types"
)

// app holds global flag values and state loaded before any subcommand runs.
type app struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool

	settings settings
	logger   *zap.Logger
}

// NewRootCmd creates the top-level "kindof" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}
	root := &cobra.Command{
		Use:   "kindof",
		Short: "Classify and validate structured data",
		Long: "kindof classifies YAML and JSON values into runtime kinds, validates them\n" +
			"against schemas, and keeps a catalog of samples and named schemas.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir, or $KINDOF_CONFIG_DIR)")
	pf.StringVar(&a.dataDir, "data-dir", "", "data directory (default: $(CWD)/.kindof)")
	pf.BoolVar(&a.jsonMode, "json", false, "output in JSON format")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(a.newInitCmd())
	root.AddCommand(a.newClassifyCmd())
	root.AddCommand(a.newValidateCmd())
	root.AddCommand(a.newSampleCmd())
	root.AddCommand(a.newSchemaCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(exitCode(err))
	}
}

// setup resolves the config directory, loads config.yaml and builds the
// logger.
func (a *app) setup() error {
	dir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return sysError("resolve config dir", err)
	}
	a.configDir = dir

	s, err := loadSettings(dir)
	if err != nil {
		return userError(err)
	}
	a.settings = s

	logger, err := newLogger(s.LogLevel, a.verbose)
	if err != nil {
		return userError(err)
	}
	a.logger = logger
	a.logger.Debug("configuration loaded",
		zap.String("config_dir", dir),
		zap.String("backend", s.Backend))
	return nil
}

// resolveDataDir applies --data-dir > config.yaml data_dir >
// KINDOF_DATA_DIR > $(CWD)/.kindof.
func (a *app) resolveDataDir() (string, error) {
	return paths.ResolveDataDir(a.dataDir, a.settings.DataDir)
}

// withCatalog attaches the configured catalog, runs fn and detaches.
func (a *app) withCatalog(fn func(types.Catalog) error) error {
	dataDir, err := a.resolveDataDir()
	if err != nil {
		return sysError("resolve data dir", err)
	}
	catalog := sqlite.NewBackend(a.logger)
	cfg := types.Config{Backend: a.settings.Backend, DataDir: dataDir}
	if err := catalog.Attach(cfg); err != nil {
		if cfg.Validate() != nil {
			return userError(err)
		}
		return sysError("attach catalog", err)
	}
	defer catalog.Detach()
	return fn(catalog)
}

// table attaches the catalog and runs fn against one table.
func (a *app) table(name string, fn func(types.Table) error) error {
	return a.withCatalog(func(c types.Catalog) error {
		tbl, err := c.GetTable(name)
		if err != nil {
			return sysError("get "+name+" table", err)
		}
		return fn(tbl)
	})
}
