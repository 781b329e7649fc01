package cli

import (
	"fmt"

	"go.uber.org/zap"
)

// newLogger builds the process logger. Logs go to stderr so they never mix
// with command output. verbose switches to the development encoder at
// debug level.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		return cfg.Build()
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", cfgKeyLogLevel, level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.Sampling = nil
	return cfg.Build()
}
