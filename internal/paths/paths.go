// Package paths resolves the configuration and data directories of the
// kindof CLI.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user application directories.
const AppName = "kindof"

// ConfigFileName is the configuration file inside the config directory.
const ConfigFileName = "config.yaml"

// DefaultDataDirName is the CWD-relative data directory used when nothing
// else selects one.
const DefaultDataDirName = ".kindof"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "KINDOF_CONFIG_DIR"
	EnvDataDir   = "KINDOF_DATA_DIR"
)

// platformDir holds platform lookups that tests override.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/kindof (fallback ~/.config/kindof)
// macOS:   ~/Library/Application Support/kindof
// Windows: %APPDATA%/kindof
func DefaultConfigDir() (string, error) {
	return platformAppDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform-specific data directory.
//
// Linux:   $XDG_DATA_HOME/kindof (fallback ~/.local/share/kindof)
// macOS and Windows: same as DefaultConfigDir.
func DefaultDataDir() (string, error) {
	return platformAppDir("XDG_DATA_HOME", ".local", "share")
}

// platformAppDir applies the XDG rules on Linux and os.UserConfigDir
// elsewhere.
func platformAppDir(xdgEnv string, homeFallback ...string) (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv(xdgEnv); xdg != "" {
			return filepath.Join(xdg, AppName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		parts := append([]string{home}, homeFallback...)
		return filepath.Join(append(parts, AppName)...), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > KINDOF_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if dir, ok, err := firstAbs(flag, os.Getenv(EnvConfigDir)); ok || err != nil {
		return dir, err
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > data_dir from config.yaml > KINDOF_DATA_DIR > $(CWD)/.kindof.
func ResolveDataDir(flag, configValue string) (string, error) {
	if dir, ok, err := firstAbs(flag, configValue, os.Getenv(EnvDataDir)); ok || err != nil {
		return dir, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ConfigFile returns the path of the config file in dir.
func ConfigFile(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}

// firstAbs returns the first non-empty candidate as an absolute path.
func firstAbs(candidates ...string) (string, bool, error) {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		abs, err := filepath.Abs(c)
		return abs, true, err
	}
	return "", false, nil
}
