package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/kindof/internal/paths"
	"github.com/mesh-intelligence/kindof/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBackend      = "backend"
	cfgKeyDataDir      = "data_dir"
	cfgKeyLogLevel     = "log_level"
	cfgKeyMaxListeners = "max_listeners"

	defaultLogLevel = "info"
)

// settings is the resolved content of config.yaml.
type settings struct {
	Backend      string
	DataDir      string
	LogLevel     string
	MaxListeners int
}

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend      string `yaml:"backend"`
	DataDir      string `yaml:"data_dir,omitempty"`
	LogLevel     string `yaml:"log_level"`
	MaxListeners int    `yaml:"max_listeners"`
}

// loadSettings reads config.yaml from configDir using Viper. A missing
// file is not an error; defaults apply. log_level and max_listeners may
// also come from KINDOF_LOG_LEVEL and KINDOF_MAX_LISTENERS.
func loadSettings(configDir string) (settings, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyMaxListeners, 0)
	_ = v.BindEnv(cfgKeyLogLevel, "KINDOF_LOG_LEVEL")
	_ = v.BindEnv(cfgKeyMaxListeners, "KINDOF_MAX_LISTENERS")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	s := settings{
		Backend:      v.GetString(cfgKeyBackend),
		DataDir:      v.GetString(cfgKeyDataDir),
		LogLevel:     v.GetString(cfgKeyLogLevel),
		MaxListeners: v.GetInt(cfgKeyMaxListeners),
	}
	if s.MaxListeners < 0 {
		return settings{}, fmt.Errorf("read config: %s must not be negative", cfgKeyMaxListeners)
	}
	return s, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. It reports whether a file was written.
func writeConfigIfMissing(configDir, dataDir string) (bool, error) {
	path := paths.ConfigFile(configDir)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&configFile{
		Backend:  types.BackendSQLite,
		DataDir:  dataDir,
		LogLevel: defaultLogLevel,
	})
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}
