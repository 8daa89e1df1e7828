package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultDBPath is the store file used when nothing else is configured
	DefaultDBPath = "habits.db"

	// DefaultConfigFile is looked up in the working directory
	DefaultConfigFile = "habits.yaml"

	// DBPathEnv overrides the store path from the config file
	DBPathEnv = "HABITS_DB"
)

// Config represents habit tracker configuration options
type Config struct {
	// DBPath is the path to the SQLite habit store
	DBPath string `yaml:"db_path"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// SeedDefaults adds the predefined habits when the store is empty
	SeedDefaults bool `yaml:"seed_defaults"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		DBPath:       DefaultDBPath,
		LogLevel:     "warn",
		SeedDefaults: true,
	}
}

// LoadConfig loads configuration from the specified file path.
// A missing file yields the defaults; a malformed file is an error.
// Keys absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Pointer fields tell "absent" apart from zero values
	var yamlCfg struct {
		DBPath       *string `yaml:"db_path"`
		LogLevel     *string `yaml:"log_level"`
		SeedDefaults *bool   `yaml:"seed_defaults"`
	}
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.DBPath != nil {
		cfg.DBPath = *yamlCfg.DBPath
	}
	if yamlCfg.LogLevel != nil {
		cfg.LogLevel = *yamlCfg.LogLevel
	}
	if yamlCfg.SeedDefaults != nil {
		cfg.SeedDefaults = *yamlCfg.SeedDefaults
	}

	return cfg, nil
}

// LoadConfigFromDir loads habits.yaml from the specified directory
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, DefaultConfigFile))
}

// ApplyEnv overrides the store path with HABITS_DB when it is set
func (c *Config) ApplyEnv() {
	if dbPath := strings.TrimSpace(os.Getenv(DBPathEnv)); dbPath != "" {
		c.DBPath = dbPath
	}
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values.
func (c *Config) MergeWithFlags(dbPath *string, logLevel *string) {
	if dbPath != nil {
		c.DBPath = *dbPath
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("db_path cannot be empty")
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	return nil
}
