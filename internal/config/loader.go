package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".pagerank.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .pagerank.yaml configuration file.
// Every field is optional; a nil field leaves the current value alone.
type File struct {
	Damping       *float64 `yaml:"damping,omitempty"`
	Samples       *int     `yaml:"samples,omitempty"`
	Threshold     *float64 `yaml:"threshold,omitempty"`
	MaxIterations *int     `yaml:"maxIterations,omitempty"`
	Seed          *uint64  `yaml:"seed,omitempty"`
	Chains        *int     `yaml:"chains,omitempty"`
	ExcludeStart  *bool    `yaml:"excludeStart,omitempty"`

	// Save stores every run in the history database.
	Save *bool `yaml:"save,omitempty"`

	// DBDir overrides the directory of the history database.
	DBDir string `yaml:"dbDir,omitempty"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// Apply overlays the values set in the file onto cfg.
func (cf *File) Apply(cfg *Config) {
	if cf.Damping != nil {
		cfg.Damping = *cf.Damping
	}
	if cf.Samples != nil {
		cfg.Samples = *cf.Samples
	}
	if cf.Threshold != nil {
		cfg.Threshold = *cf.Threshold
	}
	if cf.MaxIterations != nil {
		cfg.MaxIterations = *cf.MaxIterations
	}
	if cf.Seed != nil {
		cfg.Seed = *cf.Seed
	}
	if cf.Chains != nil {
		cfg.Chains = *cf.Chains
	}
	if cf.ExcludeStart != nil {
		cfg.ExcludeStart = *cf.ExcludeStart
	}
	if cf.Save != nil {
		cfg.SaveToDB = *cf.Save
	}
	if cf.DBDir != "" {
		cfg.DBDir = cf.DBDir
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .pagerank.yaml in the current directory
// 3. Look for .pagerank.yaml in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
