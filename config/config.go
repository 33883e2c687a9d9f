/* config.go
 * Contains the user Configuration record and the logic for loading it from disk. A missing or unreadable file falls
 * back to the defaults so the shell can always start
 */

package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Configuration holds the user settings read by the shell. It is loaded once at startup and passed by value to the
// dispatcher, which never mutates it.
type Configuration struct {
	MatchLoadDefaultToOrganization bool   `json:"match_load_default_to_organization" yaml:"match_load_default_to_organization"`
	CurrentTeam                    string `json:"current_team" yaml:"current_team"`
}

// Default returns the configuration used when no file is available
func Default() Configuration {
	return Configuration{
		MatchLoadDefaultToOrganization: false,
		CurrentTeam:                    "",
	}
}

// Load reads the configuration file at path. An empty path, a missing file or a file that fails to parse all yield
// Default(); the reason is logged at warn level.
func Load(path string, logger *zap.Logger) Configuration {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path == "" {
		return Default()
	}

	cfg, err := read(path)
	if err != nil {
		logger.Warn("using default configuration", zap.String("path", path), zap.Error(err))
		return Default()
	}
	return cfg
}

// read parses a JSON or YAML configuration file. JSON documents are valid YAML so one decoder serves both
func read(path string) (Configuration, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Configuration{}, fmt.Errorf("error reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Configuration{}, fmt.Errorf("error parsing config file: %w", err)
	}
	return cfg, nil
}
