/* manager.go
 * Contains the Manager used by the `config` shell context to get, set and persist configuration values
 */

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Keys accepted by Manager.Get and Manager.Set
const (
	KeyCurrentTeam                    = "current_team"
	KeyMatchLoadDefaultToOrganization = "match_load_default_to_organization"
)

var (
	// ErrUnknownKey is returned by Get and Set for keys that are not part of Configuration
	ErrUnknownKey = errors.New("unknown configuration key")
	// ErrTypeMismatch is returned by Set when the value cannot be converted to the key's type
	ErrTypeMismatch = errors.New("configuration value has the wrong type")
)

// Manager owns an editable copy of the configuration and the file it is persisted to. Changes made through Set are
// only written by Update, and do not affect the Configuration already handed to a running dispatcher.
type Manager struct {
	mu     sync.Mutex
	path   string
	cfg    Configuration
	dirty  bool
	logger *zap.Logger
}

// NewManager creates a Manager for the configuration file at path, starting from cfg
func NewManager(path string, cfg Configuration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{path: path, cfg: cfg, logger: logger}
}

// Keys returns the configuration keys in sorted order
func (m *Manager) Keys() []string {
	keys := []string{KeyCurrentTeam, KeyMatchLoadDefaultToOrganization}
	sort.Strings(keys)
	return keys
}

// Get returns the string form of the value stored under key
func (m *Manager) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch strings.ToLower(key) {
	case KeyCurrentTeam:
		return m.cfg.CurrentTeam, nil
	case KeyMatchLoadDefaultToOrganization:
		return fmt.Sprintf("%t", m.cfg.MatchLoadDefaultToOrganization), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// Set stores value under key, converting it to the key's type
// Preconditions: Receives a key from Keys() and a value of the matching type
// Postconditions: The value is updated and marked for the next Update, or ErrUnknownKey / ErrTypeMismatch is returned
func (m *Manager) Set(key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch strings.ToLower(key) {
	case KeyCurrentTeam:
		if m.cfg.CurrentTeam != value {
			m.cfg.CurrentTeam = value
			m.dirty = true
		}
		return nil
	case KeyMatchLoadDefaultToOrganization:
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false, got %q", ErrTypeMismatch, key, value)
		}
		if m.cfg.MatchLoadDefaultToOrganization != b {
			m.cfg.MatchLoadDefaultToOrganization = b
			m.dirty = true
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// Update writes the configuration file if anything changed since it was loaded or last written.
// It returns true when the file was written.
func (m *Manager) Update() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty {
		return false, nil
	}
	if m.path == "" {
		return false, fmt.Errorf("no configuration file path set")
	}

	raw, err := json.MarshalIndent(m.cfg, "", "    ")
	if err != nil {
		return false, fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := os.WriteFile(m.path, append(raw, '\n'), 0o644); err != nil {
		return false, fmt.Errorf("failed to write configuration: %w", err)
	}

	m.dirty = false
	m.logger.Info("configuration written", zap.String("path", m.path))
	return true, nil
}

// Current returns a copy of the edited configuration
func (m *Manager) Current() Configuration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// parseBool converts a string of true or false into a boolean
// Preconditions: Receives string containing either true or false (case insensitive)
// Postconditions: Returns boolean value or an error if the string is not true or false
func parseBool(str string) (bool, error) {
	str = strings.TrimSpace(str)
	str = strings.ToLower(str)

	if str == "true" {
		return true, nil
	} else if str == "false" {
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean string")
}
