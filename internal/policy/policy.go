// Package policy holds runtime configuration: data directory location,
// retention knobs, and the ConfigStore that owns the loaded config.
package policy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// GlobalDataRoot returns the default application directory (~/.config/lifevault).
func GlobalDataRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".config", "lifevault")
}

// GlobalConfigFile returns the default config file path.
func GlobalConfigFile() string {
	return filepath.Join(GlobalDataRoot(), "lifevault.yaml")
}

// Config holds engine configuration.
type Config struct {
	DataDir string `yaml:"data_dir"`
	LogFile string `yaml:"log_file"`

	// BackupIntervalMinutes drives the periodic backup timer. 0 disables it.
	BackupIntervalMinutes int `yaml:"backup_interval_minutes"`

	ManualBackupRetention int `yaml:"manual_backup_retention"`
	SafetyBackupRetention int `yaml:"safety_backup_retention"`

	// SafetyBackupMinIntervalSeconds throttles the per-save safety snapshot.
	SafetyBackupMinIntervalSeconds int `yaml:"safety_backup_min_interval_seconds"`

	// BackupExpiryDays: once a backup newer than this exists, older ones
	// are swept during the list+prune pass.
	BackupExpiryDays int `yaml:"backup_expiry_days"`

	WatchDataDir *bool `yaml:"watch_data_dir"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir:                        "",
		LogFile:                        "",
		BackupIntervalMinutes:          60,
		ManualBackupRetention:          50,
		SafetyBackupRetention:          200,
		SafetyBackupMinIntervalSeconds: 120,
		BackupExpiryDays:               2,
	}
}

// LoadConfig loads configuration from a YAML file, applying defaults for
// unset fields.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ConfigStore owns the loaded configuration. It is constructed once in main
// and passed to the service; Reload re-reads the file on demand instead of
// any implicit lazy caching.
type ConfigStore struct {
	path   string
	mu     sync.RWMutex
	config *Config
}

// NewConfigStore wraps an already-loaded config. path may be empty when the
// config did not come from a file (Reload is then a no-op).
func NewConfigStore(path string, cfg *Config) *ConfigStore {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &ConfigStore{path: path, config: cfg}
}

// Reload re-reads the config file. On read or parse failure the previous
// config is kept and the error returned.
func (c *ConfigStore) Reload() error {
	if c.path == "" {
		return nil
	}
	cfg, err := LoadConfig(c.path)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.config = cfg
	c.mu.Unlock()
	return nil
}

// DataDir returns the configured data directory, defaulting to
// ~/.config/lifevault/data.
func (c *ConfigStore) DataDir() string {
	c.mu.RLock()
	dd := c.config.DataDir
	c.mu.RUnlock()

	if dd == "" {
		return filepath.Join(GlobalDataRoot(), "data")
	}
	if strings.HasPrefix(dd, "~"+string(filepath.Separator)) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, dd[2:])
		}
	}
	return dd
}

// LogFile returns the configured log file path.
// If unset, defaults to ~/.config/lifevault/lifevault.log.
// Set to "none" or "off" to disable file logging entirely.
func (c *ConfigStore) LogFile() string {
	c.mu.RLock()
	lf := c.config.LogFile
	c.mu.RUnlock()

	if lf == "" {
		return filepath.Join(GlobalDataRoot(), "lifevault.log")
	}
	return lf
}

// BackupInterval returns the periodic-backup interval in minutes (0 = off).
func (c *ConfigStore) BackupInterval() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.BackupIntervalMinutes
}

// ManualBackupRetention returns the max manual backups to keep.
func (c *ConfigStore) ManualBackupRetention() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.ManualBackupRetention
}

// SafetyBackupRetention returns the max safety snapshots to keep.
func (c *ConfigStore) SafetyBackupRetention() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.SafetyBackupRetention
}

// SafetyBackupMinIntervalSeconds returns the safety-snapshot throttle.
func (c *ConfigStore) SafetyBackupMinIntervalSeconds() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.SafetyBackupMinIntervalSeconds
}

// BackupExpiryDays returns the age threshold for the expiry sweep.
func (c *ConfigStore) BackupExpiryDays() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.BackupExpiryDays
}

// WatchDataDir reports whether the fsnotify watcher should run (default true).
func (c *ConfigStore) WatchDataDir() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.config.WatchDataDir == nil {
		return true
	}
	return *c.config.WatchDataDir
}
