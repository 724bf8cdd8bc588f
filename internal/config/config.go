// Package config holds the planner's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	defaultListen     = "127.0.0.1:8080"
	defaultTimezone   = "UTC"
	defaultDataDir    = "./var/atlanend"
	defaultStorageKey = "atlanend-data"
	defaultBackupCron = "0 3 * * *"
	defaultBackupKeep = 7
	defaultLogLevel   = "info"
)

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the planner API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA zone used for the weekend calendar export.
	Timezone string `yaml:"timezone" json:"timezone"`

	// DataDir holds the persisted planner state and its backups.
	DataDir string `yaml:"data_dir" json:"data_dir"`

	// StorageKey names the persisted snapshot.
	StorageKey string `yaml:"storage_key" json:"storage_key"`

	// CatalogPath, if set, replaces the embedded activity catalog with a
	// local YAML file.
	CatalogPath string `yaml:"catalog_path,omitempty" json:"catalog_path,omitempty"`

	// CatalogURL, if set, fetches the catalog over HTTP. It wins over
	// CatalogPath.
	CatalogURL      string `yaml:"catalog_url,omitempty" json:"catalog_url,omitempty"`
	CatalogCacheDir string `yaml:"catalog_cache_dir,omitempty" json:"catalog_cache_dir,omitempty"`

	// BackupCron is a standard 5-field cron spec for snapshot backups.
	// Empty disables backups.
	BackupCron string `yaml:"backup_cron" json:"backup_cron"`
	BackupKeep int    `yaml:"backup_keep" json:"backup_keep"`

	// CORSOrigins lists browser origins allowed to call the API. Empty
	// disables CORS headers.
	CORSOrigins []string `yaml:"cors_origins,omitempty" json:"cors_origins,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:     defaultListen,
		Timezone:   defaultTimezone,
		DataDir:    defaultDataDir,
		StorageKey: defaultStorageKey,
		BackupCron: defaultBackupCron,
		BackupKeep: defaultBackupKeep,
		LogLevel:   defaultLogLevel,
	}
}

// Normalize fills in missing values so that partially-filled files still
// behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.DataDir == "" {
		c.DataDir = defaultDataDir
	}
	if c.StorageKey == "" {
		c.StorageKey = defaultStorageKey
	}
	if c.BackupKeep <= 0 {
		c.BackupKeep = defaultBackupKeep
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = defaultLogLevel
	}
	if c.CatalogCacheDir == "" {
		c.CatalogCacheDir = filepath.Join(c.DataDir, "catalog-cache")
	}
}

// Validate reports settings that cannot be repaired by Normalize.
func (c *Config) Validate() error {
	var errs []error
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("config: timezone %q: %w", c.Timezone, err))
	}
	if c.BackupCron != "" {
		if _, err := cron.ParseStandard(c.BackupCron); err != nil {
			errs = append(errs, fmt.Errorf("config: backup_cron %q: %w", c.BackupCron, err))
		}
	}
	return errors.Join(errs...)
}

// Location resolves Timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// BackupDir is where snapshot backups are written.
func (c *Config) BackupDir() string {
	return filepath.Join(c.DataDir, "backups")
}

// Load reads configuration from the YAML file at path.
//
// On first run (file missing) a default config is written with 0600
// permissions and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			cfg.Normalize()
			// Even if save fails, return cfg with error so caller can decide.
			return cfg, Save(path, cfg)
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save normalizes cfg and writes it to path atomically (temp file + rename,
// final mode 0600).
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".atlanend-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func (c *Config) Save(path string) error {
	return Save(path, c)
}
