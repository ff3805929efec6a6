// Package config loads the command line settings from the config file,
// a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Backends
const (
	BackendSheets = "sheets"
	BackendExcel  = "excel"
)

// Environment variables read by Load
const (
	EnvSpreadsheetID = "SHEETSTORE_SPREADSHEET_ID"
	EnvToken         = "SHEETSTORE_TOKEN"
	EnvCredentials   = "GOOGLE_APPLICATION_CREDENTIALS"
	EnvBackend       = "SHEETSTORE_BACKEND"
	EnvExcelFile     = "SHEETSTORE_EXCEL_FILE"
	EnvMaxRetries    = "SHEETSTORE_MAX_RETRIES"
)

// DotEnvFile is the .env file read by Load, relative to the working directory
var DotEnvFile = ".env"

// Config holds the settings of the sheetstore command
type Config struct {
	Backend             string        `yaml:"backend"`
	SpreadsheetID       string        `yaml:"spreadsheet_id"`
	CredentialsFile     string        `yaml:"credentials_file"` // Service account JSON key
	Token               string        `yaml:"-"`                // Only taken from the environment
	ExcelFile           string        `yaml:"excel_file"`
	MaxRetries          *int          `yaml:"max_retries,omitempty"` // nil keeps the backend default
	RetryInterval       time.Duration `yaml:"retry_interval,omitempty"`
	DisableSheetIDCache bool          `yaml:"disable_sheet_id_cache"`
}

// Dir returns the directory holding the config file
func Dir() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, "sheetstore")
}

// DefaultPath returns the config file used when no path is given
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads path (or DefaultPath when empty), then .env in the working
// directory, then the environment. Later sources win. A missing default
// config file is not an error; a missing explicit one is.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error decoding %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("error opening config file: %w", err)
	}

	// godotenv never overrides variables that are already set
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendSheets
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	override := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	override(&c.Backend, EnvBackend)
	override(&c.SpreadsheetID, EnvSpreadsheetID)
	override(&c.CredentialsFile, EnvCredentials)
	override(&c.Token, EnvToken)
	override(&c.ExcelFile, EnvExcelFile)

	if v := os.Getenv(EnvMaxRetries); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer, got %q", EnvMaxRetries, v)
		}
		c.MaxRetries = &n
	}
	return nil
}

// Validate checks that the selected backend has what it needs
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSheets:
		if c.SpreadsheetID == "" {
			return fmt.Errorf("spreadsheet id is required (set %s or spreadsheet_id)", EnvSpreadsheetID)
		}
	case BackendExcel:
		if c.ExcelFile == "" {
			return fmt.Errorf("excel file is required (set %s or excel_file)", EnvExcelFile)
		}
	default:
		return fmt.Errorf("unknown backend %q: use %s or %s", c.Backend, BackendSheets, BackendExcel)
	}
	if c.RetryInterval < 0 {
		return errors.New("retry_interval cannot be negative")
	}
	return nil
}

// Save writes the file settings to path, creating its directory
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
