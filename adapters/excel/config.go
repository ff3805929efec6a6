package excel

import (
	sheetstore "github.com/ideamans/go-sheetstore"
)

// Config holds configuration for Excel adapter
type Config struct {
	FilePath string // Path to the .xlsx workbook
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return ErrMissingFilePath
	}
	return nil
}

// DefaultClientConfig returns the recommended client configuration for local workbooks.
// Local reads do not fail transiently, so nothing is retried.
func DefaultClientConfig() *sheetstore.Config {
	return &sheetstore.Config{}
}
