package googlesheets

import (
	"errors"
	"time"

	sheetstore "github.com/ideamans/go-sheetstore"
)

// ErrMissingSpreadsheetID is returned when the spreadsheet id is not specified
var ErrMissingSpreadsheetID = errors.New("spreadsheet id is required")

// Config represents configuration specific to Google Sheets adapter
type Config struct {
	SpreadsheetID string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.SpreadsheetID == "" {
		return ErrMissingSpreadsheetID
	}
	return nil
}

// DefaultClientConfig returns the recommended client configuration for Google Sheets.
// Nothing is retried; set MaxRetries to retry reads on quota and server errors,
// backing off from RetryInterval. Mutations are never retried.
func DefaultClientConfig() *sheetstore.Config {
	return &sheetstore.Config{
		RetryInterval: 500 * time.Millisecond,
	}
}
