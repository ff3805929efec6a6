package sheetstore

import (
	"log/slog"
	"time"
)

// Config represents configuration for the store client
type Config struct {
	MaxRetries          int                 // Retries for range reads only (default: 0, mutations are never retried)
	RetryInterval       time.Duration       // Base interval for exponential backoff (default: 100ms)
	DisableSheetIDCache bool                // Resolve sheet ids on every delete
	Schemas             map[string][]string // Expected header row per range reference
	Logger              *slog.Logger        // Optional; nil discards
}
