package sheetstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// Client reads and mutates header-keyed records in a spreadsheet through an Adapter.
// It keeps no copy of remote rows: every read goes to the backend.
type Client struct {
	config   Config
	adaptor  Adapter
	sheetIDs *SheetIDCache
	logger   *slog.Logger
}

// New creates a new store client with the given adapter and configuration
func New(adapter Adapter, config *Config) *Client {
	if config == nil {
		config = &Config{}
	}

	cfg := *config
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 100 * time.Millisecond
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		config:   cfg,
		adaptor:  adapter,
		sheetIDs: NewSheetIDCache(),
		logger:   logger,
	}
}

// Adapter returns the backend the client talks to
func (c *Client) Adapter() Adapter {
	return c.adaptor
}

// Read fetches ref and decodes it into records. The first row is the header.
func (c *Client) Read(ctx context.Context, ref string) ([]*Record, error) {
	data, err := c.readRange(ctx, ref)
	if err != nil {
		return nil, err
	}

	records, err := DecodeRecords(ref, data, c.config.Schemas[ref])
	if err != nil {
		c.logger.Error("decode failed", "range", ref, "error", err)
		return nil, err
	}
	return records, nil
}

// ReadRaw fetches ref as a string matrix without treating any row as a header
func (c *Client) ReadRaw(ctx context.Context, ref string) ([][]string, error) {
	data, err := c.readRange(ctx, ref)
	if err != nil {
		return nil, err
	}
	return DecodeMatrix(data), nil
}

// ReadAll reads every ref concurrently. The result is ordered like refs.
// If any read fails the whole call fails and no partial result is returned.
func (c *Client) ReadAll(ctx context.Context, refs ...string) ([][]*Record, error) {
	results := make([][]*Record, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		g.Go(func() error {
			records, err := c.Read(gctx, ref)
			if err != nil {
				return err
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// readRange loads ref with the configured read retries
func (c *Client) readRange(ctx context.Context, ref string) (*RangeData, error) {
	var data *RangeData
	var err error

	for i := 0; i <= c.config.MaxRetries; i++ {
		c.logger.Debug("read range", "range", ref, "attempt", i+1)
		data, err = c.adaptor.ReadRange(ctx, ref)
		if err == nil || !retryable(err) {
			break
		}

		if i < c.config.MaxRetries {
			// Exponential backoff with reasonable limits
			backoff := time.Duration(1<<uint(i)) * c.config.RetryInterval
			if backoff > 2*time.Second {
				backoff = 2 * time.Second
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	if err != nil {
		c.logger.Error("read failed", "range", ref, "error", err)
		return nil, err
	}
	return data, nil
}

func retryable(err error) bool {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.StatusCode == 429 || remote.StatusCode >= 500
	}
	return !errors.Is(err, ErrDecode) && !errors.Is(err, context.Canceled)
}

// Append adds values as one new row after the last row of ref.
// values must follow the sheet's column order; nothing is reordered.
func (c *Client) Append(ctx context.Context, ref string, values []interface{}) error {
	c.logger.Debug("append row", "range", ref, "columns", len(values))
	if err := c.adaptor.AppendRow(ctx, ref, values); err != nil {
		c.logger.Error("append failed", "range", ref, "error", err)
		return err
	}
	return nil
}

// Update overwrites the bounded range ref with one row of values
func (c *Client) Update(ctx context.Context, ref string, values []interface{}) error {
	c.logger.Debug("update range", "range", ref, "columns", len(values))
	if err := c.adaptor.UpdateRange(ctx, ref, values); err != nil {
		c.logger.Error("update failed", "range", ref, "error", err)
		return err
	}
	return nil
}

// UpdateRow overwrites the cells addressed by r
func (c *Client) UpdateRow(ctx context.Context, r RowRange, values []interface{}) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.Row < 2 {
		return fmt.Errorf("%w: row %d is the header row", ErrInvalidRow, r.Row)
	}
	return c.Update(ctx, r.String(), values)
}

// DeleteRow removes row rowIndex (1-based, header inclusive) from sheetName.
// Every row below it moves up by one, so row indexes computed earlier are stale afterwards.
// A delete rejected as a bad request drops sheetName from the sheet id cache, since a
// deleted or recreated tab is reported that way; other failures leave the cache as is.
func (c *Client) DeleteRow(ctx context.Context, sheetName string, rowIndex int) error {
	if rowIndex < 2 {
		return fmt.Errorf("%w: %d", ErrInvalidRow, rowIndex)
	}

	sheetID, err := c.SheetID(ctx, sheetName)
	if err != nil {
		return err
	}

	c.logger.Debug("delete row", "sheet", sheetName, "row", rowIndex, "sheet_id", sheetID)
	if err := c.adaptor.DeleteRows(ctx, sheetID, int64(rowIndex-1), int64(rowIndex)); err != nil {
		c.logger.Error("delete failed", "sheet", sheetName, "row", rowIndex, "error", err)
		var remote *RemoteError
		if errors.As(err, &remote) && remote.StatusCode == http.StatusBadRequest {
			c.sheetIDs.Invalidate(sheetName)
		}
		return err
	}
	return nil
}

// SheetID resolves a sheet title (case-sensitive) to its backend id
func (c *Client) SheetID(ctx context.Context, sheetName string) (int64, error) {
	if !c.config.DisableSheetIDCache {
		if id, ok := c.sheetIDs.Get(sheetName); ok {
			return id, nil
		}
	}

	c.logger.Debug("resolve sheet id", "sheet", sheetName)
	sheets, err := c.adaptor.Sheets(ctx)
	if err != nil {
		c.logger.Error("sheet metadata failed", "sheet", sheetName, "error", err)
		return 0, err
	}
	if !c.config.DisableSheetIDCache {
		c.sheetIDs.Load(sheets)
	}

	for _, s := range sheets {
		if s.Title == sheetName {
			return s.SheetID, nil
		}
	}
	return 0, &NotFoundError{Kind: "sheet", Name: sheetName}
}

// Sheets lists the tabs of the spreadsheet
func (c *Client) Sheets(ctx context.Context) ([]SheetProperties, error) {
	sheets, err := c.adaptor.Sheets(ctx)
	if err != nil {
		return nil, err
	}
	if !c.config.DisableSheetIDCache {
		c.sheetIDs.Load(sheets)
	}
	return sheets, nil
}

// InvalidateSheetIDs forgets cached sheet ids for names, or all of them.
// Call it after sheets are renamed, added or removed.
func (c *Client) InvalidateSheetIDs(names ...string) {
	c.sheetIDs.Invalidate(names...)
}

// CachedSheetIDs returns the titles currently held by the sheet id cache
func (c *Client) CachedSheetIDs() []string {
	return c.sheetIDs.Titles()
}
