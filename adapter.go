package sheetstore

import "context"

// RangeData is the raw result of a range read
type RangeData struct {
	Range  string          // Resolved A1 range reported by the backend, may be empty
	Values [][]interface{} // Row-major cell values
}

// SheetProperties identifies one tab of the spreadsheet
type SheetProperties struct {
	Title   string
	SheetID int64
}

// Adapter interface defines the calls a spreadsheet backend must answer.
// Implementations translate backend failures into *RemoteError and *DecodeError.
type Adapter interface {
	// ReadRange fetches every row of the referenced range
	ReadRange(ctx context.Context, ref string) (*RangeData, error)

	// AppendRow appends exactly one row after the last row of ref
	AppendRow(ctx context.Context, ref string, values []interface{}) error

	// UpdateRange overwrites the cells of a bounded single-row range
	UpdateRange(ctx context.Context, ref string, values []interface{}) error

	// DeleteRows removes the half-open 0-based row interval [start, end) of a sheet
	DeleteRows(ctx context.Context, sheetID int64, start, end int64) error

	// Sheets lists the tabs of the spreadsheet
	Sheets(ctx context.Context) ([]SheetProperties, error)
}
