package googlesheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sheetstore "github.com/ideamans/go-sheetstore"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// valueInputOption makes the backend parse written cells as if typed by a user
const valueInputOption = "USER_ENTERED"

// SheetsAdaptor implements the sheetstore.Adapter interface for Google Sheets
type SheetsAdaptor struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewSheetsAdaptor creates a new Google Sheets adaptor with provided options
func NewSheetsAdaptor(ctx context.Context, config Config, opts ...option.ClientOption) (*SheetsAdaptor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsAdaptor{
		service:       service,
		spreadsheetID: config.SpreadsheetID,
	}, nil
}

// SpreadsheetID returns the spreadsheet the adaptor talks to
func (a *SheetsAdaptor) SpreadsheetID() string {
	return a.spreadsheetID
}

// ReadRange fetches the values of ref
func (a *SheetsAdaptor) ReadRange(ctx context.Context, ref string) (*sheetstore.RangeData, error) {
	resp, err := a.service.Spreadsheets.Values.Get(a.spreadsheetID, ref).Context(ctx).Do()
	if err != nil {
		return nil, classifyError("read "+ref, ref, err)
	}

	values := resp.Values
	if values == nil {
		values = [][]interface{}{}
	}
	return &sheetstore.RangeData{Range: resp.Range, Values: values}, nil
}

// AppendRow appends values as one row after the last row of ref
func (a *SheetsAdaptor) AppendRow(ctx context.Context, ref string, values []interface{}) error {
	vr := &sheets.ValueRange{
		Values: [][]interface{}{values},
	}
	_, err := a.service.Spreadsheets.Values.Append(a.spreadsheetID, ref, vr).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return classifyError("append "+ref, ref, err)
	}
	return nil
}

// UpdateRange overwrites the bounded range ref with one row of values
func (a *SheetsAdaptor) UpdateRange(ctx context.Context, ref string, values []interface{}) error {
	vr := &sheets.ValueRange{
		Values: [][]interface{}{values},
	}
	_, err := a.service.Spreadsheets.Values.Update(a.spreadsheetID, ref, vr).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return classifyError("update "+ref, ref, err)
	}
	return nil
}

// DeleteRows removes rows [start, end) (0-based) of the sheet with the given id
func (a *SheetsAdaptor) DeleteRows(ctx context.Context, sheetID int64, start, end int64) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				DeleteDimension: &sheets.DeleteDimensionRequest{
					Range: &sheets.DimensionRange{
						SheetId:    sheetID,
						Dimension:  "ROWS",
						StartIndex: start,
						EndIndex:   end,
						// The first sheet has id 0 and the first row index 0
						ForceSendFields: []string{"SheetId", "StartIndex"},
					},
				},
			},
		},
	}
	_, err := a.service.Spreadsheets.BatchUpdate(a.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return classifyError(fmt.Sprintf("delete rows %d-%d of sheet %d", start+1, end, sheetID), "", err)
	}
	return nil
}

// Sheets lists the tabs of the spreadsheet
func (a *SheetsAdaptor) Sheets(ctx context.Context) ([]sheetstore.SheetProperties, error) {
	resp, err := a.service.Spreadsheets.Get(a.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifyError("get spreadsheet metadata", "", err)
	}

	out := make([]sheetstore.SheetProperties, 0, len(resp.Sheets))
	for _, s := range resp.Sheets {
		if s.Properties == nil {
			continue
		}
		out = append(out, sheetstore.SheetProperties{
			Title:   s.Properties.Title,
			SheetID: s.Properties.SheetId,
		})
	}
	return out, nil
}

// classifyError maps transport failures onto the sheetstore error taxonomy
func classifyError(op, ref string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Body
		}
		return &sheetstore.RemoteError{
			Op:         op,
			StatusCode: apiErr.Code,
			Message:    msg,
			Err:        err,
		}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &sheetstore.DecodeError{Ref: ref, Reason: "response is not a value range", Err: err}
	}

	return fmt.Errorf("failed to %s: %w", op, err)
}
