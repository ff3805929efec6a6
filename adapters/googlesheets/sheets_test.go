package googlesheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	sheetstore "github.com/ideamans/go-sheetstore"
	"github.com/ideamans/go-sheetstore/sheetstoretest"
	"google.golang.org/api/option"
)

func newTestServer(t *testing.T) (*sheetstoretest.Server, *SheetsAdaptor) {
	t.Helper()

	backend := sheetstoretest.NewMemoryAdapter().
		AddSheet("Sheet1", 0, [][]string{{"Company Name", "Address"}, {"Acme Inc", "1 Main St"}}).
		AddSheet("Customers", 1201, [][]string{
			{"Customer ID", "Customer Name"},
			{"C1", "Acme"},
			{"C2", "Globex"},
		}).
		DefineName("RANGECUSTOMERS", "Customers")
	server := sheetstoretest.NewServer("test-id", backend)
	t.Cleanup(server.Close)

	adaptor, err := NewSheetsAdaptor(context.Background(), Config{SpreadsheetID: "test-id"},
		option.WithEndpoint(server.URL), option.WithoutAuthentication())
	if err != nil {
		t.Fatalf("Failed to create adaptor: %v", err)
	}
	return server, adaptor
}

func TestSheetsAdaptor_Suite(t *testing.T) {
	sheetstoretest.RunAdapterSuite(t, func(t *testing.T, seed sheetstoretest.Seed) sheetstore.Adapter {
		backend := sheetstoretest.NewMemoryAdapter().AddSheet(seed.Sheet, seed.SheetID, seed.Rows)
		if seed.Name != "" {
			backend.DefineName(seed.Name, seed.Sheet)
		}
		server := sheetstoretest.NewServer("suite-id", backend)
		t.Cleanup(server.Close)

		adaptor, err := NewSheetsAdaptor(context.Background(), Config{SpreadsheetID: "suite-id"},
			option.WithEndpoint(server.URL), option.WithoutAuthentication())
		if err != nil {
			t.Fatalf("Failed to create adaptor: %v", err)
		}
		return adaptor
	})
}

func TestSheetsAdaptor_ReadRange(t *testing.T) {
	server, adaptor := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		ref       string
		wantPath  string
		wantRange string
		want      [][]interface{}
	}{
		{
			name:      "defined name",
			ref:       "RANGECUSTOMERS",
			wantPath:  "/v4/spreadsheets/test-id/values/RANGECUSTOMERS",
			wantRange: "Customers!A1:B3",
			want:      [][]interface{}{{"Customer ID", "Customer Name"}, {"C1", "Acme"}, {"C2", "Globex"}},
		},
		{
			name:      "explicit bounded range",
			ref:       "Sheet1!A2:B2",
			wantPath:  "/v4/spreadsheets/test-id/values/Sheet1!A2:B2",
			wantRange: "Sheet1!A2:B2",
			want:      [][]interface{}{{"Acme Inc", "1 Main St"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := adaptor.ReadRange(ctx, tt.ref)
			if err != nil {
				t.Fatalf("ReadRange() error = %v", err)
			}
			req := server.LastRequest()
			if req.Method != http.MethodGet || req.Path != tt.wantPath {
				t.Errorf("request = %s %s, want GET %s", req.Method, req.Path, tt.wantPath)
			}
			if got.Range != tt.wantRange {
				t.Errorf("Range = %q, want %q", got.Range, tt.wantRange)
			}
			if !reflect.DeepEqual(got.Values, tt.want) {
				t.Errorf("Values = %v, want %v", got.Values, tt.want)
			}
		})
	}
}

func TestSheetsAdaptor_AppendRow(t *testing.T) {
	server, adaptor := newTestServer(t)

	err := adaptor.AppendRow(context.Background(), "RANGECUSTOMERS", []interface{}{"C3", "Initech"})
	if err != nil {
		t.Fatalf("AppendRow() error = %v", err)
	}

	req := server.LastRequest()
	if req.Method != http.MethodPost || req.Path != "/v4/spreadsheets/test-id/values/RANGECUSTOMERS:append" {
		t.Errorf("request = %s %s, want POST .../values/RANGECUSTOMERS:append", req.Method, req.Path)
	}
	if got := req.Query["valueInputOption"]; got != "USER_ENTERED" {
		t.Errorf("valueInputOption = %q, want USER_ENTERED", got)
	}

	var body struct {
		Values [][]interface{} `json:"values"`
	}
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if want := [][]interface{}{{"C3", "Initech"}}; !reflect.DeepEqual(body.Values, want) {
		t.Errorf("body values = %v, want %v", body.Values, want)
	}

	rows := server.Backend.Rows("Customers")
	if want := []string{"C3", "Initech"}; !reflect.DeepEqual(rows[len(rows)-1], want) {
		t.Errorf("last row = %v, want %v", rows[len(rows)-1], want)
	}
}

func TestSheetsAdaptor_UpdateRange(t *testing.T) {
	server, adaptor := newTestServer(t)

	err := adaptor.UpdateRange(context.Background(), "Customers!B3:B3", []interface{}{"Globex Corp"})
	if err != nil {
		t.Fatalf("UpdateRange() error = %v", err)
	}

	req := server.LastRequest()
	if req.Method != http.MethodPut || req.Path != "/v4/spreadsheets/test-id/values/Customers!B3:B3" {
		t.Errorf("request = %s %s, want PUT .../values/Customers!B3:B3", req.Method, req.Path)
	}
	if got := req.Query["valueInputOption"]; got != "USER_ENTERED" {
		t.Errorf("valueInputOption = %q, want USER_ENTERED", got)
	}
	if !strings.Contains(string(req.Body), `"values":[["Globex Corp"]]`) {
		t.Errorf("body = %s, want a single row", req.Body)
	}
	if got := server.Backend.Rows("Customers")[2]; !reflect.DeepEqual(got, []string{"C2", "Globex Corp"}) {
		t.Errorf("row 3 = %v, want [C2 Globex Corp]", got)
	}
}

func TestSheetsAdaptor_DeleteRows(t *testing.T) {
	server, adaptor := newTestServer(t)

	// sheet id 0 and start index 0 must both be present on the wire
	if err := adaptor.DeleteRows(context.Background(), 0, 0, 1); err != nil {
		t.Fatalf("DeleteRows() error = %v", err)
	}

	req := server.LastRequest()
	if req.Method != http.MethodPost || req.Path != "/v4/spreadsheets/test-id:batchUpdate" {
		t.Errorf("request = %s %s, want POST .../test-id:batchUpdate", req.Method, req.Path)
	}

	var body struct {
		Requests []struct {
			DeleteDimension struct {
				Range map[string]interface{} `json:"range"`
			} `json:"deleteDimension"`
		} `json:"requests"`
	}
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if len(body.Requests) != 1 {
		t.Fatalf("got %d requests, want 1", len(body.Requests))
	}
	want := map[string]interface{}{
		"sheetId":    float64(0),
		"dimension":  "ROWS",
		"startIndex": float64(0),
		"endIndex":   float64(1),
	}
	if got := body.Requests[0].DeleteDimension.Range; !reflect.DeepEqual(got, want) {
		t.Errorf("deleteDimension range = %v, want %v", got, want)
	}
	if rows := server.Backend.Rows("Sheet1"); len(rows) != 1 || rows[0][0] != "Acme Inc" {
		t.Errorf("Sheet1 rows = %v, want only the former second row", rows)
	}
}

func TestSheetsAdaptor_Sheets(t *testing.T) {
	server, adaptor := newTestServer(t)

	got, err := adaptor.Sheets(context.Background())
	if err != nil {
		t.Fatalf("Sheets() error = %v", err)
	}

	req := server.LastRequest()
	if req.Method != http.MethodGet || req.Path != "/v4/spreadsheets/test-id" {
		t.Errorf("request = %s %s, want GET /v4/spreadsheets/test-id", req.Method, req.Path)
	}
	if got := req.Query["fields"]; got != "sheets.properties" {
		t.Errorf("fields = %q, want sheets.properties", got)
	}

	want := []sheetstore.SheetProperties{
		{Title: "Sheet1", SheetID: 0},
		{Title: "Customers", SheetID: 1201},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sheets() = %v, want %v", got, want)
	}
}

func TestSheetsAdaptor_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("backend message surfaced verbatim", func(t *testing.T) {
		server, adaptor := newTestServer(t)
		server.Backend.Fail(sheetstoretest.OpRead, &sheetstore.RemoteError{
			StatusCode: http.StatusForbidden,
			Message:    "The caller does not have permission",
		})

		_, err := adaptor.ReadRange(ctx, "RANGECUSTOMERS")
		var remote *sheetstore.RemoteError
		if !errors.As(err, &remote) {
			t.Fatalf("ReadRange() error = %v, want *RemoteError", err)
		}
		if remote.StatusCode != http.StatusForbidden {
			t.Errorf("StatusCode = %d, want 403", remote.StatusCode)
		}
		if remote.Message != "The caller does not have permission" {
			t.Errorf("Message = %q, want backend message", remote.Message)
		}
	})

	t.Run("unknown spreadsheet", func(t *testing.T) {
		server, _ := newTestServer(t)
		adaptor, err := NewSheetsAdaptor(ctx, Config{SpreadsheetID: "other-id"},
			option.WithEndpoint(server.URL), option.WithoutAuthentication())
		if err != nil {
			t.Fatalf("Failed to create adaptor: %v", err)
		}

		err = adaptor.AppendRow(ctx, "RANGECUSTOMERS", []interface{}{"C3"})
		if !errors.Is(err, sheetstore.ErrRemote) {
			t.Errorf("AppendRow() error = %v, want ErrRemote", err)
		}
		if !contains(err.Error(), "Requested entity was not found.") {
			t.Errorf("AppendRow() error = %v, want backend message", err)
		}
	})

	t.Run("unknown sheet id", func(t *testing.T) {
		_, adaptor := newTestServer(t)
		err := adaptor.DeleteRows(ctx, 999, 1, 2)
		if !errors.Is(err, sheetstore.ErrRemote) || !contains(err.Error(), "No grid with id: 999") {
			t.Errorf("DeleteRows() error = %v, want remote error naming the grid", err)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"range": "Customers!A1:B2", "values": "not a matrix"}`))
		}))
		defer server.Close()

		adaptor, err := NewSheetsAdaptor(ctx, Config{SpreadsheetID: "test-id"},
			option.WithEndpoint(server.URL), option.WithoutAuthentication())
		if err != nil {
			t.Fatalf("Failed to create adaptor: %v", err)
		}

		_, err = adaptor.ReadRange(ctx, "RANGECUSTOMERS")
		if !errors.Is(err, sheetstore.ErrDecode) {
			t.Errorf("ReadRange() error = %v, want ErrDecode", err)
		}
	})

	t.Run("missing spreadsheet id", func(t *testing.T) {
		_, err := NewSheetsAdaptor(ctx, Config{}, option.WithoutAuthentication())
		if !errors.Is(err, ErrMissingSpreadsheetID) {
			t.Errorf("NewSheetsAdaptor() error = %v, want ErrMissingSpreadsheetID", err)
		}
	})
}

func TestSheetsAdaptor_ClientScenario(t *testing.T) {
	server, adaptor := newTestServer(t)
	ctx := context.Background()
	client := sheetstore.New(adaptor, nil)

	records, err := client.Read(ctx, "RANGECUSTOMERS")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	row, err := sheetstore.RowIndexOf(records, "Customer ID", "C2")
	if err != nil || row != 3 {
		t.Fatalf("RowIndexOf(C2) = %d, %v, want 3", row, err)
	}

	if err := client.DeleteRow(ctx, "Customers", row); err != nil {
		t.Fatalf("DeleteRow() error = %v", err)
	}
	if err := client.DeleteRow(ctx, "Customers", 2); err != nil {
		t.Fatalf("DeleteRow() error = %v", err)
	}

	metadata := 0
	for _, req := range server.Requests() {
		if req.Path == "/v4/spreadsheets/test-id" {
			metadata++
		}
	}
	if metadata != 1 {
		t.Errorf("metadata requested %d times, want 1 with the sheet id cache", metadata)
	}
	if rows := server.Backend.Rows("Customers"); len(rows) != 1 {
		t.Errorf("Customers rows = %v, want header only", rows)
	}
}

func TestDefaultClientConfig_ReadsOnce(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"code": 500, "message": "backend exploded", "status": "INTERNAL"}}`))
	}))
	defer server.Close()

	adaptor, err := NewSheetsAdaptor(context.Background(), Config{SpreadsheetID: "test-id"},
		option.WithEndpoint(server.URL), option.WithoutAuthentication())
	if err != nil {
		t.Fatalf("Failed to create adaptor: %v", err)
	}

	config := DefaultClientConfig()
	if config.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", config.MaxRetries)
	}

	client := sheetstore.New(adaptor, config)
	_, err = client.Read(context.Background(), "RANGECUSTOMERS")
	var remote *sheetstore.RemoteError
	if !errors.As(err, &remote) || remote.Message != "backend exploded" {
		t.Fatalf("Read() error = %v, want RemoteError with backend message", err)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server received %d requests, want 1", n)
	}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
