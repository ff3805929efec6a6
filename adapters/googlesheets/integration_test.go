package googlesheets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joho/godotenv"

	sheetstore "github.com/ideamans/go-sheetstore"
)

// integrationSheet must exist in the spreadsheet named by TEST_GOOGLE_SHEET_ID.
// Its content is replaced by the test.
const integrationSheet = "integration"

// liveAdapter connects to a real spreadsheet when credentials are configured
func liveAdapter(t *testing.T) *SheetsAdaptor {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	// Double-quoted values in .env may carry \n escapes, which godotenv expands
	_ = godotenv.Load(filepath.Join("..", "..", ".env"))

	spreadsheetID := os.Getenv("TEST_GOOGLE_SHEET_ID")
	if spreadsheetID == "" {
		t.Skip("Skipping Google Sheets integration test: TEST_GOOGLE_SHEET_ID not set")
	}

	ctx := context.Background()
	config := Config{SpreadsheetID: spreadsheetID}

	if jsonPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); jsonPath != "" {
		if !filepath.IsAbs(jsonPath) {
			jsonPath = filepath.Join("..", "..", jsonPath)
		}
		adapter, err := NewWithJSONKeyFile(ctx, config, jsonPath)
		if err != nil {
			t.Fatalf("Failed to create adapter with JSON auth: %v", err)
		}
		return adapter
	}

	email := os.Getenv("TEST_CLIENT_EMAIL")
	privateKey := os.Getenv("TEST_CLIENT_PRIVATE_KEY")
	if email == "" || privateKey == "" {
		t.Skip("Skipping Google Sheets integration test: no credentials configured")
	}
	// In CI the key may arrive with literal \n
	if !strings.Contains(privateKey, "\n") {
		privateKey = strings.ReplaceAll(privateKey, "\\n", "\n")
	}
	adapter, err := NewWithServiceAccountKey(ctx, config, email, privateKey)
	if err != nil {
		t.Fatalf("Failed to create adapter with email/key auth: %v", err)
	}
	return adapter
}

func TestIntegration_RecordLifecycle(t *testing.T) {
	adapter := liveAdapter(t)
	ctx := context.Background()
	client := sheetstore.New(adapter, DefaultClientConfig())

	sheetID, err := client.SheetID(ctx, integrationSheet)
	if err != nil {
		t.Fatalf("SheetID(%q) error = %v (create the sheet first)", integrationSheet, err)
	}

	// Start from a header row only
	existing, err := client.ReadRaw(ctx, integrationSheet)
	if err != nil {
		t.Fatalf("ReadRaw() error = %v", err)
	}
	if len(existing) > 1 {
		if err := adapter.DeleteRows(ctx, sheetID, 1, int64(len(existing))); err != nil {
			t.Fatalf("DeleteRows() error = %v", err)
		}
	}
	header := []interface{}{"Customer ID", "Customer Name", "City"}
	if err := client.Update(ctx, integrationSheet+"!A1:C1", header); err != nil {
		t.Fatalf("Update(header) error = %v", err)
	}

	for _, row := range [][]interface{}{
		{"C1", "Acme", "Springfield"},
		{"C2", "Globex", "Cypress Creek"},
		{"C3", "Initech", "Austin"},
	} {
		if err := client.Append(ctx, integrationSheet, row); err != nil {
			t.Fatalf("Append(%v) error = %v", row, err)
		}
	}

	records, err := client.Read(ctx, integrationSheet)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Read() returned %d records, want 3", len(records))
	}
	row, err := sheetstore.RowIndexOf(records, "Customer ID", "C2")
	if err != nil || row != 3 {
		t.Fatalf("RowIndexOf(C2) = %d, %v, want 3", row, err)
	}

	if err := client.UpdateRow(ctx, sheetstore.SpanRow(integrationSheet, row, 3), []interface{}{"C2", "Globex Corp", "Cypress Creek"}); err != nil {
		t.Fatalf("UpdateRow() error = %v", err)
	}
	if err := client.DeleteRow(ctx, integrationSheet, 2); err != nil {
		t.Fatalf("DeleteRow() error = %v", err)
	}

	records, err = client.Read(ctx, integrationSheet)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(records) != 2 || sheetstore.IndexOf(records, "Customer ID", "C1") != -1 {
		t.Fatalf("after delete: %d records, C1 present = %v", len(records), sheetstore.IndexOf(records, "Customer ID", "C1") != -1)
	}
	if got := records[0].GetAsString("Customer Name", ""); got != "Globex Corp" || records[0].Row != 2 {
		t.Errorf("first record = row %d %q, want row 2 Globex Corp", records[0].Row, got)
	}
}

func TestIntegration_RemoteError(t *testing.T) {
	adapter := liveAdapter(t)
	client := sheetstore.New(adapter, nil)

	_, err := client.Read(context.Background(), "NoSuchSheet-sheetstore!A1:B2")
	var remote *sheetstore.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("Read() error = %v, want *RemoteError", err)
	}
	if remote.StatusCode != 400 || remote.Message == "" {
		t.Errorf("RemoteError = %d %q, want 400 with a message", remote.StatusCode, remote.Message)
	}
}
