package sheetstoretest

import (
	"context"
	"errors"
	"reflect"
	"testing"

	sheetstore "github.com/ideamans/go-sheetstore"
)

// Seed describes the initial content of the backend a Factory creates
type Seed struct {
	Sheet   string     // Sheet title
	SheetID int64      // Preferred sheet id; adapters may assign their own
	Name    string     // Defined name covering the sheet, optional
	Rows    [][]string // First row is the header
}

// Factory creates a fresh adapter holding exactly seed
type Factory func(t *testing.T, seed Seed) sheetstore.Adapter

// CustomerSeed is the fixture used by the suite
func CustomerSeed() Seed {
	return Seed{
		Sheet:   "Customers",
		SheetID: 1201,
		Name:    "RANGECUSTOMERS",
		Rows: [][]string{
			{"Customer ID", "Customer Name", "City"},
			{"C1", "Acme", "Springfield"},
			{"C2", "Globex", "Cypress Creek"},
		},
	}
}

// RunAdapterSuite checks the record store contract against adapters built by factory
func RunAdapterSuite(t *testing.T, factory Factory) {
	ctx := context.Background()

	newClient := func(t *testing.T, seed Seed) *sheetstore.Client {
		t.Helper()
		return sheetstore.New(factory(t, seed), nil)
	}

	t.Run("read decodes header and rows", func(t *testing.T) {
		seed := CustomerSeed()
		client := newClient(t, seed)

		for _, ref := range []string{seed.Name, "Customers!A1:C3", "Customers"} {
			records, err := client.Read(ctx, ref)
			if err != nil {
				t.Fatalf("Read(%q) error = %v", ref, err)
			}
			if len(records) != 2 {
				t.Fatalf("Read(%q) returned %d records, want 2", ref, len(records))
			}
			want := []map[string]string{
				{"Customer ID": "C1", "Customer Name": "Acme", "City": "Springfield"},
				{"Customer ID": "C2", "Customer Name": "Globex", "City": "Cypress Creek"},
			}
			for i, r := range records {
				if !reflect.DeepEqual(r.Fields, want[i]) {
					t.Errorf("Read(%q)[%d] = %v, want %v", ref, i, r.Fields, want[i])
				}
				if r.Row != i+2 {
					t.Errorf("Read(%q)[%d].Row = %d, want %d", ref, i, r.Row, i+2)
				}
			}
			row, err := sheetstore.RowIndexOf(records, "Customer ID", "C2")
			if err != nil || row != 3 {
				t.Errorf("RowIndexOf(C2) = %d, %v, want 3", row, err)
			}
		}
	})

	t.Run("header only range is empty", func(t *testing.T) {
		seed := CustomerSeed()
		seed.Rows = seed.Rows[:1]
		records, err := newClient(t, seed).Read(ctx, seed.Name)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if records == nil || len(records) != 0 {
			t.Errorf("Read() = %v, want empty non-nil slice", records)
		}
	})

	t.Run("short rows leave trailing keys missing", func(t *testing.T) {
		seed := CustomerSeed()
		seed.Rows = [][]string{{"Customer ID", "Customer Name", "City"}, {"C9"}}
		records, err := newClient(t, seed).Read(ctx, seed.Name)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("Read() returned %d records, want 1", len(records))
		}
		if records[0].Has("City") || records[0].Has("Customer Name") {
			t.Errorf("Read() record = %v, want only Customer ID", records[0].Fields)
		}
	})

	t.Run("append then read round trips", func(t *testing.T) {
		seed := CustomerSeed()
		client := newClient(t, seed)

		values := []interface{}{"C3", "Initech", "Austin"}
		if err := client.Append(ctx, seed.Name, values); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		records, err := client.Read(ctx, seed.Name)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("Read() returned %d records, want 3", len(records))
		}
		last := records[len(records)-1]
		if got := last.Values(); !reflect.DeepEqual(got, values) {
			t.Errorf("last record = %v, want %v", got, values)
		}
		if last.Row != 4 {
			t.Errorf("last record Row = %d, want 4", last.Row)
		}
	})

	t.Run("update overwrites one row", func(t *testing.T) {
		seed := CustomerSeed()
		client := newClient(t, seed)

		records, err := client.Read(ctx, seed.Name)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		row, err := sheetstore.RowIndexOf(records, "Customer ID", "C1")
		if err != nil {
			t.Fatalf("RowIndexOf() error = %v", err)
		}
		target := sheetstore.RowRange{Sheet: seed.Sheet, StartColumn: "B", EndColumn: "C", Row: row}
		if err := client.UpdateRow(ctx, target, []interface{}{"Acme Corp", "Shelbyville"}); err != nil {
			t.Fatalf("UpdateRow() error = %v", err)
		}

		records, err = client.Read(ctx, seed.Name)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if got := records[0].GetAsString("Customer Name", ""); got != "Acme Corp" {
			t.Errorf("C1 name = %q, want Acme Corp", got)
		}
		if got := records[0].GetAsString("Customer ID", ""); got != "C1" {
			t.Errorf("C1 id = %q, want untouched C1", got)
		}
		if got := records[1].GetAsString("Customer Name", ""); got != "Globex" {
			t.Errorf("C2 name = %q, want untouched Globex", got)
		}
	})

	t.Run("delete removes the row and shifts the rest", func(t *testing.T) {
		seed := CustomerSeed()
		client := newClient(t, seed)

		records, err := client.Read(ctx, seed.Name)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		row, err := sheetstore.RowIndexOf(records, "Customer ID", "C1")
		if err != nil {
			t.Fatalf("RowIndexOf() error = %v", err)
		}
		if err := client.DeleteRow(ctx, seed.Sheet, row); err != nil {
			t.Fatalf("DeleteRow() error = %v", err)
		}

		after, err := client.Read(ctx, seed.Name)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if len(after) != len(records)-1 {
			t.Fatalf("Read() returned %d records, want %d", len(after), len(records)-1)
		}
		if _, err := sheetstore.FindRecord(after, "Customer ID", "C1"); !errors.Is(err, sheetstore.ErrNotFound) {
			t.Errorf("FindRecord(C1) error = %v, want ErrNotFound", err)
		}
		if row, _ := sheetstore.RowIndexOf(after, "Customer ID", "C2"); row != 2 {
			t.Errorf("RowIndexOf(C2) after delete = %d, want 2", row)
		}
	})

	t.Run("unknown sheet is not found", func(t *testing.T) {
		client := newClient(t, CustomerSeed())

		if _, err := client.SheetID(ctx, "customers"); !errors.Is(err, sheetstore.ErrNotFound) {
			t.Errorf("SheetID(customers) error = %v, want ErrNotFound", err)
		}
		if err := client.DeleteRow(ctx, "Nope", 2); !errors.Is(err, sheetstore.ErrNotFound) {
			t.Errorf("DeleteRow(Nope) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("reading an unknown range fails", func(t *testing.T) {
		client := newClient(t, CustomerSeed())
		if _, err := client.Read(ctx, "Missing!A1:B2"); err == nil {
			t.Error("Read(Missing!A1:B2) error = nil, want error")
		}
	})
}
