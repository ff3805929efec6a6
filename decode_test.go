package sheetstore_test

import (
	"errors"
	"reflect"
	"testing"

	sheetstore "github.com/ideamans/go-sheetstore"
)

func TestDecodeRecords(t *testing.T) {
	tests := []struct {
		name       string
		data       *sheetstore.RangeData
		schema     []string
		wantFields []map[string]string
		wantRows   []int
		wantErr    error
	}{
		{
			name: "customers example",
			data: &sheetstore.RangeData{Values: [][]interface{}{
				{"Customer ID", "Customer Name"},
				{"C1", "Acme"},
				{"C2", "Globex"},
			}},
			wantFields: []map[string]string{
				{"Customer ID": "C1", "Customer Name": "Acme"},
				{"Customer ID": "C2", "Customer Name": "Globex"},
			},
			wantRows: []int{2, 3},
		},
		{
			name:       "entirely empty range",
			data:       &sheetstore.RangeData{},
			wantFields: []map[string]string{},
		},
		{
			name:       "nil data",
			data:       nil,
			wantFields: []map[string]string{},
		},
		{
			name:       "header only",
			data:       &sheetstore.RangeData{Values: [][]interface{}{{"name", "age"}}},
			wantFields: []map[string]string{},
		},
		{
			name: "short row leaves trailing keys out",
			data: &sheetstore.RangeData{Values: [][]interface{}{
				{"a", "b", "c"},
				{"1"},
				{"1", "2", "3"},
			}},
			wantFields: []map[string]string{
				{"a": "1"},
				{"a": "1", "b": "2", "c": "3"},
			},
			wantRows: []int{2, 3},
		},
		{
			name: "empty rows keep their position",
			data: &sheetstore.RangeData{Values: [][]interface{}{
				{"name"},
				{"John"},
				{},
				{"Jane"},
			}},
			wantFields: []map[string]string{
				{"name": "John"},
				{},
				{"name": "Jane"},
			},
			wantRows: []int{2, 3, 4},
		},
		{
			name: "unformatted cells become text",
			data: &sheetstore.RangeData{Values: [][]interface{}{
				{"score", "count", "active"},
				{99.5, float64(100), true},
			}},
			wantFields: []map[string]string{
				{"score": "99.5", "count": "100", "active": "TRUE"},
			},
			wantRows: []int{2},
		},
		{
			name: "resolved range offsets rows",
			data: &sheetstore.RangeData{
				Range: "Customers!A5:B7",
				Values: [][]interface{}{
					{"Customer ID", "Customer Name"},
					{"C1", "Acme"},
					{"C2", "Globex"},
				},
			},
			wantFields: []map[string]string{
				{"Customer ID": "C1", "Customer Name": "Acme"},
				{"Customer ID": "C2", "Customer Name": "Globex"},
			},
			wantRows: []int{6, 7},
		},
		{
			name: "schema matches",
			data: &sheetstore.RangeData{Values: [][]interface{}{
				{"UserID", "Name"},
				{"U1000", "Ann"},
			}},
			schema:     []string{"UserID", "Name"},
			wantFields: []map[string]string{{"UserID": "U1000", "Name": "Ann"}},
			wantRows:   []int{2},
		},
		{
			name: "schema column renamed",
			data: &sheetstore.RangeData{Values: [][]interface{}{
				{"User ID", "Name"},
			}},
			schema:  []string{"UserID", "Name"},
			wantErr: sheetstore.ErrDecode,
		},
		{
			name: "schema column count differs",
			data: &sheetstore.RangeData{Values: [][]interface{}{
				{"UserID"},
			}},
			schema:  []string{"UserID", "Name"},
			wantErr: sheetstore.ErrDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sheetstore.DecodeRecords("TestRange", tt.data, tt.schema)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodeRecords() error = %v, want %v", err, tt.wantErr)
				}
				var decodeErr *sheetstore.DecodeError
				if !errors.As(err, &decodeErr) || decodeErr.Ref != "TestRange" {
					t.Errorf("DecodeRecords() error = %#v, want *DecodeError for TestRange", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeRecords() error = %v", err)
			}
			if got == nil {
				t.Fatal("DecodeRecords() = nil, want non-nil slice")
			}
			if len(got) != len(tt.wantFields) {
				t.Fatalf("DecodeRecords() returned %d records, want %d", len(got), len(tt.wantFields))
			}
			for i, r := range got {
				if !reflect.DeepEqual(r.Fields, tt.wantFields[i]) {
					t.Errorf("Record[%d].Fields = %v, want %v", i, r.Fields, tt.wantFields[i])
				}
				if r.Row != tt.wantRows[i] {
					t.Errorf("Record[%d].Row = %d, want %d", i, r.Row, tt.wantRows[i])
				}
			}
		})
	}
}

func TestDecodeRecords_HeaderOrder(t *testing.T) {
	data := &sheetstore.RangeData{Values: [][]interface{}{
		{"b", "a", "c"},
		{"2", "1", "3"},
	}}
	got, err := sheetstore.DecodeRecords("r", data, nil)
	if err != nil {
		t.Fatalf("DecodeRecords() error = %v", err)
	}
	if want := []string{"b", "a", "c"}; !reflect.DeepEqual(got[0].Headers, want) {
		t.Errorf("Headers = %v, want %v", got[0].Headers, want)
	}
	if want := []interface{}{"2", "1", "3"}; !reflect.DeepEqual(got[0].Values(), want) {
		t.Errorf("Values() = %v, want %v", got[0].Values(), want)
	}
}

func TestDecodeMatrix(t *testing.T) {
	data := &sheetstore.RangeData{Values: [][]interface{}{
		{"Acme Inc", "1 Main St", float64(5550100), nil},
	}}
	want := [][]string{{"Acme Inc", "1 Main St", "5550100", ""}}
	if got := sheetstore.DecodeMatrix(data); !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeMatrix() = %v, want %v", got, want)
	}
	if got := sheetstore.DecodeMatrix(nil); len(got) != 0 {
		t.Errorf("DecodeMatrix(nil) = %v, want empty", got)
	}
}
