package ledger

import (
	"context"
	"errors"
	"reflect"
	"testing"

	sheetstore "github.com/ideamans/go-sheetstore"
	"github.com/ideamans/go-sheetstore/sheetstoretest"
)

func settingsBackend(rows [][]string) *sheetstoretest.MemoryAdapter {
	return sheetstoretest.NewMemoryAdapter().
		AddSheet("Settings", 7, rows).
		DefineName(SettingsRange, "Settings!A2:D2")
}

func TestGetSettings(t *testing.T) {
	ctx := context.Background()
	header := []string{"Company Name", "Address", "Contact", "Logo"}

	tests := []struct {
		name string
		rows [][]string
		want Settings
	}{
		{
			name: "full row",
			rows: [][]string{header, {"Acme Inc", "1 Main St", "555-0100", "https://acme.test/logo.png"}},
			want: Settings{CompanyName: "Acme Inc", Address: "1 Main St", Contact: "555-0100", LogoURL: "https://acme.test/logo.png"},
		},
		{
			name: "trailing cells missing",
			rows: [][]string{header, {"Acme Inc"}},
			want: Settings{CompanyName: "Acme Inc"},
		},
		{
			name: "empty range",
			rows: [][]string{header},
			want: Settings{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := sheetstore.New(settingsBackend(tt.rows), nil)
			got, err := GetSettings(ctx, client)
			if err != nil {
				t.Fatalf("GetSettings() error = %v", err)
			}
			if !reflect.DeepEqual(*got, tt.want) {
				t.Errorf("GetSettings() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestUpdateSettings(t *testing.T) {
	ctx := context.Background()
	backend := settingsBackend([][]string{{"Company Name", "Address", "Contact", "Logo"}})
	client := sheetstore.New(backend, nil)

	s := Settings{CompanyName: "Acme Inc", Address: "1 Main St", Contact: "555-0100", LogoURL: "https://acme.test/logo.png"}
	if err := UpdateSettings(ctx, client, s); err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}

	got, err := GetSettings(ctx, client)
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if *got != s {
		t.Errorf("GetSettings() = %+v, want %+v", *got, s)
	}

	backend.Fail(sheetstoretest.OpUpdate, &sheetstore.RemoteError{StatusCode: 403, Message: "The caller does not have permission"})
	if err := UpdateSettings(ctx, client, Settings{}); !errors.Is(err, sheetstore.ErrRemote) {
		t.Errorf("UpdateSettings() error = %v, want ErrRemote", err)
	}
}
