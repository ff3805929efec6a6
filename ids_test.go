package sheetstore_test

import (
	"errors"
	"regexp"
	"testing"

	sheetstore "github.com/ideamans/go-sheetstore"
)

// sequence returns an Intn that yields values in order, then repeats the last
func sequence(values ...int) func(int) int {
	i := 0
	return func(n int) int {
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v % n
	}
}

func TestPrefixedIDGenerator(t *testing.T) {
	tests := []struct {
		name     string
		gen      sheetstore.PrefixedIDGenerator
		existing []string
		want     string
	}{
		{
			name: "customer id",
			gen:  sheetstore.PrefixedIDGenerator{Prefix: "C", Digits: 5, Intn: sequence(2345)},
			want: "C12345",
		},
		{
			name:     "skips ids already loaded",
			gen:      sheetstore.PrefixedIDGenerator{Prefix: "S", Digits: 5, Intn: sequence(0, 0, 1)},
			existing: []string{"S10000"},
			want:     "S10001",
		},
		{
			name: "user id has four digits",
			gen:  sheetstore.PrefixedIDGenerator{Prefix: "U", Digits: 4, Intn: sequence(8999)},
			want: "U9999",
		},
		{
			name: "payment id",
			gen:  sheetstore.PrefixedIDGenerator{Prefix: "PT", Digits: 5, Intn: sequence(56789 - 10000)},
			want: "PT56789",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.gen.NextID(tt.existing)
			if err != nil {
				t.Fatalf("NextID() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("NextID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrefixedIDGenerator_DefaultRandom(t *testing.T) {
	gen := sheetstore.PrefixedIDGenerator{Prefix: "RT", Digits: 5}
	pattern := regexp.MustCompile(`^RT[1-9][0-9]{4}$`)

	existing := []string{}
	for i := 0; i < 200; i++ {
		id, err := gen.NextID(existing)
		if err != nil {
			t.Fatalf("NextID() error = %v", err)
		}
		if !pattern.MatchString(id) {
			t.Fatalf("NextID() = %q, want RT + 5 digits", id)
		}
		for _, e := range existing {
			if e == id {
				t.Fatalf("NextID() returned existing id %q", id)
			}
		}
		existing = append(existing, id)
	}
}

func TestPrefixedIDGenerator_Exhausted(t *testing.T) {
	gen := sheetstore.PrefixedIDGenerator{Prefix: "X", Digits: 1}
	existing := []string{"X0", "X1", "X2", "X3", "X4", "X5", "X6", "X7", "X8", "X9"}

	if _, err := gen.NextID(existing); !errors.Is(err, sheetstore.ErrIDSpaceExhausted) {
		t.Errorf("NextID() error = %v, want ErrIDSpaceExhausted", err)
	}

	if _, err := (sheetstore.PrefixedIDGenerator{Prefix: "X"}).NextID(nil); err == nil {
		t.Error("NextID() with zero digits error = nil, want error")
	}
}

func TestUUIDGenerator(t *testing.T) {
	gen := sheetstore.UUIDGenerator{Prefix: "C-"}
	pattern := regexp.MustCompile(`^C-[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

	a, err := gen.NextID(nil)
	if err != nil {
		t.Fatalf("NextID() error = %v", err)
	}
	b, err := gen.NextID([]string{a})
	if err != nil {
		t.Fatalf("NextID() error = %v", err)
	}
	if !pattern.MatchString(a) || !pattern.MatchString(b) {
		t.Errorf("NextID() = %q, %q, want prefixed v4 uuids", a, b)
	}
	if a == b {
		t.Errorf("NextID() returned %q twice", a)
	}
}
