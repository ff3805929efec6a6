package sheetstore_test

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	sheetstore "github.com/ideamans/go-sheetstore"
)

func TestSheetIDCache_Basic(t *testing.T) {
	cache := sheetstore.NewSheetIDCache()

	t.Run("Get unknown title", func(t *testing.T) {
		if _, ok := cache.Get("Customers"); ok {
			t.Error("Get() ok = true on empty cache")
		}
	})

	t.Run("Load and Get", func(t *testing.T) {
		cache.Load([]sheetstore.SheetProperties{
			{Title: "Customers", SheetID: 1201},
			{Title: "Sheet1", SheetID: 0},
		})

		id, ok := cache.Get("Customers")
		if !ok || id != 1201 {
			t.Errorf("Get(Customers) = %d, %v, want 1201, true", id, ok)
		}
		// id 0 is a valid sheet id
		id, ok = cache.Get("Sheet1")
		if !ok || id != 0 {
			t.Errorf("Get(Sheet1) = %d, %v, want 0, true", id, ok)
		}
		if _, ok := cache.Get("customers"); ok {
			t.Error("Get(customers) ok = true, titles are case-sensitive")
		}
	})

	t.Run("Size and Titles", func(t *testing.T) {
		if cache.Size() != 2 {
			t.Errorf("Size() = %d, want 2", cache.Size())
		}
		if want := []string{"Customers", "Sheet1"}; !reflect.DeepEqual(cache.Titles(), want) {
			t.Errorf("Titles() = %v, want %v", cache.Titles(), want)
		}
	})

	t.Run("Load replaces content", func(t *testing.T) {
		cache.Load([]sheetstore.SheetProperties{{Title: "Clients", SheetID: 1201}})
		if _, ok := cache.Get("Customers"); ok {
			t.Error("Get(Customers) ok = true after reload without it")
		}
		if cache.Size() != 1 {
			t.Errorf("Size() = %d, want 1", cache.Size())
		}
	})
}

func TestSheetIDCache_Invalidate(t *testing.T) {
	sheets := []sheetstore.SheetProperties{
		{Title: "Customers", SheetID: 1},
		{Title: "Suppliers", SheetID: 2},
		{Title: "Users", SheetID: 3},
	}

	t.Run("selected titles", func(t *testing.T) {
		cache := sheetstore.NewSheetIDCache()
		cache.Load(sheets)
		cache.Invalidate("Suppliers", "Unknown")

		if want := []string{"Customers", "Users"}; !reflect.DeepEqual(cache.Titles(), want) {
			t.Errorf("Titles() = %v, want %v", cache.Titles(), want)
		}
	})

	t.Run("everything", func(t *testing.T) {
		cache := sheetstore.NewSheetIDCache()
		cache.Load(sheets)
		cache.Invalidate()

		if cache.Size() != 0 {
			t.Errorf("Size() = %d, want 0", cache.Size())
		}
	})
}

func TestSheetIDCache_Concurrency(t *testing.T) {
	cache := sheetstore.NewSheetIDCache()

	var wg sync.WaitGroup
	numGoroutines := 10
	numOperations := 100

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOperations; j++ {
				title := fmt.Sprintf("Sheet%d", id)
				cache.Load([]sheetstore.SheetProperties{{Title: title, SheetID: int64(id)}})
				cache.Get(title)
				cache.Titles()
				if j%10 == 0 {
					cache.Invalidate(title)
				}
			}
		}(i)
	}

	wg.Wait()

	if cache.Size() > 1 {
		t.Errorf("Size() = %d, want at most 1 after concurrent reloads", cache.Size())
	}
}
