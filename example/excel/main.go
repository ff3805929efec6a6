package main

import (
	"context"
	"fmt"
	"log"

	sheetstore "github.com/ideamans/go-sheetstore"
	"github.com/ideamans/go-sheetstore/adapters/excel"
	"github.com/ideamans/go-sheetstore/dashboard"
	"github.com/ideamans/go-sheetstore/ledger"
)

func main() {
	const path = "./example_data.xlsx"

	// Seed a workbook whose defined names match the ledger ranges
	err := excel.CreateWorkbook(path, []excel.Sheet{
		{
			Title: "Customers",
			Name:  ledger.Customers().Range,
			Rows:  [][]string{ledger.Customers().Headers},
		},
		{
			Title: "Suppliers",
			Name:  ledger.Suppliers().Range,
			Rows:  [][]string{ledger.Suppliers().Headers},
		},
		{
			Title: "Sales Data",
			Name:  dashboard.SalesRange,
			Rows: [][]string{
				{"SO ID", "SO Date", "Customer Name", "City", "Item Category", "Total Sales Price"},
				{"SO1", "2025-01-15", "Acme Corp", "Austin", "Hardware", "1200"},
				{"SO2", "2025-02-03", "Globex", "Dallas", "Software", "800"},
			},
		},
		{
			Title: "Purchase Data",
			Name:  dashboard.PurchasesRange,
			Rows: [][]string{
				{"PO ID", "Date", "Supplier Name", "State", "Item Category", "Total Purchase Price"},
				{"PO1", "2025-01-20", "Initech", "Texas", "Hardware", "700"},
			},
		},
	})
	if err != nil {
		log.Fatalf("Failed to create workbook: %v", err)
	}

	// Excel adapter (no authentication required)
	adapter, err := excel.New(&excel.Config{FilePath: path})
	if err != nil {
		log.Fatalf("Failed to create Excel adapter: %v", err)
	}
	client := sheetstore.New(adapter, excel.DefaultClientConfig())
	ctx := context.Background()

	customers := ledger.NewRepository(client, ledger.Customers())
	for _, fields := range []map[string]string{
		{"Customer Name": "Acme Corp", "State": "Texas", "City": "Austin"},
		{"Customer Name": "Globex", "State": "Texas", "City": "Dallas"},
	} {
		record, err := customers.Create(ctx, fields)
		if err != nil {
			log.Fatalf("Failed to add customer: %v", err)
		}
		fmt.Printf("Added %s\n", record.GetAsString("Customer ID", ""))
	}

	all, err := customers.List(ctx)
	if err != nil {
		log.Fatalf("Failed to list customers: %v", err)
	}
	for _, c := range all {
		fmt.Printf("  Row %d: %s (%s)\n", c.Row, c.GetAsString("Customer Name", ""), c.GetAsString("City", ""))
	}

	summary, err := dashboard.Load(ctx, client)
	if err != nil {
		log.Fatalf("Failed to load dashboard: %v", err)
	}
	fmt.Printf("Sales %s, purchases %s, net profit %s\n",
		dashboard.FormatCurrency(summary.TotalSales),
		dashboard.FormatCurrency(summary.TotalPurchases),
		dashboard.FormatCurrency(summary.NetProfit))
}
