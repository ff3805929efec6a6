package main

import (
	"context"
	"fmt"
	"log"

	sheetstore "github.com/ideamans/go-sheetstore"
	"github.com/ideamans/go-sheetstore/adapters/googlesheets"
	"github.com/ideamans/go-sheetstore/ledger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	adapterConfig := googlesheets.Config{
		SpreadsheetID: "your-spreadsheet-id",
	}

	// Initialize Google Sheets adapter with JSON key file
	adapter, err := googlesheets.NewWithJSONKeyFile(ctx, adapterConfig, "./service-account.json")
	if err != nil {
		return fmt.Errorf("failed to create adapter: %w", err)
	}

	// Recommended defaults for Google Sheets
	clientConfig := googlesheets.DefaultClientConfig()
	// Optionally customize:
	// clientConfig.MaxRetries = 3 // retry reads on 429 and 5xx

	client := sheetstore.New(adapter, clientConfig)

	// Raw range access
	users, err := client.Read(ctx, "Users!A:F")
	if err != nil {
		return fmt.Errorf("failed to read users: %w", err)
	}
	for _, u := range users {
		fmt.Printf("  Row %d: %s <%s>\n", u.Row, u.GetAsString("Name", "Unknown"), u.GetAsString("Email", ""))
	}

	// Collections layered over named ranges
	customers := ledger.NewRepository(client, ledger.Customers())

	created, err := customers.Create(ctx, map[string]string{
		"Customer Name": "Acme Corp",
		"State":         "Texas",
		"City":          "Austin",
	})
	if err != nil {
		return fmt.Errorf("failed to add customer: %w", err)
	}
	id := created.GetAsString("Customer ID", "")
	fmt.Printf("Added customer %s\n", id)

	results, err := customers.Find(ctx, sheetstore.Query{
		Conditions: []sheetstore.Condition{
			{Column: "State", Operator: "==", Value: "Texas"},
		},
		Limit: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to query: %w", err)
	}
	fmt.Printf("Found %d customers in Texas\n", len(results))

	if _, err := customers.Update(ctx, id, map[string]string{"Customer Contact": "555-0100"}); err != nil {
		log.Printf("Failed to update customer: %v", err)
	}

	settings, err := ledger.GetSettings(ctx, client)
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	fmt.Printf("Company: %s\n", settings.CompanyName)

	return nil
}
