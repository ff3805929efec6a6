// Package ledger implements the back office collections stored in the
// spreadsheet: customers, suppliers, payments, receipts, users and the
// company settings row.
package ledger

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	sheetstore "github.com/ideamans/go-sheetstore"
)

// Collection describes one record collection and the rules applied to its rows
type Collection struct {
	Name     string   // CLI name, e.g. "customers"
	Sheet    string   // Sheet title used for row updates and deletes
	Range    string   // Range read and appended to
	IDColumn string   // Header holding the record identifier
	Headers  []string // Sheet column order

	// Leading columns rewritten by Update; 0 means append and delete only
	EditableColumns int

	IDs          sheetstore.IDGenerator
	Required     []string
	ZeroColumns  []string          // Written as 0 when blank on create
	Defaults     map[string]string // Applied when blank on create
	DateColumn   string            // Set to the current date when blank on create
	KeepOnUpdate []string          // Editable columns that keep their stored value

	// References are resolved in order on create, each read alongside the collection
	References []Reference

	// Validate runs on create after defaults are applied
	Validate func(fields map[string]string) error
	// CanDelete may refuse the deletion of a stored record
	CanDelete func(r *sheetstore.Record) error
}

// Reference fills create fields from a related record in another range.
// The related record is matched on Key; a blank key skips the reference.
type Reference struct {
	Kind    string   // Names the related record in errors, e.g. "purchase order"
	Range   string   // Range holding the related records
	Key     string   // Column present in both the collection and the related range
	Columns []string // Copied from the related record; a given value must agree
	Balance string   // Related column the amount may not exceed, optional
}

// resolve copies the referenced columns into values
func (ref Reference) resolve(values map[string]string, related []*sheetstore.Record) error {
	key := values[ref.Key]
	if key == "" {
		return nil
	}
	i := sheetstore.IndexOf(related, ref.Key, key)
	if i < 0 {
		return &sheetstore.NotFoundError{Kind: ref.Kind, Name: key}
	}
	record := related[i]

	for _, col := range ref.Columns {
		stored := record.GetAsString(col, "")
		if given := values[col]; given != "" && given != stored {
			return fmt.Errorf("%w: %s %s has %s %q, not %q",
				sheetstore.ErrValidation, ref.Kind, key, col, stored, given)
		}
		values[col] = stored
	}
	if ref.Balance != "" {
		values[ref.Balance] = record.GetAsString(ref.Balance, "")
	}
	return nil
}

// Editable reports whether Update is supported
func (c Collection) Editable() bool {
	return c.EditableColumns > 0
}

// EditableHeaders returns the headers rewritten by Update
func (c Collection) EditableHeaders() []string {
	n := c.EditableColumns
	if n > len(c.Headers) {
		n = len(c.Headers)
	}
	return c.Headers[:n]
}

// Customers tracks who the business sells to
func Customers() Collection {
	return Collection{
		Name:     "customers",
		Sheet:    "Customers",
		Range:    "RANGECUSTOMERS",
		IDColumn: "Customer ID",
		Headers: []string{
			"Customer ID", "Customer Name", "Customer Contact", "Customer Email", "State", "City",
			"Customer Address", "Total Sales", "Total Receipts", "Balance Receivable",
		},
		EditableColumns: 7,
		IDs:             sheetstore.PrefixedIDGenerator{Prefix: "C", Digits: 5},
		Required:        []string{"Customer ID", "Customer Name", "State", "City"},
		ZeroColumns:     []string{"Total Sales", "Total Receipts", "Balance Receivable"},
		CanDelete:       refuseOutstanding("Customer ID", "Balance Receivable"),
	}
}

// Suppliers tracks who the business buys from
func Suppliers() Collection {
	return Collection{
		Name:     "suppliers",
		Sheet:    "Suppliers",
		Range:    "RANGESUPPLIERS",
		IDColumn: "Supplier ID",
		Headers: []string{
			"Supplier ID", "Supplier Name", "Supplier Contact", "Supplier Email", "State", "City",
			"Supplier Address", "Total Purchases", "Total Payments", "Balance Payable",
		},
		EditableColumns: 7,
		IDs:             sheetstore.PrefixedIDGenerator{Prefix: "S", Digits: 5},
		Required:        []string{"Supplier ID", "Supplier Name", "State", "City"},
		ZeroColumns:     []string{"Total Purchases", "Total Payments", "Balance Payable"},
		CanDelete:       refuseOutstanding("Supplier ID", "Balance Payable"),
	}
}

// Payments are money paid to suppliers against purchase orders
func Payments() Collection {
	return Collection{
		Name:     "payments",
		Sheet:    "Payments",
		Range:    "RANGEPAYMENTS",
		IDColumn: "Trx ID",
		Headers: []string{
			"Trx Date", "Trx ID", "Supplier ID", "Supplier Name", "State", "City",
			"PO ID", "Bill Num", "PMT Mode", "Amount Paid",
		},
		IDs:        sheetstore.PrefixedIDGenerator{Prefix: "PT", Digits: 5},
		Required:   []string{"Trx ID", "PO ID", "Supplier ID"},
		DateColumn: "Trx Date",
		References: []Reference{
			{Kind: "purchase order", Range: "RANGEPO", Key: "PO ID", Columns: []string{"Supplier ID", "Bill Num"}, Balance: "PO Balance"},
			{Kind: "supplier", Range: "RANGESUPPLIERS", Key: "Supplier ID", Columns: []string{"Supplier Name", "State", "City"}},
		},
		Validate: validateAmount("Amount Paid", "PO Balance"),
	}
}

// Receipts are money received from customers against sales orders
func Receipts() Collection {
	return Collection{
		Name:     "receipts",
		Sheet:    "Receipts",
		Range:    "RANGERECEIPTS",
		IDColumn: "Trx ID",
		Headers: []string{
			"Trx Date", "Trx ID", "Customer ID", "Customer Name", "State", "City",
			"SO ID", "Invoice Num", "PMT Mode", "Amount Received",
		},
		IDs:        sheetstore.PrefixedIDGenerator{Prefix: "RT", Digits: 5},
		Required:   []string{"Trx ID", "SO ID", "Customer ID"},
		DateColumn: "Trx Date",
		References: []Reference{
			{Kind: "sales order", Range: "RANGESO", Key: "SO ID", Columns: []string{"Customer ID", "Invoice Num"}, Balance: "SO Balance"},
			{Kind: "customer", Range: "RANGECUSTOMERS", Key: "Customer ID", Columns: []string{"Customer Name", "State", "City"}},
		},
		Validate: validateAmount("Amount Received", "SO Balance"),
	}
}

// Users are the people allowed into the back office
func Users() Collection {
	return Collection{
		Name:            "users",
		Sheet:           "Users",
		Range:           "RANGEUSERS",
		IDColumn:        "UserID",
		Headers:         []string{"UserID", "Name", "Email", "Role", "Status", "Date Added"},
		EditableColumns: 6,
		IDs:             sheetstore.PrefixedIDGenerator{Prefix: "U", Digits: 4},
		Required:        []string{"Name", "Email", "Role"},
		Defaults:        map[string]string{"Role": "Staff", "Status": "Active"},
		DateColumn:      "Date Added",
		KeepOnUpdate:    []string{"Date Added"},
	}
}

var collections = map[string]func() Collection{
	"customers": Customers,
	"suppliers": Suppliers,
	"payments":  Payments,
	"receipts":  Receipts,
	"users":     Users,
}

// Lookup returns the collection registered under name
func Lookup(name string) (Collection, error) {
	build, ok := collections[name]
	if !ok {
		return Collection{}, &sheetstore.NotFoundError{Kind: "collection", Name: name}
	}
	return build(), nil
}

// Names returns the registered collection names, sorted
func Names() []string {
	names := make([]string, 0, len(collections))
	for name := range collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func refuseOutstanding(idColumn, column string) func(r *sheetstore.Record) error {
	return func(r *sheetstore.Record) error {
		balance := r.GetAsDecimal(column, decimal.Zero)
		if balance.IsPositive() {
			return fmt.Errorf("%w: cannot delete %s with an outstanding balance of %s",
				ErrOutstandingBalance, r.GetAsString(idColumn, ""), balance.StringFixed(2))
		}
		return nil
	}
}

// validateAmount requires a positive amount no greater than the balance.
// The balance is filled from the referenced order; a blank stored balance is not checked.
func validateAmount(amountColumn, balanceColumn string) func(fields map[string]string) error {
	return func(fields map[string]string) error {
		amount := sheetstore.ParseAmount(fields[amountColumn], decimal.Zero)
		if !amount.IsPositive() {
			return fmt.Errorf("%w: %s must be a positive amount", sheetstore.ErrValidation, amountColumn)
		}
		if raw, ok := fields[balanceColumn]; ok && raw != "" {
			balance := sheetstore.ParseAmount(raw, decimal.Zero)
			if amount.GreaterThan(balance) {
				return fmt.Errorf("%w: %s %s exceeds %s %s", sheetstore.ErrValidation,
					amountColumn, amount.String(), balanceColumn, balance.StringFixed(2))
			}
		}
		return nil
	}
}
