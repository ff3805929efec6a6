// Package dashboard aggregates sales, purchases and balances into the figures
// shown on the back office dashboard.
package dashboard

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	sheetstore "github.com/ideamans/go-sheetstore"
)

// Ranges read by Load, in the order Compute takes them
const (
	SalesRange     = "RANGESD"
	PurchasesRange = "RANGEPD"
	CustomersRange = "RANGECUSTOMERS"
	SuppliersRange = "RANGESUPPLIERS"
)

// TopCount limits the customer ranking
const TopCount = 10

const (
	unknown = "Unknown"
	none    = "N/A"
)

// Amount is one labelled total
type Amount struct {
	Key   string          `json:"key"`
	Value decimal.Decimal `json:"value"`
}

// Series holds one category's totals aligned with Summary.PurchaseYears
type Series struct {
	Name   string            `json:"name"`
	Values []decimal.Decimal `json:"values"`
}

// Summary is everything the dashboard displays
type Summary struct {
	TotalSales      decimal.Decimal `json:"totalSales"`
	TotalPurchases  decimal.Decimal `json:"totalPurchases"`
	NetProfit       decimal.Decimal `json:"netProfit"`
	TotalReceivable decimal.Decimal `json:"totalReceivable"`
	TotalPayable    decimal.Decimal `json:"totalPayable"`
	TopCity         string          `json:"topCity"`
	TopCategory     string          `json:"topCategory"`

	SalesTrend          []Amount `json:"salesTrend"` // keyed YYYY-MM-01, ascending
	TopCustomers        []Amount `json:"topCustomers"`
	PurchasesByState    []Amount `json:"purchasesByState"`
	PurchaseYears       []string `json:"purchaseYears"`
	PurchasesByCategory []Series `json:"purchasesByCategory"`
	SalesByCategory     []Amount `json:"salesByCategory"`
	SalesByCity         []Amount `json:"salesByCity"`
}

// Load reads the four source ranges concurrently and computes the summary
func Load(ctx context.Context, client *sheetstore.Client) (*Summary, error) {
	results, err := client.ReadAll(ctx, SalesRange, PurchasesRange, CustomersRange, SuppliersRange)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard data: %w", err)
	}
	return Compute(results[0], results[1], results[2], results[3]), nil
}

// Compute aggregates the records of the sales, purchases, customers and suppliers ranges
func Compute(sales, purchases, customers, suppliers []*sheetstore.Record) *Summary {
	s := &Summary{
		TotalSales:      sum(sales, "Total Sales Price"),
		TotalPurchases:  sum(purchases, "Total Purchase Price"),
		TotalReceivable: sum(customers, "Balance Receivable"),
		TotalPayable:    sum(suppliers, "Balance Payable"),
	}
	s.NetProfit = s.TotalSales.Sub(s.TotalPurchases)

	byCity := newTally()
	byCategory := newTally()
	byCustomer := newTally()
	byMonth := newTally()
	for _, r := range sales {
		v := amount(r, "Total Sales Price")
		byCity.add(label(r, "City"), v)
		byCategory.add(label(r, "Item Category"), v)
		byCustomer.add(label(r, "Customer Name"), v)
		if d, ok := sheetstore.ParseDate(r.GetAsString("SO Date", "")); ok {
			byMonth.add(d.Format("2006-01")+"-01", v)
		}
	}

	s.SalesByCity = byCity.amounts()
	s.SalesByCategory = byCategory.amounts()
	s.TopCity = top(byCity.ranked())
	s.TopCategory = top(byCategory.ranked())

	s.SalesTrend = byMonth.amounts()
	sort.Slice(s.SalesTrend, func(i, j int) bool { return s.SalesTrend[i].Key < s.SalesTrend[j].Key })

	s.TopCustomers = byCustomer.ranked()
	if len(s.TopCustomers) > TopCount {
		s.TopCustomers = s.TopCustomers[:TopCount]
	}

	byState := newTally()
	categories := newTally()
	byYear := make(map[string]*tally)
	for _, r := range purchases {
		v := amount(r, "Total Purchase Price")
		category := label(r, "Item Category")
		byState.add(label(r, "State"), v)
		categories.add(category, decimal.Zero)

		d, ok := sheetstore.ParseDate(r.GetAsString("Date", ""))
		if !ok {
			continue
		}
		year := d.Format("2006")
		if byYear[year] == nil {
			byYear[year] = newTally()
		}
		byYear[year].add(category, v)
	}
	s.PurchasesByState = byState.amounts()

	s.PurchaseYears = make([]string, 0, len(byYear))
	for year := range byYear {
		s.PurchaseYears = append(s.PurchaseYears, year)
	}
	sort.Strings(s.PurchaseYears)

	s.PurchasesByCategory = make([]Series, 0, len(categories.keys))
	for _, category := range categories.keys {
		series := Series{Name: category, Values: make([]decimal.Decimal, len(s.PurchaseYears))}
		for i, year := range s.PurchaseYears {
			series.Values[i] = byYear[year].get(category)
		}
		s.PurchasesByCategory = append(s.PurchasesByCategory, series)
	}

	return s
}

// tally sums amounts per key and remembers the order keys were first seen in
type tally struct {
	keys   []string
	totals map[string]decimal.Decimal
}

func newTally() *tally {
	return &tally{totals: make(map[string]decimal.Decimal)}
}

func (t *tally) add(key string, v decimal.Decimal) {
	total, ok := t.totals[key]
	if !ok {
		t.keys = append(t.keys, key)
	}
	t.totals[key] = total.Add(v)
}

func (t *tally) get(key string) decimal.Decimal {
	return t.totals[key]
}

// amounts returns the totals in first-seen order
func (t *tally) amounts() []Amount {
	out := make([]Amount, len(t.keys))
	for i, k := range t.keys {
		out[i] = Amount{Key: k, Value: t.totals[k]}
	}
	return out
}

// ranked returns the totals largest first; ties keep first-seen order
func (t *tally) ranked() []Amount {
	out := t.amounts()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value.GreaterThan(out[j].Value) })
	return out
}

func top(ranked []Amount) string {
	if len(ranked) == 0 || ranked[0].Key == "" {
		return none
	}
	return ranked[0].Key
}

func sum(records []*sheetstore.Record, col string) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(amount(r, col))
	}
	return total
}

func amount(r *sheetstore.Record, col string) decimal.Decimal {
	return r.GetAsDecimal(col, decimal.Zero)
}

func label(r *sheetstore.Record, col string) string {
	if v := r.GetAsString(col, ""); v != "" {
		return v
	}
	return unknown
}
