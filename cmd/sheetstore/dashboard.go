package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ideamans/go-sheetstore/dashboard"
)

func newDashboardCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print sales, purchase and balance figures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			client, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			s, err := dashboard.Load(cmd.Context(), client)
			if err != nil {
				return err
			}
			if format == formatJSON {
				return outputJSON(cmd, s)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Overview")
			kpis := newTable(cmd, "KPI", "Value")
			kpis.AppendRows([]table.Row{
				{"Total Sales", dashboard.FormatCurrency(s.TotalSales)},
				{"Total Purchases", dashboard.FormatCurrency(s.TotalPurchases)},
				{"Net Profit", dashboard.FormatCurrency(s.NetProfit)},
				{"Total Receivable", dashboard.FormatCurrency(s.TotalReceivable)},
				{"Total Payable", dashboard.FormatCurrency(s.TotalPayable)},
				{"Top Sales City", s.TopCity},
				{"Top Item Category", s.TopCategory},
			})
			kpis.Render()

			renderAmounts(cmd, "Sales Trend", "Month", s.SalesTrend)
			renderAmounts(cmd, "Top Customers", "Customer", s.TopCustomers)
			renderAmounts(cmd, "Sales By Category", "Category", s.SalesByCategory)
			renderAmounts(cmd, "Sales By City", "City", s.SalesByCity)
			renderAmounts(cmd, "Purchases By State", "State", s.PurchasesByState)

			if len(s.PurchaseYears) > 0 {
				header := table.Row{"Category"}
				for _, year := range s.PurchaseYears {
					header = append(header, year)
				}
				section(cmd, "Purchases By Category")
				t := newTable(cmd)
				t.AppendHeader(header)
				for _, series := range s.PurchasesByCategory {
					row := table.Row{series.Name}
					for _, v := range series.Values {
						row = append(row, dashboard.FormatCompact(v))
					}
					t.AppendRow(row)
				}
				t.Render()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")
	return cmd
}

func renderAmounts(cmd *cobra.Command, title, label string, amounts []dashboard.Amount) {
	if len(amounts) == 0 {
		return
	}
	section(cmd, title)
	t := newTable(cmd, label, "Total", "Short")
	for _, a := range amounts {
		t.AppendRow(table.Row{a.Key, dashboard.FormatCurrency(a.Value), dashboard.FormatCompact(a.Value)})
	}
	t.Render()
}

// section prints a blank line and a heading above the next table.
// go-pretty wraps titles to the table width, so headings are printed apart.
func section(cmd *cobra.Command, title string) {
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", title)
}
