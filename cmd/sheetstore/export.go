package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	sheetstore "github.com/ideamans/go-sheetstore"
	"github.com/ideamans/go-sheetstore/adapters/excel"
)

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file.xlsx> <range>...",
		Short: "Copy ranges into a new Excel workbook",
		Long: `Copy ranges into a new Excel workbook, one sheet per range.
Named ranges keep their name in the workbook, so the file can be used with --backend excel.`,
		Example: "  sheetstore export ledger.xlsx RANGECUSTOMERS RANGESUPPLIERS RANGEUSERS",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := a.client(ctx)
			if err != nil {
				return err
			}

			path, refs := args[0], args[1:]
			sheets := make([]excel.Sheet, 0, len(refs))
			seen := make(map[string]string, len(refs))
			for _, ref := range refs {
				data, err := client.Adapter().ReadRange(ctx, ref)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", ref, err)
				}
				sheet := exportSheet(ref, data)
				if prev, ok := seen[sheet.Title]; ok {
					return fmt.Errorf("%s and %s are both on sheet %s", prev, ref, sheet.Title)
				}
				seen[sheet.Title] = ref
				sheets = append(sheets, sheet)
			}

			if err := excel.CreateWorkbook(path, sheets); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d ranges to %s\n", len(sheets), path)
			return nil
		},
	}
	return cmd
}

// exportSheet names the sheet after the backend-reported range, falling back to ref
func exportSheet(ref string, data *sheetstore.RangeData) excel.Sheet {
	sheet := excel.Sheet{Title: ref, Rows: sheetstore.DecodeMatrix(data)}
	if parsed, err := sheetstore.ParseA1(data.Range); err == nil && parsed.Sheet != "" {
		sheet.Title = parsed.Sheet
	}
	if !strings.Contains(ref, "!") && ref != sheet.Title {
		sheet.Name = ref
	}
	return sheet
}
