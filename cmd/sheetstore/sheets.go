package main

import (
	"github.com/spf13/cobra"
)

func newSheetsCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "List the tabs of the spreadsheet with their ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			client, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			sheets, err := client.Sheets(cmd.Context())
			if err != nil {
				return err
			}
			if format == formatJSON {
				return outputJSON(cmd, sheets)
			}

			t := newTable(cmd, "Sheet ID", "Title")
			for _, s := range sheets {
				t.AppendRow([]interface{}{s.SheetID, s.Title})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")
	return cmd
}
