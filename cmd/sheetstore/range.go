package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newRangeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "range",
		Short: "Read and write raw ranges",
	}
	cmd.AddCommand(newRangeReadCmd(a))
	cmd.AddCommand(newRangeAppendCmd(a))
	cmd.AddCommand(newRangeUpdateCmd(a))
	cmd.AddCommand(newRangeDeleteRowCmd(a))
	return cmd
}

func newRangeReadCmd(a *app) *cobra.Command {
	var (
		raw    bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "read <range>",
		Short: "Print a range as records keyed by its header row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			ctx := cmd.Context()
			client, err := a.client(ctx)
			if err != nil {
				return err
			}

			if !raw {
				records, err := client.Read(ctx, args[0])
				if err != nil {
					return err
				}
				return outputRecords(cmd, format, nil, records)
			}

			rows, err := client.ReadRaw(ctx, args[0])
			if err != nil {
				return err
			}
			if format == formatJSON {
				return outputJSON(cmd, rows)
			}
			t := newTable(cmd)
			for _, row := range rows {
				r := make(table.Row, len(row))
				for i, v := range row {
					r[i] = v
				}
				t.AppendRow(r)
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print every row, including the first, without header mapping")
	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")
	return cmd
}

func newRangeAppendCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "append <range> <value>...",
		Short: "Append one row of values after the last row of a range",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := a.client(ctx)
			if err != nil {
				return err
			}
			if err := client.Append(ctx, args[0], toValues(args[1:])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Appended %d values to %s\n", len(args)-1, args[0])
			return nil
		},
	}
}

func newRangeUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update <range> <value>...",
		Short: "Overwrite a bounded single-row range such as Users!A3:F3",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := a.client(ctx)
			if err != nil {
				return err
			}
			if err := client.Update(ctx, args[0], toValues(args[1:])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", args[0])
			return nil
		},
	}
}

func newRangeDeleteRowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-row <sheet> <row>",
		Short: "Delete one row of a sheet (1-based, the header is row 1)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid row %q: %w", args[1], err)
			}
			ctx := cmd.Context()
			client, err := a.client(ctx)
			if err != nil {
				return err
			}
			if err := client.DeleteRow(ctx, args[0], row); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted row %d of %s\n", row, args[0])
			return nil
		},
	}
}

func toValues(args []string) []interface{} {
	values := make([]interface{}, len(args))
	for i, v := range args {
		values[i] = v
	}
	return values
}
