package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	sheetstore "github.com/ideamans/go-sheetstore"
	"github.com/ideamans/go-sheetstore/ledger"
)

func newRecordsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Manage " + strings.Join(ledger.Names(), ", "),
	}
	cmd.AddCommand(newRecordsListCmd(a))
	cmd.AddCommand(newRecordsGetCmd(a))
	cmd.AddCommand(newRecordsAddCmd(a))
	cmd.AddCommand(newRecordsUpdateCmd(a))
	cmd.AddCommand(newRecordsDeleteCmd(a))
	return cmd
}

// repository opens the backend and binds the named collection
func (a *app) repository(cmd *cobra.Command, name string) (*ledger.Repository, error) {
	coll, err := ledger.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%w (valid collections: %s)", err, strings.Join(ledger.Names(), ", "))
	}
	client, err := a.client(cmd.Context())
	if err != nil {
		return nil, err
	}
	return ledger.NewRepository(client, coll), nil
}

func newRecordsListCmd(a *app) *cobra.Command {
	var (
		search string
		column string
		limit  int
		offset int
		format string
	)

	cmd := &cobra.Command{
		Use:   "list <collection>",
		Short: "List the records of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			repo, err := a.repository(cmd, args[0])
			if err != nil {
				return err
			}

			records, err := repo.Find(cmd.Context(), sheetstore.Query{
				Search:       search,
				SearchColumn: column,
				Limit:        limit,
				Offset:       offset,
			})
			if err != nil {
				return err
			}
			return outputRecords(cmd, format, repo.Collection().Headers, records)
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive text to look for")
	cmd.Flags().StringVar(&column, "column", "", "Restrict --search to one column")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of records")
	cmd.Flags().IntVar(&offset, "offset", 0, "Records to skip")
	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")
	return cmd
}

func newRecordsGetCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "get <collection> <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			repo, err := a.repository(cmd, args[0])
			if err != nil {
				return err
			}
			record, err := repo.Get(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			return outputRecords(cmd, format, repo.Collection().Headers, []*sheetstore.Record{record})
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")
	return cmd
}

func newRecordsAddCmd(a *app) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "add <collection>",
		Short: "Append a record; a blank id is generated",
		Example: `  sheetstore records add customers --set "Customer Name=Acme" --set State=Texas --set City=Austin
  sheetstore records add payments --set "PO ID=PO10001" --set "Amount Paid=250" --set "PMT Mode=Cheque"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseSets(sets)
			if err != nil {
				return err
			}
			repo, err := a.repository(cmd, args[0])
			if err != nil {
				return err
			}
			record, err := repo.Create(cmd.Context(), fields)
			if err != nil {
				return err
			}
			coll := repo.Collection()
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", coll.IDColumn, record.GetAsString(coll.IDColumn, ""))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Column value as Column=Value (repeatable)")
	return cmd
}

func newRecordsUpdateCmd(a *app) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "update <collection> <id>",
		Short: "Change editable columns of a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseSets(sets)
			if err != nil {
				return err
			}
			if len(fields) == 0 {
				return fmt.Errorf("nothing to update: pass at least one --set")
			}
			repo, err := a.repository(cmd, args[0])
			if err != nil {
				return err
			}
			record, err := repo.Update(cmd.Context(), args[1], fields)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (row %d)\n", args[1], record.Row)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Column value as Column=Value (repeatable)")
	return cmd
}

func newRecordsDeleteCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <collection> <id>",
		Short: "Delete a record; rows below it move up",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				reader := bufio.NewReader(cmd.InOrStdin())
				fmt.Fprintf(cmd.ErrOrStderr(), "Delete %s from %s? (y/N) ", args[1], args[0])
				answer, err := reader.ReadString('\n')
				if err != nil && answer == "" {
					return err
				}
				if strings.TrimSpace(strings.ToLower(answer)) != "y" {
					fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled")
					return nil
				}
			}

			repo, err := a.repository(cmd, args[0])
			if err != nil {
				return err
			}
			if err := repo.Delete(cmd.Context(), args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[1])
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")
	return cmd
}

// parseSets turns Column=Value pairs into fields
func parseSets(sets []string) (map[string]string, error) {
	fields := make(map[string]string, len(sets))
	for _, s := range sets {
		col, value, ok := strings.Cut(s, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return nil, fmt.Errorf("invalid --set %q: want Column=Value", s)
		}
		fields[col] = value
	}
	return fields, nil
}
