package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ideamans/go-sheetstore/ledger"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the company settings row",
	}
	cmd.AddCommand(newSettingsGetCmd(a))
	cmd.AddCommand(newSettingsSetCmd(a))
	return cmd
}

func newSettingsGetCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the company settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			client, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			s, err := ledger.GetSettings(cmd.Context(), client)
			if err != nil {
				return err
			}
			if format == formatJSON {
				return outputJSON(cmd, s)
			}

			t := newTable(cmd, "Setting", "Value")
			t.AppendRow([]interface{}{"Company Name", s.CompanyName})
			t.AppendRow([]interface{}{"Address", s.Address})
			t.AppendRow([]interface{}{"Contact", s.Contact})
			t.AppendRow([]interface{}{"Logo URL", s.LogoURL})
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")
	return cmd
}

func newSettingsSetCmd(a *app) *cobra.Command {
	var update ledger.Settings

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change company settings; omitted flags keep their value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("address") && !flags.Changed("contact") && !flags.Changed("logo") {
				return fmt.Errorf("nothing to change: pass --name, --address, --contact or --logo")
			}

			ctx := cmd.Context()
			client, err := a.client(ctx)
			if err != nil {
				return err
			}
			s, err := ledger.GetSettings(ctx, client)
			if err != nil {
				return err
			}

			if flags.Changed("name") {
				s.CompanyName = update.CompanyName
			}
			if flags.Changed("address") {
				s.Address = update.Address
			}
			if flags.Changed("contact") {
				s.Contact = update.Contact
			}
			if flags.Changed("logo") {
				s.LogoURL = update.LogoURL
			}

			if err := ledger.UpdateSettings(ctx, client, *s); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Settings updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&update.CompanyName, "name", "", "Company name")
	cmd.Flags().StringVar(&update.Address, "address", "", "Company address")
	cmd.Flags().StringVar(&update.Contact, "contact", "", "Contact details")
	cmd.Flags().StringVar(&update.LogoURL, "logo", "", "Logo image URL")
	return cmd
}
