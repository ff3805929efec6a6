package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ideamans/go-sheetstore/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or write the configuration",
		// Skip validation so an incomplete setup can still be inspected
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			path := a.configPath
			if _, err := os.Stat(path); path != "" && errors.Is(err, fs.ErrNotExist) {
				// save may create the file
				path = ""
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			a.applyFlags(cmd, cfg)
			a.cfg = cfg
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := yaml.Marshal(a.cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			if a.cfg.Token != "" {
				fmt.Fprintln(cmd.OutOrStdout(), "# token: set from "+config.EnvToken)
			}
			if err := a.cfg.Validate(); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "# invalid: "+err.Error())
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "save",
		Short: "Write the effective configuration, including flags, to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			path := a.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if err := a.cfg.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
			return nil
		},
	})

	return cmd
}
