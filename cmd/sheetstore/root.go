package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	sheetstore "github.com/ideamans/go-sheetstore"
	"github.com/ideamans/go-sheetstore/adapters/excel"
	"github.com/ideamans/go-sheetstore/adapters/googlesheets"
	"github.com/ideamans/go-sheetstore/internal/config"
)

// app carries the state shared by every subcommand
type app struct {
	configPath    string
	backend       string
	spreadsheetID string
	excelFile     string
	credentials   string
	verbose       bool

	cfg    *config.Config
	logger *slog.Logger

	// adapter replaces the configured backend when set
	adapter sheetstore.Adapter
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sheetstore",
		Short:         "sheetstore - back office records kept in a spreadsheet",
		Long:          "sheetstore reads and edits the customers, suppliers, payments, receipts and users of a Google Sheets or Excel ledger.",
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			if a.adapter != nil {
				a.cfg = &config.Config{Backend: "custom"}
				return nil
			}

			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.applyFlags(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default "+config.DefaultPath()+")")
	flags.StringVar(&a.backend, "backend", "", "Backend: sheets or excel")
	flags.StringVar(&a.spreadsheetID, "spreadsheet-id", "", "Google Sheets spreadsheet id")
	flags.StringVar(&a.excelFile, "excel-file", "", "Excel workbook used by the excel backend")
	flags.StringVar(&a.credentials, "credentials", "", "Service account JSON key file")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Log every backend call to stderr")

	cmd.AddCommand(newRangeCmd(a))
	cmd.AddCommand(newRecordsCmd(a))
	cmd.AddCommand(newSettingsCmd(a))
	cmd.AddCommand(newDashboardCmd(a))
	cmd.AddCommand(newSheetsCmd(a))
	cmd.AddCommand(newExportCmd(a))
	cmd.AddCommand(newConfigCmd(a))

	return cmd
}

// applyFlags lets explicitly set flags win over the file and environment
func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = a.backend
	}
	if flags.Changed("spreadsheet-id") {
		cfg.SpreadsheetID = a.spreadsheetID
	}
	if flags.Changed("excel-file") {
		cfg.ExcelFile = a.excelFile
	}
	if flags.Changed("credentials") {
		cfg.CredentialsFile = a.credentials
	}
}

// client opens the configured backend
func (a *app) client(ctx context.Context) (*sheetstore.Client, error) {
	adapter, clientConfig, err := a.open(ctx)
	if err != nil {
		return nil, err
	}

	if a.cfg.MaxRetries != nil {
		clientConfig.MaxRetries = *a.cfg.MaxRetries
	}
	if a.cfg.RetryInterval > 0 {
		clientConfig.RetryInterval = a.cfg.RetryInterval
	}
	clientConfig.DisableSheetIDCache = a.cfg.DisableSheetIDCache
	clientConfig.Logger = a.logger

	return sheetstore.New(adapter, clientConfig), nil
}

func (a *app) open(ctx context.Context) (sheetstore.Adapter, *sheetstore.Config, error) {
	if a.adapter != nil {
		return a.adapter, &sheetstore.Config{}, nil
	}

	switch a.cfg.Backend {
	case config.BackendExcel:
		adapter, err := excel.New(&excel.Config{FilePath: a.cfg.ExcelFile})
		if err != nil {
			return nil, nil, err
		}
		return adapter, excel.DefaultClientConfig(), nil

	case config.BackendSheets:
		sheetsConfig := googlesheets.Config{SpreadsheetID: a.cfg.SpreadsheetID}
		var adapter *googlesheets.SheetsAdaptor
		var err error
		switch {
		case a.cfg.Token != "":
			adapter, err = googlesheets.NewWithStaticToken(ctx, sheetsConfig, a.cfg.Token)
		case a.cfg.CredentialsFile != "":
			adapter, err = googlesheets.NewWithJSONKeyFile(ctx, sheetsConfig, a.cfg.CredentialsFile)
		default:
			adapter, err = googlesheets.NewWithDefaultCredentials(ctx, sheetsConfig)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create sheets adapter: %w", err)
		}
		return adapter, googlesheets.DefaultClientConfig(), nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q", a.cfg.Backend)
}
