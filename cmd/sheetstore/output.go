package main

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	sheetstore "github.com/ideamans/go-sheetstore"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func checkFormat(format string) error {
	if format != formatTable && format != formatJSON {
		return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
	}
	return nil
}

func outputJSON(cmd *cobra.Command, v interface{}) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func newTable(cmd *cobra.Command, header ...interface{}) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	if len(header) > 0 {
		t.AppendHeader(table.Row(header))
	}
	return t
}

type recordOutput struct {
	Row    int               `json:"row"`
	Fields map[string]string `json:"fields"`
}

// outputRecords prints records as a table with a leading row column, or as JSON
func outputRecords(cmd *cobra.Command, format string, headers []string, records []*sheetstore.Record) error {
	if format == formatJSON {
		out := make([]recordOutput, len(records))
		for i, r := range records {
			out[i] = recordOutput{Row: r.Row, Fields: r.Fields}
		}
		return outputJSON(cmd, out)
	}

	if len(headers) == 0 && len(records) > 0 {
		headers = records[0].Headers
	}
	header := table.Row{"Row"}
	for _, h := range headers {
		header = append(header, h)
	}
	t := newTable(cmd)
	t.AppendHeader(header)
	for _, r := range records {
		row := table.Row{r.Row}
		for _, v := range r.ValuesFor(headers) {
			row = append(row, v)
		}
		t.AppendRow(row)
	}
	t.Render()
	return nil
}
