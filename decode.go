package sheetstore

import (
	"fmt"
	"strconv"
)

// DecodeRecords pairs the header row of data with every following row.
// When schema is non-empty the header row must equal it exactly.
func DecodeRecords(ref string, data *RangeData, schema []string) ([]*Record, error) {
	records := make([]*Record, 0)
	if data == nil || len(data.Values) == 0 {
		// An entirely empty range has no header to check
		return records, nil
	}

	headers := make([]string, len(data.Values[0]))
	for i, cell := range data.Values[0] {
		headers[i] = CellString(cell)
	}
	if err := checkHeaders(ref, headers, schema); err != nil {
		return nil, err
	}

	headerRow := 1
	if data.Range != "" {
		if parsed, err := ParseA1(data.Range); err == nil && parsed.StartRow > 0 {
			headerRow = parsed.StartRow
		}
	}

	records = make([]*Record, 0, len(data.Values)-1)
	for i := 1; i < len(data.Values); i++ {
		row := data.Values[i]
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = CellString(cell)
		}
		records = append(records, NewRecord(headerRow+i, headers, cells))
	}
	return records, nil
}

// DecodeMatrix renders every cell of data as a string without consuming a header
func DecodeMatrix(data *RangeData) [][]string {
	if data == nil {
		return [][]string{}
	}
	out := make([][]string, len(data.Values))
	for i, row := range data.Values {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			out[i][j] = CellString(cell)
		}
	}
	return out
}

func checkHeaders(ref string, headers, schema []string) error {
	if len(schema) == 0 {
		return nil
	}
	if len(headers) != len(schema) {
		return &DecodeError{
			Ref:    ref,
			Reason: fmt.Sprintf("header has %d columns, expected %d", len(headers), len(schema)),
		}
	}
	for i := range schema {
		if headers[i] != schema[i] {
			return &DecodeError{
				Ref:    ref,
				Reason: fmt.Sprintf("column %s is %q, expected %q", ColumnLetter(i+1), headers[i], schema[i]),
			}
		}
	}
	return nil
}

// CellString renders a cell value returned by a backend as text
func CellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprintf("%v", val)
	}
}
