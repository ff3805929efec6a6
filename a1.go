package sheetstore

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// RowRange addresses the cells StartColumn..EndColumn of a single sheet row
type RowRange struct {
	Sheet       string
	StartColumn string
	EndColumn   string
	Row         int
}

// String renders the range in A1 notation, e.g. Customers!A3:G3
func (r RowRange) String() string {
	return fmt.Sprintf("%s!%s%d:%s%d", QuoteSheetName(r.Sheet), r.StartColumn, r.Row, r.EndColumn, r.Row)
}

// Validate checks the row and column bounds
func (r RowRange) Validate() error {
	if r.Sheet == "" {
		return fmt.Errorf("sheet name is required")
	}
	if r.Row < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidRow, r.Row)
	}
	start, err := ColumnNumber(r.StartColumn)
	if err != nil {
		return err
	}
	end, err := ColumnNumber(r.EndColumn)
	if err != nil {
		return err
	}
	if end < start {
		return fmt.Errorf("end column %s precedes start column %s", r.EndColumn, r.StartColumn)
	}
	return nil
}

// Width returns the number of columns covered by the range
func (r RowRange) Width() int {
	start, err1 := ColumnNumber(r.StartColumn)
	end, err2 := ColumnNumber(r.EndColumn)
	if err1 != nil || err2 != nil || end < start {
		return 0
	}
	return end - start + 1
}

// SpanRow returns the range covering width columns of row starting at column A
func SpanRow(sheet string, row, width int) RowRange {
	return RowRange{
		Sheet:       sheet,
		StartColumn: "A",
		EndColumn:   ColumnLetter(width),
		Row:         row,
	}
}

// ColumnLetter converts a 1-based column number to its letter form (1 -> A, 27 -> AA)
func ColumnLetter(n int) string {
	if n < 1 {
		return ""
	}
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

// ColumnNumber converts a column letter to its 1-based number (A -> 1, AA -> 27)
func ColumnNumber(col string) (int, error) {
	if col == "" {
		return 0, fmt.Errorf("empty column")
	}
	n := 0
	for _, r := range strings.ToUpper(col) {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column %q", col)
		}
		n = n*26 + int(r-'A'+1)
	}
	return n, nil
}

// QuoteSheetName quotes a sheet title for A1 notation when it contains
// anything besides letters, digits and underscores.
func QuoteSheetName(name string) string {
	plain := name != ""
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			plain = false
			break
		}
	}
	if plain {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// A1Range is a parsed A1 reference. Zero rows or empty columns mean unbounded.
type A1Range struct {
	Sheet       string
	StartColumn string
	StartRow    int
	EndColumn   string
	EndRow      int
}

// ParseA1 parses references such as Sheet!A1:J20, 'My Sheet'!A:ZZ, A2:B or Sheet.
// A bare name without cell coordinates is returned as Sheet.
func ParseA1(ref string) (A1Range, error) {
	var out A1Range
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return out, fmt.Errorf("empty range")
	}

	cells := ref
	if i := strings.LastIndex(ref, "!"); i >= 0 {
		out.Sheet = unquoteSheetName(ref[:i])
		cells = ref[i+1:]
	} else if !looksLikeCells(ref) {
		out.Sheet = unquoteSheetName(ref)
		return out, nil
	}

	parts := strings.Split(cells, ":")
	if len(parts) > 2 {
		return out, fmt.Errorf("invalid range %q", ref)
	}
	col, row, err := splitCell(parts[0])
	if err != nil {
		return out, fmt.Errorf("invalid range %q: %w", ref, err)
	}
	out.StartColumn, out.StartRow = col, row
	out.EndColumn, out.EndRow = col, row
	if len(parts) == 2 {
		col, row, err = splitCell(parts[1])
		if err != nil {
			return out, fmt.Errorf("invalid range %q: %w", ref, err)
		}
		out.EndColumn, out.EndRow = col, row
	}
	return out, nil
}

func splitCell(cell string) (string, int, error) {
	cell = strings.ReplaceAll(cell, "$", "")
	i := 0
	for i < len(cell) && unicode.IsLetter(rune(cell[i])) {
		i++
	}
	col := strings.ToUpper(cell[:i])
	if col != "" {
		if _, err := ColumnNumber(col); err != nil {
			return "", 0, err
		}
	}
	if i == len(cell) {
		if col == "" {
			return "", 0, fmt.Errorf("empty cell reference")
		}
		return col, 0, nil
	}
	row, err := strconv.Atoi(cell[i:])
	if err != nil || row < 1 {
		return "", 0, fmt.Errorf("invalid row in %q", cell)
	}
	return col, row, nil
}

func looksLikeCells(s string) bool {
	for _, part := range strings.Split(s, ":") {
		col, _, err := splitCell(part)
		if err != nil || len(col) > 3 {
			return false
		}
	}
	// A bare word like "Customers" also parses as a column, so require a row number
	return strings.ContainsAny(s, "0123456789")
}

func unquoteSheetName(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'")
	}
	return s
}
