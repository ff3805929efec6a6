// Package sheetstoretest provides an in-memory spreadsheet backend, an HTTP
// server speaking the Sheets v4 values API on top of it, and a conformance
// suite for sheetstore adapters.
package sheetstoretest

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	sheetstore "github.com/ideamans/go-sheetstore"
)

// Sheet is one tab of a MemoryAdapter
type Sheet struct {
	Title string
	ID    int64
	Rows  [][]string
}

// MemoryAdapter is a sheetstore.Adapter holding sheets in memory.
// Range semantics follow the Sheets API closely enough for the client's needs.
type MemoryAdapter struct {
	mu       sync.Mutex
	sheets   []*Sheet
	names    map[string]string // defined name -> sheet title or A1 range
	failures map[string][]error
	calls    map[string]int
}

// Operation names accepted by Fail and Calls
const (
	OpRead   = "read"
	OpAppend = "append"
	OpUpdate = "update"
	OpDelete = "delete"
	OpSheets = "sheets"
)

// NewMemoryAdapter creates an empty backend
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		names:    make(map[string]string),
		failures: make(map[string][]error),
		calls:    make(map[string]int),
	}
}

// AddSheet adds a tab with the given rows; the first row is normally the header
func (m *MemoryAdapter) AddSheet(title string, id int64, rows [][]string) *MemoryAdapter {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([][]string, len(rows))
	for i, row := range rows {
		copied[i] = append([]string(nil), row...)
	}
	m.sheets = append(m.sheets, &Sheet{Title: title, ID: id, Rows: copied})
	return m
}

// DefineName makes name resolve to refersTo: a sheet title for the whole
// sheet, or an A1 range such as Settings!A2:D2
func (m *MemoryAdapter) DefineName(name, refersTo string) *MemoryAdapter {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.names[name] = refersTo
	return m
}

// RenameSheet changes a sheet title, keeping its id
func (m *MemoryAdapter) RenameSheet(from, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sheets {
		if s.Title == from {
			s.Title = to
		}
	}
	for name, target := range m.names {
		if target == from {
			m.names[name] = to
		} else if rest, ok := strings.CutPrefix(target, sheetstore.QuoteSheetName(from)+"!"); ok {
			m.names[name] = sheetstore.QuoteSheetName(to) + "!" + rest
		}
	}
}

// Fail queues err to be returned by the next call of op
func (m *MemoryAdapter) Fail(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failures[op] = append(m.failures[op], err)
}

// Calls returns how many times op was invoked
func (m *MemoryAdapter) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.calls[op]
}

// Rows returns a copy of the rows of sheet title
func (m *MemoryAdapter) Rows(title string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.sheetByTitle(title)
	if s == nil {
		return nil
	}
	out := make([][]string, len(s.Rows))
	for i, row := range s.Rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// begin counts the call and pops a queued failure; callers hold m.mu
func (m *MemoryAdapter) begin(op string) error {
	m.calls[op]++
	if queue := m.failures[op]; len(queue) > 0 {
		m.failures[op] = queue[1:]
		return queue[0]
	}
	return nil
}

func (m *MemoryAdapter) sheetByTitle(title string) *Sheet {
	for _, s := range m.sheets {
		if s.Title == title {
			return s
		}
	}
	return nil
}

func (m *MemoryAdapter) sheetByID(id int64) *Sheet {
	for _, s := range m.sheets {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// resolve maps a reference to its sheet and bounds
func (m *MemoryAdapter) resolve(ref string) (*Sheet, sheetstore.A1Range, error) {
	target := ref
	if refersTo, ok := m.names[ref]; ok {
		target = refersTo
	}
	parsed, err := sheetstore.ParseA1(target)
	if err != nil || parsed.Sheet == "" {
		return nil, parsed, badRequest(fmt.Sprintf("Unable to parse range: %s", ref))
	}
	s := m.sheetByTitle(parsed.Sheet)
	if s == nil {
		return nil, parsed, badRequest(fmt.Sprintf("Unable to parse range: %s", ref))
	}
	return s, parsed, nil
}

func badRequest(msg string) error {
	return &sheetstore.RemoteError{Op: "memory", StatusCode: http.StatusBadRequest, Message: msg}
}

// ReadRange returns the cells of ref with trailing empty cells and rows trimmed
func (m *MemoryAdapter) ReadRange(ctx context.Context, ref string) (*sheetstore.RangeData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(OpRead); err != nil {
		return nil, err
	}
	s, bounds, err := m.resolve(ref)
	if err != nil {
		return nil, err
	}

	firstRow, lastRow := 1, len(s.Rows)
	if bounds.StartRow > 0 {
		firstRow = bounds.StartRow
	}
	if bounds.EndRow > 0 && bounds.EndRow < lastRow {
		lastRow = bounds.EndRow
	}
	firstCol, lastCol := 1, 0
	if bounds.StartColumn != "" {
		firstCol, _ = sheetstore.ColumnNumber(bounds.StartColumn)
	}
	if bounds.EndColumn != "" {
		lastCol, _ = sheetstore.ColumnNumber(bounds.EndColumn)
	}

	values := make([][]interface{}, 0)
	width := 0
	for r := firstRow; r <= lastRow; r++ {
		row := s.Rows[r-1]
		cells := make([]interface{}, 0, len(row))
		for c := firstCol; c <= len(row) && (lastCol == 0 || c <= lastCol); c++ {
			cells = append(cells, row[c-1])
		}
		cells = trimRow(cells)
		if len(cells) > width {
			width = len(cells)
		}
		values = append(values, cells)
	}
	for len(values) > 0 && len(values[len(values)-1]) == 0 {
		values = values[:len(values)-1]
	}

	data := &sheetstore.RangeData{Values: values}
	if len(values) == 0 {
		data.Range = fmt.Sprintf("%s!%s%d", sheetstore.QuoteSheetName(s.Title), sheetstore.ColumnLetter(firstCol), firstRow)
	} else {
		data.Range = fmt.Sprintf("%s!%s%d:%s%d", sheetstore.QuoteSheetName(s.Title),
			sheetstore.ColumnLetter(firstCol), firstRow,
			sheetstore.ColumnLetter(firstCol+max(width, 1)-1), firstRow+len(values)-1)
	}
	return data, nil
}

func trimRow(cells []interface{}) []interface{} {
	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

// AppendRow appends values after the last non-empty row of the referenced sheet
func (m *MemoryAdapter) AppendRow(ctx context.Context, ref string, values []interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(OpAppend); err != nil {
		return err
	}
	s, _, err := m.resolve(ref)
	if err != nil {
		return err
	}

	last := len(s.Rows)
	for last > 0 && len(trimRow(toCells(s.Rows[last-1]))) == 0 {
		last--
	}
	s.Rows = append(s.Rows[:last], toStrings(values))
	return nil
}

// UpdateRange writes values into the first row of a bounded range
func (m *MemoryAdapter) UpdateRange(ctx context.Context, ref string, values []interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(OpUpdate); err != nil {
		return err
	}
	s, bounds, err := m.resolve(ref)
	if err != nil {
		return err
	}
	if bounds.StartRow == 0 || bounds.StartColumn == "" {
		return badRequest(fmt.Sprintf("Unable to parse range: %s", ref))
	}

	start, _ := sheetstore.ColumnNumber(bounds.StartColumn)
	end, _ := sheetstore.ColumnNumber(bounds.EndColumn)
	if len(values) > end-start+1 {
		return badRequest(fmt.Sprintf(
			"Requested writing within range [%s], but tried writing to column [%s%d]",
			ref, sheetstore.ColumnLetter(start+len(values)-1), bounds.StartRow))
	}

	for len(s.Rows) < bounds.StartRow {
		s.Rows = append(s.Rows, []string{})
	}
	row := s.Rows[bounds.StartRow-1]
	for len(row) < start-1+len(values) {
		row = append(row, "")
	}
	for i, v := range toStrings(values) {
		row[start-1+i] = v
	}
	s.Rows[bounds.StartRow-1] = row
	return nil
}

// DeleteRows removes rows [start, end) (0-based) of the sheet with the given id
func (m *MemoryAdapter) DeleteRows(ctx context.Context, sheetID int64, start, end int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(OpDelete); err != nil {
		return err
	}
	s := m.sheetByID(sheetID)
	if s == nil {
		return badRequest(fmt.Sprintf("Invalid requests[0].deleteDimension: No grid with id: %d", sheetID))
	}
	if start < 0 || end <= start {
		return badRequest("Invalid requests[0].deleteDimension: Invalid dimension range")
	}
	if start >= int64(len(s.Rows)) {
		return nil
	}
	if end > int64(len(s.Rows)) {
		end = int64(len(s.Rows))
	}
	s.Rows = append(s.Rows[:start], s.Rows[end:]...)
	return nil
}

// Sheets lists the tabs in insertion order
func (m *MemoryAdapter) Sheets(ctx context.Context) ([]sheetstore.SheetProperties, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(OpSheets); err != nil {
		return nil, err
	}
	out := make([]sheetstore.SheetProperties, len(m.sheets))
	for i, s := range m.sheets {
		out[i] = sheetstore.SheetProperties{Title: s.Title, SheetID: s.ID}
	}
	return out, nil
}

func toStrings(values []interface{}) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = sheetstore.CellString(v)
	}
	return out
}

func toCells(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}
