package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	sheetstore "github.com/ideamans/go-sheetstore"
	"github.com/xuri/excelize/v2"
)

// Adapter implements the sheetstore.Adapter interface for a local Excel workbook.
// Defined names resolve like named ranges in a spreadsheet, and the workbook's
// sheet ids stand in for backend sheet ids. Written values are stored the way a
// user typing them would get: numbers and booleans keep their type, and strings
// in canonical number form become numbers. Everything else, including dates,
// formulas and currency text, is stored as text.
type Adapter struct {
	config *Config
	mu     sync.RWMutex
}

// New creates a new Excel adapter with the given configuration
func New(config *Config) (*Adapter, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create a copy of config to avoid external modifications
	configCopy := *config

	return &Adapter{
		config: &configCopy,
	}, nil
}

// Sheet is one tab written by CreateWorkbook
type Sheet struct {
	Title string
	Name  string // Defined name covering the used columns, optional
	Rows  [][]string
}

// CreateWorkbook writes a new workbook at path holding sheets, replacing any existing file
func CreateWorkbook(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("at least one sheet is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	for i, s := range sheets {
		if i == 0 && s.Title != defaultSheet {
			if err := f.SetSheetName(defaultSheet, s.Title); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if i > 0 {
			if _, err := f.NewSheet(s.Title); err != nil {
				return fmt.Errorf("failed to create sheet %s: %w", s.Title, err)
			}
		}

		width := 1
		for r, row := range s.Rows {
			if len(row) > width {
				width = len(row)
			}
			values := make([]interface{}, len(row))
			for c, v := range row {
				values[c] = cellValue(v)
			}
			cell, _ := excelize.CoordinatesToCellName(1, r+1)
			if err := f.SetSheetRow(s.Title, cell, &values); err != nil {
				return fmt.Errorf("failed to write row %d of %s: %w", r+1, s.Title, err)
			}
		}

		if s.Name != "" {
			refersTo := fmt.Sprintf("%s!$A:$%s", sheetstore.QuoteSheetName(s.Title), sheetstore.ColumnLetter(width))
			if err := f.SetDefinedName(&excelize.DefinedName{Name: s.Name, RefersTo: refersTo}); err != nil {
				return fmt.Errorf("failed to define name %s: %w", s.Name, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

// open opens the workbook; callers close it
func (a *Adapter) open(ctx context.Context) (*excelize.File, error) {
	// Check if context is cancelled
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	f, err := excelize.OpenFile(a.config.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to open Excel file: %w", err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidFileFormat, err)
	}
	return f, nil
}

func (a *Adapter) save(f *excelize.File) error {
	if err := f.SaveAs(a.config.FilePath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

// resolve maps a defined name or A1 reference to a sheet title and bounds
func resolve(f *excelize.File, ref string) (sheetstore.A1Range, error) {
	target := ref
	for _, dn := range f.GetDefinedName() {
		if dn.Name == ref {
			target = strings.TrimPrefix(dn.RefersTo, "=")
			break
		}
	}

	bounds, err := sheetstore.ParseA1(target)
	if err != nil {
		return bounds, fmt.Errorf("%w: %s: %v", ErrInvalidRange, ref, err)
	}
	if bounds.Sheet == "" {
		return bounds, fmt.Errorf("%w: %s has no sheet", ErrInvalidRange, ref)
	}
	if idx, err := f.GetSheetIndex(bounds.Sheet); err != nil || idx == -1 {
		return bounds, fmt.Errorf("%w: %s", ErrSheetNotFound, bounds.Sheet)
	}
	return bounds, nil
}

// ReadRange returns the cells of ref with trailing empty cells and rows trimmed
func (a *Adapter) ReadRange(ctx context.Context, ref string) (*sheetstore.RangeData, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	f, err := a.open(ctx)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bounds, err := resolve(f, ref)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(bounds.Sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	firstRow, lastRow := 1, len(rows)
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
		row := rows[r-1]
		cells := make([]interface{}, 0, len(row))
		for c := firstCol; c <= len(row) && (lastCol == 0 || c <= lastCol); c++ {
			cells = append(cells, row[c-1])
		}
		for len(cells) > 0 && cells[len(cells)-1] == "" {
			cells = cells[:len(cells)-1]
		}
		if len(cells) > width {
			width = len(cells)
		}
		values = append(values, cells)
	}
	for len(values) > 0 && len(values[len(values)-1]) == 0 {
		values = values[:len(values)-1]
	}

	sheet := sheetstore.QuoteSheetName(bounds.Sheet)
	data := &sheetstore.RangeData{Values: values}
	if len(values) == 0 {
		data.Range = fmt.Sprintf("%s!%s%d", sheet, sheetstore.ColumnLetter(firstCol), firstRow)
	} else {
		data.Range = fmt.Sprintf("%s!%s%d:%s%d", sheet,
			sheetstore.ColumnLetter(firstCol), firstRow,
			sheetstore.ColumnLetter(firstCol+max(width, 1)-1), firstRow+len(values)-1)
	}
	return data, nil
}

// AppendRow writes values into the row after the last non-empty row of ref's sheet
func (a *Adapter) AppendRow(ctx context.Context, ref string, values []interface{}) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer f.Close()

	bounds, err := resolve(f, ref)
	if err != nil {
		return err
	}

	rows, err := f.GetRows(bounds.Sheet)
	if err != nil {
		return fmt.Errorf("failed to get rows: %w", err)
	}
	last := len(rows)
	for last > 0 && isEmptyRow(rows[last-1]) {
		last--
	}

	startCol := 1
	if bounds.StartColumn != "" {
		startCol, _ = sheetstore.ColumnNumber(bounds.StartColumn)
	}
	if err := writeRow(f, bounds.Sheet, startCol, last+1, values); err != nil {
		return err
	}
	return a.save(f)
}

// UpdateRange overwrites the first row of the bounded range ref
func (a *Adapter) UpdateRange(ctx context.Context, ref string, values []interface{}) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer f.Close()

	bounds, err := resolve(f, ref)
	if err != nil {
		return err
	}
	if bounds.StartRow == 0 || bounds.StartColumn == "" {
		return fmt.Errorf("%w: %s is not bounded", ErrInvalidRange, ref)
	}

	start, _ := sheetstore.ColumnNumber(bounds.StartColumn)
	end, _ := sheetstore.ColumnNumber(bounds.EndColumn)
	if len(values) > end-start+1 {
		return fmt.Errorf("%w: %d values do not fit in %s", ErrInvalidRange, len(values), ref)
	}

	if err := writeRow(f, bounds.Sheet, start, bounds.StartRow, values); err != nil {
		return err
	}
	return a.save(f)
}

// DeleteRows removes rows [start, end) (0-based) of the sheet with the given id
func (a *Adapter) DeleteRows(ctx context.Context, sheetID int64, start, end int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if start < 0 || end <= start {
		return fmt.Errorf("%w: rows %d-%d", ErrInvalidRange, start, end)
	}

	f, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer f.Close()

	sheet, ok := f.GetSheetMap()[int(sheetID)]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrSheetNotFound, sheetID)
	}

	// Remove bottom-up so the remaining indexes stay valid
	for row := end; row > start; row-- {
		if err := f.RemoveRow(sheet, int(row)); err != nil {
			return fmt.Errorf("failed to remove row %d: %w", row, err)
		}
	}
	return a.save(f)
}

// Sheets lists the worksheets ordered by sheet id
func (a *Adapter) Sheets(ctx context.Context) ([]sheetstore.SheetProperties, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	f, err := a.open(ctx)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetMap := f.GetSheetMap()
	ids := make([]int, 0, len(sheetMap))
	for id := range sheetMap {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]sheetstore.SheetProperties, len(ids))
	for i, id := range ids {
		out[i] = sheetstore.SheetProperties{Title: sheetMap[id], SheetID: int64(id)}
	}
	return out, nil
}

func writeRow(f *excelize.File, sheet string, col, row int, values []interface{}) error {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = cellValue(v)
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

// cellValue picks the stored type of a written value.
// Only strings that read back unchanged become numbers, so "007", "1e3" and
// values past 15 significant digits stay text.
func cellValue(v interface{}) interface{} {
	switch v := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
		return v
	case string:
		digits := strings.TrimLeft(strings.NewReplacer("-", "", ".", "").Replace(v), "0")
		if n, err := strconv.ParseFloat(v, 64); err == nil && len(digits) <= 15 && strconv.FormatFloat(n, 'f', -1, 64) == v {
			return n
		}
		return v
	}
	return sheetstore.CellString(v)
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
