package sheetstore

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one data row keyed by the header row of its range
type Record struct {
	Row     int               // Sheet row index, 1-based and header inclusive (first data row is 2)
	Headers []string          // Header row of the range, in column order
	Fields  map[string]string // Header -> cell; trailing cells missing from the row are absent
}

// NewRecord builds a record from positional values aligned with headers
func NewRecord(row int, headers []string, cells []string) *Record {
	r := &Record{
		Row:     row,
		Headers: headers,
		Fields:  make(map[string]string, len(cells)),
	}
	for i, header := range headers {
		if i >= len(cells) {
			break
		}
		r.Fields[header] = cells[i]
	}
	return r
}

// Get returns the cell for col and whether the row had that column
func (r *Record) Get(col string) (string, bool) {
	v, ok := r.Fields[col]
	return v, ok
}

// Has reports whether the row carried a cell for col
func (r *Record) Has(col string) bool {
	_, ok := r.Fields[col]
	return ok
}

// GetAsString returns the value as string or defaultValue if not found
func (r *Record) GetAsString(col string, defaultValue string) string {
	v, ok := r.Fields[col]
	if !ok {
		return defaultValue
	}
	return v
}

// GetAsInt64 returns the value as int64 or defaultValue if not found or not numeric
func (r *Record) GetAsInt64(col string, defaultValue int64) int64 {
	v, ok := r.Fields[col]
	if !ok {
		return defaultValue
	}
	if i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(normalizeNumber(v), 64); err == nil {
		return int64(f)
	}
	return defaultValue
}

// GetAsFloat64 returns the value as float64 or defaultValue if not found or not numeric
func (r *Record) GetAsFloat64(col string, defaultValue float64) float64 {
	v, ok := r.Fields[col]
	if !ok {
		return defaultValue
	}
	if f, err := strconv.ParseFloat(normalizeNumber(v), 64); err == nil {
		return f
	}
	return defaultValue
}

// GetAsDecimal returns the value as a decimal amount. Currency symbols and
// thousands separators produced by formatted cells are ignored.
func (r *Record) GetAsDecimal(col string, defaultValue decimal.Decimal) decimal.Decimal {
	v, ok := r.Fields[col]
	if !ok {
		return defaultValue
	}
	return ParseAmount(v, defaultValue)
}

// GetAsBool returns the value as bool or defaultValue if not found
func (r *Record) GetAsBool(col string, defaultValue bool) bool {
	v, ok := r.Fields[col]
	if !ok {
		return defaultValue
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultValue
}

// GetAsTime returns the value as time.Time or defaultValue if not found
func (r *Record) GetAsTime(col string, defaultValue time.Time) time.Time {
	v, ok := r.Fields[col]
	if !ok {
		return defaultValue
	}
	if t, ok := ParseDate(v); ok {
		return t
	}
	return defaultValue
}

// Set stores a cell value, adding col to the headers when it is new
func (r *Record) Set(col string, value string) {
	if r.Fields == nil {
		r.Fields = make(map[string]string)
	}
	if !r.Has(col) && !containsString(r.Headers, col) {
		r.Headers = append(r.Headers, col)
	}
	r.Fields[col] = value
}

// Values returns the cells in header order, "" for missing cells
func (r *Record) Values() []interface{} {
	return r.ValuesFor(r.Headers)
}

// ValuesFor returns the cells ordered by headers, "" for missing cells
func (r *Record) ValuesFor(headers []string) []interface{} {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = r.Fields[h]
	}
	return values
}

// Clone returns a deep copy of the record
func (r *Record) Clone() *Record {
	c := &Record{
		Row:     r.Row,
		Headers: append([]string(nil), r.Headers...),
		Fields:  make(map[string]string, len(r.Fields)),
	}
	for k, v := range r.Fields {
		c.Fields[k] = v
	}
	return c
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006",
	"01/02/2006",
	"2-Jan-2006",
	"Jan 2, 2006",
	"2006/01/02",
}

// ParseDate parses the date layouts commonly produced by spreadsheet cells
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseAmount parses a numeric or currency-formatted cell such as "$1,250.50"
func ParseAmount(s string, defaultValue decimal.Decimal) decimal.Decimal {
	d, err := decimal.NewFromString(normalizeNumber(s))
	if err != nil {
		return defaultValue
	}
	return d
}

func normalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	negative := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
	s = strings.Trim(s, "()")
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if negative {
		s = "-" + s
	}
	return s
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
