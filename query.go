package sheetstore

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition represents a single query condition
type Condition struct {
	Column   string      // Header name
	Operator string      // ==, !=, >, >=, <, <=, in, between, contains
	Value    interface{} // in: []interface{}, between: [2]interface{} or 2-element []interface{}
}

// Query filters loaded records in memory
type Query struct {
	Conditions   []Condition // All must match
	Search       string      // Case-insensitive substring
	SearchColumn string      // Column searched by Search; empty searches every cell
	Limit        int
	Offset       int
}

var validOperators = []string{"==", "!=", ">", ">=", "<", "<=", "in", "between", "contains"}

// evalCondition evaluates a single condition against a record
func evalCondition(record *Record, condition Condition) bool {
	var value interface{}
	if v, ok := record.Fields[condition.Column]; ok {
		value = v
	}

	switch condition.Operator {
	case "==":
		return compareEqual(value, condition.Value)
	case "!=":
		return !compareEqual(value, condition.Value)
	case ">":
		return compareNumbers(value, condition.Value, func(a, b float64) bool { return a > b })
	case ">=":
		return compareNumbers(value, condition.Value, func(a, b float64) bool { return a >= b })
	case "<":
		return compareNumbers(value, condition.Value, func(a, b float64) bool { return a < b })
	case "<=":
		return compareNumbers(value, condition.Value, func(a, b float64) bool { return a <= b })
	case "in":
		return compareIn(value, condition.Value)
	case "between":
		return compareBetween(value, condition.Value)
	case "contains":
		return value != nil && strings.Contains(
			strings.ToLower(value.(string)),
			strings.ToLower(fmt.Sprintf("%v", condition.Value)))
	default:
		return false
	}
}

// MatchesQuery checks if a record matches the search term and all conditions
func (r *Record) MatchesQuery(query Query) bool {
	if query.Search != "" && !r.matchesSearch(query.Search, query.SearchColumn) {
		return false
	}
	for _, condition := range query.Conditions {
		if !evalCondition(r, condition) {
			return false
		}
	}
	return true
}

func (r *Record) matchesSearch(term, column string) bool {
	term = strings.ToLower(term)
	if column != "" {
		return strings.Contains(strings.ToLower(r.Fields[column]), term)
	}
	parts := make([]string, 0, len(r.Headers))
	for _, h := range r.Headers {
		if v, ok := r.Fields[h]; ok {
			parts = append(parts, v)
		}
	}
	return strings.Contains(strings.ToLower(strings.Join(parts, " ")), term)
}

// compareEqual compares two values for equality
func compareEqual(a, b interface{}) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	if af, ok := toFloat64(a); ok {
		if bf, ok := toFloat64(b); ok {
			return af == bf
		}
	}

	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func compareNumbers(a, b interface{}, cmp func(a, b float64) bool) bool {
	af, ok := toFloat64(a)
	if !ok {
		return false
	}
	bf, ok := toFloat64(b)
	if !ok {
		return false
	}
	return cmp(af, bf)
}

// compareIn checks if a is in the list b
func compareIn(a, b interface{}) bool {
	list, ok := b.([]interface{})
	if !ok {
		return false
	}

	for _, item := range list {
		if compareEqual(a, item) {
			return true
		}
	}
	return false
}

// compareBetween checks if a is between b[0] and b[1], inclusive
func compareBetween(a, b interface{}) bool {
	var min, max interface{}

	switch v := b.(type) {
	case [2]interface{}:
		min, max = v[0], v[1]
	case []interface{}:
		if len(v) != 2 {
			return false
		}
		min, max = v[0], v[1]
	default:
		return false
	}

	return compareNumbers(a, min, func(x, y float64) bool { return x >= y }) &&
		compareNumbers(a, max, func(x, y float64) bool { return x <= y })
}

// toFloat64 converts numeric values and numeric cell text to float64
func toFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case string:
		if strings.TrimSpace(val) == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(normalizeNumber(val), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ApplyQuery filters records based on query conditions. Records keep their Row,
// so row indexes looked up in the result still address the sheet correctly.
func ApplyQuery(records []*Record, query Query) []*Record {
	results := make([]*Record, 0)

	for _, record := range records {
		if record.MatchesQuery(query) {
			results = append(results, record)
		}
	}

	if query.Offset > 0 {
		if query.Offset >= len(results) {
			return []*Record{}
		}
		results = results[query.Offset:]
	}

	if query.Limit > 0 && query.Limit < len(results) {
		results = results[:query.Limit]
	}

	return results
}

// ValidateQuery validates query structure
func ValidateQuery(query Query) error {
	for i, cond := range query.Conditions {
		if !containsString(validOperators, cond.Operator) {
			return fmt.Errorf("invalid operator '%s' in condition %d", cond.Operator, i)
		}

		if cond.Operator == "in" {
			if _, ok := cond.Value.([]interface{}); !ok {
				return fmt.Errorf("operator 'in' requires []interface{} value in condition %d", i)
			}
		}

		if cond.Operator == "between" {
			valid := false
			switch v := cond.Value.(type) {
			case [2]interface{}:
				valid = true
			case []interface{}:
				valid = len(v) == 2
			}
			if !valid {
				return fmt.Errorf("operator 'between' requires [2]interface{} or []interface{} with 2 elements in condition %d", i)
			}
		}

		if cond.Column == "" {
			return fmt.Errorf("empty column name in condition %d", i)
		}
	}

	if query.Limit < 0 {
		return fmt.Errorf("limit must be non-negative")
	}
	if query.Offset < 0 {
		return fmt.Errorf("offset must be non-negative")
	}

	return nil
}
