package sheetstore

// IndexOf returns the position of the first record whose column equals id, or -1
func IndexOf(records []*Record, column, id string) int {
	for i, r := range records {
		if v, ok := r.Fields[column]; ok && v == id {
			return i
		}
	}
	return -1
}

// FindRecord returns the first record whose column equals id
func FindRecord(records []*Record, column, id string) (*Record, error) {
	i := IndexOf(records, column, id)
	if i < 0 {
		return nil, &NotFoundError{Kind: "record", Name: id}
	}
	return records[i], nil
}

// RowIndexOf returns the sheet row index of the record whose column equals id.
// The result is only valid until the next append or delete on the same sheet.
func RowIndexOf(records []*Record, column, id string) (int, error) {
	r, err := FindRecord(records, column, id)
	if err != nil {
		return 0, err
	}
	return r.Row, nil
}

// ColumnValues collects the values of column across records, skipping missing cells
func ColumnValues(records []*Record, column string) []string {
	values := make([]string, 0, len(records))
	for _, r := range records {
		if v, ok := r.Fields[column]; ok {
			values = append(values, v)
		}
	}
	return values
}
