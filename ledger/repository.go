package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sheetstore "github.com/ideamans/go-sheetstore"
)

// ErrOutstandingBalance is returned when a delete would drop a record that still carries money
var ErrOutstandingBalance = errors.New("outstanding balance")

// DateLayout is the layout written into date columns
const DateLayout = "2006-01-02"

// Repository runs the record operations of one collection.
// It keeps no rows between calls: every mutation re-reads the range and
// computes the target row from that read.
type Repository struct {
	client *sheetstore.Client
	coll   Collection
	now    func() time.Time
}

// NewRepository binds a collection to a client
func NewRepository(client *sheetstore.Client, coll Collection) *Repository {
	return &Repository{client: client, coll: coll, now: time.Now}
}

// Collection returns the descriptor the repository works on
func (r *Repository) Collection() Collection {
	return r.coll
}

// List returns every record of the collection in sheet order
func (r *Repository) List(ctx context.Context) ([]*sheetstore.Record, error) {
	return r.client.Read(ctx, r.coll.Range)
}

// Find returns the records matching query
func (r *Repository) Find(ctx context.Context, query sheetstore.Query) ([]*sheetstore.Record, error) {
	if err := sheetstore.ValidateQuery(query); err != nil {
		return nil, fmt.Errorf("%w: %v", sheetstore.ErrValidation, err)
	}
	records, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return sheetstore.ApplyQuery(records, query), nil
}

// Get returns the record with the given identifier
func (r *Repository) Get(ctx context.Context, id string) (*sheetstore.Record, error) {
	records, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return sheetstore.FindRecord(records, r.coll.IDColumn, id)
}

// Create appends a record built from fields. A blank identifier is generated,
// referenced records fill their columns, defaults and zero columns are filled in,
// and the row is written in header order.
// The returned record has Row 0 because the appended position is not reported back.
func (r *Repository) Create(ctx context.Context, fields map[string]string) (*sheetstore.Record, error) {
	refs := make([]string, 0, 1+len(r.coll.References))
	refs = append(refs, r.coll.Range)
	for _, ref := range r.coll.References {
		refs = append(refs, ref.Range)
	}
	results, err := r.client.ReadAll(ctx, refs...)
	if err != nil {
		return nil, err
	}
	records := results[0]

	values := make(map[string]string, len(fields))
	for k, v := range fields {
		values[k] = strings.TrimSpace(v)
	}
	for i, ref := range r.coll.References {
		if err := ref.resolve(values, results[i+1]); err != nil {
			return nil, err
		}
	}
	for col, def := range r.coll.Defaults {
		if values[col] == "" {
			values[col] = def
		}
	}
	for _, col := range r.coll.ZeroColumns {
		if values[col] == "" {
			values[col] = "0"
		}
	}
	if r.coll.DateColumn != "" && values[r.coll.DateColumn] == "" {
		values[r.coll.DateColumn] = r.now().Format(DateLayout)
	}

	existing := sheetstore.ColumnValues(records, r.coll.IDColumn)
	if id := values[r.coll.IDColumn]; id == "" {
		id, err := r.coll.IDs.NextID(existing)
		if err != nil {
			return nil, err
		}
		values[r.coll.IDColumn] = id
	} else if sheetstore.IndexOf(records, r.coll.IDColumn, id) >= 0 {
		return nil, fmt.Errorf("%w: %s %s already exists", sheetstore.ErrValidation, r.coll.IDColumn, id)
	}

	if err := requireColumns(values, r.coll.Required); err != nil {
		return nil, err
	}
	if r.coll.Validate != nil {
		if err := r.coll.Validate(values); err != nil {
			return nil, err
		}
	}

	row := make([]string, len(r.coll.Headers))
	for i, h := range r.coll.Headers {
		row[i] = values[h]
	}
	record := sheetstore.NewRecord(0, r.coll.Headers, row)
	if err := r.client.Append(ctx, r.coll.Range, record.ValuesFor(r.coll.Headers)); err != nil {
		return nil, err
	}
	return record, nil
}

// Update rewrites the editable columns of the record with the given identifier.
// Columns missing from fields keep their stored value.
func (r *Repository) Update(ctx context.Context, id string, fields map[string]string) (*sheetstore.Record, error) {
	if !r.coll.Editable() {
		return nil, fmt.Errorf("%w: %s", sheetstore.ErrReadOnlyCollection, r.coll.Name)
	}

	editable := r.coll.EditableHeaders()
	for col, v := range fields {
		switch {
		case col == r.coll.IDColumn:
			if v != id {
				return nil, fmt.Errorf("%w: %s cannot be changed", sheetstore.ErrValidation, col)
			}
		case !contains(editable, col) || contains(r.coll.KeepOnUpdate, col):
			return nil, fmt.Errorf("%w: %s is not editable", sheetstore.ErrValidation, col)
		}
	}

	records, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	existing, err := sheetstore.FindRecord(records, r.coll.IDColumn, id)
	if err != nil {
		return nil, err
	}

	updated := existing.Clone()
	for col, v := range fields {
		updated.Set(col, strings.TrimSpace(v))
	}
	if err := requireColumns(updated.Fields, r.coll.Required); err != nil {
		return nil, err
	}

	target := sheetstore.SpanRow(r.coll.Sheet, existing.Row, len(editable))
	if err := r.client.UpdateRow(ctx, target, updated.ValuesFor(editable)); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the record with the given identifier. Rows below it move up.
func (r *Repository) Delete(ctx context.Context, id string) error {
	records, err := r.List(ctx)
	if err != nil {
		return err
	}
	existing, err := sheetstore.FindRecord(records, r.coll.IDColumn, id)
	if err != nil {
		return err
	}
	if r.coll.CanDelete != nil {
		if err := r.coll.CanDelete(existing); err != nil {
			return err
		}
	}
	return r.client.DeleteRow(ctx, r.coll.Sheet, existing.Row)
}

func requireColumns(values map[string]string, required []string) error {
	var missing []string
	for _, col := range required {
		if strings.TrimSpace(values[col]) == "" {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", sheetstore.ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
