// Package models provides the row, column and table types shared by the
// inference, formatting, grid and export packages.
//
// Rows are owned by the caller. Nothing in this module mutates a Row after it
// has been loaded; display values live in separate structures.
package models

import (
	"sort"
)

// IDField is the row key that is never formatted for display.
const IDField = "id"

// Row maps a column field to its raw cell value. Accepted values are nil,
// string, bool, the Go numeric kinds and json.Number. Loaders may also produce
// nested maps and slices for scraped entities.
type Row map[string]interface{}

// Get returns the raw value for field and whether the key was present.
func (r Row) Get(field string) (interface{}, bool) {
	v, ok := r[field]
	return v, ok
}

// Column identifies a field and its display label.
type Column struct {
	// ID is a stable column identifier; it defaults to Field
	ID string `json:"id" yaml:"id"`
	// Field is the key into Row
	Field string `json:"field" yaml:"field"`
	// Name is the display label
	Name string `json:"name" yaml:"name"`
	// DeclaredType is a type name carried by the source document, if any
	DeclaredType string `json:"declared_type,omitempty" yaml:"declared_type,omitempty"`
	// Required mirrors the source document's column flag
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`
}

// NewColumn creates a column whose ID and display name are the field itself.
func NewColumn(field string) Column {
	return Column{ID: field, Field: field, Name: field}
}

// Key returns the column id, falling back to the field.
func (c Column) Key() string {
	if c.ID != "" {
		return c.ID
	}
	return c.Field
}

// Label returns the display name, falling back to the field.
func (c Column) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Field
}

// Table is a named set of columns and rows.
type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// NewTable builds a table, deriving columns from the rows when none are given.
func NewTable(name string, columns []Column, rows []Row) *Table {
	if len(columns) == 0 {
		columns = ColumnsFromRows(rows)
	}
	return &Table{Name: name, Columns: columns, Rows: rows}
}

// Fields returns the column fields in column order.
func (t *Table) Fields() []string {
	fields := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		fields[i] = c.Field
	}
	return fields
}

// Column looks up a column by field.
func (t *Table) Column(field string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Field == field {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnsFromRows derives columns from bare maps. Map iteration carries no
// order, so the id field comes first and the remaining fields are sorted.
func ColumnsFromRows(rows []Row) []Column {
	seen := make(map[string]struct{})
	hasID := false
	var fields []string

	for _, row := range rows {
		for field := range row {
			if _, ok := seen[field]; ok {
				continue
			}
			seen[field] = struct{}{}
			if field == IDField {
				hasID = true
				continue
			}
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)

	columns := make([]Column, 0, len(fields)+1)
	if hasID {
		columns = append(columns, NewColumn(IDField))
	}
	for _, field := range fields {
		columns = append(columns, NewColumn(field))
	}
	return columns
}

// FieldOrder records field names in the order they are first seen.
type FieldOrder struct {
	seen   map[string]struct{}
	fields []string
}

// NewFieldOrder creates an empty FieldOrder.
func NewFieldOrder() *FieldOrder {
	return &FieldOrder{seen: make(map[string]struct{})}
}

// Add records field if it has not been seen before.
func (o *FieldOrder) Add(field string) {
	if _, ok := o.seen[field]; ok {
		return
	}
	o.seen[field] = struct{}{}
	o.fields = append(o.fields, field)
}

// Fields returns the recorded fields in first-seen order.
func (o *FieldOrder) Fields() []string {
	out := make([]string, len(o.fields))
	copy(out, o.fields)
	return out
}

// Columns converts the recorded fields to columns.
func (o *FieldOrder) Columns() []Column {
	columns := make([]Column, len(o.fields))
	for i, field := range o.fields {
		columns[i] = NewColumn(field)
	}
	return columns
}
