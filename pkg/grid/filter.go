package grid

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/errors"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/format"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/schema"
)

// Filter decides whether a row stays visible.
type Filter interface {
	Evaluate(row DisplayRow) (bool, error)
	Description() string
}

// Operator names a filter condition.
type Operator string

const (
	OpContains           Operator = "contains"
	OpNotContains        Operator = "notContains"
	OpEquals             Operator = "equals"
	OpNotEqual           Operator = "notEqual"
	OpStartsWith         Operator = "startsWith"
	OpEndsWith           Operator = "endsWith"
	OpLessThan           Operator = "lessThan"
	OpLessThanOrEqual    Operator = "lessThanOrEqual"
	OpGreaterThan        Operator = "greaterThan"
	OpGreaterThanOrEqual Operator = "greaterThanOrEqual"
	OpInRange            Operator = "inRange"
	OpBefore             Operator = "before"
	OpAfter              Operator = "after"
	OpBlank              Operator = "blank"
	OpNotBlank           Operator = "notBlank"
)

// TextFilter matches the string form of a raw cell, ignoring case.
type TextFilter struct {
	Field string
	Op    Operator
	Value string
}

// Evaluate implements the Filter interface.
func (f *TextFilter) Evaluate(row DisplayRow) (bool, error) {
	raw := row.Raw[f.Field]
	switch f.Op {
	case OpBlank:
		return isBlank(raw), nil
	case OpNotBlank:
		return !isBlank(raw), nil
	}

	cell := strings.ToLower(schema.CellText(raw))
	want := strings.ToLower(f.Value)
	switch f.Op {
	case OpContains:
		return strings.Contains(cell, want), nil
	case OpNotContains:
		return !strings.Contains(cell, want), nil
	case OpEquals:
		return cell == want, nil
	case OpNotEqual:
		return cell != want, nil
	case OpStartsWith:
		return strings.HasPrefix(cell, want), nil
	case OpEndsWith:
		return strings.HasSuffix(cell, want), nil
	default:
		return false, unsupported("text", f.Op)
	}
}

// Description implements the Filter interface.
func (f *TextFilter) Description() string {
	return describe(f.Field, f.Op, fmt.Sprintf("%q", f.Value))
}

// NumberFilter compares the numeric value of a raw cell. Cells that are not
// numbers only match notEqual and blank.
type NumberFilter struct {
	Field string
	Op    Operator
	Value float64
	To    float64
}

// Evaluate implements the Filter interface.
func (f *NumberFilter) Evaluate(row DisplayRow) (bool, error) {
	raw := row.Raw[f.Field]
	switch f.Op {
	case OpBlank:
		return isBlank(raw), nil
	case OpNotBlank:
		return !isBlank(raw), nil
	}

	n, ok := format.ParseNumber(raw)
	if !ok {
		return f.Op == OpNotEqual, nil
	}
	switch f.Op {
	case OpEquals:
		return n == f.Value, nil
	case OpNotEqual:
		return n != f.Value, nil
	case OpLessThan:
		return n < f.Value, nil
	case OpLessThanOrEqual:
		return n <= f.Value, nil
	case OpGreaterThan:
		return n > f.Value, nil
	case OpGreaterThanOrEqual:
		return n >= f.Value, nil
	case OpInRange:
		return n >= f.Value && n <= f.To, nil
	default:
		return false, unsupported("number", f.Op)
	}
}

// Description implements the Filter interface.
func (f *NumberFilter) Description() string {
	if f.Op == OpInRange {
		return describe(f.Field, f.Op, fmt.Sprintf("%g..%g", f.Value, f.To))
	}
	return describe(f.Field, f.Op, fmt.Sprintf("%g", f.Value))
}

// DateFilter compares the calendar day of a raw cell in the formatter's
// location. Bounds of inRange are inclusive.
type DateFilter struct {
	Field     string
	Op        Operator
	Value     time.Time
	To        time.Time
	Formatter *format.Formatter
}

// Evaluate implements the Filter interface.
func (f *DateFilter) Evaluate(row DisplayRow) (bool, error) {
	raw := row.Raw[f.Field]
	switch f.Op {
	case OpBlank:
		return isBlank(raw), nil
	case OpNotBlank:
		return !isBlank(raw), nil
	}

	fm := f.Formatter
	if fm == nil {
		fm = format.Default()
	}
	t, ok := fm.ParseDate(raw)
	if !ok {
		return f.Op == OpNotEqual, nil
	}

	loc := fm.Location()
	day, from := dayOf(t, loc), dayOf(f.Value, loc)
	switch f.Op {
	case OpEquals:
		return day == from, nil
	case OpNotEqual:
		return day != from, nil
	case OpBefore, OpLessThan:
		return day < from, nil
	case OpAfter, OpGreaterThan:
		return day > from, nil
	case OpInRange:
		return day >= from && day <= dayOf(f.To, loc), nil
	default:
		return false, unsupported("date", f.Op)
	}
}

// Description implements the Filter interface.
func (f *DateFilter) Description() string {
	if f.Op == OpInRange {
		return describe(f.Field, f.Op, f.Value.Format(schema.DateLayout)+".."+f.To.Format(schema.DateLayout))
	}
	return describe(f.Field, f.Op, f.Value.Format(schema.DateLayout))
}

// dayOf returns a sortable yyyymmdd key.
func dayOf(t time.Time, loc *time.Location) int {
	y, m, d := t.In(loc).Date()
	return y*10000 + int(m)*100 + d
}

// Blank is the set key of empty cells.
const Blank = "(blank)"

// SetFilter keeps rows whose cell key is one of Values. Boolean columns key
// cells as "true" or "false"; other columns use the cell's string form.
// Empty cells have the key Blank.
type SetFilter struct {
	Field   string
	Values  []string
	Boolean bool
}

// Key returns the set key of a raw cell.
func (f *SetFilter) Key(value interface{}) string {
	if isBlank(value) {
		return Blank
	}
	if f.Boolean {
		if format.ToBool(value) {
			return "true"
		}
		return "false"
	}
	return schema.CellText(value)
}

// Evaluate implements the Filter interface.
func (f *SetFilter) Evaluate(row DisplayRow) (bool, error) {
	key := f.Key(row.Raw[f.Field])
	for _, v := range f.Values {
		if v == key {
			return true, nil
		}
	}
	return false, nil
}

// Description implements the Filter interface.
func (f *SetFilter) Description() string {
	return fmt.Sprintf("%s in [%s]", f.Field, strings.Join(f.Values, ", "))
}

// QuickFilter matches rows containing every whitespace separated word of
// Text in at least one cell. Both the formatted and raw text of each cell
// are searched, ignoring case.
type QuickFilter struct {
	Text string
}

// Evaluate implements the Filter interface.
func (f *QuickFilter) Evaluate(row DisplayRow) (bool, error) {
	words := strings.Fields(strings.ToLower(f.Text))
	if len(words) == 0 {
		return true, nil
	}

	fields := make([]string, 0, len(row.Raw))
	for field := range row.Raw {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	haystack := make([]string, 0, 2*len(fields))
	for _, field := range fields {
		haystack = append(haystack, strings.ToLower(schema.CellText(row.Raw[field])))
		if v, ok := row.Display[field]; ok {
			haystack = append(haystack, strings.ToLower(v.String()))
		}
	}

	for _, w := range words {
		found := false
		for _, h := range haystack {
			if strings.Contains(h, w) {
				found = true
				break
			}
		}
		if !found {
			return false, nil
		}
	}
	return true, nil
}

// Description implements the Filter interface.
func (f *QuickFilter) Description() string {
	return fmt.Sprintf("any contains %q", f.Text)
}

// LogicOp represents a logical operator for combining filters.
type LogicOp int

const (
	// LogicAND requires all filters to pass.
	LogicAND LogicOp = iota
	// LogicOR requires at least one filter to pass.
	LogicOR
)

// String returns the string representation of a LogicOp.
func (op LogicOp) String() string {
	switch op {
	case LogicAND:
		return "AND"
	case LogicOR:
		return "OR"
	default:
		return fmt.Sprintf("unknown(%d)", op)
	}
}

// CompositeFilter combines multiple filters with AND or OR logic.
type CompositeFilter struct {
	Filters []Filter
	Logic   LogicOp
}

// Evaluate implements the Filter interface. An empty composite passes every row.
func (f *CompositeFilter) Evaluate(row DisplayRow) (bool, error) {
	if len(f.Filters) == 0 {
		return true, nil
	}

	switch f.Logic {
	case LogicAND:
		for _, filter := range f.Filters {
			passes, err := filter.Evaluate(row)
			if err != nil {
				return false, err
			}
			if !passes {
				return false, nil
			}
		}
		return true, nil

	case LogicOR:
		for _, filter := range f.Filters {
			passes, err := filter.Evaluate(row)
			if err != nil {
				return false, err
			}
			if passes {
				return true, nil
			}
		}
		return false, nil

	default:
		return false, errors.Newf(errors.ErrorTypeValidation, "unknown logic operator %d", f.Logic)
	}
}

// Description implements the Filter interface.
func (f *CompositeFilter) Description() string {
	if len(f.Filters) == 0 {
		return "(no filters)"
	}
	if len(f.Filters) == 1 {
		return f.Filters[0].Description()
	}

	parts := make([]string, len(f.Filters))
	for i, filter := range f.Filters {
		parts[i] = filter.Description()
	}
	return "(" + strings.Join(parts, " "+f.Logic.String()+" ") + ")"
}

// ApplyFilter returns the rows that pass f in their original order. A nil
// filter keeps every row.
func ApplyFilter(rows []DisplayRow, f Filter) ([]DisplayRow, error) {
	if f == nil {
		out := make([]DisplayRow, len(rows))
		copy(out, rows)
		return out, nil
	}

	out := make([]DisplayRow, 0, len(rows))
	for _, row := range rows {
		ok, err := f.Evaluate(row)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, row)
		}
	}
	return out, nil
}

// FilterFor builds the column filter of def from an operator and its
// operands, parsed according to the column's filter kind.
func FilterFor(def ColumnDef, op Operator, operands ...string) (Filter, error) {
	return defaultPolicy.FilterFor(def, op, operands...)
}

// FilterFor builds the column filter of def from an operator and its
// operands. Dates are read in the policy formatter's location.
func (p *Policy) FilterFor(def ColumnDef, op Operator, operands ...string) (Filter, error) {
	kind := def.Config.FilterKind
	if kind == "" {
		kind = p.ColumnConfig(def.Type).FilterKind
	}

	if kind == FilterSet {
		return &SetFilter{Field: def.Field, Values: operands, Boolean: def.Type == schema.TypeBoolean}, nil
	}

	if !operators[kind][op] {
		return nil, unsupported(string(kind), op)
	}

	if op == OpBlank || op == OpNotBlank {
		switch kind {
		case FilterNumber:
			return &NumberFilter{Field: def.Field, Op: op}, nil
		case FilterDate:
			return &DateFilter{Field: def.Field, Op: op, Formatter: p.formatter}, nil
		default:
			return &TextFilter{Field: def.Field, Op: op}, nil
		}
	}

	want := 1
	if op == OpInRange {
		want = 2
	}
	if len(operands) != want {
		return nil, errors.Newf(errors.ErrorTypeValidation, "%s filter on %q takes %d operand(s), got %d", op, def.Field, want, len(operands))
	}

	switch kind {
	case FilterNumber:
		nf := &NumberFilter{Field: def.Field, Op: op}
		vals := []*float64{&nf.Value, &nf.To}
		for i, s := range operands {
			n, ok := format.ParseNumber(s)
			if !ok {
				return nil, errors.Newf(errors.ErrorTypeValidation, "filter on %q: %q is not a number", def.Field, s)
			}
			*vals[i] = n
		}
		return nf, nil

	case FilterDate:
		df := &DateFilter{Field: def.Field, Op: op, Formatter: p.formatter}
		vals := []*time.Time{&df.Value, &df.To}
		for i, s := range operands {
			t, ok := p.formatter.ParseDate(s)
			if !ok {
				return nil, errors.Newf(errors.ErrorTypeValidation, "filter on %q: %q is not a date", def.Field, s)
			}
			*vals[i] = t
		}
		return df, nil

	default:
		return &TextFilter{Field: def.Field, Op: op, Value: operands[0]}, nil
	}
}

var operators = map[FilterKind]map[Operator]bool{
	FilterText: {
		OpContains: true, OpNotContains: true, OpEquals: true, OpNotEqual: true,
		OpStartsWith: true, OpEndsWith: true, OpBlank: true, OpNotBlank: true,
	},
	FilterNumber: {
		OpEquals: true, OpNotEqual: true, OpLessThan: true, OpLessThanOrEqual: true,
		OpGreaterThan: true, OpGreaterThanOrEqual: true, OpInRange: true, OpBlank: true, OpNotBlank: true,
	},
	FilterDate: {
		OpEquals: true, OpNotEqual: true, OpBefore: true, OpAfter: true,
		OpInRange: true, OpBlank: true, OpNotBlank: true,
	},
}

func isBlank(v interface{}) bool {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return v == nil
}

func describe(field string, op Operator, operand string) string {
	return fmt.Sprintf("%s %s %s", field, op, operand)
}

func unsupported(kind string, op Operator) error {
	return errors.Newf(errors.ErrorTypeValidation, "%s filter does not support %q", kind, op)
}
