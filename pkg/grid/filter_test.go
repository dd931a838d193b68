package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/errors"
)

func defFor(t *testing.T, defs []ColumnDef, field string) ColumnDef {
	t.Helper()
	d, ok := findDef(defs, field)
	require.True(t, ok, "no column %q", field)
	return d
}

func TestColumnFilters(t *testing.T) {
	p := testPolicy()
	defs, rows := processedFixture(t)

	tests := []struct {
		name     string
		field    string
		op       Operator
		operands []string
		want     []string
	}{
		{"number greater", "score", OpGreaterThan, []string{"100"}, []string{"r1"}},
		{"number range", "score", OpInRange, []string{"50", "2000"}, []string{"r1", "r2"}},
		{"number not equal keeps non-numbers", "score", OpNotEqual, []string{"87"}, []string{"r1", "r3"}},
		{"number blank", "score", OpBlank, nil, []string{"r3"}},
		{"text contains", "name", OpContains, []string{"AR"}, []string{"r3"}},
		{"text starts", "name", OpStartsWith, []string{"a"}, []string{"r1"}},
		{"text not contains", "name", OpNotContains, []string{"o"}, []string{"r1"}},
		{"url text", "site", OpEndsWith, []string{".org"}, []string{"r2"}},
		{"date before", "joined", OpBefore, []string{"2024-06-14"}, []string{"r3"}},
		{"date equals ignores time", "joined", OpEquals, []string{"2024-06-15T23:59:00Z"}, []string{"r1"}},
		{"date range", "joined", OpInRange, []string{"2024-06-14", "2024-06-15"}, []string{"r1", "r2"}},
		{"boolean set", "active", OpEquals, []string{"true"}, []string{"r1", "r3"}},
		{"boolean set false", "active", OpEquals, []string{"false"}, []string{"r2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := p.FilterFor(defFor(t, defs, tt.field), tt.op, tt.operands...)
			require.NoError(t, err)
			got, err := ApplyFilter(rows, f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got), f.Description())
		})
	}
}

func TestFilterForErrors(t *testing.T) {
	p := testPolicy()
	defs, _ := processedFixture(t)

	tests := []struct {
		name     string
		field    string
		op       Operator
		operands []string
		msg      string
	}{
		{"missing operand", "score", OpGreaterThan, nil, "takes 1 operand(s), got 0"},
		{"range needs two", "score", OpInRange, []string{"1"}, "takes 2 operand(s), got 1"},
		{"not a number", "score", OpEquals, []string{"lots"}, `"lots" is not a number`},
		{"not a date", "joined", OpAfter, []string{"someday"}, `"someday" is not a date`},
		{"text has no ordering", "name", OpLessThan, []string{"b"}, `text filter does not support "lessThan"`},
		{"number has no contains", "score", OpContains, []string{"1"}, `number filter does not support "contains"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.FilterFor(defFor(t, defs, tt.field), tt.op, tt.operands...)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestQuickFilter(t *testing.T) {
	_, rows := processedFixture(t)

	tests := []struct {
		text string
		want []string
	}{
		{"", []string{"r1", "r2", "r3"}},
		{"example.com", []string{"r1"}},
		{"today", []string{"r1"}},
		{"1,234", []string{"r1"}},
		{"1234.5", []string{"r1"}},
		{"bob 87", []string{"r2"}},
		{"bob alice", nil},
		{"r3", []string{"r3"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ApplyFilter(rows, &QuickFilter{Text: tt.text})
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestCompositeFilter(t *testing.T) {
	_, rows := processedFixture(t)

	high := &NumberFilter{Field: "score", Op: OpGreaterThan, Value: 100}
	bob := &TextFilter{Field: "name", Op: OpEquals, Value: "bob"}

	or := &CompositeFilter{Filters: []Filter{high, bob}, Logic: LogicOR}
	got, err := ApplyFilter(rows, or)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, ids(got))
	assert.Equal(t, `(score greaterThan 100 OR name equals "bob")`, or.Description())

	and := &CompositeFilter{Filters: []Filter{high, bob}, Logic: LogicAND}
	got, err = ApplyFilter(rows, and)
	require.NoError(t, err)
	assert.Empty(t, got)

	empty := &CompositeFilter{}
	got, err = ApplyFilter(rows, empty)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, "(no filters)", empty.Description())

	_, err = ApplyFilter(rows, &CompositeFilter{Filters: []Filter{high}, Logic: LogicOp(9)})
	require.Error(t, err)
	assert.Equal(t, "unknown(9)", LogicOp(9).String())
}

func TestApplyFilterNil(t *testing.T) {
	_, rows := processedFixture(t)
	got, err := ApplyFilter(rows, nil)
	require.NoError(t, err)
	assert.Equal(t, ids(rows), ids(got))
}

func TestSetFilterKeys(t *testing.T) {
	f := &SetFilter{Field: "x", Boolean: true}
	assert.Equal(t, Blank, f.Key(nil))
	assert.Equal(t, Blank, f.Key("  "))
	assert.Equal(t, "true", f.Key("YES"))
	assert.Equal(t, "false", f.Key(0))

	plain := &SetFilter{Field: "x"}
	assert.Equal(t, "YES", plain.Key("YES"))
	assert.Equal(t, "x in [a, b]", (&SetFilter{Field: "x", Values: []string{"a", "b"}}).Description())
}
