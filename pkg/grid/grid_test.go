package grid

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/format"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/models"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/schema"
)

var fixedNow = time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)

func testPolicy() *Policy {
	f := format.New(
		format.WithLocation(time.UTC),
		format.WithClock(func() time.Time { return fixedNow }),
	)
	return NewPolicy(nil, f, nil)
}

func fixtureRows() []models.Row {
	return []models.Row{
		{"id": "r1", "name": "Alice", "score": "1234.5", "site": "https://www.example.com/alice", "active": "yes", "joined": "2024-06-15"},
		{"id": "r2", "name": "Bob", "score": 87, "site": "https://blog.example.org", "active": "no", "joined": "2024-06-14"},
		{"id": "r3", "name": "Carol", "score": "", "site": "https://example.net/c", "active": "true", "joined": "2024-06-10"},
	}
}

func fixtureColumns() []models.Column {
	cols := models.ColumnsFromRows(fixtureRows())
	for i := range cols {
		if cols[i].Field == "joined" {
			cols[i].Name = "Joined on"
		}
	}
	return cols
}

func ids(rows []DisplayRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Raw["id"].(string)
	}
	return out
}

func TestGetColumnConfig(t *testing.T) {
	tests := []struct {
		typ      schema.SemanticType
		filter   FilterKind
		renderer RendererKind
		class    string
	}{
		{schema.TypeText, FilterText, RendererText, ""},
		{schema.TypeNumber, FilterNumber, RendererNumber, CellRight},
		{schema.TypeDate, FilterDate, RendererDate, CellCenter},
		{schema.TypeURL, FilterText, RendererURL, ""},
		{schema.TypeBoolean, FilterSet, RendererBoolean, CellCenter},
		{schema.TypeJSON, FilterText, RendererJSON, ""},
		{schema.SemanticType(99), FilterText, RendererText, ""},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			cfg := GetColumnConfig(tt.typ)
			assert.Equal(t, tt.filter, cfg.FilterKind)
			assert.Equal(t, tt.renderer, cfg.RendererKind)
			assert.Equal(t, tt.class, cfg.CellClass)
			require.NotNil(t, cfg.Comparator)
		})
	}
}

func TestColumnConfigComparators(t *testing.T) {
	assert.Negative(t, GetColumnConfig(schema.TypeNumber).Comparator("9", "10"))
	assert.Positive(t, GetColumnConfig(schema.TypeText).Comparator("9", "10"))
	assert.Negative(t, GetColumnConfig(schema.TypeBoolean).Comparator("no", "yes"))
	assert.Negative(t, GetColumnConfig(schema.TypeDate).Comparator("2024-01-01", "2024-01-02"))
}

func TestWidgetNames(t *testing.T) {
	assert.Equal(t, "agTextColumnFilter", FilterText.WidgetName())
	assert.Equal(t, "agNumberColumnFilter", FilterNumber.WidgetName())
	assert.Equal(t, "agDateColumnFilter", FilterDate.WidgetName())
	assert.Equal(t, "agSetColumnFilter", FilterSet.WidgetName())
	assert.Equal(t, "urlCellRenderer", RendererURL.WidgetName())
	assert.Equal(t, schema.TypeBoolean, RendererBoolean.Type())
	assert.Equal(t, schema.TypeText, RendererKind("sparkline").Type())
}

func TestBuildColumnDefs(t *testing.T) {
	p := testPolicy()
	defs := p.BuildColumnDefs(fixtureColumns(), fixtureRows())
	require.Len(t, defs, 6)

	got := TypesOf(defs)
	want := map[string]schema.SemanticType{
		"id":     schema.TypeText,
		"active": schema.TypeBoolean,
		"joined": schema.TypeDate,
		"name":   schema.TypeText,
		"score":  schema.TypeNumber,
		"site":   schema.TypeURL,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("column types mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "id", defs[0].Field, "id column comes first")

	var joined ColumnDef
	for _, d := range defs {
		assert.True(t, d.Sortable)
		assert.True(t, d.Resizable)
		assert.False(t, d.Editable)
		assert.Equal(t, []string{"reset", "apply"}, d.FilterParams.Buttons)
		if d.Field == "joined" {
			joined = d
		}
	}
	assert.Equal(t, "Joined on", joined.HeaderName)
	assert.Equal(t, "joined", joined.ColID)
	assert.Equal(t, "agDateColumnFilter", joined.Filter)
	assert.Equal(t, "dateCellRenderer", joined.CellRenderer)
	assert.Equal(t, CellCenter, joined.CellClass)

	defs[0].FilterParams.Buttons[0] = "changed"
	assert.Equal(t, []string{"reset", "apply"}, FilterButtons)
}

func TestProcessRows(t *testing.T) {
	p := testPolicy()
	rows := fixtureRows()
	before := fixtureRows()

	defs := p.BuildColumnDefs(fixtureColumns(), rows)
	display := p.ProcessRows(rows, TypesOf(defs))
	require.Len(t, display, 3)

	if diff := cmp.Diff(before, rows); diff != "" {
		t.Errorf("raw rows were modified (-want +got):\n%s", diff)
	}

	alice := display[0]
	_, hasID := alice.Display["id"]
	assert.False(t, hasID, "id is never formatted")
	assert.Equal(t, "r1", alice.Text("id"))
	assert.Equal(t, "Alice", alice.Text("name"))
	assert.Equal(t, "1,234.5", alice.Text("score"))
	assert.Equal(t, "example.com", alice.Text("site"))
	assert.Equal(t, "true", alice.Text("active"))
	assert.Equal(t, "Today", alice.Text("joined"))

	u, ok := alice.Display["site"].URL()
	require.True(t, ok)
	assert.Equal(t, "https://www.example.com/alice", u.FullDisplay)

	assert.Equal(t, "87", display[1].Text("score"))
	assert.Equal(t, "Yesterday", display[1].Text("joined"))
	assert.Equal(t, "", display[2].Text("score"))
	assert.Equal(t, "Mon, Jun 10", display[2].Text("joined"))
}

func TestProcessRowsInfersMissingTypes(t *testing.T) {
	p := testPolicy()
	display := p.ProcessRows(fixtureRows(), map[string]schema.SemanticType{"name": schema.TypeText})

	assert.Equal(t, "1,234.5", display[0].Text("score"))
	b, ok := display[1].Display["active"].Bool()
	require.True(t, ok)
	assert.False(t, b)
}

func TestProcessRowsPackageLevel(t *testing.T) {
	rows := []models.Row{{"id": 7, "n": "1000"}, {"id": 8, "n": "2000"}}
	display := ProcessRows(rows, nil)
	assert.Equal(t, "1,000", display[0].Text("n"))
	assert.Equal(t, "7", display[0].Text("id"))
}
