package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/errors"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/models"
)

func processedFixture(t *testing.T) ([]ColumnDef, []DisplayRow) {
	t.Helper()
	p := testPolicy()
	rows := fixtureRows()
	defs := p.BuildColumnDefs(fixtureColumns(), rows)
	return defs, p.ProcessRows(rows, TypesOf(defs))
}

func TestParseSortSpec(t *testing.T) {
	tests := []struct {
		spec    string
		want    SortState
		wantErr bool
	}{
		{"", SortState{}, false},
		{"score", SortState{Field: "score", Direction: SortAscending}, false},
		{"score:asc", SortState{Field: "score", Direction: SortAscending}, false},
		{" score : DESC ", SortState{Field: "score", Direction: SortDescending}, false},
		{"a:b:desc", SortState{Field: "a:b", Direction: SortDescending}, false},
		{":desc", SortState{}, true},
		{"score:sideways", SortState{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseSortSpec(tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortDirectionString(t *testing.T) {
	assert.Equal(t, "none", SortNone.String())
	assert.Equal(t, "asc", SortAscending.String())
	assert.Equal(t, "desc", SortDescending.String())
	assert.False(t, SortState{Field: "x"}.IsSorted())
	assert.False(t, SortState{Direction: SortAscending}.IsSorted())
}

func TestSortRowsByNumber(t *testing.T) {
	defs, rows := processedFixture(t)

	asc, err := SortRows(rows, defs, SortState{Field: "score", Direction: SortAscending})
	require.NoError(t, err)
	assert.Equal(t, []string{"r3", "r2", "r1"}, ids(asc), "empty first, then 87 before 1234.5")

	desc, err := SortRows(rows, defs, SortState{Field: "score", Direction: SortDescending})
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "r3"}, ids(desc))

	assert.Equal(t, []string{"r1", "r2", "r3"}, ids(rows), "input order is kept")
}

func TestSortRowsByTextAndDate(t *testing.T) {
	defs, rows := processedFixture(t)

	byName, err := SortRows(rows, defs, SortState{Field: "name", Direction: SortDescending})
	require.NoError(t, err)
	assert.Equal(t, []string{"r3", "r2", "r1"}, ids(byName))

	byDate, err := SortRows(rows, defs, SortState{Field: "joined", Direction: SortAscending})
	require.NoError(t, err)
	assert.Equal(t, []string{"r3", "r2", "r1"}, ids(byDate), "dates sort on raw values, not on their labels")
}

func TestSortRowsStable(t *testing.T) {
	rows := ProcessRows([]models.Row{
		{"id": "a", "n": "1"},
		{"id": "b", "n": "1.0"},
		{"id": "c", "n": "0"},
		{"id": "d", "n": "1"},
	}, nil)
	defs := BuildColumnDefs([]models.Column{models.NewColumn("n")}, []models.Row{{"n": "1"}})

	sorted, err := SortRows(rows, defs, SortState{Field: "n", Direction: SortAscending})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b", "d"}, ids(sorted))
}

func TestSortRowsUnsorted(t *testing.T) {
	defs, rows := processedFixture(t)
	out, err := SortRows(rows, defs, SortState{})
	require.NoError(t, err)
	assert.Equal(t, ids(rows), ids(out))
}

func TestSortRowsUnknownColumn(t *testing.T) {
	defs, rows := processedFixture(t)
	_, err := SortRows(rows, defs, SortState{Field: "missing", Direction: SortAscending})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), `unknown column "missing"`)
}
