package grid

import (
	"sort"
	"strings"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/errors"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/format"
)

// SortDirection represents the direction of sorting.
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAscending
	SortDescending
)

// String returns the string representation of the sort direction.
func (d SortDirection) String() string {
	switch d {
	case SortAscending:
		return "asc"
	case SortDescending:
		return "desc"
	default:
		return "none"
	}
}

// SortState represents the current sort state of a grid.
type SortState struct {
	Field     string
	Direction SortDirection
}

// IsSorted returns true if a field is being sorted.
func (s SortState) IsSorted() bool {
	return s.Field != "" && s.Direction != SortNone
}

// ParseSortSpec parses "field", "field:asc" or "field:desc". An empty spec
// is the unsorted state.
func ParseSortSpec(spec string) (SortState, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return SortState{}, nil
	}

	field, dir := spec, ""
	if i := strings.LastIndexByte(spec, ':'); i >= 0 {
		field, dir = strings.TrimSpace(spec[:i]), strings.ToLower(strings.TrimSpace(spec[i+1:]))
	}
	if field == "" {
		return SortState{}, errors.Newf(errors.ErrorTypeValidation, "sort spec %q has no field", spec)
	}

	switch dir {
	case "", "asc", "ascending":
		return SortState{Field: field, Direction: SortAscending}, nil
	case "desc", "descending":
		return SortState{Field: field, Direction: SortDescending}, nil
	default:
		return SortState{}, errors.Newf(errors.ErrorTypeValidation, "unknown sort direction %q", dir)
	}
}

// SortRows returns rows ordered by state using the comparator of the sorted
// column. Comparisons use raw values; the input slice is not modified and
// equal rows keep their order. Descending order reverses the comparator, so
// empty cells sort last.
func SortRows(rows []DisplayRow, defs []ColumnDef, state SortState) ([]DisplayRow, error) {
	out := make([]DisplayRow, len(rows))
	copy(out, rows)
	if !state.IsSorted() {
		return out, nil
	}

	def, ok := findDef(defs, state.Field)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeValidation, "unknown column %q", state.Field)
	}
	cmp := def.comparator()
	field := def.Field
	desc := state.Direction == SortDescending

	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i].Raw[field], out[j].Raw[field])
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out, nil
}

func (d ColumnDef) comparator() format.Comparator {
	if d.Config.Comparator == nil {
		return GetColumnConfig(d.Type).Comparator
	}
	return d.Config.Comparator
}

func findDef(defs []ColumnDef, field string) (ColumnDef, bool) {
	for _, d := range defs {
		if d.Field == field || d.ColID == field {
			return d, true
		}
	}
	return ColumnDef{}, false
}
