package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/grid"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/schema"
	stringpool "github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/strings"
)

// cellWidth caps terminal cells; display values are already shortened for
// text and urls, this only guards wide json and id cells.
const cellWidth = 40

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// alignment maps a column's cell class to a terminal alignment.
func alignment(cellClass string) lipgloss.Position {
	switch cellClass {
	case grid.CellRight:
		return lipgloss.Right
	case grid.CellCenter:
		return lipgloss.Center
	default:
		return lipgloss.Left
	}
}

func renderGrid(defs []grid.ColumnDef, rows []grid.DisplayRow) string {
	headers := make([]string, len(defs))
	for i, def := range defs {
		headers[i] = def.HeaderName
	}

	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = make([]string, len(defs))
		for j, def := range defs {
			cells[i][j] = stringpool.Truncate(row.Text(def.Field), cellWidth, cellWidth-len(stringpool.Ellipsis))
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			style := cellStyle
			if col < len(defs) {
				style = style.Align(alignment(defs[col].CellClass))
			}
			return style
		})
	return t.String()
}

func renderInference(results []*schema.InferredType) string {
	cells := make([][]string, len(results))
	for i, r := range results {
		cells[i] = []string{
			r.Field,
			r.Type.String(),
			fmt.Sprintf("%.0f%%", r.Confidence*100),
			fmt.Sprint(r.SampleCount),
			fmt.Sprint(r.EmptyCount),
			distribution(r),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("Column", "Type", "Confidence", "Samples", "Empty", "Distribution").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= 2 && col <= 4:
				return cellStyle.Align(lipgloss.Right)
			case col == 1 && results[row].Fallback:
				return cellStyle.Inherit(mutedStyle)
			default:
				return cellStyle
			}
		})
	return t.String()
}

// distribution lists the sampled type counts, largest first.
func distribution(r *schema.InferredType) string {
	if len(r.Distribution) == 0 {
		return "-"
	}
	names := make([]string, 0, len(r.Distribution))
	for name := range r.Distribution {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := r.Distribution[names[i]], r.Distribution[names[j]]
		if a != b {
			return a > b
		}
		return names[i] < names[j]
	})

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s:%d", name, r.Distribution[name])
	}
	return strings.Join(parts, " ")
}
