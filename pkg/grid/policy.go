package grid

import (
	"go.uber.org/zap"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/format"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/models"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/schema"
)

// FilterButtons are shown on every column filter
var FilterButtons = []string{"reset", "apply"}

// FilterParams configures the filter popup
type FilterParams struct {
	Buttons []string `json:"buttons"`
}

// ColumnDef is the grid definition of one column.
type ColumnDef struct {
	HeaderName   string              `json:"headerName"`
	Field        string              `json:"field"`
	ColID        string              `json:"colId"`
	Type         schema.SemanticType `json:"type"`
	Sortable     bool                `json:"sortable"`
	Resizable    bool                `json:"resizable"`
	Filter       string              `json:"filter"`
	FilterParams FilterParams        `json:"filterParams"`
	Editable     bool                `json:"editable"`
	CellRenderer string              `json:"cellRenderer"`
	CellClass    string              `json:"cellClass,omitempty"`
	Config       RenderConfig        `json:"-"`
}

// DisplayRow pairs a raw row with its formatted cells. Raw is the caller's
// row and is never modified; Display has no entry for the id field.
type DisplayRow struct {
	Raw     models.Row
	Display map[string]format.Value
}

// Text returns the display text of field. The id field shows its raw value.
func (r DisplayRow) Text(field string) string {
	if v, ok := r.Display[field]; ok {
		return v.String()
	}
	return schema.CellText(r.Raw[field])
}

// Policy builds column definitions and display rows with one inference
// engine and one formatter. A Policy is safe for concurrent use.
type Policy struct {
	engine    *schema.Engine
	formatter *format.Formatter
	logger    *zap.Logger
}

// NewPolicy creates a policy. Nil arguments fall back to the package defaults.
func NewPolicy(engine *schema.Engine, formatter *format.Formatter, logger *zap.Logger) *Policy {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = schema.NewEngine(logger)
	}
	if formatter == nil {
		formatter = format.Default()
	}
	return &Policy{engine: engine, formatter: formatter, logger: logger}
}

var defaultPolicy = NewPolicy(nil, nil, nil)

// Engine returns the policy's inference engine.
func (p *Policy) Engine() *schema.Engine { return p.engine }

// Formatter returns the policy's formatter.
func (p *Policy) Formatter() *format.Formatter { return p.formatter }

// ColumnConfig returns the render configuration for typ with this policy's comparators.
func (p *Policy) ColumnConfig(typ schema.SemanticType) RenderConfig {
	return columnConfig(typ, p.formatter)
}

// ColumnDef builds the definition of col for an already inferred type.
func (p *Policy) ColumnDef(col models.Column, typ schema.SemanticType) ColumnDef {
	cfg := p.ColumnConfig(typ)
	buttons := make([]string, len(FilterButtons))
	copy(buttons, FilterButtons)

	return ColumnDef{
		HeaderName:   col.Label(),
		Field:        col.Field,
		ColID:        col.Key(),
		Type:         typ,
		Sortable:     true,
		Resizable:    true,
		Filter:       cfg.FilterKind.WidgetName(),
		FilterParams: FilterParams{Buttons: buttons},
		Editable:     false,
		CellRenderer: cfg.RendererKind.WidgetName(),
		CellClass:    cfg.CellClass,
		Config:       cfg,
	}
}

// BuildColumnDefs infers each column's type from rows and returns the
// definitions in column order.
func BuildColumnDefs(columns []models.Column, rows []models.Row) []ColumnDef {
	return defaultPolicy.BuildColumnDefs(columns, rows)
}

// BuildColumnDefs infers each column's type from rows and returns the
// definitions in column order.
func (p *Policy) BuildColumnDefs(columns []models.Column, rows []models.Row) []ColumnDef {
	defs := make([]ColumnDef, len(columns))
	for i, col := range columns {
		typ := p.engine.DetectColumnType(col.Field, rows)
		defs[i] = p.ColumnDef(col, typ)
	}
	p.logger.Debug("built column definitions", zap.Int("columns", len(defs)), zap.Int("rows", len(rows)))
	return defs
}

// TypesOf indexes column definitions by field.
func TypesOf(defs []ColumnDef) map[string]schema.SemanticType {
	types := make(map[string]schema.SemanticType, len(defs))
	for _, d := range defs {
		types[d.Field] = d.Type
	}
	return types
}

// ProcessRows formats every cell of rows except the id field.
func ProcessRows(rows []models.Row, types map[string]schema.SemanticType) []DisplayRow {
	return defaultPolicy.ProcessRows(rows, types)
}

// ProcessRows formats every cell of rows except the id field. Fields missing
// from types are inferred once from rows.
func (p *Policy) ProcessRows(rows []models.Row, types map[string]schema.SemanticType) []DisplayRow {
	resolved := p.ResolveTypes(rows, types)
	out := make([]DisplayRow, len(rows))
	for i, row := range rows {
		out[i] = p.ProcessRow(row, resolved)
	}
	return out
}

// ProcessRow formats one row. Fields missing from types format as text.
func (p *Policy) ProcessRow(row models.Row, types map[string]schema.SemanticType) DisplayRow {
	display := make(map[string]format.Value, len(row))
	for field, value := range row {
		if field == models.IDField {
			continue
		}
		display[field] = p.formatter.FormatValue(value, types[field])
	}
	return DisplayRow{Raw: row, Display: display}
}

// ResolveTypes copies types and adds an inferred type for every field in
// rows that it does not cover.
func (p *Policy) ResolveTypes(rows []models.Row, types map[string]schema.SemanticType) map[string]schema.SemanticType {
	resolved := make(map[string]schema.SemanticType, len(types))
	for field, typ := range types {
		resolved[field] = typ
	}
	for _, row := range rows {
		for field := range row {
			if field == models.IDField {
				continue
			}
			if _, ok := resolved[field]; !ok {
				resolved[field] = p.engine.DetectColumnType(field, rows)
			}
		}
	}
	return resolved
}
