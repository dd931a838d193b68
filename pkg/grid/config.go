// Package grid maps inferred column types to the rendering, filtering and
// sorting configuration a grid widget consumes, and prepares rows for display.
//
// GetColumnConfig is the single seam between inference and presentation:
// adding a semantic type means one more case here and one more branch in
// schema.DetectValueType.
package grid

import (
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/format"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/schema"
)

// FilterKind selects the filter UI for a column.
type FilterKind string

const (
	FilterText   FilterKind = "text"
	FilterNumber FilterKind = "number"
	FilterDate   FilterKind = "date"
	FilterSet    FilterKind = "set"
)

// WidgetName returns the grid widget's name for the filter.
func (k FilterKind) WidgetName() string {
	switch k {
	case FilterNumber:
		return "agNumberColumnFilter"
	case FilterDate:
		return "agDateColumnFilter"
	case FilterSet:
		return "agSetColumnFilter"
	default:
		return "agTextColumnFilter"
	}
}

// RendererKind is the tag the grid dispatches cell rendering on.
type RendererKind string

const (
	RendererText    RendererKind = "text"
	RendererNumber  RendererKind = "number"
	RendererDate    RendererKind = "date"
	RendererURL     RendererKind = "url"
	RendererBoolean RendererKind = "boolean"
	RendererJSON    RendererKind = "json"
)

// WidgetName returns the grid widget's name for the renderer.
func (k RendererKind) WidgetName() string {
	return string(k) + "CellRenderer"
}

// Type returns the semantic type the renderer displays. Unknown kinds are text.
func (k RendererKind) Type() schema.SemanticType {
	switch k {
	case RendererNumber:
		return schema.TypeNumber
	case RendererDate:
		return schema.TypeDate
	case RendererURL:
		return schema.TypeURL
	case RendererBoolean:
		return schema.TypeBoolean
	case RendererJSON:
		return schema.TypeJSON
	default:
		return schema.TypeText
	}
}

// Alignment classes
const (
	CellRight  = "text-right"
	CellCenter = "text-center"
)

// RenderConfig is the rendering bundle for one semantic type.
type RenderConfig struct {
	FilterKind   FilterKind        `json:"filterKind"`
	RendererKind RendererKind      `json:"rendererKind"`
	Comparator   format.Comparator `json:"-"`
	CellClass    string            `json:"cellClass,omitempty"`
}

// GetColumnConfig returns the configuration for typ using the default
// formatter's comparators. Unknown types get the text configuration.
func GetColumnConfig(typ schema.SemanticType) RenderConfig {
	return columnConfig(typ, format.Default())
}

func columnConfig(typ schema.SemanticType, f *format.Formatter) RenderConfig {
	switch typ {
	case schema.TypeNumber:
		return RenderConfig{FilterKind: FilterNumber, RendererKind: RendererNumber, Comparator: f.CompareNumber, CellClass: CellRight}
	case schema.TypeDate:
		return RenderConfig{FilterKind: FilterDate, RendererKind: RendererDate, Comparator: f.CompareDate, CellClass: CellCenter}
	case schema.TypeURL:
		return RenderConfig{FilterKind: FilterText, RendererKind: RendererURL, Comparator: f.CompareText}
	case schema.TypeBoolean:
		return RenderConfig{FilterKind: FilterSet, RendererKind: RendererBoolean, Comparator: f.CompareBoolean, CellClass: CellCenter}
	case schema.TypeJSON:
		return RenderConfig{FilterKind: FilterText, RendererKind: RendererJSON, Comparator: f.CompareText}
	default:
		return RenderConfig{FilterKind: FilterText, RendererKind: RendererText, Comparator: f.CompareText}
	}
}
