package grid

import (
	"html"
	"strings"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/format"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/schema"
	stringpool "github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/strings"
)

// RenderCell returns the HTML fragment for a raw value rendered as kind with
// the default formatter. Empty values render as "".
func RenderCell(kind RendererKind, value interface{}) string {
	return defaultPolicy.RenderValue(kind, value)
}

// RenderValue formats value as the renderer's type and returns its HTML.
func (p *Policy) RenderValue(kind RendererKind, value interface{}) string {
	return renderHTML(p.formatter, kind, value, p.formatter.FormatValue(value, kind.Type()))
}

// RenderCell returns the HTML fragment of def's cell in row.
func (p *Policy) RenderCell(def ColumnDef, row DisplayRow) string {
	kind := def.Config.RendererKind
	if kind == "" {
		kind = p.ColumnConfig(def.Type).RendererKind
	}
	raw := row.Raw[def.Field]
	v, ok := row.Display[def.Field]
	if !ok {
		v = p.formatter.FormatValue(raw, kind.Type())
	}
	return renderHTML(p.formatter, kind, raw, v)
}

func renderHTML(f *format.Formatter, kind RendererKind, raw interface{}, v format.Value) string {
	if stringpool.IsEmpty(raw) {
		return ""
	}

	switch kind {
	case RendererNumber:
		if v.Degraded() {
			return html.EscapeString(v.String())
		}
		return `<span class="text-gray-900 font-medium">` + html.EscapeString(v.String()) + `</span>`

	case RendererDate:
		if v.Degraded() {
			return html.EscapeString(v.String())
		}
		title := ""
		if t, ok := f.ParseDate(raw); ok {
			title = ` title="` + t.In(f.Location()).Format(schema.DateLayout) + `"`
		}
		return `<span class="text-gray-900"` + title + `>` + html.EscapeString(v.String()) + `</span>`

	case RendererURL:
		s, ok := raw.(string)
		if !ok || !strings.HasPrefix(s, "http") {
			return textSpan(schema.CellText(raw))
		}
		href := html.EscapeString(s)
		label := stringpool.Truncate(s, format.URLLimit, format.URLLimit-len(stringpool.Ellipsis))
		return `<a href="` + href + `" target="_blank" rel="noopener noreferrer" class="text-blue-600 hover:text-blue-800 underline" title="` +
			href + `">` + html.EscapeString(label) + `</a>`

	case RendererBoolean:
		checked := ""
		if b, ok := v.Bool(); (ok && b) || (!ok && format.ToBool(raw)) {
			checked = " checked"
		}
		return `<div class="flex items-center justify-center"><input type="checkbox"` + checked +
			` disabled class="rounded border-gray-300 text-blue-600 focus:ring-blue-500"></div>`

	case RendererJSON:
		return `<span class="text-gray-900 font-mono" title="` + html.EscapeString(schema.CellText(raw)) + `">` +
			html.EscapeString(v.String()) + `</span>`

	default:
		return textSpan(v.String())
	}
}

func textSpan(s string) string {
	return `<span class="text-gray-900">` + html.EscapeString(s) + `</span>`
}
