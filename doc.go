// Package tablegrid infers column types for scraped tabular data, formats
// cells for display and builds grid column definitions.
//
// Scraped rows arrive as loosely typed JSON or CSV: the same column can hold
// numbers, numeric strings, empty strings and the occasional stray value.
// tablegrid classifies each column into one of six semantic types (text,
// number, date, url, boolean, json) from a small sample of leading rows and
// uses that type to pick a formatter, a sort comparator, a filter and a cell
// renderer. Raw values are never modified; formatting produces a separate
// display view.
//
// # Architecture
//
// The packages build on each other bottom-up:
//
//   - pkg/schema: value classification and column type inference
//   - pkg/format: display formatting and raw-value comparators
//   - pkg/grid: column render configuration, column definitions, display
//     rows, sorting, filtering and HTML cell renderers
//   - pkg/dataset: loaders for list exports, run outputs, JSON lines and CSV
//   - pkg/export: raw-value exports as CSV, JSON, JSON lines, Arrow and Parquet
//   - pkg/compression: compressed input and output streams
//   - internal/pipeline: the parallel grid builder
//   - cmd/tablegrid: the command line interface
//
// # Quick Start
//
// Infer the columns of a table and format its rows:
//
//	table := models.NewTable("posts", nil, rows)
//	defs := grid.BuildColumnDefs(table.Columns, table.Rows)
//	display := grid.ProcessRows(table.Rows, grid.TypesOf(defs))
//
//	for _, row := range display {
//	    fmt.Println(row.Text("likes"), row.Text("posted_at"))
//	}
//
// Classify a single column or value:
//
//	typ := schema.DetectColumnType("likes", rows)   // schema.TypeNumber
//	v := format.FormatValue("1234.5", typ)          // "1,234.5"
//	cfg := grid.GetColumnConfig(typ)                // number filter, right aligned
//
// # Command Line
//
//	tablegrid infer creators.json
//	tablegrid show creators.json --sort followers:desc --search travel
//	tablegrid export creators.json --format parquet --compression zstd
//
// # Configuration
//
// The CLI reads an optional YAML file (--config), TABLEGRID_* environment
// variables and flags, in rising precedence. See pkg/config for the sections.
package tablegrid
