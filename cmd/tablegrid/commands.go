package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/compression"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/errors"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/export"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/grid"
	jsonpool "github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/json"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/logger"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/schema"
)

func (a *app) inferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "infer <file>",
		Short: "Infer the type of every column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, err := a.jsonOutput()
			if err != nil {
				return err
			}
			table, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			results := a.policy.Engine().InferTable(table)
			if asJSON {
				return a.writeJSON(results)
			}
			fmt.Fprintln(a.out, renderInference(results))
			return nil
		},
	}
}

func (a *app) columnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns <file>",
		Short: "Print the grid column definitions as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			g, err := a.builder.Build(cmd.Context(), table)
			if err != nil {
				return err
			}
			return a.writeJSON(g.Columns)
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	var (
		sortSpec string
		search   string
		filters  []string
		anyMatch bool
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Display formatted rows in the terminal",
		Long: `Display formatted rows in the terminal.

Filters take the form field:operator[:value[:to]]. Text columns accept
contains, notContains, equals, notEqual, startsWith and endsWith; number
columns accept equals, notEqual, lessThan, lessThanOrEqual, greaterThan,
greaterThanOrEqual and inRange; date columns accept equals, notEqual,
before, after and inRange. Every column accepts blank and notBlank.
Boolean columns take a comma separated set: verified:in:true,(blank).

Example:
  tablegrid show posts.json --sort likes:desc --filter likes:greaterThan:100 --search travel`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, err := a.jsonOutput()
			if err != nil {
				return err
			}
			ctx := logger.WithCommand(cmd.Context(), "show")

			table, err := a.load(ctx, args[0])
			if err != nil {
				return err
			}
			g, err := a.builder.Build(ctx, table)
			if err != nil {
				return err
			}

			filter, err := a.buildFilter(g.Columns, filters, search, anyMatch)
			if err != nil {
				return err
			}
			rows, err := grid.ApplyFilter(g.Rows, filter)
			if err != nil {
				return err
			}

			if sortSpec != "" {
				state, err := grid.ParseSortSpec(sortSpec)
				if err != nil {
					return err
				}
				if rows, err = grid.SortRows(rows, g.Columns, state); err != nil {
					return err
				}
			}

			total := len(rows)
			if limit > 0 && len(rows) > limit {
				rows = rows[:limit]
			}

			logger.FromContext(ctx, a.logger).Debug("showing rows",
				zap.Int("matched", total),
				zap.Int("shown", len(rows)),
				zap.Int("table_rows", len(table.Rows)))

			if asJSON {
				return a.writeJSON(displayDocument(g.Columns, rows))
			}
			fmt.Fprintln(a.out, renderGrid(g.Columns, rows))
			fmt.Fprintf(a.out, "%d of %d rows", len(rows), len(table.Rows))
			if total != len(rows) {
				fmt.Fprintf(a.out, " (%d matched)", total)
			}
			fmt.Fprintln(a.out)
			return nil
		},
	}

	cmd.Flags().StringVar(&sortSpec, "sort", "", "Sort by field[:asc|desc]")
	cmd.Flags().StringVar(&search, "search", "", "Keep rows containing every word in some cell")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Column filter field:operator[:value[:to]] (repeatable)")
	cmd.Flags().BoolVar(&anyMatch, "any", false, "Keep rows passing any --filter instead of all")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum rows to print (0 for all)")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the raw values of a table",
		Long: `Export the raw values of a table as CSV, JSON, JSON lines, Arrow IPC or
Parquet, optionally compressed. Without --out the file is written to the
export directory as table-export-YYYY-MM-DD.<ext>. Use --out - for stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logger.WithCommand(cmd.Context(), "export")

			f, err := export.ParseFormat(a.cfg.Export.Format)
			if err != nil {
				return err
			}
			alg, err := compression.Parse(a.cfg.Export.Compression)
			if err != nil {
				return err
			}

			table, err := a.load(ctx, args[0])
			if err != nil {
				return err
			}

			opts := export.Options{
				Format:      f,
				Compression: alg,
				Level:       compression.Level(a.cfg.Export.CompressionLevel),
				Pretty:      a.cfg.Export.Pretty,
				BatchSize:   a.cfg.Performance.BatchSize,
				Types:       schema.TypesOf(a.policy.Engine().InferTable(table)),
			}
			exporter := export.NewExporter(logger.FromContext(ctx, a.logger))

			if out == "-" {
				_, err := exporter.Write(ctx, a.out, table, opts)
				return err
			}
			if out == "" {
				out = filepath.Join(a.cfg.Export.Directory, export.DefaultFilename(time.Now(), f, alg))
			}

			stats, err := exporter.WriteFile(ctx, out, table, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d rows to %s (%d bytes)\n", stats.Rows, stats.Path, stats.Bytes)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("format", "csv", "Export format: csv, json, jsonl, arrow or parquet")
	flags.String("compression", "none", "Compression: none, gzip, zstd, snappy, s2 or lz4")
	flags.Int("level", int(compression.Default), "Compression level from 1 (fastest) to 9 (best)")
	flags.String("dir", ".", "Directory for the default export file name")
	flags.Bool("pretty", false, "Indent JSON output")
	flags.StringVar(&out, "out", "", "Output path, or - for stdout")

	_ = a.v.BindPFlag("export.format", flags.Lookup("format"))
	_ = a.v.BindPFlag("export.compression", flags.Lookup("compression"))
	_ = a.v.BindPFlag("export.compression_level", flags.Lookup("level"))
	_ = a.v.BindPFlag("export.directory", flags.Lookup("dir"))
	_ = a.v.BindPFlag("export.pretty", flags.Lookup("pretty"))
	return cmd
}

// buildFilter combines --filter specs and --search into one filter. The
// search always applies; anyMatch only joins the column filters with OR.
func (a *app) buildFilter(defs []grid.ColumnDef, specs []string, search string, anyMatch bool) (grid.Filter, error) {
	columns := &grid.CompositeFilter{Logic: grid.LogicAND}
	if anyMatch {
		columns.Logic = grid.LogicOR
	}
	for _, spec := range specs {
		f, err := parseFilterSpec(a.policy, defs, spec)
		if err != nil {
			return nil, err
		}
		columns.Filters = append(columns.Filters, f)
	}

	all := &grid.CompositeFilter{Logic: grid.LogicAND}
	if len(columns.Filters) > 0 {
		all.Filters = append(all.Filters, columns)
	}
	if strings.TrimSpace(search) != "" {
		all.Filters = append(all.Filters, &grid.QuickFilter{Text: search})
	}
	if len(all.Filters) == 0 {
		return nil, nil
	}
	return all, nil
}

// parseFilterSpec reads field:operator[:value[:to]]. Only an inRange
// operator splits its value on a further colon, so text values may
// contain colons.
func parseFilterSpec(policy *grid.Policy, defs []grid.ColumnDef, spec string) (grid.Filter, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, errors.Newf(errors.ErrorTypeValidation, "invalid filter %q: expected field:operator[:value]", spec)
	}

	var def *grid.ColumnDef
	for i := range defs {
		if defs[i].Field == parts[0] || defs[i].ColID == parts[0] {
			def = &defs[i]
			break
		}
	}
	if def == nil {
		return nil, errors.Newf(errors.ErrorTypeValidation, "invalid filter %q: unknown column %q", spec, parts[0])
	}

	op := grid.Operator(parts[1])
	var operands []string
	if len(parts) == 3 {
		switch {
		case def.Config.FilterKind == grid.FilterSet:
			operands = strings.Split(parts[2], ",")
		case op == grid.OpInRange:
			operands = strings.SplitN(parts[2], ":", 2)
		default:
			operands = []string{parts[2]}
		}
	}
	return policy.FilterFor(*def, op, operands...)
}

func (a *app) writeJSON(v interface{}) error {
	data, err := jsonpool.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "failed to encode output")
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}

// displayDocument is the --output json form of show: the raw and formatted
// value of every cell, keyed by field.
func displayDocument(defs []grid.ColumnDef, rows []grid.DisplayRow) []map[string]interface{} {
	out := make([]map[string]interface{}, len(rows))
	for i, row := range rows {
		doc := make(map[string]interface{}, len(defs))
		for _, def := range defs {
			raw, ok := row.Raw[def.Field]
			if !ok {
				continue
			}
			doc[def.Field] = map[string]interface{}{
				"raw":     raw,
				"display": row.Text(def.Field),
			}
		}
		out[i] = doc
	}
	return out
}

