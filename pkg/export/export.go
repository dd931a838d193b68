// Package export writes the raw values of a table as CSV, JSON, JSON lines,
// Arrow IPC or Parquet, optionally wrapped in a compression stream.
//
// Exports always carry raw values, never display strings. Nested objects and
// arrays are written as compact JSON text in the text formats and in
// string columns of the columnar formats.
package export

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/compression"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/errors"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/models"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/schema"
)

// Format is an export file format.
type Format string

const (
	CSV     Format = "csv"
	JSON    Format = "json"
	JSONL   Format = "jsonl"
	Arrow   Format = "arrow"
	Parquet Format = "parquet"
)

// Formats lists every export format.
var Formats = []Format{CSV, JSON, JSONL, Arrow, Parquet}

// ParseFormat returns the export format named s.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.Newf(errors.ErrorTypeValidation, "unknown export format %q", s)
}

// Extension returns the file suffix of the format, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// FilenamePrefix starts every default export name
const FilenamePrefix = "table-export-"

// DefaultFilename returns table-export-YYYY-MM-DD with the format and
// compression suffixes, dated in now's location.
func DefaultFilename(now time.Time, format Format, alg compression.Algorithm) string {
	return FilenamePrefix + now.Format("2006-01-02") + format.Extension() + alg.Extension()
}

// Options configures one export.
type Options struct {
	Format      Format
	Compression compression.Algorithm
	Level       compression.Level
	// Pretty indents JSON output
	Pretty bool
	// BatchSize is the number of rows per Arrow record batch or Parquet row group
	BatchSize int
	// Types are the inferred column types; columnar formats use them to pick
	// numeric and boolean column encodings
	Types map[string]schema.SemanticType
}

// DefaultBatchSize is used when Options.BatchSize is not positive
const DefaultBatchSize = 1024

// Stats describes a finished export.
type Stats struct {
	Rows  int
	Bytes int64
	Path  string
}

// Exporter writes tables.
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates an exporter. A nil logger disables logging.
func NewExporter(logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{logger: logger}
}

// Write encodes table to w.
func (e *Exporter) Write(ctx context.Context, w io.Writer, table *models.Table, opts Options) (Stats, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}

	counter := &countingWriter{w: w}
	cw, err := compression.NewWriter(counter, opts.Compression, opts.Level)
	if err != nil {
		return Stats{}, err
	}

	if err := e.encode(ctx, cw, table, opts); err != nil {
		_ = cw.Close()
		return Stats{}, err
	}
	if err := cw.Close(); err != nil {
		return Stats{}, errors.Wrap(err, errors.ErrorTypeFile, "failed to finish compressed stream")
	}

	stats := Stats{Rows: len(table.Rows), Bytes: counter.n}
	e.logger.Debug("exported table",
		zap.String("table", table.Name),
		zap.String("format", string(opts.Format)),
		zap.String("compression", string(opts.Compression)),
		zap.Int("rows", stats.Rows),
		zap.Int64("bytes", stats.Bytes))
	return stats, nil
}

// WriteFile encodes table to path, creating parent directories as needed.
// The file is written next to its final name and renamed once complete.
func (e *Exporter) WriteFile(ctx context.Context, path string, table *models.Table, opts Options) (Stats, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Stats{}, errors.Wrap(err, errors.ErrorTypeFile, "failed to create export directory").WithDetail("path", path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return Stats{}, errors.Wrap(err, errors.ErrorTypeFile, "failed to create export file").WithDetail("path", path)
	}
	defer os.Remove(tmp.Name())

	buf := bufio.NewWriterSize(tmp, 256*1024)
	stats, err := e.Write(ctx, buf, table, opts)
	if err == nil {
		err = buf.Flush()
	}
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return Stats{}, errors.Wrap(err, errors.ErrorTypeFile, "failed to write export").WithDetail("path", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return Stats{}, errors.Wrap(err, errors.ErrorTypeFile, "failed to move export into place").WithDetail("path", path)
	}

	stats.Path = path
	e.logger.Info("wrote export",
		zap.String("table", table.Name),
		zap.String("path", path),
		zap.Int("rows", stats.Rows),
		zap.Int64("bytes", stats.Bytes))
	return stats, nil
}

func (e *Exporter) encode(ctx context.Context, w io.Writer, table *models.Table, opts Options) error {
	switch opts.Format {
	case CSV:
		return writeCSV(ctx, w, table)
	case JSON:
		return writeJSON(ctx, w, table, true, opts.Pretty)
	case JSONL:
		return writeJSON(ctx, w, table, false, false)
	case Arrow:
		return writeArrow(ctx, writeOnly{w}, table, opts)
	case Parquet:
		return writeParquet(ctx, writeOnly{w}, table, opts)
	default:
		return errors.Newf(errors.ErrorTypeValidation, "unknown export format %q", opts.Format)
	}
}

func checkContext(ctx context.Context, n int) error {
	if n%DefaultBatchSize != 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "export cancelled")
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// writeOnly hides any Close method so columnar writers cannot close the
// compression stream underneath them.
type writeOnly struct {
	io.Writer
}
