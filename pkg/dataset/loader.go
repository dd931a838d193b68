// Package dataset loads scraped row documents into models.Table values.
//
// Supported inputs are list exports, run outputs, plain JSON arrays of
// objects, line-delimited JSON and CSV with a header row. Any of them may be
// compressed with an algorithm from pkg/compression, detected from the file
// suffix. Fields keep the order in which they first appear in the document.
package dataset

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/compression"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/errors"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/models"
)

// Format is the syntax of an input document.
type Format string

const (
	FormatAuto  Format = "auto"
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
)

// ParseFormat returns the format named s. The empty string is FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatJSON, FormatJSONL, FormatCSV:
		return f, nil
	case "ndjson":
		return FormatJSONL, nil
	default:
		return "", errors.Newf(errors.ErrorTypeValidation, "unknown input format %q", s)
	}
}

// DetectFormat guesses the format of path from its suffix, ignoring any
// compression suffix. Unknown suffixes are read as JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(compression.TrimExtension(path))) {
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".csv":
		return FormatCSV
	default:
		return FormatJSON
	}
}

// TableName derives a table name from a file path: the base name without
// compression and format suffixes.
func TableName(path string) string {
	base := filepath.Base(compression.TrimExtension(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// checkEvery is how many rows are read between context checks
const checkEvery = 1000

// Loader reads row documents.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a loader. A nil logger disables logging.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// LoadFile reads the document at path. FormatAuto picks the format from the
// file suffix; compressed files are decompressed transparently.
func (l *Loader) LoadFile(ctx context.Context, path string, format Format) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open input").WithDetail("path", path)
	}
	defer f.Close()

	if format == "" || format == FormatAuto {
		format = DetectFormat(path)
	}

	r, err := compression.NewReader(bufio.NewReaderSize(f, 64*1024), compression.FromPath(path))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open compressed input").WithDetail("path", path)
	}
	defer r.Close()

	table, err := l.Read(ctx, r, format, TableName(path))
	if err != nil {
		return nil, err
	}
	l.logger.Info("loaded table",
		zap.String("table", table.Name),
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("columns", len(table.Columns)),
		zap.Int("rows", len(table.Rows)))
	return table, nil
}

// Read parses a document of the given format from r. name is used unless the
// document carries its own table name.
func (l *Loader) Read(ctx context.Context, r io.Reader, format Format, name string) (*models.Table, error) {
	var (
		table *models.Table
		err   error
	)
	switch format {
	case FormatJSON, FormatAuto, "":
		table, err = l.readJSON(ctx, r)
	case FormatJSONL:
		table, err = l.readJSONL(ctx, r)
	case FormatCSV:
		table, err = l.readCSV(ctx, r)
	default:
		return nil, errors.Newf(errors.ErrorTypeValidation, "unknown input format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if table.Name == "" {
		table.Name = name
	}
	return table, nil
}

func checkContext(ctx context.Context, n int) error {
	if n%checkEvery != 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "loading cancelled")
	}
	return nil
}
