package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/errors"
	jsonpool "github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/json"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/models"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/schema"
)

// CellString is the text form of a raw value in text exports: "" for nil,
// compact JSON for objects and arrays, otherwise the value's string form.
func CellString(value interface{}) string {
	if value == nil {
		return ""
	}
	return schema.CellText(value)
}

func writeCSV(ctx context.Context, w io.Writer, table *models.Table) error {
	cw := csv.NewWriter(w)
	fields := table.Fields()

	if err := cw.Write(fields); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write CSV header")
	}

	record := make([]string, len(fields))
	for i, row := range table.Rows {
		if err := checkContext(ctx, i); err != nil {
			return err
		}
		for j, f := range fields {
			record[j] = CellString(row[f])
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write CSV record")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush CSV")
	}
	return nil
}

// orderedRow encodes a row as a JSON object with keys in column order.
// Fields missing from the row are omitted.
type orderedRow struct {
	fields []string
	row    models.Row
}

func (o orderedRow) MarshalJSON() ([]byte, error) {
	buf := jsonpool.GetBuffer()
	defer jsonpool.PutBuffer(buf)

	enc := jsonpool.NewEncoder(buf)
	buf.WriteByte('{')
	first := true
	for _, f := range o.fields {
		v, ok := o.row[f]
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := enc.Encode(f); err != nil {
			return nil, err
		}
		trimNewline(buf)
		buf.WriteByte(':')
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		trimNewline(buf)
	}
	buf.WriteByte('}')

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

func trimNewline(buf *bytes.Buffer) {
	if n := buf.Len(); n > 0 && buf.Bytes()[n-1] == '\n' {
		buf.Truncate(n - 1)
	}
}

func writeJSON(ctx context.Context, w io.Writer, table *models.Table, array, pretty bool) error {
	enc := jsonpool.NewStreamingEncoder(w, array)
	if pretty {
		enc.SetPretty(true, "  ")
	}

	fields := table.Fields()
	for i, row := range table.Rows {
		if err := checkContext(ctx, i); err != nil {
			return err
		}
		if err := enc.Encode(orderedRow{fields: fields, row: row}); err != nil {
			return errors.Wrap(err, errors.ErrorTypeData, "failed to encode row").WithDetail("row", i)
		}
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to finish JSON")
	}
	return nil
}
