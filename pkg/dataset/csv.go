package dataset

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/errors"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/models"
)

const utf8BOM = "\ufeff"

// readCSV reads a header row followed by records. Every cell is a string;
// short records are padded with "" and extra cells are dropped. Blank and
// repeated header names get positional names.
func (l *Loader) readCSV(ctx context.Context, r io.Reader) (*models.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return models.NewTable("", nil, nil), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read CSV header")
	}
	fields := headerFields(header)

	columns := make([]models.Column, len(fields))
	for i, f := range fields {
		columns[i] = models.NewColumn(f)
	}

	var rows []models.Row
	for n := 1; ; n++ {
		if err := checkContext(ctx, n); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read CSV record").WithDetail("record", n)
		}

		row := make(models.Row, len(fields))
		for i, f := range fields {
			if i < len(record) {
				row[f] = record[i]
			} else {
				row[f] = ""
			}
		}
		rows = append(rows, row)
	}
	return models.NewTable("", columns, rows), nil
}

func headerFields(header []string) []string {
	fields := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		h = strings.TrimSpace(h)
		if h == "" || seen[h] {
			h = "column_" + strconv.Itoa(i+1)
		}
		seen[h] = true
		fields[i] = h
	}
	return fields
}
