package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"

	"go.uber.org/zap"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/errors"
	jsonpool "github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/json"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/models"
)

// maxLineSize bounds one JSONL record
const maxLineSize = 16 * 1024 * 1024

// listExport is a saved list: declared columns plus rows whose cells live in data.
type listExport struct {
	List struct {
		Name string `json:"name"`
	} `json:"list"`
	Columns []struct {
		Name     string `json:"name"`
		Type     string `json:"type"`
		Required bool   `json:"required"`
	} `json:"columns"`
	Rows []struct {
		ID   interface{}         `json:"id"`
		Data jsonpool.RawMessage `json:"data"`
	} `json:"rows"`
}

// runKeys are the top-level keys that hold a run's entity list, in the order
// they are tried.
var runKeys = []string{"result", "results", "entities"}

// outputKeys are tried inside an "output" object.
var outputKeys = []string{"results", "result"}

// entityBuilder accumulates rows and the first-seen field order.
type entityBuilder struct {
	order   *models.FieldOrder
	rows    []models.Row
	skipped int
}

func newEntityBuilder() *entityBuilder {
	return &entityBuilder{order: models.NewFieldOrder()}
}

// add decodes one entity. Entities that are not objects are counted and skipped.
func (b *entityBuilder) add(raw []byte) error {
	row, keys, ok, err := decodeObject(raw)
	if err != nil {
		return err
	}
	if !ok {
		b.skipped++
		return nil
	}
	for _, k := range keys {
		b.order.Add(k)
	}
	b.rows = append(b.rows, row)
	return nil
}

func (b *entityBuilder) table() *models.Table {
	return models.NewTable("", b.order.Columns(), b.rows)
}

func (l *Loader) readJSON(ctx context.Context, r io.Reader) (*models.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read input")
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return models.NewTable("", nil, nil), nil
	}
	if !jsonpool.Valid(data) {
		return nil, errors.New(errors.ErrorTypeData, "input is not valid JSON")
	}

	switch data[0] {
	case '[':
		return l.readEntities(ctx, data)
	case '{':
		return l.readDocument(ctx, data)
	default:
		return nil, errors.New(errors.ErrorTypeData, "input must be a JSON object or array")
	}
}

// readDocument unwraps a list export or a run output.
func (l *Loader) readDocument(ctx context.Context, data []byte) (*models.Table, error) {
	var doc map[string]jsonpool.RawMessage
	if err := jsonpool.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to decode document")
	}

	if _, ok := doc["rows"]; ok {
		if _, ok := doc["columns"]; ok {
			return l.readListExport(ctx, data)
		}
	}

	if entities, ok := findEntities(doc); ok {
		return l.readEntities(ctx, entities)
	}

	if extracted, ok := doc["extracted"]; ok && len(extracted) > 0 {
		switch bytes.TrimSpace(extracted)[0] {
		case '[':
			return l.readEntities(ctx, extracted)
		case '{':
			return l.readDocument(ctx, extracted)
		}
	}

	return nil, errors.New(errors.ErrorTypeData, "no rows found: expected a list export, a run output or an array of objects")
}

// findEntities returns the entity array of a run output: result, results or
// entities at the top level, then results or result inside output, then a
// legacy output array.
func findEntities(doc map[string]jsonpool.RawMessage) ([]byte, bool) {
	for _, k := range runKeys {
		if v, ok := doc[k]; ok && isArray(v) {
			return v, true
		}
	}

	out, ok := doc["output"]
	if !ok {
		return nil, false
	}
	if isArray(out) {
		return out, true
	}
	var inner map[string]jsonpool.RawMessage
	if err := jsonpool.Unmarshal(out, &inner); err != nil {
		return nil, false
	}
	for _, k := range outputKeys {
		if v, ok := inner[k]; ok && isArray(v) {
			return v, true
		}
	}
	return nil, false
}

func isArray(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func (l *Loader) readEntities(ctx context.Context, data []byte) (*models.Table, error) {
	var items []jsonpool.RawMessage
	if err := jsonpool.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to decode entity array")
	}

	b := newEntityBuilder()
	for i, item := range items {
		if err := checkContext(ctx, i); err != nil {
			return nil, err
		}
		if err := b.add(item); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "invalid entity").WithDetail("index", i)
		}
	}
	if b.skipped > 0 {
		l.logger.Warn("skipped entities that are not objects", zap.Int("skipped", b.skipped))
	}
	return b.table(), nil
}

func (l *Loader) readListExport(ctx context.Context, data []byte) (*models.Table, error) {
	var doc listExport
	if err := jsonpool.UnmarshalUseNumber(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to decode list export")
	}

	order := models.NewFieldOrder()
	order.Add(models.IDField)
	declared := make(map[string]models.Column, len(doc.Columns))
	for _, c := range doc.Columns {
		order.Add(c.Name)
		declared[c.Name] = models.Column{ID: c.Name, Field: c.Name, Name: c.Name, DeclaredType: c.Type, Required: c.Required}
	}

	rows := make([]models.Row, 0, len(doc.Rows))
	for i, r := range doc.Rows {
		if err := checkContext(ctx, i); err != nil {
			return nil, err
		}
		row := models.Row{}
		if len(bytes.TrimSpace(r.Data)) > 0 && !bytes.Equal(bytes.TrimSpace(r.Data), []byte("null")) {
			values, keys, ok, err := decodeObject(r.Data)
			if err != nil || !ok {
				return nil, errors.New(errors.ErrorTypeData, "list row data must be an object").WithDetail("index", i)
			}
			for _, k := range keys {
				order.Add(k)
			}
			row = values
		}
		row[models.IDField] = r.ID
		rows = append(rows, row)
	}

	fields := order.Fields()
	columns := make([]models.Column, len(fields))
	for i, f := range fields {
		if c, ok := declared[f]; ok {
			columns[i] = c
			continue
		}
		columns[i] = models.NewColumn(f)
	}
	return models.NewTable(doc.List.Name, columns, rows), nil
}

func (l *Loader) readJSONL(ctx context.Context, r io.Reader) (*models.Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	b := newEntityBuilder()
	line := 0
	for scanner.Scan() {
		line++
		if err := checkContext(ctx, line); err != nil {
			return nil, err
		}
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		if !jsonpool.Valid(text) {
			return nil, errors.New(errors.ErrorTypeData, "invalid JSON line").WithDetail("line", line)
		}
		if err := b.add(text); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "invalid JSON line").WithDetail("line", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read input")
	}
	if b.skipped > 0 {
		l.logger.Warn("skipped lines that are not objects", zap.Int("skipped", b.skipped))
	}
	return b.table(), nil
}

// decodeObject decodes raw into a row and its keys in document order. ok is
// false when raw is valid JSON but not an object.
func decodeObject(raw []byte) (row models.Row, keys []string, ok bool, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, nil, false, nil
	}

	var values map[string]interface{}
	if err := jsonpool.UnmarshalUseNumber(raw, &values); err != nil {
		return nil, nil, false, err
	}
	keys, err = objectKeys(raw)
	if err != nil {
		return nil, nil, false, err
	}
	return models.Row(values), keys, true, nil
}

// objectKeys lists the top-level keys of a JSON object in source order.
func objectKeys(raw []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeData, "unexpected token %v", tok)
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
