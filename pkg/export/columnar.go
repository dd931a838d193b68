package export

import (
	"context"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/errors"
	jsonpool "github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/json"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/models"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/schema"
)

// TypeMetadataKey is the Arrow field metadata key holding the inferred column type
const TypeMetadataKey = "tablegrid.type"

// ArrowSchema returns the Arrow schema of table. A number column is float64
// and a boolean column is bool when every non-empty raw value converts
// without loss; every other column is a nullable string.
func ArrowSchema(table *models.Table, types map[string]schema.SemanticType) *arrow.Schema {
	fields := table.Fields()
	out := make([]arrow.Field, len(fields))
	for i, f := range fields {
		typ := types[f]
		out[i] = arrow.Field{
			Name:     f,
			Type:     columnType(f, typ, table.Rows),
			Nullable: true,
			Metadata: arrow.NewMetadata([]string{TypeMetadataKey}, []string{typ.String()}),
		}
	}
	return arrow.NewSchema(out, arrow.NewMetadata([]string{"tablegrid.table"}, []string{table.Name}))
}

func columnType(field string, typ schema.SemanticType, rows []models.Row) arrow.DataType {
	switch typ {
	case schema.TypeNumber:
		if allValues(field, rows, func(v interface{}) bool { _, ok := exactFloat(v); return ok }) {
			return arrow.PrimitiveTypes.Float64
		}
	case schema.TypeBoolean:
		if allValues(field, rows, func(v interface{}) bool { _, ok := exactBool(v); return ok }) {
			return arrow.FixedWidthTypes.Boolean
		}
	}
	return arrow.BinaryTypes.String
}

func allValues(field string, rows []models.Row, ok func(interface{}) bool) bool {
	for _, row := range rows {
		v := row[field]
		if isNull(v) {
			continue
		}
		if !ok(v) {
			return false
		}
	}
	return true
}

func isNull(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// exactFloat converts numbers and strings that are plain decimal literals.
func exactFloat(v interface{}) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case jsonpool.Number:
		f, err = x.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(x), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func exactBool(v interface{}) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// recordBatches builds the table in batches of size rows and hands each
// record to emit, releasing it afterwards.
func recordBatches(ctx context.Context, table *models.Table, sc *arrow.Schema, size int, emit func(arrow.Record) error) error {
	mem := memory.NewGoAllocator()
	b := array.NewRecordBuilder(mem, sc)
	defer b.Release()

	flush := func() error {
		rec := b.NewRecord()
		defer rec.Release()
		if rec.NumRows() == 0 {
			return nil
		}
		return emit(rec)
	}

	fields := sc.Fields()
	for i, row := range table.Rows {
		if err := ctx.Err(); err != nil && i%size == 0 {
			return errors.Wrap(err, errors.ErrorTypeInternal, "export cancelled")
		}
		for j, f := range fields {
			appendValue(b.Field(j), row[f.Name])
		}
		if (i+1)%size == 0 {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

func appendValue(builder array.Builder, v interface{}) {
	if isNull(v) {
		builder.AppendNull()
		return
	}
	switch b := builder.(type) {
	case *array.Float64Builder:
		if f, ok := exactFloat(v); ok {
			b.Append(f)
			return
		}
	case *array.BooleanBuilder:
		if x, ok := exactBool(v); ok {
			b.Append(x)
			return
		}
	case *array.StringBuilder:
		b.Append(CellString(v))
		return
	}
	builder.AppendNull()
}

func writeArrow(ctx context.Context, w io.Writer, table *models.Table, opts Options) error {
	sc := ArrowSchema(table, opts.Types)
	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(sc), ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create Arrow writer")
	}

	err = recordBatches(ctx, table, sc, opts.BatchSize, func(rec arrow.Record) error {
		if err := fw.Write(rec); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write record batch")
		}
		return nil
	})
	if err != nil {
		_ = fw.Close()
		return err
	}
	if err := fw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close Arrow writer")
	}
	return nil
}

func writeParquet(ctx context.Context, w io.Writer, table *models.Table, opts Options) error {
	sc := ArrowSchema(table, opts.Types)
	mem := memory.NewGoAllocator()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithAllocator(mem),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(
		pqarrow.WithAllocator(mem),
		pqarrow.WithStoreSchema(),
	)

	fw, err := pqarrow.NewFileWriter(sc, w, props, arrowProps)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create Parquet writer")
	}

	err = recordBatches(ctx, table, sc, opts.BatchSize, func(rec arrow.Record) error {
		if err := fw.Write(rec); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write row group")
		}
		return nil
	})
	if err != nil {
		_ = fw.Close()
		return err
	}
	if err := fw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close Parquet writer")
	}
	return nil
}
