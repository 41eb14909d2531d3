// Package testutil builds small Arrow tables for tests.
package testutil

import (
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Column is a named column with its values; nil entries become nulls.
type Column struct {
	Field  arrow.Field
	Values []any
}

// Float64 creates a float64 column.
func Float64(name string, values ...any) Column {
	return Column{Field: arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64, Nullable: true}, Values: values}
}

// Int64 creates an int64 column.
func Int64(name string, values ...any) Column {
	return Column{Field: arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int64, Nullable: true}, Values: values}
}

// Int8 creates an int8 column.
func Int8(name string, values ...any) Column {
	return Column{Field: arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int8, Nullable: true}, Values: values}
}

// Uint64 creates a uint64 column.
func Uint64(name string, values ...any) Column {
	return Column{Field: arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Uint64, Nullable: true}, Values: values}
}

// String creates a string column.
func String(name string, values ...any) Column {
	return Column{Field: arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true}, Values: values}
}

// Bool creates a boolean column.
func Bool(name string, values ...any) Column {
	return Column{Field: arrow.Field{Name: name, Type: arrow.FixedWidthTypes.Boolean, Nullable: true}, Values: values}
}

// NewTable builds a single-chunk table from columns of equal length. The
// table is released when the test ends.
func NewTable(tb testing.TB, cols ...Column) arrow.Table {
	tb.Helper()

	fields := make([]arrow.Field, len(cols))
	for i, c := range cols {
		fields[i] = c.Field
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	for i, c := range cols {
		fb := builder.Field(i)
		for _, v := range c.Values {
			if v == nil {
				fb.AppendNull()
				continue
			}
			switch b := fb.(type) {
			case *array.Float64Builder:
				b.Append(toFloat(tb, v))
			case *array.Int64Builder:
				b.Append(toInt(tb, v))
			case *array.Int8Builder:
				b.Append(int8(toInt(tb, v)))
			case *array.Uint64Builder:
				if u, ok := v.(uint64); ok {
					b.Append(u)
				} else {
					b.Append(uint64(toInt(tb, v)))
				}
			case *array.StringBuilder:
				b.Append(v.(string))
			case *array.BooleanBuilder:
				b.Append(v.(bool))
			default:
				tb.Fatalf("unsupported builder %T", fb)
			}
		}
	}

	rec := builder.NewRecord()
	defer rec.Release()

	tbl := array.NewTableFromRecords(schema, []arrow.Record{rec})
	tb.Cleanup(tbl.Release)
	return tbl
}

// Values returns the column's values as Go values with nil for nulls.
func Values(tb testing.TB, tbl arrow.Table, name string) []any {
	tb.Helper()

	indices := tbl.Schema().FieldIndices(name)
	if len(indices) == 0 {
		tb.Fatalf("column %s not found", name)
	}

	var out []any
	for _, chunk := range tbl.Column(indices[0]).Data().Chunks() {
		for i := 0; i < chunk.Len(); i++ {
			if chunk.IsNull(i) {
				out = append(out, nil)
				continue
			}
			switch a := chunk.(type) {
			case *array.Float64:
				out = append(out, a.Value(i))
			case *array.Int64:
				out = append(out, a.Value(i))
			case *array.Int32:
				out = append(out, a.Value(i))
			case *array.Int8:
				out = append(out, a.Value(i))
			case *array.Uint64:
				out = append(out, a.Value(i))
			case *array.String:
				out = append(out, a.Value(i))
			case *array.Boolean:
				out = append(out, a.Value(i))
			default:
				out = append(out, chunk.ValueStr(i))
			}
		}
	}
	return out
}

func toFloat(tb testing.TB, v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case int64:
		return float64(x)
	default:
		tb.Fatalf("unsupported value %v", v)
		return math.NaN()
	}
}

// toInt keeps integers exact; float64 values are truncated.
func toInt(tb testing.TB, v any) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int64:
		return x
	default:
		return int64(toFloat(tb, v))
	}
}

// Names returns the table's column names.
func Names(tbl arrow.Table) []string {
	var names []string
	for _, f := range tbl.Schema().Fields() {
		names = append(names, f.Name)
	}
	return names
}
