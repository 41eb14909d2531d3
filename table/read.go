package table

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/linkedin/goavro/v2"
)

// Format identifies a table file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
	FormatAvro    Format = "avro"
)

// NullValues are the CSV cell values read as missing.
var NullValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL"}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(p string) (Format, error) {
	switch strings.ToLower(path.Ext(p)) {
	case ".csv":
		return FormatCSV, nil
	case ".parquet", ".pq":
		return FormatParquet, nil
	case ".avro":
		return FormatAvro, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, p)
	}
}

// Read reads a whole table of the given format.
func Read(ctx context.Context, r io.Reader, format Format, mem memory.Allocator) (arrow.Table, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	switch format {
	case FormatCSV:
		return ReadCSV(r, mem)
	case FormatParquet:
		return ReadParquet(ctx, r, mem)
	case FormatAvro:
		return ReadAvro(r, mem)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// ReadCSV reads a CSV file with a header row, inferring column types.
func ReadCSV(r io.Reader, mem memory.Allocator) (arrow.Table, error) {
	reader := csv.NewInferringReader(r,
		csv.WithHeader(true),
		csv.WithAllocator(mem),
		csv.WithChunk(1024),
		csv.WithNullReader(true, NullValues...),
	)
	defer reader.Release()

	var records []arrow.Record
	defer func() {
		for _, rec := range records {
			rec.Release()
		}
	}()

	for reader.Next() {
		rec := reader.Record()
		rec.Retain()
		records = append(records, rec)
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	schema := reader.Schema()
	if schema == nil {
		return nil, fmt.Errorf("%w: csv has no data rows", ErrInvalidData)
	}

	return array.NewTableFromRecords(schema, records), nil
}

// ReadParquet reads a Parquet file into an Arrow table.
func ReadParquet(ctx context.Context, r io.Reader, mem memory.Allocator) (arrow.Table, error) {
	// Parquet needs a ReaderAt
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, r); err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}

	pqReader, err := file.NewParquetReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	return arrowReader.ReadTable(ctx)
}

// ReadAvro reads an Avro object container file whose schema is a record of
// primitive fields, optionally in ["null", T] unions.
func ReadAvro(r io.Reader, mem memory.Allocator) (arrow.Table, error) {
	ocf, err := goavro.NewOCFReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCF reader: %w", err)
	}

	schema, err := avroSchemaToArrow(ocf.Codec().Schema())
	if err != nil {
		return nil, err
	}

	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()

	for ocf.Scan() {
		datum, err := ocf.Read()
		if err != nil {
			return nil, fmt.Errorf("failed to read avro record: %w", err)
		}

		m, ok := datum.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected avro record type %T", ErrInvalidData, datum)
		}

		for i, f := range schema.Fields() {
			if err := appendGoValue(builder.Field(i), unwrapUnion(m[f.Name])); err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
		}
	}
	if err := ocf.Err(); err != nil {
		return nil, fmt.Errorf("error reading avro file: %w", err)
	}

	rec := builder.NewRecord()
	defer rec.Release()

	return array.NewTableFromRecords(schema, []arrow.Record{rec}), nil
}

// unwrapUnion returns the branch value of a goavro union datum.
func unwrapUnion(v any) any {
	if union, ok := v.(map[string]any); ok && len(union) == 1 {
		for _, inner := range union {
			return inner
		}
	}
	return v
}

type avroRecordSchema struct {
	Type   string `json:"type"`
	Fields []struct {
		Name string          `json:"name"`
		Type json.RawMessage `json:"type"`
	} `json:"fields"`
}

// avroSchemaToArrow converts a record schema to an Arrow schema.
func avroSchemaToArrow(schemaJSON string) (*arrow.Schema, error) {
	var rs avroRecordSchema
	if err := json.Unmarshal([]byte(schemaJSON), &rs); err != nil || rs.Type != "record" {
		return nil, fmt.Errorf("%w: avro schema must be a record, got %q", ErrUnsupportedType, rs.Type)
	}

	fields := make([]arrow.Field, len(rs.Fields))
	for i, f := range rs.Fields {
		dt, nullable, err := avroFieldType(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		fields[i] = arrow.Field{Name: f.Name, Type: dt, Nullable: nullable}
	}
	return arrow.NewSchema(fields, nil), nil
}

func avroFieldType(raw json.RawMessage) (arrow.DataType, bool, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		dt, err := avroPrimitive(name)
		return dt, false, err
	}

	var union []json.RawMessage
	if err := json.Unmarshal(raw, &union); err == nil {
		var (
			dt       arrow.DataType
			nullable bool
		)
		for _, branch := range union {
			var b string
			if err := json.Unmarshal(branch, &b); err == nil && b == "null" {
				nullable = true
				continue
			}
			if dt != nil {
				return nil, false, fmt.Errorf("%w: union with several value branches", ErrUnsupportedType)
			}
			inner, _, err := avroFieldType(branch)
			if err != nil {
				return nil, false, err
			}
			dt = inner
		}
		if dt == nil {
			return nil, false, fmt.Errorf("%w: null-only union", ErrUnsupportedType)
		}
		return dt, nullable, nil
	}

	var complexType struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &complexType); err != nil {
		return nil, false, fmt.Errorf("%w: avro type %s", ErrInvalidData, raw)
	}
	dt, err := avroPrimitive(complexType.Type)
	return dt, false, err
}

func avroPrimitive(name string) (arrow.DataType, error) {
	switch name {
	case "boolean":
		return arrow.FixedWidthTypes.Boolean, nil
	case "int":
		return arrow.PrimitiveTypes.Int32, nil
	case "long":
		return arrow.PrimitiveTypes.Int64, nil
	case "float":
		return arrow.PrimitiveTypes.Float32, nil
	case "double":
		return arrow.PrimitiveTypes.Float64, nil
	case "string":
		return arrow.BinaryTypes.String, nil
	default:
		return nil, fmt.Errorf("%w: avro type %q", ErrUnsupportedType, name)
	}
}
