package table

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/linkedin/goavro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrobridgeOrg/go-dataset/internal/testutil"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"data.csv", FormatCSV, false},
		{"s3://bucket/dir/DATA.CSV", FormatCSV, false},
		{"/tmp/x.parquet", FormatParquet, false},
		{"x.pq", FormatParquet, false},
		{"x.avro", FormatAvro, false},
		{"x.json", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadCSV(t *testing.T) {
	data := "id,score,name\n" +
		"1,1.5,a\n" +
		"2,,b\n" +
		"3,NA,c\n"

	tbl, err := Read(context.Background(), strings.NewReader(data), FormatCSV, nil)
	require.NoError(t, err)
	defer tbl.Release()

	assert.Equal(t, []string{"id", "score", "name"}, testutil.Names(tbl))
	assert.Equal(t, int64(3), tbl.NumRows())
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, testutil.Values(t, tbl, "id"))
	assert.Equal(t, []any{1.5, nil, nil}, testutil.Values(t, tbl, "score"))
	assert.Equal(t, []any{"a", "b", "c"}, testutil.Values(t, tbl, "name"))
}

func TestReadAvro(t *testing.T) {
	schema := `{
		"type": "record",
		"name": "row",
		"fields": [
			{"name": "id", "type": "long"},
			{"name": "score", "type": ["null", "double"]},
			{"name": "name", "type": "string"}
		]
	}`

	buf := new(bytes.Buffer)
	ocf, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               buf,
		Schema:          schema,
		CompressionName: "deflate",
	})
	require.NoError(t, err)

	err = ocf.Append([]any{
		map[string]any{"id": int64(1), "score": goavro.Union("double", 1.5), "name": "a"},
		map[string]any{"id": int64(2), "score": goavro.Union("null", nil), "name": "b"},
		map[string]any{"id": int64(3), "score": goavro.Union("double", 4.0), "name": "c"},
	})
	require.NoError(t, err)

	tbl, err := Read(context.Background(), buf, FormatAvro, memory.DefaultAllocator)
	require.NoError(t, err)
	defer tbl.Release()

	assert.Equal(t, []string{"id", "score", "name"}, testutil.Names(tbl))
	assert.True(t, arrow.TypeEqual(arrow.PrimitiveTypes.Int64, tbl.Column(0).DataType()))
	assert.True(t, tbl.Schema().Field(1).Nullable)
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, testutil.Values(t, tbl, "id"))
	assert.Equal(t, []any{1.5, nil, 4.0}, testutil.Values(t, tbl, "score"))
	assert.Equal(t, []any{"a", "b", "c"}, testutil.Values(t, tbl, "name"))
}

func TestReadAvroRejectsNonRecord(t *testing.T) {
	buf := new(bytes.Buffer)
	ocf, err := goavro.NewOCFWriter(goavro.OCFConfig{W: buf, Schema: `"long"`})
	require.NoError(t, err)
	require.NoError(t, ocf.Append([]any{int64(1)}))

	_, err = ReadAvro(buf, memory.DefaultAllocator)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestReadParquet(t *testing.T) {
	src := testutil.NewTable(t,
		testutil.Int64("id", 1, 2, 3),
		testutil.Float64("score", 1.5, nil, 3.5),
		testutil.String("name", "a", "b", nil),
	)

	buf := new(bytes.Buffer)
	writerProps := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	require.NoError(t, pqarrow.WriteTable(src, buf, 1024, writerProps, arrowProps))

	tbl, err := Read(context.Background(), buf, FormatParquet, nil)
	require.NoError(t, err)
	defer tbl.Release()

	assert.Equal(t, []string{"id", "score", "name"}, testutil.Names(tbl))
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, testutil.Values(t, tbl, "id"))
	assert.Equal(t, []any{1.5, nil, 3.5}, testutil.Values(t, tbl, "score"))
	assert.Equal(t, []any{"a", "b", nil}, testutil.Values(t, tbl, "name"))
}

func TestReadUnsupportedFormat(t *testing.T) {
	_, err := Read(context.Background(), strings.NewReader(""), Format("xlsx"), nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
