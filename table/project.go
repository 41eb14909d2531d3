// Package table provides the Arrow table operations a Dataset delegates to:
// projection, missing-value statistics and fills, summaries, correlation and
// file readers.
package table

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// ColumnIndex returns the position of the named column.
func ColumnIndex(tbl arrow.Table, name string) (int, error) {
	indices := tbl.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return -1, &ColumnNotFoundError{Name: name}
	}
	return indices[0], nil
}

// ColumnNames returns the column names in schema order.
func ColumnNames(tbl arrow.Table) []string {
	fields := tbl.Schema().Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// DropColumns returns a new table without the named columns. Every name
// must exist; otherwise no table is built and a ColumnNotFoundError is
// returned. Column data is shared with the input.
func DropColumns(tbl arrow.Table, names []string) (arrow.Table, error) {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		if _, err := ColumnIndex(tbl, name); err != nil {
			return nil, err
		}
		drop[name] = true
	}

	keep := make([]int, 0, tbl.NumCols())
	for i, f := range tbl.Schema().Fields() {
		if !drop[f.Name] {
			keep = append(keep, i)
		}
	}
	return project(tbl, keep), nil
}

// SelectColumns returns a new table holding the named columns in the given
// order.
func SelectColumns(tbl arrow.Table, names []string) (arrow.Table, error) {
	indices := make([]int, len(names))
	for i, name := range names {
		idx, err := ColumnIndex(tbl, name)
		if err != nil {
			return nil, err
		}
		indices[i] = idx
	}
	return project(tbl, indices), nil
}

// project builds a table from a subset of columns.
func project(tbl arrow.Table, indices []int) arrow.Table {
	fields := make([]arrow.Field, len(indices))
	cols := make([]arrow.Column, len(indices))
	for j, i := range indices {
		fields[j] = tbl.Schema().Field(i)
		cols[j] = *tbl.Column(i)
	}

	md := tbl.Schema().Metadata()
	schema := arrow.NewSchema(fields, &md)
	return array.NewTable(schema, cols, tbl.NumRows())
}

// withColumns builds a table where the columns at the given positions are
// swapped for replacements.
func withColumns(tbl arrow.Table, replaced map[int]*arrow.Column) arrow.Table {
	n := int(tbl.NumCols())
	fields := make([]arrow.Field, n)
	cols := make([]arrow.Column, n)
	for i := 0; i < n; i++ {
		col := tbl.Column(i)
		if r, ok := replaced[i]; ok {
			col = r
		}
		fields[i] = col.Field()
		cols[i] = *col
	}

	md := tbl.Schema().Metadata()
	schema := arrow.NewSchema(fields, &md)
	return array.NewTable(schema, cols, tbl.NumRows())
}

// Head returns a table with the first n rows. Arrays are sliced, not copied.
func Head(tbl arrow.Table, n int64) arrow.Table {
	if n < 0 {
		n = 0
	}
	if n > tbl.NumRows() {
		n = tbl.NumRows()
	}

	numCols := int(tbl.NumCols())
	cols := make([]arrow.Column, numCols)
	for i := 0; i < numCols; i++ {
		col := tbl.Column(i)

		var parts []arrow.Array
		remaining := n
		for _, chunk := range col.Data().Chunks() {
			if remaining == 0 {
				break
			}
			take := int64(chunk.Len())
			if take > remaining {
				take = remaining
			}
			parts = append(parts, array.NewSlice(chunk, 0, take))
			remaining -= take
		}

		chunked := arrow.NewChunked(col.DataType(), parts)
		cols[i] = *arrow.NewColumn(col.Field(), chunked)
		chunked.Release()
		for _, s := range parts {
			s.Release()
		}
	}

	head := array.NewTable(tbl.Schema(), cols, n)
	for i := range cols {
		cols[i].Release()
	}
	return head
}

// Equal reports whether two tables have the same schema and values.
// NaN floats never compare equal.
func Equal(a, b arrow.Table) bool {
	if !a.Schema().Equal(b.Schema()) {
		return false
	}
	if a.NumRows() != b.NumRows() || a.NumCols() != b.NumCols() {
		return false
	}
	for i := 0; i < int(a.NumCols()); i++ {
		if !array.ChunkedEqual(a.Column(i).Data(), b.Column(i).Data()) {
			return false
		}
	}
	return true
}
