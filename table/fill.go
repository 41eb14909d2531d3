package table

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"gonum.org/v1/gonum/stat"
)

// FillStrategy selects how missing values are replaced.
type FillStrategy int

const (
	// FillMedian replaces missing values with the median of observed values.
	FillMedian FillStrategy = iota
	// FillMean replaces missing values with the mean of observed values.
	FillMean
	// FillMode replaces missing values with the most frequent observed value.
	FillMode
	// FillConstant replaces missing values with a caller-supplied value.
	FillConstant
)

// String returns the strategy name.
func (s FillStrategy) String() string {
	switch s {
	case FillMedian:
		return "median"
	case FillMean:
		return "mean"
	case FillMode:
		return "mode"
	case FillConstant:
		return "constant"
	default:
		return fmt.Sprintf("FillStrategy(%d)", int(s))
	}
}

// ParseFillStrategy parses a strategy name.
func ParseFillStrategy(s string) (FillStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "median", "":
		return FillMedian, nil
	case "mean":
		return FillMean, nil
	case "mode":
		return FillMode, nil
	case "constant":
		return FillConstant, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedStrategy, s)
	}
}

// FillSpec describes a replacement of missing values.
type FillSpec struct {
	Strategy FillStrategy
	// Value is used by FillConstant.
	Value any
}

// FillMissing returns a new table in which missing values of the named
// columns are replaced according to spec. All names are checked before any
// column is rebuilt. Median and mean fills promote integer columns to
// float64; mode and constant fills keep the column type. Columns without
// missing values, or without any observed value to derive a fill from, are
// shared unchanged.
func FillMissing(tbl arrow.Table, columns []string, spec FillSpec, mem memory.Allocator) (arrow.Table, error) {
	switch spec.Strategy {
	case FillMedian, FillMean, FillMode:
	case FillConstant:
		if spec.Value == nil {
			return nil, ErrMissingFillValue
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedStrategy, spec.Strategy)
	}

	if mem == nil {
		mem = memory.DefaultAllocator
	}

	indices := make([]int, 0, len(columns))
	seen := make(map[int]bool, len(columns))
	for _, name := range columns {
		idx, err := ColumnIndex(tbl, name)
		if err != nil {
			return nil, err
		}
		if !seen[idx] {
			seen[idx] = true
			indices = append(indices, idx)
		}
	}

	replaced := make(map[int]*arrow.Column, len(indices))
	defer func() {
		for _, col := range replaced {
			col.Release()
		}
	}()

	for _, idx := range indices {
		col, err := fillColumn(tbl.Column(idx), spec, mem)
		if err != nil {
			return nil, err
		}
		if col != nil {
			replaced[idx] = col
		}
	}

	return withColumns(tbl, replaced), nil
}

// fillColumn rebuilds one column. It returns nil when the column stays as is.
func fillColumn(col *arrow.Column, spec FillSpec, mem memory.Allocator) (*arrow.Column, error) {
	dt := col.DataType()
	target := dt

	var fill any
	switch spec.Strategy {
	case FillMedian, FillMean:
		if !IsNumeric(dt) {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedStrategy, &UnsupportedTypeError{
				Column:    col.Name(),
				Type:      dt.String(),
				Operation: spec.Strategy.String() + " fill",
			})
		}
		observed := ObservedFloat64s(col.Data())
		if len(observed) == 0 {
			return nil, nil
		}
		if spec.Strategy == FillMedian {
			fill = Median(observed)
		} else {
			fill = stat.Mean(observed, nil)
		}
		if arrow.IsInteger(dt.ID()) {
			target = arrow.PrimitiveTypes.Float64
		}
	case FillMode:
		v, ok := Mode(col.Data())
		if !ok {
			return nil, nil
		}
		fill = v
	case FillConstant:
		fill = spec.Value
		if err := checkFillValue(dt, fill, mem); err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name(), err)
		}
	}

	if NullCount(col.Data()) == 0 {
		return nil, nil
	}

	chunks := make([]arrow.Array, 0, len(col.Data().Chunks()))
	defer func() {
		for _, c := range chunks {
			c.Release()
		}
	}()
	for _, chunk := range col.Data().Chunks() {
		arr, err := fillChunk(chunk, target, fill, mem)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name(), err)
		}
		chunks = append(chunks, arr)
	}

	field := col.Field()
	field.Type = target

	chunked := arrow.NewChunked(target, chunks)
	defer chunked.Release()
	return arrow.NewColumn(field, chunked), nil
}

// checkFillValue reports whether fill can be stored in a column of type dt
// without loss.
func checkFillValue(dt arrow.DataType, fill any, mem memory.Allocator) error {
	b := array.NewBuilder(mem, dt)
	defer b.Release()
	return appendGoValue(b, fill)
}

// fillChunk copies arr into a new array of the target type, replacing
// missing entries with fill.
func fillChunk(arr arrow.Array, target arrow.DataType, fill any, mem memory.Allocator) (arrow.Array, error) {
	builder := array.NewBuilder(mem, target)
	defer builder.Release()
	builder.Reserve(arr.Len())

	promote := !arrow.TypeEqual(arr.DataType(), target)
	for i := 0; i < arr.Len(); i++ {
		switch {
		case isMissing(arr, i):
			if err := appendGoValue(builder, fill); err != nil {
				return nil, err
			}
		case promote:
			v, _ := floatAt(arr, i)
			builder.(*array.Float64Builder).Append(v)
		default:
			if err := appendValue(builder, arr, i); err != nil {
				return nil, err
			}
		}
	}
	return builder.NewArray(), nil
}
