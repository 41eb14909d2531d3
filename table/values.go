package table

import (
	"fmt"
	"math"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// IsNumeric reports whether values of the type can be read as float64.
func IsNumeric(dt arrow.DataType) bool {
	return arrow.IsInteger(dt.ID()) || arrow.IsFloating(dt.ID())
}

// IsCategorical reports whether the type holds labels rather than quantities.
func IsCategorical(dt arrow.DataType) bool {
	switch dt.ID() {
	case arrow.STRING, arrow.LARGE_STRING, arrow.STRING_VIEW, arrow.BOOL, arrow.DICTIONARY:
		return true
	default:
		return false
	}
}

// isMissing reports whether the value at idx is null or a floating point NaN.
func isMissing(arr arrow.Array, idx int) bool {
	if arr.IsNull(idx) {
		return true
	}
	switch a := arr.(type) {
	case *array.Float64:
		return math.IsNaN(a.Value(idx))
	case *array.Float32:
		return math.IsNaN(float64(a.Value(idx)))
	case *array.Float16:
		return math.IsNaN(float64(a.Value(idx).Float32()))
	}
	return false
}

// floatAt reads a numeric value as float64. The boolean is false for
// missing values and non-numeric arrays.
func floatAt(arr arrow.Array, idx int) (float64, bool) {
	if arr.IsNull(idx) {
		return math.NaN(), false
	}

	var v float64
	switch a := arr.(type) {
	case *array.Int8:
		v = float64(a.Value(idx))
	case *array.Int16:
		v = float64(a.Value(idx))
	case *array.Int32:
		v = float64(a.Value(idx))
	case *array.Int64:
		v = float64(a.Value(idx))
	case *array.Uint8:
		v = float64(a.Value(idx))
	case *array.Uint16:
		v = float64(a.Value(idx))
	case *array.Uint32:
		v = float64(a.Value(idx))
	case *array.Uint64:
		v = float64(a.Value(idx))
	case *array.Float16:
		v = float64(a.Value(idx).Float32())
	case *array.Float32:
		v = float64(a.Value(idx))
	case *array.Float64:
		v = a.Value(idx)
	default:
		return math.NaN(), false
	}
	return v, !math.IsNaN(v)
}

// int64At reads a signed integer value.
func int64At(arr arrow.Array, idx int) (int64, bool) {
	if arr.IsNull(idx) {
		return 0, false
	}
	switch a := arr.(type) {
	case *array.Int8:
		return int64(a.Value(idx)), true
	case *array.Int16:
		return int64(a.Value(idx)), true
	case *array.Int32:
		return int64(a.Value(idx)), true
	case *array.Int64:
		return a.Value(idx), true
	default:
		return 0, false
	}
}

// uint64At reads an unsigned integer value.
func uint64At(arr arrow.Array, idx int) (uint64, bool) {
	if arr.IsNull(idx) {
		return 0, false
	}
	switch a := arr.(type) {
	case *array.Uint8:
		return uint64(a.Value(idx)), true
	case *array.Uint16:
		return uint64(a.Value(idx)), true
	case *array.Uint32:
		return uint64(a.Value(idx)), true
	case *array.Uint64:
		return a.Value(idx), true
	default:
		return 0, false
	}
}

// valueAt gets the value at a specific index from an Arrow array.
func valueAt(arr arrow.Array, idx int) any {
	if arr.IsNull(idx) {
		return nil
	}

	switch a := arr.(type) {
	case *array.Int8:
		return a.Value(idx)
	case *array.Int16:
		return a.Value(idx)
	case *array.Int32:
		return a.Value(idx)
	case *array.Int64:
		return a.Value(idx)
	case *array.Uint8:
		return a.Value(idx)
	case *array.Uint16:
		return a.Value(idx)
	case *array.Uint32:
		return a.Value(idx)
	case *array.Uint64:
		return a.Value(idx)
	case *array.Float32:
		return a.Value(idx)
	case *array.Float64:
		return a.Value(idx)
	case *array.String:
		return a.Value(idx)
	case *array.LargeString:
		return a.Value(idx)
	case *array.Boolean:
		return a.Value(idx)
	default:
		return arr.ValueStr(idx)
	}
}

// appendValue appends a value from an array to a builder of the same type.
func appendValue(builder array.Builder, arr arrow.Array, idx int) error {
	if arr.IsNull(idx) {
		builder.AppendNull()
		return nil
	}

	switch b := builder.(type) {
	case *array.Int8Builder:
		b.Append(arr.(*array.Int8).Value(idx))
	case *array.Int16Builder:
		b.Append(arr.(*array.Int16).Value(idx))
	case *array.Int32Builder:
		b.Append(arr.(*array.Int32).Value(idx))
	case *array.Int64Builder:
		b.Append(arr.(*array.Int64).Value(idx))
	case *array.Uint8Builder:
		b.Append(arr.(*array.Uint8).Value(idx))
	case *array.Uint16Builder:
		b.Append(arr.(*array.Uint16).Value(idx))
	case *array.Uint32Builder:
		b.Append(arr.(*array.Uint32).Value(idx))
	case *array.Uint64Builder:
		b.Append(arr.(*array.Uint64).Value(idx))
	case *array.Float32Builder:
		b.Append(arr.(*array.Float32).Value(idx))
	case *array.Float64Builder:
		b.Append(arr.(*array.Float64).Value(idx))
	case *array.StringBuilder:
		b.Append(arr.(*array.String).Value(idx))
	case *array.LargeStringBuilder:
		b.Append(arr.(*array.LargeString).Value(idx))
	case *array.BooleanBuilder:
		b.Append(arr.(*array.Boolean).Value(idx))
	case *array.BinaryBuilder:
		b.Append(arr.(*array.Binary).Value(idx))
	case *array.Date32Builder:
		b.Append(arr.(*array.Date32).Value(idx))
	case *array.Date64Builder:
		b.Append(arr.(*array.Date64).Value(idx))
	case *array.TimestampBuilder:
		b.Append(arr.(*array.Timestamp).Value(idx))
	default:
		if err := builder.AppendValueFromString(arr.ValueStr(idx)); err != nil {
			return fmt.Errorf("%w: cannot copy %s value: %w", ErrUnsupportedType, arr.DataType(), err)
		}
	}
	return nil
}

// appendGoValue appends a plain Go value, converting it to the builder's type.
func appendGoValue(builder array.Builder, v any) error {
	if v == nil {
		builder.AppendNull()
		return nil
	}

	invalid := func() error {
		return fmt.Errorf("%w: cannot store %v (%T) as %s", ErrInvalidFillValue, v, v, builder.Type())
	}

	switch b := builder.(type) {
	case *array.Int8Builder, *array.Int16Builder, *array.Int32Builder, *array.Int64Builder:
		n, ok := toInt64(v)
		if !ok {
			return invalid()
		}
		switch b := b.(type) {
		case *array.Int8Builder:
			if n < math.MinInt8 || n > math.MaxInt8 {
				return invalid()
			}
			b.Append(int8(n))
		case *array.Int16Builder:
			if n < math.MinInt16 || n > math.MaxInt16 {
				return invalid()
			}
			b.Append(int16(n))
		case *array.Int32Builder:
			if n < math.MinInt32 || n > math.MaxInt32 {
				return invalid()
			}
			b.Append(int32(n))
		case *array.Int64Builder:
			b.Append(n)
		}
	case *array.Uint8Builder, *array.Uint16Builder, *array.Uint32Builder, *array.Uint64Builder:
		n, ok := toUint64(v)
		if !ok {
			return invalid()
		}
		switch b := b.(type) {
		case *array.Uint8Builder:
			if n > math.MaxUint8 {
				return invalid()
			}
			b.Append(uint8(n))
		case *array.Uint16Builder:
			if n > math.MaxUint16 {
				return invalid()
			}
			b.Append(uint16(n))
		case *array.Uint32Builder:
			if n > math.MaxUint32 {
				return invalid()
			}
			b.Append(uint32(n))
		case *array.Uint64Builder:
			b.Append(n)
		}
	case *array.Float32Builder:
		f, ok := toFloat64(v)
		if !ok {
			return invalid()
		}
		b.Append(float32(f))
	case *array.Float64Builder:
		f, ok := toFloat64(v)
		if !ok {
			return invalid()
		}
		b.Append(f)
	case *array.StringBuilder:
		b.Append(toString(v))
	case *array.LargeStringBuilder:
		b.Append(toString(v))
	case *array.BooleanBuilder:
		switch x := v.(type) {
		case bool:
			b.Append(x)
		case string:
			parsed, err := strconv.ParseBool(x)
			if err != nil {
				return invalid()
			}
			b.Append(parsed)
		default:
			return invalid()
		}
	default:
		if err := builder.AppendValueFromString(toString(v)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidFillValue, err)
		}
	}
	return nil
}

// toInt64 converts an integral value. Floats with a fractional part and
// values outside the int64 range are rejected.
func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), uint64(x) <= math.MaxInt64
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), x <= math.MaxInt64
	case float32:
		return floatToInt64(float64(x))
	case float64:
		return floatToInt64(x)
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// toUint64 converts a non-negative integral value.
func toUint64(v any) (uint64, bool) {
	switch x := v.(type) {
	case uint:
		return uint64(x), true
	case uint64:
		return x, true
	case float32:
		return floatToUint64(float64(x))
	case float64:
		return floatToUint64(x)
	case string:
		n, err := strconv.ParseUint(x, 10, 64)
		return n, err == nil
	default:
		n, ok := toInt64(v)
		if !ok || n < 0 {
			return 0, false
		}
		return uint64(n), true
	}
}

// 2^63 and 2^64 are exact in float64; both bounds are exclusive.
const (
	maxInt64Float  = float64(1 << 63)
	maxUint64Float = float64(1 << 64)
)

func floatToInt64(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < -maxInt64Float || f >= maxInt64Float {
		return 0, false
	}
	return int64(f), true
}

func floatToUint64(f float64) (uint64, bool) {
	if f != math.Trunc(f) || f < 0 || f >= maxUint64Float {
		return 0, false
	}
	return uint64(f), true
}

func toFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	if n, ok := toInt64(v); ok {
		return float64(n), true
	}
	if n, ok := toUint64(v); ok {
		return float64(n), true
	}
	return 0, false
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	default:
		return fmt.Sprintf("%v", v)
	}
}
