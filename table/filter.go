package table

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Filter returns the rows of tbl matching expr, in their original order. A
// nil expression keeps every row. Comparisons never match missing values.
func Filter(tbl arrow.Table, expr *Expression, mem memory.Allocator) (arrow.Table, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	if err := validateExpression(expr); err != nil {
		return nil, err
	}
	for _, name := range expr.Columns() {
		if _, err := ColumnIndex(tbl, name); err != nil {
			return nil, err
		}
	}

	reader := array.NewTableReader(tbl, 1024)
	defer reader.Release()

	var records []arrow.Record
	defer func() {
		for _, rec := range records {
			rec.Release()
		}
	}()

	for reader.Next() {
		rec, err := filterRecord(reader.Record(), expr, mem)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			records = append(records, rec)
		}
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}

	return array.NewTableFromRecords(tbl.Schema(), records), nil
}

func validateExpression(e *Expression) error {
	if e == nil {
		return nil
	}
	switch e.Op {
	case OpAnd, OpOr:
	case OpNot:
		if len(e.Children) != 1 {
			return fmt.Errorf("%w: NOT takes one operand", ErrInvalidExpression)
		}
	case OpEq, OpNotEq, OpLt, OpLte, OpGt, OpGte, OpIn, OpNotIn, OpIsMissing, OpNotMissing, OpStartsWith:
		if e.Column == "" {
			return fmt.Errorf("%w: %s without a column", ErrInvalidExpression, e.Op)
		}
	default:
		return fmt.Errorf("%w: unknown operator %d", ErrInvalidExpression, int(e.Op))
	}
	for _, child := range e.Children {
		if child == nil {
			return fmt.Errorf("%w: nil operand", ErrInvalidExpression)
		}
		if err := validateExpression(child); err != nil {
			return err
		}
	}
	return nil
}

// filterRecord returns the matching rows of rec, or nil if none match.
func filterRecord(rec arrow.Record, expr *Expression, mem memory.Allocator) (arrow.Record, error) {
	numRows := rec.NumRows()
	if numRows == 0 {
		return nil, nil
	}

	keep := make([]bool, numRows)
	var keepCount int64
	for i := range keep {
		if matches(rec, i, expr) {
			keep[i] = true
			keepCount++
		}
	}

	switch keepCount {
	case 0:
		return nil, nil
	case numRows:
		rec.Retain()
		return rec, nil
	}

	builders := make([]array.Builder, rec.NumCols())
	for i := range builders {
		builders[i] = array.NewBuilder(mem, rec.Column(i).DataType())
		builders[i].Reserve(int(keepCount))
	}
	defer func() {
		for _, b := range builders {
			b.Release()
		}
	}()

	for row, ok := range keep {
		if !ok {
			continue
		}
		for i, b := range builders {
			if err := appendValue(b, rec.Column(i), row); err != nil {
				return nil, fmt.Errorf("column %s: %w", rec.ColumnName(i), err)
			}
		}
	}

	arrays := make([]arrow.Array, len(builders))
	for i, b := range builders {
		arrays[i] = b.NewArray()
	}
	out := array.NewRecord(rec.Schema(), arrays, keepCount)
	for _, arr := range arrays {
		arr.Release()
	}
	return out, nil
}

func matches(rec arrow.Record, row int, e *Expression) bool {
	if e == nil {
		return true
	}

	switch e.Op {
	case OpAnd:
		for _, child := range e.Children {
			if !matches(rec, row, child) {
				return false
			}
		}
		return true
	case OpOr:
		for _, child := range e.Children {
			if matches(rec, row, child) {
				return true
			}
		}
		return false
	case OpNot:
		return !matches(rec, row, e.Children[0])
	}

	col := rec.Column(rec.Schema().FieldIndices(e.Column)[0])
	missing := isMissing(col, row)

	switch e.Op {
	case OpIsMissing:
		return missing
	case OpNotMissing:
		return !missing
	}
	if missing {
		return false
	}

	value := valueAt(col, row)
	switch e.Op {
	case OpIn, OpNotIn:
		found := false
		for _, v := range e.Values {
			if compareValues(value, v, OpEq) {
				found = true
				break
			}
		}
		return found == (e.Op == OpIn)
	case OpStartsWith:
		s, ok := value.(string)
		return ok && strings.HasPrefix(s, toString(e.Value))
	default:
		return compareValues(value, e.Value, e.Op)
	}
}

// compareValues compares two values with the given operator. Integers are
// compared exactly unless either side is a float.
func compareValues(left, right any, op ExprOp) bool {
	if left == nil || right == nil {
		return false
	}

	var c int
	switch l := left.(type) {
	case string:
		r, ok := right.(string)
		if !ok {
			return false
		}
		c = cmp.Compare(l, r)
	case bool:
		r, ok := right.(bool)
		if !ok || (op != OpEq && op != OpNotEq) {
			return false
		}
		return (l == r) == (op == OpEq)
	default:
		if isInteger(left) && isInteger(right) {
			c = compareIntegers(left, right)
			break
		}
		if _, isString := right.(string); isString {
			return false
		}
		lf, lok := toFloat64(left)
		rf, rok := toFloat64(right)
		if !lok || !rok {
			return false
		}
		c = cmp.Compare(lf, rf)
	}

	switch op {
	case OpEq:
		return c == 0
	case OpNotEq:
		return c != 0
	case OpLt:
		return c < 0
	case OpLte:
		return c <= 0
	case OpGt:
		return c > 0
	case OpGte:
		return c >= 0
	default:
		return false
	}
}

// compareIntegers compares two integers of any width. Only unsigned values
// above math.MaxInt64 fail the int64 conversion.
func compareIntegers(a, b any) int {
	ai, aok := toInt64(a)
	bi, bok := toInt64(b)
	switch {
	case aok && bok:
		return cmp.Compare(ai, bi)
	case aok:
		return -1
	case bok:
		return 1
	}
	au, _ := toUint64(a)
	bu, _ := toUint64(b)
	return cmp.Compare(au, bu)
}

func isInteger(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}
