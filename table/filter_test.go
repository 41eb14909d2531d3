package table

import (
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrobridgeOrg/go-dataset/internal/testutil"
)

func TestFilter(t *testing.T) {
	tbl := testutil.NewTable(t,
		testutil.Int64("id", 1, 2, 3, 4, 5),
		testutil.Float64("age", 22, nil, 38, math.NaN(), 54),
		testutil.String("sex", "male", "female", "female", "male", nil),
		testutil.Bool("survived", false, true, true, false, true),
	)

	tests := []struct {
		name string
		expr *Expression
		want []any
	}{
		{"nil keeps all", nil, []any{int64(1), int64(2), int64(3), int64(4), int64(5)}},
		{"int equality", Col("id").Eq(3), []any{int64(3)}},
		{"float comparison skips missing", Col("age").Gt(30), []any{int64(3), int64(5)}},
		{"int compared with float", Col("id").Lte(2.5), []any{int64(1), int64(2)}},
		{"string", Col("sex").Eq("female"), []any{int64(2), int64(3)}},
		{"bool", Col("survived").Eq(true), []any{int64(2), int64(3), int64(5)}},
		{"in", Col("id").In(1, 5, 9), []any{int64(1), int64(5)}},
		{"not in skips missing", Col("sex").NotIn("male"), []any{int64(2), int64(3)}},
		{"missing includes NaN", Col("age").IsMissing(), []any{int64(2), int64(4)}},
		{"none missing", NoneMissing("age", "sex"), []any{int64(1), int64(3)}},
		{"starts with", Col("sex").StartsWith("fe"), []any{int64(2), int64(3)}},
		{"not", Not(Col("survived").Eq(true)), []any{int64(1), int64(4)}},
		{"or", Or(Col("id").Eq(1), Col("id").Eq(4)), []any{int64(1), int64(4)}},
		{"between", Between("age", 20, 40), []any{int64(1), int64(3)}},
		{"type mismatch", Col("sex").Eq(1), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered, err := Filter(tbl, tt.expr, nil)
			require.NoError(t, err)
			defer filtered.Release()

			assert.Equal(t, tt.want, testutil.Values(t, filtered, "id"))
			assert.Equal(t, int64(len(tt.want)), filtered.NumRows())
			assert.Equal(t, testutil.Names(tbl), testutil.Names(filtered))
		})
	}
}

func TestFilterKeepsRowValues(t *testing.T) {
	tbl := testutil.NewTable(t,
		testutil.Int64("id", 1, 2, 3),
		testutil.Float64("age", nil, 30, 40),
		testutil.String("name", "a", nil, "c"),
	)

	filtered, err := Filter(tbl, Col("id").Gte(2), nil)
	require.NoError(t, err)
	defer filtered.Release()

	assert.Equal(t, []any{30.0, 40.0}, testutil.Values(t, filtered, "age"))
	assert.Equal(t, []any{nil, "c"}, testutil.Values(t, filtered, "name"))
	assert.Equal(t, int64(3), tbl.NumRows())
}

func TestFilterUnsignedAboveInt64(t *testing.T) {
	tbl := testutil.NewTable(t,
		testutil.Int64("id", 1, 2, 3),
		testutil.Uint64("n", uint64(1), uint64(math.MaxUint64), uint64(math.MaxInt64)+1),
	)

	tests := []struct {
		name string
		expr *Expression
		want []any
	}{
		{"greater than small", Col("n").Gt(1), []any{int64(2), int64(3)}},
		{"less than small", Col("n").Lt(int64(5)), []any{int64(1)}},
		{"greater than negative", Col("n").Gt(-1), []any{int64(1), int64(2), int64(3)}},
		{"equal to max", Col("n").Eq(uint64(math.MaxUint64)), []any{int64(2)}},
		{"at most int64 max", Col("n").Lte(int64(math.MaxInt64)), []any{int64(1)}},
		{"between large values", Between("n", uint64(math.MaxInt64)+1, uint64(math.MaxUint64-1)), []any{int64(3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered, err := Filter(tbl, tt.expr, nil)
			require.NoError(t, err)
			defer filtered.Release()

			assert.Equal(t, tt.want, testutil.Values(t, filtered, "id"))
		})
	}
}

func TestCompareIntegers(t *testing.T) {
	tests := []struct {
		a, b any
		want int
	}{
		{int64(-1), uint64(math.MaxUint64), -1},
		{uint64(math.MaxUint64), int8(-1), 1},
		{uint64(math.MaxUint64), uint64(math.MaxUint64 - 1), 1},
		{uint64(math.MaxUint64), uint64(math.MaxUint64), 0},
		{int(3), uint8(3), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, compareIntegers(tt.a, tt.b), "compareIntegers(%v, %v)", tt.a, tt.b)
	}
}

func TestAppendValueReportsUncopyableValues(t *testing.T) {
	sb := array.NewStringBuilder(memory.DefaultAllocator)
	defer sb.Release()
	sb.Append("not a decimal")
	arr := sb.NewArray()
	defer arr.Release()

	b := array.NewBuilder(memory.DefaultAllocator, &arrow.Decimal128Type{Precision: 5, Scale: 2})
	defer b.Release()

	err := appendValue(b, arr, 0)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Equal(t, 0, b.Len(), "no null is written in place of the value")
}

func TestFilterErrors(t *testing.T) {
	tbl := testutil.NewTable(t, testutil.Int64("id", 1, 2))

	_, err := Filter(tbl, And(Col("id").Eq(1), Col("nope").Eq(2)), nil)
	assert.ErrorIs(t, err, ErrColumnNotFound)

	_, err = Filter(tbl, &Expression{Op: OpNot}, nil)
	assert.ErrorIs(t, err, ErrInvalidExpression)

	_, err = Filter(tbl, &Expression{Op: ExprOp(99), Column: "id"}, nil)
	assert.ErrorIs(t, err, ErrInvalidExpression)

	_, err = Filter(tbl, Or(nil), nil)
	assert.ErrorIs(t, err, ErrInvalidExpression)
}
