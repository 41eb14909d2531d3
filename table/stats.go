package table

import (
	"cmp"
	"math"
	"slices"

	"github.com/apache/arrow-go/v18/arrow"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ObservedFloat64s returns the non-missing values of a numeric column.
func ObservedFloat64s(col *arrow.Chunked) []float64 {
	values := make([]float64, 0, col.Len()-col.NullN())
	for _, chunk := range col.Chunks() {
		for i := 0; i < chunk.Len(); i++ {
			if v, ok := floatAt(chunk, i); ok {
				values = append(values, v)
			}
		}
	}
	return values
}

// Float64s returns one value per row, with NaN for missing entries.
func Float64s(col *arrow.Chunked) []float64 {
	values := make([]float64, 0, col.Len())
	for _, chunk := range col.Chunks() {
		for i := 0; i < chunk.Len(); i++ {
			v, _ := floatAt(chunk, i)
			values = append(values, v)
		}
	}
	return values
}

// Quantile returns the p-quantile of sorted using linear interpolation
// between the closest ranks.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= n {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// Median returns the median of values. Even-length inputs yield the mean of
// the two middle values.
func Median(values []float64) float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return Quantile(sorted, 0.5)
}

// Mode returns the most frequent observed value of a column. Ties resolve
// to the smallest value. Signed integer columns yield an int64, unsigned
// ones a uint64, floating point columns a float64 and other columns the
// string form of the value.
func Mode(col *arrow.Chunked) (any, bool) {
	id := col.DataType().ID()
	switch {
	case arrow.IsSignedInteger(id):
		return mode(col, int64At)
	case arrow.IsUnsignedInteger(id):
		return mode(col, uint64At)
	case arrow.IsFloating(id):
		return mode(col, floatAt)
	default:
		return mode(col, func(arr arrow.Array, i int) (string, bool) {
			if isMissing(arr, i) {
				return "", false
			}
			return arr.ValueStr(i), true
		})
	}
}

func mode[T cmp.Ordered](col *arrow.Chunked, at func(arrow.Array, int) (T, bool)) (any, bool) {
	counts := make(map[T]int)
	for _, chunk := range col.Chunks() {
		for i := 0; i < chunk.Len(); i++ {
			if v, ok := at(chunk, i); ok {
				counts[v]++
			}
		}
	}
	if len(counts) == 0 {
		return nil, false
	}

	var best T
	bestCount := 0
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best, true
}

// Summary holds descriptive statistics of a numeric column.
type Summary struct {
	Column string
	Count  int64
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Describe summarizes every numeric column. Std is the sample standard
// deviation; statistics of a column without observations are NaN.
func Describe(tbl arrow.Table) []Summary {
	var out []Summary
	for i, f := range tbl.Schema().Fields() {
		if !IsNumeric(f.Type) {
			continue
		}
		values := ObservedFloat64s(tbl.Column(i).Data())
		slices.Sort(values)

		s := Summary{
			Column: f.Name,
			Count:  int64(len(values)),
			Mean:   math.NaN(),
			Std:    math.NaN(),
			Min:    math.NaN(),
			Max:    math.NaN(),
		}
		if len(values) > 0 {
			s.Mean = stat.Mean(values, nil)
			s.Min = values[0]
			s.Max = values[len(values)-1]
		}
		if len(values) > 1 {
			s.Std = stat.StdDev(values, nil)
		}
		s.Q25 = Quantile(values, 0.25)
		s.Median = Quantile(values, 0.5)
		s.Q75 = Quantile(values, 0.75)
		out = append(out, s)
	}
	return out
}

// ColumnInfo describes one column of a table.
type ColumnInfo struct {
	Name    string
	Type    arrow.DataType
	NonNull int64
}

// Info describes the shape of a table.
type Info struct {
	Rows    int64
	Columns []ColumnInfo
}

// InfoOf returns the shape, types and non-missing counts of tbl.
func InfoOf(tbl arrow.Table) *Info {
	info := &Info{Rows: tbl.NumRows()}
	for i, f := range tbl.Schema().Fields() {
		info.Columns = append(info.Columns, ColumnInfo{
			Name:    f.Name,
			Type:    f.Type,
			NonNull: tbl.NumRows() - NullCount(tbl.Column(i).Data()),
		})
	}
	return info
}

// NumericColumns returns the names of integer and floating point columns.
func NumericColumns(tbl arrow.Table) []string {
	var names []string
	for _, f := range tbl.Schema().Fields() {
		if IsNumeric(f.Type) {
			names = append(names, f.Name)
		}
	}
	return names
}

// CategoricalColumns returns the names of string, boolean and dictionary
// columns.
func CategoricalColumns(tbl arrow.Table) []string {
	var names []string
	for _, f := range tbl.Schema().Fields() {
		if IsCategorical(f.Type) {
			names = append(names, f.Name)
		}
	}
	return names
}

// CorrelationMatrix holds pairwise Pearson coefficients.
type CorrelationMatrix struct {
	Columns []string
	Values  *mat.SymDense
}

// At returns the coefficient between two named columns.
func (m *CorrelationMatrix) At(a, b string) (float64, error) {
	i := slices.Index(m.Columns, a)
	if i < 0 {
		return math.NaN(), &ColumnNotFoundError{Name: a}
	}
	j := slices.Index(m.Columns, b)
	if j < 0 {
		return math.NaN(), &ColumnNotFoundError{Name: b}
	}
	return m.Values.At(i, j), nil
}

// Correlation computes Pearson coefficients between the named numeric
// columns. Each pair uses only the rows where both values are present;
// pairs with fewer than two such rows, or without variance, yield NaN.
func Correlation(tbl arrow.Table, columns []string) (*CorrelationMatrix, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}

	series := make([][]float64, len(columns))
	for i, name := range columns {
		idx, err := ColumnIndex(tbl, name)
		if err != nil {
			return nil, err
		}
		col := tbl.Column(idx)
		if !IsNumeric(col.DataType()) {
			return nil, &UnsupportedTypeError{
				Column:    name,
				Type:      col.DataType().String(),
				Operation: "correlation",
			}
		}
		series[i] = Float64s(col.Data())
	}

	values := mat.NewSymDense(len(columns), nil)
	for i := range series {
		for j := i; j < len(series); j++ {
			values.SetSym(i, j, pearson(series[i], series[j]))
		}
	}

	return &CorrelationMatrix{
		Columns: slices.Clone(columns),
		Values:  values,
	}, nil
}

func pearson(x, y []float64) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}
