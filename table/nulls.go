package table

import (
	"cmp"
	"math"
	"slices"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// ColumnStat holds the missing-value statistics of a single column.
type ColumnStat struct {
	Name         string
	NullCount    int64
	NullFraction float64
}

// NullCount returns the number of missing values in a chunked column.
// Nulls and NaN floats are both counted as missing.
func NullCount(col *arrow.Chunked) int64 {
	var n int64
	for _, chunk := range col.Chunks() {
		n += int64(chunk.NullN())
		switch a := chunk.(type) {
		case *array.Float64:
			for i := 0; i < a.Len(); i++ {
				if a.IsValid(i) && math.IsNaN(a.Value(i)) {
					n++
				}
			}
		case *array.Float32:
			for i := 0; i < a.Len(); i++ {
				if a.IsValid(i) && math.IsNaN(float64(a.Value(i))) {
					n++
				}
			}
		case *array.Float16:
			for i := 0; i < a.Len(); i++ {
				if a.IsValid(i) && math.IsNaN(float64(a.Value(i).Float32())) {
					n++
				}
			}
		}
	}
	return n
}

// NullStatistics computes per-column missing counts and fractions, in
// column order. The fraction is count / rows; a table without rows has no
// defined fraction and returns ErrEmptyTable.
func NullStatistics(tbl arrow.Table) ([]ColumnStat, error) {
	rows := tbl.NumRows()
	if rows == 0 {
		return nil, ErrEmptyTable
	}

	stats := make([]ColumnStat, tbl.NumCols())
	for i := range stats {
		count := NullCount(tbl.Column(i).Data())
		stats[i] = ColumnStat{
			Name:         tbl.Schema().Field(i).Name,
			NullCount:    count,
			NullFraction: float64(count) / float64(rows),
		}
	}
	return stats, nil
}

// SortByNullFraction returns a copy of stats ordered by descending
// fraction. Ties keep their original order.
func SortByNullFraction(stats []ColumnStat) []ColumnStat {
	sorted := slices.Clone(stats)
	slices.SortStableFunc(sorted, func(a, b ColumnStat) int {
		return cmp.Compare(b.NullFraction, a.NullFraction)
	})
	return sorted
}

// FlagColumns returns the names whose fraction exceeds threshold, ordered
// by descending fraction.
func FlagColumns(stats []ColumnStat, threshold float64) []string {
	flagged := []string{}
	for _, s := range SortByNullFraction(stats) {
		if s.NullFraction > threshold {
			flagged = append(flagged, s.Name)
		}
	}
	return flagged
}
