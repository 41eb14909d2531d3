package godataset

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrobridgeOrg/go-dataset/internal/testutil"
	"github.com/BrobridgeOrg/go-dataset/table"
)

func TestComputeNaNStatistics(t *testing.T) {
	d := newTestDataset(t, sparseTable(t))

	stats, err := d.ComputeNaNStatistics(WithThreshold(0.5))
	require.NoError(t, err)

	assert.Equal(t, []ColumnStat{
		{Name: "A", NullCount: 0, NullFraction: 0},
		{Name: "B", NullCount: 3, NullFraction: 0.6},
		{Name: "C", NullCount: 2, NullFraction: 0.4},
	}, stats.Columns)
	assert.Equal(t, []string{"B"}, stats.Flagged)
	assert.Equal(t, 0.5, stats.Threshold)

	assert.Equal(t, stats.Columns, d.ColumnStats())
	flagged, ok := d.FlaggedColumns()
	require.True(t, ok)
	assert.Equal(t, []string{"B"}, flagged)
}

func TestComputeNaNStatisticsThresholdIsStrict(t *testing.T) {
	d := newTestDataset(t, sparseTable(t))

	stats, err := d.ComputeNaNStatistics(WithThreshold(0.4))
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, stats.Flagged)

	stats, err = d.ComputeNaNStatistics(WithThreshold(0))
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, stats.Flagged, "ordered by descending fraction")
}

func TestComputeNaNStatisticsCountsNaN(t *testing.T) {
	tbl := testutil.NewTable(t,
		testutil.Float64("f", 1.0, nil, math.NaN(), 4.0),
	)
	d := newTestDataset(t, tbl)

	stats, err := d.ComputeNaNStatistics()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Columns[0].NullCount)
	assert.Equal(t, 0.5, stats.Columns[0].NullFraction)
}

func TestComputeNaNStatisticsReport(t *testing.T) {
	buf := new(bytes.Buffer)
	d := newTestDataset(t, sparseTable(t), WithReportWriter(buf))

	_, err := d.ComputeNaNStatistics(WithThreshold(0.5))
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "| A ", "columns without missing values are not reported")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("| B ")), bytes.Index(buf.Bytes(), []byte("| C ")))
	assert.Contains(t, out, "Recommended to delete following columns: [B]")

	buf.Reset()
	_, err = d.ComputeNaNStatistics(WithReport(false))
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

type failingSink struct{}

func (failingSink) ReportNaNStatistics([]ColumnStat, []string) error { return errors.New("sink closed") }

func (failingSink) ReportInfo(*table.Info) error { return errors.New("sink closed") }

func TestComputeNaNStatisticsReportFailure(t *testing.T) {
	d := newTestDataset(t, sparseTable(t), WithReportSink(failingSink{}))

	_, err := d.ComputeNaNStatistics()
	require.Error(t, err)

	_, ok := d.FlaggedColumns()
	assert.False(t, ok)
	assert.Error(t, d.PrintInfo())
}

func TestComputeNaNStatisticsEmptyTable(t *testing.T) {
	tbl := testutil.NewTable(t, testutil.Int64("A"), testutil.Float64("B"))
	d := newTestDataset(t, tbl)

	_, err := d.ComputeNaNStatistics()
	require.ErrorIs(t, err, ErrEmptyTable)

	_, ok := d.FlaggedColumns()
	assert.False(t, ok)
	assert.Nil(t, d.ColumnStats())

	_, err = d.DeleteFlaggedColumns()
	assert.ErrorIs(t, err, ErrEmptyTable)
}

func TestDeleteFlaggedColumns(t *testing.T) {
	tbl := sparseTable(t)
	d := newTestDataset(t, tbl, WithVersioning())

	_, err := d.ComputeNaNStatistics(WithThreshold(0.5))
	require.NoError(t, err)

	deleted, err := d.DeleteFlaggedColumns()
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, deleted)
	assert.Equal(t, []string{"A", "C"}, testutil.Names(d.Current()))

	before, err := d.Version(BeforeNaNDeletionVersion)
	require.NoError(t, err)
	assert.True(t, table.Equal(tbl, before))

	_, ok := d.FlaggedColumns()
	assert.False(t, ok, "flags are cleared once the table changes")
}

func TestDeleteFlaggedColumnsComputesStatistics(t *testing.T) {
	explicit := newTestDataset(t, sparseTable(t))
	_, err := explicit.ComputeNaNStatistics()
	require.NoError(t, err)
	want, err := explicit.DeleteFlaggedColumns()
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	implicit := newTestDataset(t, sparseTable(t), WithReportWriter(buf))
	got, err := implicit.DeleteFlaggedColumns()
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.True(t, table.Equal(explicit.Current(), implicit.Current()))
	assert.Empty(t, buf.String(), "implicit statistics are not reported")
	assert.Len(t, implicit.ColumnStats(), 3)
}

func TestDeleteFlaggedColumnsWithoutVersioning(t *testing.T) {
	d := newTestDataset(t, sparseTable(t))

	_, err := d.DeleteFlaggedColumns()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, testutil.Names(d.Current()))

	_, err = d.Version(BeforeNaNDeletionVersion)
	assert.ErrorIs(t, err, ErrVersioningDisabled)
}

func TestDeleteFlaggedColumnsNothingFlagged(t *testing.T) {
	d := newTestDataset(t, sparseTable(t), WithVersioning())

	_, err := d.ComputeNaNStatistics(WithThreshold(1))
	require.NoError(t, err)

	deleted, err := d.DeleteFlaggedColumns()
	require.NoError(t, err)
	assert.Empty(t, deleted)
	assert.Equal(t, []string{"A", "B", "C"}, testutil.Names(d.Current()))
}

func TestDeleteFlaggedColumnsMissingColumn(t *testing.T) {
	d := newTestDataset(t, sparseTable(t), WithVersioning())
	before := d.Current()
	d.flagged = &flaggedColumns{names: []string{"B", "gone"}, threshold: 0.5}

	_, err := d.DeleteFlaggedColumns()
	require.ErrorIs(t, err, ErrColumnNotFound)

	var notFound *ColumnNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "gone", notFound.Name)

	assert.Same(t, before, d.Current())
	names, err := d.ListVersions()
	require.NoError(t, err)
	assert.Equal(t, []string{InitialVersion}, names)
}

func TestReplaceMissingValues(t *testing.T) {
	tbl := sparseTable(t)
	d := newTestDataset(t, tbl, WithVersioning())

	require.NoError(t, d.ReplaceMissingValues([]string{"A", "B"}, FillMedian))
	assert.Equal(t, []any{3.5, 2.0, 3.5, 3.5, 5.0}, testutil.Values(t, d.Current(), "B"))
	assert.Equal(t, []any{int64(1), int64(2), int64(3), int64(4), int64(5)}, testutil.Values(t, d.Current(), "A"), "complete columns are left alone")

	require.NoError(t, d.ReplaceMissingValues([]string{"C"}, FillConstant, WithFillValue("?")))
	assert.Equal(t, []any{"x", "?", "z", "?", "v"}, testutil.Values(t, d.Current(), "C"))

	initial, err := d.Version(InitialVersion)
	require.NoError(t, err)
	assert.True(t, table.Equal(tbl, initial), "saved versions never see later changes")
}

func TestReplaceMissingValuesErrors(t *testing.T) {
	d := newTestDataset(t, sparseTable(t))
	before := d.Current()

	tests := []struct {
		name     string
		columns  []string
		strategy FillStrategy
		opts     []FillOption
		wantErr  error
	}{
		{"unknown column", []string{"B", "nope"}, FillMedian, nil, ErrColumnNotFound},
		{"constant without value", []string{"B"}, FillConstant, nil, ErrMissingFillValue},
		{"median of strings", []string{"B", "C"}, FillMedian, nil, ErrUnsupportedStrategy},
		{"constant of wrong type", []string{"B"}, FillConstant, []FillOption{WithFillValue("x")}, ErrInvalidFillValue},
		{"fraction into integers", []string{"A"}, FillConstant, []FillOption{WithFillValue(2.7)}, ErrInvalidFillValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := d.ReplaceMissingValues(tt.columns, tt.strategy, tt.opts...)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Same(t, before, d.Current())
		})
	}
}
