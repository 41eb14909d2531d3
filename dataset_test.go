package godataset

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrobridgeOrg/go-dataset/internal/testutil"
	"github.com/BrobridgeOrg/go-dataset/report"
	"github.com/BrobridgeOrg/go-dataset/table"
)

// newTestDataset creates a dataset that discards reports and is released
// when the test ends.
func newTestDataset(t *testing.T, tbl arrow.Table, opts ...Option) *Dataset {
	t.Helper()

	d, err := New(tbl, append([]Option{WithReportSink(report.Discard)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(d.Release)
	return d
}

// sparseTable has columns with 0%, 60% and 40% missing values.
func sparseTable(t *testing.T) arrow.Table {
	return testutil.NewTable(t,
		testutil.Int64("A", 1, 2, 3, 4, 5),
		testutil.Float64("B", nil, 2.0, nil, nil, 5.0),
		testutil.String("C", "x", nil, "z", nil, "v"),
	)
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestNewValidatesConfig(t *testing.T) {
	tbl := sparseTable(t)

	tests := []struct {
		name string
		opt  Option
	}{
		{"threshold above one", WithDeleteThreshold(1.5)},
		{"negative threshold", WithDeleteThreshold(-0.1)},
		{"nil sink", WithReportSink(nil)},
		{"nil plotter", WithPlotter(nil)},
		{"nil logger", WithLogger(nil)},
		{"nil clock", WithClock(nil)},
		{"nil allocator", WithAllocator(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tbl, tt.opt)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := New(nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewKeepsTable(t *testing.T) {
	tbl := sparseTable(t)
	d := newTestDataset(t, tbl)

	assert.True(t, table.Equal(tbl, d.Current()))
	assert.Equal(t, int64(5), d.NumRows())
	assert.False(t, d.VersioningEnabled())
	assert.Equal(t, DefaultDeleteThreshold, d.Config().DeleteThreshold)

	_, ok := d.FlaggedColumns()
	assert.False(t, ok)
	assert.Nil(t, d.ColumnStats())
}

func TestLoggerReceivesOperations(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	d := newTestDataset(t, sparseTable(t), WithVersioning(), WithLogger(logger))
	_, err := d.SaveVersion("v1")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "dataset created")
	assert.Contains(t, buf.String(), "version saved")
	assert.Contains(t, buf.String(), "name=v1")
}
