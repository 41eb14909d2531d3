package godataset

import (
	"fmt"
	"math"
	"slices"

	"github.com/BrobridgeOrg/go-dataset/table"
)

// ColumnStat holds the missing-value count and fraction of one column.
type ColumnStat = table.ColumnStat

// FillStrategy selects how missing values are replaced.
type FillStrategy = table.FillStrategy

// Fill strategies.
const (
	FillMedian   = table.FillMedian
	FillMean     = table.FillMean
	FillMode     = table.FillMode
	FillConstant = table.FillConstant
)

// NaNStatistics is the result of ComputeNaNStatistics.
type NaNStatistics struct {
	// Columns lists every column in table order.
	Columns []ColumnStat
	// Flagged lists the columns whose missing fraction is above Threshold,
	// most sparse first.
	Flagged   []string
	Threshold float64
}

type flaggedColumns struct {
	names     []string
	threshold float64
}

// StatsOption configures ComputeNaNStatistics.
type StatsOption func(*statsConfig)

type statsConfig struct {
	threshold float64
	report    bool
}

// WithThreshold overrides the configured deletion threshold.
func WithThreshold(threshold float64) StatsOption {
	return func(c *statsConfig) {
		c.threshold = threshold
	}
}

// WithReport controls whether the statistics are sent to the report sink.
// Reporting is on by default.
func WithReport(report bool) StatsOption {
	return func(c *statsConfig) {
		c.report = report
	}
}

// ComputeNaNStatistics counts the missing values of every column and flags
// the columns whose missing fraction is strictly above the threshold.
func (d *Dataset) ComputeNaNStatistics(opts ...StatsOption) (*NaNStatistics, error) {
	cfg := statsConfig{
		threshold: d.config.DeleteThreshold,
		report:    true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if math.IsNaN(cfg.threshold) {
		return nil, fmt.Errorf("%w: threshold is NaN", ErrInvalidConfig)
	}

	stats, err := table.NullStatistics(d.current)
	if err != nil {
		return nil, err
	}
	flagged := table.FlagColumns(stats, cfg.threshold)

	if cfg.report {
		if err := d.reportNaNStatistics(stats, flagged); err != nil {
			return nil, fmt.Errorf("failed to report statistics: %w", err)
		}
	}

	d.columnStats = stats
	d.flagged = &flaggedColumns{names: flagged, threshold: cfg.threshold}

	d.logger.Debug("missing values counted",
		"columns", len(stats),
		"flagged", flagged,
		"threshold", cfg.threshold,
	)

	return &NaNStatistics{
		Columns:   slices.Clone(stats),
		Flagged:   slices.Clone(flagged),
		Threshold: cfg.threshold,
	}, nil
}

// reportNaNStatistics sends the columns with missing values, most sparse
// first, and the flagged columns to the report sink.
func (d *Dataset) reportNaNStatistics(stats []ColumnStat, flagged []string) error {
	var missing []ColumnStat
	for _, s := range stats {
		if s.NullCount > 0 {
			missing = append(missing, s)
		}
	}
	return d.config.ReportSink.ReportNaNStatistics(table.SortByNullFraction(missing), flagged)
}

// ColumnStats returns the last computed statistics in column order, or nil
// if statistics were never computed.
func (d *Dataset) ColumnStats() []ColumnStat {
	return slices.Clone(d.columnStats)
}

// FlaggedColumns returns the columns flagged by the last statistics. The
// second result is false if there are no statistics for the current table.
func (d *Dataset) FlaggedColumns() ([]string, bool) {
	if d.flagged == nil {
		return nil, false
	}
	return slices.Clone(d.flagged.names), true
}

// DeleteFlaggedColumns removes the flagged columns from the current table
// and returns their names. Statistics are computed with the configured
// threshold, and without reporting, if the current table has none. With
// versioning enabled the previous table is saved as
// BeforeNaNDeletionVersion.
func (d *Dataset) DeleteFlaggedColumns() ([]string, error) {
	if d.flagged == nil {
		if _, err := d.ComputeNaNStatistics(WithReport(false)); err != nil {
			return nil, err
		}
	}
	names := d.flagged.names

	dropped, err := table.DropColumns(d.current, names)
	if err != nil {
		return nil, err
	}

	if v, ok := d.versioning.(versioningEnabled); ok {
		v.versions.put(BeforeNaNDeletionVersion, d.current, d.config.Clock())
	}
	d.replaceCurrent(dropped)

	d.logger.Debug("flagged columns deleted", "columns", names)
	return slices.Clone(names), nil
}

// FillOption configures ReplaceMissingValues.
type FillOption func(*fillConfig)

type fillConfig struct {
	value any
}

// WithFillValue sets the value used by FillConstant.
func WithFillValue(v any) FillOption {
	return func(c *fillConfig) {
		c.value = v
	}
}

// ReplaceMissingValues replaces the missing values of the named columns.
// Median and mean need numeric columns and turn integer columns into
// float64 columns; mode and constant keep the column type. A column without
// observed values is left as is. Nothing changes if any column fails.
func (d *Dataset) ReplaceMissingValues(columns []string, strategy FillStrategy, opts ...FillOption) error {
	cfg := fillConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	filled, err := table.FillMissing(d.current, columns, table.FillSpec{
		Strategy: strategy,
		Value:    cfg.value,
	}, d.config.Allocator)
	if err != nil {
		return err
	}
	d.replaceCurrent(filled)

	d.logger.Debug("missing values replaced", "columns", columns, "strategy", strategy.String())
	return nil
}
