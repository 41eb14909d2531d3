// Package godataset wraps an in-memory Apache Arrow table for exploratory
// analysis.
//
// A Dataset holds one current table and provides:
//
//   - An optional in-memory version history of named snapshots
//   - Missing-value statistics, flagging and deletion of sparse columns
//   - Replacement of missing values by median, mean, mode or a constant
//   - Descriptive helpers (info, head, describe, correlation)
//   - Row filtering by column expressions
//   - Histogram and correlation heatmap rendering
//
// # Quick Start
//
// Load a file and enable versioning:
//
//	ds, err := godataset.Load(ctx, "data/titanic.csv", godataset.WithVersioning())
//	defer ds.Release()
//
// Inspect missing values and drop the sparse columns:
//
//	stats, err := ds.ComputeNaNStatistics(godataset.WithThreshold(0.5))
//	dropped, err := ds.DeleteFlaggedColumns()
//
// Fill the remaining gaps and go back if needed:
//
//	err = ds.ReplaceMissingValues([]string{"age"}, godataset.FillMedian)
//	err = ds.LoadVersion("before_nan_del")
//
// # Snapshots
//
// Arrow data is immutable. Every operation that changes the dataset builds a
// new table and replaces the current one, so saving a version only keeps a
// reference to the current table. A saved version never observes later
// changes.
//
// A Dataset is not safe for concurrent use.
package godataset
