package godataset

import (
	"fmt"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow"
)

// Dataset is a table under exploratory analysis, with an optional history
// of named snapshots.
type Dataset struct {
	current    arrow.Table
	versioning versioning
	config     *Config
	logger     *slog.Logger

	// columnStats holds the last computed statistics in column order.
	columnStats []ColumnStat
	// flagged is nil until statistics are computed and again whenever the
	// current table is replaced.
	flagged *flaggedColumns
}

// New creates a dataset over tbl. The dataset retains tbl; the caller keeps
// its own reference and may release it.
func New(tbl arrow.Table, opts ...Option) (*Dataset, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return newDataset(tbl, config)
}

func newDataset(tbl arrow.Table, config *Config) (*Dataset, error) {
	if tbl == nil {
		return nil, fmt.Errorf("%w: table is nil", ErrInvalidConfig)
	}

	tbl.Retain()
	d := &Dataset{
		current:    tbl,
		versioning: versioningDisabled{},
		config:     config,
		logger:     config.Logger,
	}

	if config.Versioning {
		store := newVersionStore()
		store.put(InitialVersion, tbl, config.Clock())
		d.versioning = versioningEnabled{versions: store}
	}

	d.logger.Debug("dataset created",
		"rows", tbl.NumRows(),
		"columns", tbl.NumCols(),
		"versioning", config.Versioning,
	)
	return d, nil
}

// Release releases the current table and every saved version.
func (d *Dataset) Release() {
	if d.current != nil {
		d.current.Release()
		d.current = nil
	}
	if v, ok := d.versioning.(versioningEnabled); ok {
		v.versions.release()
	}
}

// Config returns the dataset configuration.
func (d *Dataset) Config() *Config {
	return d.config
}

// Current returns the current table. It stays valid until the dataset
// replaces it; callers keeping it longer must Retain it.
func (d *Dataset) Current() arrow.Table {
	return d.current
}

// NumRows returns the number of rows of the current table.
func (d *Dataset) NumRows() int64 {
	return d.current.NumRows()
}

// VersioningEnabled reports whether the dataset keeps versions.
func (d *Dataset) VersioningEnabled() bool {
	_, ok := d.versioning.(versioningEnabled)
	return ok
}

// replaceCurrent takes ownership of tbl. Flagged columns refer to the old
// table and are cleared.
func (d *Dataset) replaceCurrent(tbl arrow.Table) {
	d.current.Release()
	d.current = tbl
	d.flagged = nil
}
