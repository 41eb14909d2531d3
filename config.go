package godataset

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/BrobridgeOrg/go-dataset/plot"
	"github.com/BrobridgeOrg/go-dataset/report"
)

// StorageType represents supported storage backends for Load.
type StorageType string

const (
	// StorageLocal represents local filesystem storage.
	StorageLocal StorageType = "local"
	// StorageS3 represents Amazon S3 storage.
	StorageS3 StorageType = "s3"
)

// DefaultDeleteThreshold is the missing fraction above which a column is
// flagged for deletion.
const DefaultDeleteThreshold = 0.45

// Config holds the dataset configuration.
type Config struct {
	// Versioning keeps named snapshots of the table. Fixed at construction.
	Versioning bool

	// DeleteThreshold is used when statistics are computed without an
	// explicit threshold.
	DeleteThreshold float64

	// Collaborators
	ReportSink report.Sink
	Plotter    plot.Plotter
	Logger     *slog.Logger
	Clock      func() time.Time
	Allocator  memory.Allocator

	// Storage configuration for Load
	StorageType StorageType
	S3Config    *S3Config
	LocalConfig *LocalConfig
}

// S3Config holds S3-specific configuration.
type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Endpoint        string // For MinIO, LocalStack, etc.
	ForcePathStyle  bool
}

// LocalConfig holds local filesystem configuration.
type LocalConfig struct {
	BasePath string
}

// DefaultConfig returns a Config with default values. Reports go to
// standard output and logs are discarded.
func DefaultConfig() *Config {
	return &Config{
		DeleteThreshold: DefaultDeleteThreshold,
		ReportSink:      report.NewTextSink(os.Stdout),
		Plotter:         plot.NewChartPlotter(),
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clock:           time.Now,
		Allocator:       memory.DefaultAllocator,
		StorageType:     StorageLocal,
	}
}

// Option is a functional option for dataset configuration.
type Option func(*Config)

// WithVersioning enables the version history.
func WithVersioning() Option {
	return func(c *Config) {
		c.Versioning = true
	}
}

// WithDeleteThreshold sets the default deletion threshold.
func WithDeleteThreshold(threshold float64) Option {
	return func(c *Config) {
		c.DeleteThreshold = threshold
	}
}

// WithReportSink sets where diagnostics are reported.
func WithReportSink(sink report.Sink) Option {
	return func(c *Config) {
		c.ReportSink = sink
	}
}

// WithReportWriter reports diagnostics as text tables written to w.
func WithReportWriter(w io.Writer) Option {
	return func(c *Config) {
		c.ReportSink = report.NewTextSink(w)
	}
}

// WithPlotter sets the chart renderer.
func WithPlotter(p plot.Plotter) Option {
	return func(c *Config) {
		c.Plotter = p
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithClock sets the time source used for version timestamps and
// generated version names.
func WithClock(clock func() time.Time) Option {
	return func(c *Config) {
		c.Clock = clock
	}
}

// WithAllocator sets the Arrow memory allocator for new tables.
func WithAllocator(mem memory.Allocator) Option {
	return func(c *Config) {
		c.Allocator = mem
	}
}

// WithS3 configures S3 storage for Load.
func WithS3(cfg *S3Config) Option {
	return func(c *Config) {
		c.StorageType = StorageS3
		c.S3Config = cfg
	}
}

// WithLocalStorage configures local storage for Load. Relative paths are
// resolved against basePath.
func WithLocalStorage(basePath string) Option {
	return func(c *Config) {
		c.StorageType = StorageLocal
		c.LocalConfig = &LocalConfig{BasePath: basePath}
	}
}

// validateConfig validates the dataset configuration.
func validateConfig(config *Config) error {
	if math.IsNaN(config.DeleteThreshold) || config.DeleteThreshold < 0 || config.DeleteThreshold > 1 {
		return fmt.Errorf("%w: delete threshold %v is outside [0, 1]", ErrInvalidConfig, config.DeleteThreshold)
	}
	if config.ReportSink == nil {
		return fmt.Errorf("%w: report sink is nil", ErrInvalidConfig)
	}
	if config.Plotter == nil {
		return fmt.Errorf("%w: plotter is nil", ErrInvalidConfig)
	}
	if config.Logger == nil {
		return fmt.Errorf("%w: logger is nil", ErrInvalidConfig)
	}
	if config.Clock == nil {
		return fmt.Errorf("%w: clock is nil", ErrInvalidConfig)
	}
	if config.Allocator == nil {
		return fmt.Errorf("%w: allocator is nil", ErrInvalidConfig)
	}
	switch config.StorageType {
	case StorageLocal, StorageS3:
	default:
		return fmt.Errorf("%w: unsupported storage type: %s", ErrInvalidConfig, config.StorageType)
	}
	return nil
}
