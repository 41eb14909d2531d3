package godataset

import (
	"context"
	"fmt"

	"github.com/BrobridgeOrg/go-dataset/fileio"
	"github.com/BrobridgeOrg/go-dataset/table"
)

// Load reads a CSV, Parquet or Avro file and creates a dataset over it. The
// format is chosen from the file extension. Paths starting with s3:// are
// read from S3.
func Load(ctx context.Context, path string, opts ...Option) (*Dataset, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	format, err := table.FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	fileIO, err := createFileIO(ctx, config, path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file IO: %w", err)
	}

	input, err := fileIO.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	r, err := input.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", input.Location(), err)
	}
	defer r.Close()

	tbl, err := table.Read(ctx, r, format, config.Allocator)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", input.Location(), err)
	}
	defer tbl.Release()

	config.Logger.Debug("table loaded",
		"path", input.Location(),
		"format", string(format),
		"rows", tbl.NumRows(),
	)
	return newDataset(tbl, config)
}

// createFileIO creates a file IO based on the configuration and path.
func createFileIO(ctx context.Context, config *Config, path string) (fileio.FileIO, error) {
	if config.StorageType == StorageS3 || fileio.IsS3(path) {
		s3 := config.S3Config
		if s3 == nil {
			s3 = &S3Config{}
		}
		return fileio.NewS3FileIO(ctx, &fileio.S3Config{
			Region:          s3.Region,
			Endpoint:        s3.Endpoint,
			AccessKeyID:     s3.AccessKeyID,
			SecretAccessKey: s3.SecretAccessKey,
			SessionToken:    s3.SessionToken,
			ForcePathStyle:  s3.ForcePathStyle,
		})
	}

	var basePath string
	if config.LocalConfig != nil {
		basePath = config.LocalConfig.BasePath
	}
	return fileio.NewLocalFileIO(basePath), nil
}
