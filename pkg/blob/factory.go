package blob

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
)

// Config selects and configures a driver. Options is the raw driver section
// of the configuration file and is decoded into the driver's options struct.
type Config struct {
	Driver  Driver
	DataDir string
	Options map[string]any
}

// Open constructs the Store described by cfg. Relative fs roots and sqlite
// paths default to locations under DataDir.
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverFilesystem
	}

	switch driver {
	case DriverFilesystem:
		var opts FilesystemOptions
		if err := decodeOptions(cfg.Options, &opts); err != nil {
			return nil, err
		}
		if opts.Root == "" {
			opts.Root = filepath.Join(cfg.DataDir, "blobs")
		}
		return NewFilesystem(opts.Root)
	case DriverSQLite:
		var opts SQLiteOptions
		if err := decodeOptions(cfg.Options, &opts); err != nil {
			return nil, err
		}
		if opts.Path == "" {
			opts.Path = filepath.Join(cfg.DataDir, "shop.db")
		}
		return NewSQLite(opts.Path)
	case DriverS3:
		var opts S3Options
		if err := decodeOptions(cfg.Options, &opts); err != nil {
			return nil, err
		}
		return NewS3(ctx, opts)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}

func decodeOptions(raw map[string]any, out any) error {
	if len(raw) == 0 {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("create options decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("failed to decode storage options: %w", err)
	}
	return nil
}
