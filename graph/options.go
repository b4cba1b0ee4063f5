package graph

import (
	"fmt"

	"github.com/fabricdb/fabricdb/format"
	"github.com/fabricdb/fabricdb/section"
)

type config struct {
	appSignature     [16]byte
	appVersion       uint32
	textBlockSize    uint32
	indexPageSize    uint32
	indexCompression format.CompressionType
}

// Option configures Create and Open. Geometry options (text block size,
// index page size) only take effect when a file is created; an opened file
// keeps the geometry recorded in its header.
type Option func(*config) error

func buildConfig(opts []Option) (config, error) {
	cfg := config{
		textBlockSize:    section.DefaultTextBlockSize,
		indexPageSize:    section.DefaultIndexPageSize,
		indexCompression: format.CompressionNone,
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return config{}, err
		}
	}

	return cfg, nil
}

// WithAppSignature sets the 16-byte application signature written to the
// header of a new file. Shorter values are NUL-padded.
func WithAppSignature(sig string) Option {
	return func(cfg *config) error {
		if len(sig) > 16 {
			return fmt.Errorf("app signature %q exceeds 16 bytes", sig)
		}
		cfg.appSignature = [16]byte{}
		copy(cfg.appSignature[:], sig)

		return nil
	}
}

// WithAppVersion sets the application version written to the header of a
// new file.
func WithAppVersion(v uint32) Option {
	return func(cfg *config) error {
		cfg.appVersion = v
		return nil
	}
}

// WithTextBlockSize sets the allocation unit of the text store for a new
// file. It must be larger than the 4-byte text size header.
func WithTextBlockSize(size uint32) Option {
	return func(cfg *config) error {
		if size <= 4 {
			return fmt.Errorf("text block size %d too small", size)
		}
		cfg.textBlockSize = size

		return nil
	}
}

// WithIndexPageSize sets the unit in which index pages are persisted for a
// new file.
func WithIndexPageSize(size uint32) Option {
	return func(cfg *config) error {
		if size == 0 {
			return fmt.Errorf("index page size must be positive")
		}
		cfg.indexPageSize = size

		return nil
	}
}

// WithIndexCompression selects the codec used when index pages are
// persisted. The default is no compression.
func WithIndexCompression(t format.CompressionType) Option {
	return func(cfg *config) error {
		cfg.indexCompression = t
		return nil
	}
}
