// Package meta reads and writes metatiles: files that bundle an N×N block of tiles
// together with an index locating each tile's bytes.
package meta

import (
	"log/slog"

	"github.com/eak1mov/go-metatile/meta/spec"
)

type config struct {
	Size       int
	Compressor spec.Compressor
	Dedup      bool
	Hilbert    bool
	CacheSize  int
	Logger     *slog.Logger
}

type Option func(*config)

// WithSize sets the metatile edge length N. Defaults to spec.DefaultSize.
func WithSize(size int) Option {
	return func(c *config) { c.Size = size }
}

// WithCompression selects the payload compressor. Writers emit METZ metatiles when it is
// set and META metatiles otherwise. Readers use it to decompress METZ payloads and fall
// back to spec.Gzip.
func WithCompression(compressor spec.Compressor) Option {
	return func(c *config) { c.Compressor = compressor }
}

// WithDedup makes writers store identical tiles once and point their index entries at
// the same byte range. In compressed mode the ranges are shared within the logical stream.
func WithDedup() Option {
	return func(c *config) { c.Dedup = true }
}

// WithHilbertLayout makes writers order the payload along a Hilbert curve over the
// metatile. The index stays row-major. The metatile size must be a power of two.
func WithHilbertLayout() Option {
	return func(c *config) { c.Hilbert = true }
}

// WithCacheSize sets how many opened metatiles a SetReader keeps.
func WithCacheSize(size int) Option {
	return func(c *config) { c.CacheSize = size }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.Logger = logger }
}

func newConfig(opts []Option) (config, error) {
	c := config{
		Size:      spec.DefaultSize,
		CacheSize: 64,
		Logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	if err := spec.ValidSize(c.Size); err != nil {
		return config{}, err
	}
	return c, nil
}
