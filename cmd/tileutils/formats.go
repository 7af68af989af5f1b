package main

import (
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"github.com/eak1mov/go-metatile/mb"
	"github.com/eak1mov/go-metatile/meta"
	"github.com/eak1mov/go-metatile/meta/spec"
	"github.com/eak1mov/go-metatile/tile"
	"github.com/eak1mov/go-metatile/xyz"
)

func deduceFormat(format, filePath string) string {
	if format == "" && strings.HasSuffix(filePath, ".mbtiles") {
		return "mbtiles"
	}
	if format == "" && strings.HasSuffix(filePath, ".meta") {
		return "meta"
	}
	return format
}

type tileReader interface {
	tile.Reader
	tile.Visitor
}

// openReader opens a tileset. A "meta" tileset is a pattern of metatile files.
func openReader(format, filePath string, opts []meta.Option) (tileReader, error) {
	switch format {
	case "mbtiles":
		return mb.NewReader(filePath)
	case "meta":
		return meta.NewSetReader(filePath, opts...)
	case "xyz", "":
		return xyz.NewReader(filePath)
	}
	return nil, fmt.Errorf("invalid input format: %q", format)
}

func openWriter(format, filePath string, metadata map[string]string, opts []meta.Option) (tile.Writer, error) {
	switch format {
	case "mbtiles":
		return mb.NewWriter(filePath, mb.WithMetadata(metadata), mb.WithLogger(slog.Default()))
	case "meta":
		return meta.NewSetWriter(filePath, append(opts, meta.WithLogger(slog.Default()))...)
	case "xyz", "":
		return xyz.NewWriter(filePath)
	}
	return nil, fmt.Errorf("invalid output format: %q", format)
}

// codecFlags configures how metatiles are read and written.
type codecFlags struct {
	size     int
	compress string
	dedup    bool
	hilbert  bool
}

func (c *codecFlags) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.size, "size", spec.DefaultSize, "Metatile edge length")
	f.StringVar(&c.compress, "compress", "", "Metatile payload compression (none, gzip, zstd, xz)")
	f.BoolVar(&c.dedup, "dedup", false, "Store identical tiles once")
	f.BoolVar(&c.hilbert, "hilbert", false, "Lay out tile data along a Hilbert curve")
}

func (c *codecFlags) options() ([]meta.Option, error) {
	compressor, err := spec.CompressorByName(c.compress)
	if err != nil {
		return nil, err
	}
	opts := []meta.Option{meta.WithSize(c.size), meta.WithCompression(compressor)}
	if c.dedup {
		opts = append(opts, meta.WithDedup())
	}
	if c.hilbert {
		opts = append(opts, meta.WithHilbertLayout())
	}
	return opts, nil
}
