package meta

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/eak1mov/go-metatile/internal/pattern"
	"github.com/eak1mov/go-metatile/tile"
	arc "github.com/hashicorp/golang-lru/arc/v2"
)

// SetWriter implements tile.Writer for a tileset stored as one metatile file per
// metatile origin, at paths like "/home/user/tiles/{z}/{x}/{y}.meta".
type SetWriter struct {
	filePattern string
	opts        []Option
	size        int
	logger      *slog.Logger

	pending map[tile.ID]*pendingMeta
	written map[tile.ID]bool
}

type pendingMeta struct {
	tiles   [][]byte
	present []bool
	filled  int
}

func NewSetWriter(filePattern string, opts ...Option) (*SetWriter, error) {
	if err := pattern.Validate(filePattern); err != nil {
		return nil, err
	}
	config, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &SetWriter{
		filePattern: filePattern,
		opts:        opts,
		size:        config.Size,
		logger:      config.Logger,
		pending:     make(map[tile.ID]*pendingMeta),
		written:     make(map[tile.ID]bool),
	}, nil
}

// WriteTile buffers the tile and writes its metatile as soon as all tiles of it arrived.
func (w *SetWriter) WriteTile(tileID tile.ID, tileData []byte) error {
	origin := Origin(tileID, w.size)
	if w.written[origin] {
		return fmt.Errorf("metatile: %v already written, got late tile %v", origin, tileID)
	}

	meta, exists := w.pending[origin]
	if !exists {
		count := w.size * w.size
		meta = &pendingMeta{tiles: make([][]byte, count), present: make([]bool, count)}
		w.pending[origin] = meta
	}

	i, _ := Position(origin, tileID, w.size)
	if !meta.present[i] {
		meta.present[i] = true
		meta.filled++
	}
	meta.tiles[i] = bytes.Clone(tileData)

	if meta.filled == len(meta.tiles) {
		return w.flush(origin)
	}
	return nil
}

func (w *SetWriter) flush(origin tile.ID) error {
	data, err := Encode(origin, w.pending[origin].tiles, w.opts...)
	if err != nil {
		return err
	}

	filePath := pattern.Format(w.filePattern, origin)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return err
	}

	delete(w.pending, origin)
	w.written[origin] = true
	return nil
}

// Finalize writes the remaining incomplete metatiles, filling their gaps with empty tiles.
func (w *SetWriter) Finalize() error {
	origins := slices.SortedFunc(maps.Keys(w.pending), func(a, b tile.ID) int {
		return cmp.Or(cmp.Compare(a.Z, b.Z), cmp.Compare(a.X, b.X), cmp.Compare(a.Y, b.Y))
	})
	w.logger.Debug("metatile: flush incomplete", "count", len(origins))
	for _, origin := range origins {
		if err := w.flush(origin); err != nil {
			return err
		}
	}
	w.logger.Debug("metatile: done!", "written", len(w.written))
	return nil
}

// SetReader implements tile.Reader and tile.Visitor for tilesets written by SetWriter.
// Opened metatiles are cached, so compressed payloads are decompressed once per cached
// metatile.
type SetReader struct {
	filePattern string
	matcher     *pattern.Matcher
	opts        []Option
	size        int
	cache       *arc.ARCCache[tile.ID, *View]
}

func NewSetReader(filePattern string, opts ...Option) (*SetReader, error) {
	matcher, err := pattern.NewMatcher(filePattern)
	if err != nil {
		return nil, err
	}
	config, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	cache, err := arc.NewARC[tile.ID, *View](config.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("metatile: invalid cache size %d: %w", config.CacheSize, err)
	}
	return &SetReader{
		filePattern: filePattern,
		matcher:     matcher,
		opts:        opts,
		size:        config.Size,
		cache:       cache,
	}, nil
}

// open returns the metatile stored at filePath, or nil if there is no such file.
func (r *SetReader) open(origin tile.ID, filePath string) (*View, error) {
	if v, ok := r.cache.Get(origin); ok {
		return v, nil
	}
	v, err := NewFileReader(filePath, r.opts...)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.cache.Add(origin, v)
	return v, nil
}

func (r *SetReader) ReadTile(tileID tile.ID) ([]byte, error) {
	origin := Origin(tileID, r.size)
	v, err := r.open(origin, pattern.Format(r.filePattern, origin))
	if err != nil {
		return nil, err
	}
	if v == nil {
		return make([]byte, 0), nil
	}
	return v.ReadTile(tileID)
}

func (r *SetReader) VisitTiles(visitor func(tile.ID, []byte) error) error {
	return filepath.WalkDir(r.matcher.Root(), func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		origin, ok := r.matcher.Match(filePath)
		if !ok {
			return nil
		}

		v, err := r.open(origin, filePath)
		if err != nil {
			return err
		}
		if v == nil {
			return nil
		}
		return v.VisitTiles(visitor)
	})
}
