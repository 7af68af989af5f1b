package meta

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/eak1mov/go-metatile/meta/spec"
	"github.com/eak1mov/go-metatile/tile"
)

// View provides random access to the tiles of one metatile.
//
// A View is safe for concurrent use. Compressed payloads are decompressed on the first
// tile access and the result, including a failure, is kept for the lifetime of the View.
type View struct {
	data    []byte
	header  spec.Header
	size    int
	entries []spec.Entry
	payload func() ([]byte, error)
	logger  *slog.Logger
}

// Open validates the header and index of a metatile held in data.
// The View keeps referencing data, which must not be modified afterwards.
func Open(data []byte, opts ...Option) (*View, error) {
	config, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	header, err := spec.DeserializeHeader(data)
	if err != nil {
		return nil, err
	}
	if err := header.CheckCount(config.Size); err != nil {
		return nil, err
	}
	if header.X < 0 || header.Y < 0 || header.Z < 0 {
		return nil, fmt.Errorf("%w: %d/%d/%d", spec.ErrInvalidCoordinates, header.Z, header.X, header.Y)
	}

	count := int(header.Count)
	entries, err := spec.DeserializeIndex(data[spec.HeaderLength:], count)
	if err != nil {
		return nil, err
	}

	v := &View{
		data:    data,
		header:  *header,
		size:    config.Size,
		entries: entries,
		logger:  config.Logger,
	}

	switch header.Mode() {
	case spec.PayloadRaw:
		v.payload = func() ([]byte, error) { return data, nil }
	case spec.PayloadCompressed:
		compressor := config.Compressor
		if compressor == nil {
			compressor = spec.Gzip
		}
		v.payload = sync.OnceValues(func() ([]byte, error) {
			blob := data[spec.PayloadOffset(count):]
			result, err := compressor.Decompress(blob)
			if err != nil {
				v.logger.Debug("metatile: decompression failed", "origin", v.Origin(), "error", err)
				if !errors.Is(err, spec.ErrDecompression) {
					err = fmt.Errorf("%w: %w", spec.ErrDecompression, err)
				}
				return nil, err
			}
			v.logger.Debug("metatile: decompressed payload",
				"origin", v.Origin(), "compressed", len(blob), "logical", len(result))
			return result, nil
		})
	}

	return v, nil
}

// NewFileReader reads the whole metatile file at filePath and opens it.
func NewFileReader(filePath string, opts ...Option) (*View, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	v, err := Open(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return v, nil
}

func (v *View) Header() spec.Header {
	return v.header
}

func (v *View) Mode() spec.PayloadMode {
	return v.header.Mode()
}

// Count returns the number of tiles, always Size()*Size().
func (v *View) Count() int {
	return len(v.entries)
}

func (v *View) Size() int {
	return v.size
}

// Origin returns the lowest tile of the metatile.
func (v *View) Origin() tile.ID {
	return tile.ID{X: uint32(v.header.X), Y: uint32(v.header.Y), Z: uint32(v.header.Z)}
}

// TileID returns the coordinates of the i-th tile.
func (v *View) TileID(i int) tile.ID {
	dx, dy := Offset(i, v.size)
	origin := v.Origin()
	return tile.ID{X: origin.X + uint32(dx), Y: origin.Y + uint32(dy), Z: origin.Z}
}

func (v *View) Entry(i int) (spec.Entry, error) {
	if i < 0 || i >= len(v.entries) {
		return spec.Entry{}, fmt.Errorf("%w: %d not in [0, %d)", spec.ErrIndexOutOfRange, i, len(v.entries))
	}
	return v.entries[i], nil
}

// region returns the bytes entries point into and the lowest valid offset.
func (v *View) region() ([]byte, int, error) {
	payload, err := v.payload()
	if err != nil {
		return nil, 0, err
	}
	if v.Mode() == spec.PayloadRaw {
		return payload, spec.PayloadOffset(len(v.entries)), nil
	}
	return payload, 0, nil
}

// Tile returns the bytes of the i-th tile in row-major order.
// The result aliases the View's buffer and must not be modified.
func (v *View) Tile(i int) ([]byte, error) {
	entry, err := v.Entry(i)
	if err != nil {
		return nil, err
	}

	region, lo, err := v.region()
	if err != nil {
		return nil, err
	}

	if !entry.Within(lo, len(region)) {
		return nil, fmt.Errorf("%w: entry %d (offset %d, size %d) outside [%d, %d)",
			spec.ErrCorruptEntry, i, entry.Offset, entry.Size, lo, len(region))
	}

	end := entry.End()
	return region[entry.Offset:end:end], nil
}

// TileAt returns the tile at (origin.X+dx, origin.Y+dy).
func (v *View) TileAt(dx, dy int) ([]byte, error) {
	if dx < 0 || dx >= v.size || dy < 0 || dy >= v.size {
		return nil, fmt.Errorf("%w: (%d, %d) not in %dx%d", spec.ErrIndexOutOfRange, dx, dy, v.size, v.size)
	}
	return v.Tile(dy*v.size + dx)
}

// ReadTile implements tile.Reader. Tiles outside the metatile are empty.
func (v *View) ReadTile(tileID tile.ID) ([]byte, error) {
	i, ok := Position(v.Origin(), tileID, v.size)
	if !ok {
		return make([]byte, 0), nil
	}
	return v.Tile(i)
}

// VisitTiles implements tile.Visitor, visiting tiles in row-major order.
// Empty tiles are placeholders for missing ones and are skipped.
func (v *View) VisitTiles(visitor func(tile.ID, []byte) error) error {
	for i := range v.entries {
		tileData, err := v.Tile(i)
		if err != nil {
			return err
		}
		if len(tileData) == 0 {
			continue
		}
		if err := visitor(v.TileID(i), tileData); err != nil {
			return err
		}
	}
	return nil
}

// Verify checks every index entry and returns all problems found.
func (v *View) Verify() error {
	if _, _, err := v.region(); err != nil {
		return err
	}
	var errs []error
	for i := range v.entries {
		if _, err := v.Tile(i); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
