package meta

import (
	"fmt"
	"math"

	"github.com/eak1mov/go-metatile/meta/spec"
	"github.com/eak1mov/go-metatile/tile"
	"github.com/google/hilbert"
	"github.com/zeebo/blake3"
)

// Encode packs tiles into a metatile whose lowest tile is origin.
//
// Tiles are given in row-major order, tiles[i] is the tile at origin + Offset(i, N), and
// there must be exactly N*N of them. Missing tiles should be passed as empty slices.
// Nothing is returned unless the whole metatile is valid.
func Encode(origin tile.ID, tiles [][]byte, opts ...Option) ([]byte, error) {
	config, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	count := config.Size * config.Size
	if len(tiles) != count {
		return nil, fmt.Errorf("%w: got %d tiles, want %d", spec.ErrInvalidTileCount, len(tiles), count)
	}

	for _, v := range []uint32{origin.X, origin.Y, origin.Z} {
		if v > math.MaxInt32 {
			return nil, fmt.Errorf("%w: %v", spec.ErrInvalidCoordinates, origin)
		}
	}

	mode := spec.PayloadRaw
	if config.Compressor != nil {
		mode = spec.PayloadCompressed
	}

	header := spec.Header{
		Magic: mode.Magic(),
		Count: int32(count),
		X:     int32(origin.X),
		Y:     int32(origin.Y),
		Z:     int32(origin.Z),
	}

	order, err := payloadOrder(config)
	if err != nil {
		return nil, err
	}

	// Raw offsets are file offsets, compressed offsets point into the logical stream.
	base := 0
	if mode == spec.PayloadRaw {
		base = spec.PayloadOffset(count)
	}

	totalLength := 0
	for _, tileData := range tiles {
		totalLength += len(tileData)
	}
	if !spec.FitsInt32(int64(base) + int64(totalLength)) {
		return nil, fmt.Errorf("%w: %d bytes of tiles", spec.ErrPayloadTooLarge, totalLength)
	}

	entries := make([]spec.Entry, count)
	payload := make([]byte, 0, totalLength)
	var stored map[[32]byte]spec.Entry
	if config.Dedup {
		stored = make(map[[32]byte]spec.Entry)
	}

	for _, i := range order {
		tileData := tiles[i]
		var digest [32]byte
		if stored != nil {
			digest = blake3.Sum256(tileData)
			if entry, exists := stored[digest]; exists {
				entries[i] = entry
				continue
			}
		}
		entries[i] = spec.Entry{
			Offset: int32(base + len(payload)),
			Size:   int32(len(tileData)),
		}
		payload = append(payload, tileData...)
		if stored != nil {
			stored[digest] = entries[i]
		}
	}

	if mode == spec.PayloadCompressed {
		logicalLength := len(payload)
		payload, err = config.Compressor.Compress(payload)
		if err != nil {
			return nil, err
		}
		config.Logger.Debug("metatile: compressed payload",
			"origin", origin, "logical", logicalLength, "compressed", len(payload))
	}

	result := make([]byte, 0, spec.PayloadOffset(count)+len(payload))
	result = spec.AppendHeader(result, &header)
	result = spec.AppendIndex(result, entries)
	result = append(result, payload...)

	config.Logger.Debug("metatile: encoded", "origin", origin, "mode", mode, "length", len(result))
	return result, nil
}

// payloadOrder returns tile indices in the order their bytes are laid out.
func payloadOrder(config config) ([]int, error) {
	count := config.Size * config.Size
	order := make([]int, 0, count)

	if !config.Hilbert {
		for i := range count {
			order = append(order, i)
		}
		return order, nil
	}

	h, err := hilbert.NewHilbert(config.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: hilbert layout: %w", spec.ErrInvalidSize, err)
	}
	for t := range count {
		x, y, err := h.Map(t)
		if err != nil {
			return nil, fmt.Errorf("%w: hilbert layout: %w", spec.ErrInvalidSize, err)
		}
		order = append(order, y*config.Size+x)
	}
	return order, nil
}
