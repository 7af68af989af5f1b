package meta_test

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"testing"

	"github.com/eak1mov/go-metatile/meta"
	"github.com/eak1mov/go-metatile/meta/spec"
	"github.com/eak1mov/go-metatile/tile"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSetWriterReader(t *testing.T) {
	for _, tc := range []struct {
		Name string
		Opts []meta.Option
	}{
		{Name: "Raw", Opts: []meta.Option{meta.WithSize(4)}},
		{Name: "Gzip", Opts: []meta.Option{meta.WithSize(4), meta.WithCompression(spec.Gzip), meta.WithCacheSize(1)}},
		{Name: "Zstd", Opts: []meta.Option{meta.WithSize(2), meta.WithCompression(spec.Zstd), meta.WithDedup()}},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			rootDir := t.TempDir()
			filePattern := filepath.Join(rootDir, "{z}", "{x}", "{y}.meta")

			tiles := make(map[tile.ID][]byte)
			for z := range uint32(4) {
				for x := range uint32(1) << z {
					for y := range uint32(1) << z {
						if (x+y)%3 == 0 {
							continue
						}
						tiles[tile.ID{X: x, Y: y, Z: z}] = fmt.Appendf(nil, "tile%d%d%d", z, x, y)
					}
				}
			}

			writer, err := meta.NewSetWriter(filePattern, tc.Opts...)
			require.NoError(t, err)
			for tileID, tileData := range tiles {
				require.NoError(t, writer.WriteTile(tileID, tileData))
			}
			require.NoError(t, writer.Finalize())

			reader, err := meta.NewSetReader(filePattern, tc.Opts...)
			require.NoError(t, err)

			if got := maps.Collect(tile.IterTiles(reader)); !cmp.Equal(got, tiles) {
				t.Errorf("VisitTiles data mismatch")
			}

			for tileID, tileData := range tiles {
				got, err := reader.ReadTile(tileID)
				require.NoError(t, err)
				require.Equal(t, tileData, got, tileID)
			}

			missing, err := reader.ReadTile(tile.ID{X: 0, Y: 0, Z: 12})
			require.NoError(t, err)
			require.Empty(t, missing)
		})
	}
}

func TestSetWriterFlushesComplete(t *testing.T) {
	rootDir := t.TempDir()
	filePattern := filepath.Join(rootDir, "{z}", "{x}", "{y}.meta")
	writer, err := meta.NewSetWriter(filePattern, meta.WithSize(2))
	require.NoError(t, err)

	for i := range 4 {
		require.NoError(t, writer.WriteTile(tile.ID{X: 16 + uint32(i%2), Y: 32 + uint32(i/2), Z: 5}, scenarioTiles[i]))
	}

	// The metatile is complete and written before Finalize.
	view, err := meta.NewFileReader(filepath.Join(rootDir, "5", "16", "32.meta"), meta.WithSize(2))
	require.NoError(t, err)
	require.NoError(t, view.Verify())
	require.Equal(t, tile.ID{X: 16, Y: 32, Z: 5}, view.Origin())

	err = writer.WriteTile(tile.ID{X: 17, Y: 33, Z: 5}, []byte("late"))
	require.Error(t, err)

	require.NoError(t, writer.Finalize())
}

func TestSetErrors(t *testing.T) {
	_, err := meta.NewSetWriter("{z}/{x}.meta")
	require.Error(t, err)
	_, err = meta.NewSetReader("{z}/{x}.meta")
	require.Error(t, err)
	_, err = meta.NewSetReader("{z}/{x}/{y}.meta", meta.WithCacheSize(0))
	require.Error(t, err)
	_, err = meta.NewSetWriter("{z}/{x}/{y}.meta", meta.WithSize(0))
	require.ErrorIs(t, err, spec.ErrInvalidSize)

	rootDir := t.TempDir()
	filePattern := filepath.Join(rootDir, "{z}", "{x}", "{y}.meta")
	require.NoError(t, os.MkdirAll(filepath.Join(rootDir, "1", "0"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(rootDir, "1", "0", "0.meta"), []byte("garbage"), 0644))

	reader, err := meta.NewSetReader(filePattern)
	require.NoError(t, err)
	_, err = reader.ReadTile(tile.ID{X: 1, Y: 1, Z: 1})
	require.ErrorIs(t, err, spec.ErrUnrecognizedFormat)
	require.ErrorIs(t, reader.VisitTiles(func(tile.ID, []byte) error { return nil }), spec.ErrUnrecognizedFormat)
}
