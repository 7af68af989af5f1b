package mb_test

import (
	"maps"
	"path/filepath"
	"testing"

	"github.com/eak1mov/go-metatile/mb"
	"github.com/eak1mov/go-metatile/tile"
	"github.com/google/go-cmp/cmp"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func TestWriterReader(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "tiles.mbtiles")
	metadata := map[string]string{"format": "png", "name": "test"}

	tiles := map[tile.ID][]byte{
		{X: 0, Y: 0, Z: 0}: []byte("tile000"),
		{X: 1, Y: 0, Z: 1}: []byte("tile101"),
		{X: 3, Y: 5, Z: 6}: []byte("tile356"),
	}

	writer, err := mb.NewWriter(filePath, mb.WithMetadata(metadata))
	require.NoError(t, err)
	defer writer.Close()

	for tileID, tileData := range tiles {
		require.NoError(t, writer.WriteTile(tileID, tileData))
	}
	require.NoError(t, writer.WriteTile(tile.ID{X: 1, Y: 1, Z: 1}, []byte{}))
	require.NoError(t, writer.Finalize())
	require.NoError(t, writer.Close())

	reader, err := mb.NewReader(filePath)
	require.NoError(t, err)
	defer reader.Close()

	gotMetadata, err := reader.ReadMetadata()
	require.NoError(t, err)
	require.Equal(t, metadata, gotMetadata)

	if got := maps.Collect(tile.IterTiles(reader)); !cmp.Equal(got, tiles) {
		t.Errorf("VisitTiles data mismatch: %v", got)
	}

	for tileID, tileData := range tiles {
		got, err := reader.ReadTile(tileID)
		require.NoError(t, err)
		require.Equal(t, tileData, got)
	}

	for _, tileID := range []tile.ID{{X: 1, Y: 1, Z: 1}, {X: 9, Y: 9, Z: 2}} {
		got, err := reader.ReadTile(tileID)
		require.NoError(t, err)
		require.Empty(t, got)
	}
}
