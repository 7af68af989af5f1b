package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"

	"github.com/eak1mov/go-metatile/meta"
	"github.com/eak1mov/go-metatile/tile"
	"github.com/google/subcommands"
)

type packCmd struct {
	inputFormat string
	inputPath   string
	outputPath  string
	x, y, z     uint
	codec       codecFlags
}

func (c *packCmd) Name() string     { return "pack" }
func (c *packCmd) Synopsis() string { return "pack one metatile from a tileset" }
func (c *packCmd) Usage() string {
	return "tileutils pack -i <path> -o <file.meta> -x <x> -y <y> -z <z> [-if <format> -size <n> -compress <algo> -dedup -hilbert]\n" +
		"  x and y may be any tile of the metatile, they are aligned down to the metatile grid\n"
}
func (c *packCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input path")
	f.StringVar(&c.inputFormat, "if", "", "Input format (mbtiles, meta, xyz)")
	f.StringVar(&c.outputPath, "o", "", "Output metatile file path")
	f.UintVar(&c.x, "x", 0, "Tile column")
	f.UintVar(&c.y, "y", 0, "Tile row")
	f.UintVar(&c.z, "z", 0, "Zoom level")
	c.codec.SetFlags(f)
}

// packTiles reads the tiles of the metatile containing tileID in row-major order.
func packTiles(reader tile.Reader, tileID tile.ID, size int) (tile.ID, [][]byte, error) {
	origin := meta.Origin(tileID, size)
	tiles := make([][]byte, size*size)
	for i := range tiles {
		dx, dy := meta.Offset(i, size)
		tileData, err := reader.ReadTile(tile.ID{X: origin.X + uint32(dx), Y: origin.Y + uint32(dy), Z: origin.Z})
		if err != nil {
			return tile.ID{}, nil, err
		}
		tiles[i] = tileData
	}
	return origin, tiles, nil
}

func (c *packCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	opts, err := c.codec.options()
	if err != nil {
		log.Println(err)
		return subcommands.ExitUsageError
	}

	reader, err := openReader(deduceFormat(c.inputFormat, c.inputPath), c.inputPath, opts)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if closer, ok := reader.(io.Closer); ok {
		defer closer.Close()
	}

	tileID := tile.ID{X: uint32(c.x), Y: uint32(c.y), Z: uint32(c.z)}
	origin, tiles, err := packTiles(reader, tileID, c.codec.size)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	data, err := meta.Encode(origin, tiles, opts...)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	if err := os.WriteFile(c.outputPath, data, 0644); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	log.Printf("packed metatile %v into %s (%d bytes)", origin, c.outputPath, len(data))
	return subcommands.ExitSuccess
}
