package main

import (
	"context"
	"flag"
	"io"
	"log"

	"github.com/eak1mov/go-metatile/meta"
	"github.com/eak1mov/go-metatile/tile"
	"github.com/google/subcommands"
)

type unpackCmd struct {
	inputPath    string
	outputFormat string
	outputPath   string
	codec        codecFlags
}

func (c *unpackCmd) Name() string     { return "unpack" }
func (c *unpackCmd) Synopsis() string { return "extract the tiles of one metatile" }
func (c *unpackCmd) Usage() string {
	return "tileutils unpack -i <file.meta> -o <path> [-of <format> -size <n> -compress <algo>]\n"
}
func (c *unpackCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input metatile file path")
	f.StringVar(&c.outputPath, "o", "", "Output path")
	f.StringVar(&c.outputFormat, "of", "", "Output format (mbtiles, xyz)")
	c.codec.SetFlags(f)
}

func (c *unpackCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	opts, err := c.codec.options()
	if err != nil {
		log.Println(err)
		return subcommands.ExitUsageError
	}

	view, err := meta.NewFileReader(c.inputPath, opts...)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	writer, err := openWriter(deduceFormat(c.outputFormat, c.outputPath), c.outputPath, nil, opts)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if closer, ok := writer.(io.Closer); ok {
		defer closer.Close()
	}

	count := 0
	if err := tile.CopyTiles(view, writer, func() { count++ }); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	if err := writer.Finalize(); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	log.Printf("unpacked %d tiles of metatile %v", count, view.Origin())
	return subcommands.ExitSuccess
}
