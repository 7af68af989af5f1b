package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/eak1mov/go-metatile/mb"
	"github.com/eak1mov/go-metatile/tile"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type convertCmd struct {
	inputFormat  string
	inputPath    string
	outputFormat string
	outputPath   string
	codec        codecFlags
}

func (c *convertCmd) Name() string     { return "convert" }
func (c *convertCmd) Synopsis() string { return "convert between tile storage formats" }
func (c *convertCmd) Usage() string {
	return "tileutils convert -i <path> -o <path> [-if <format> | -of <format>] [-size <n> -compress <algo> -dedup -hilbert]\n" +
		"  a meta tileset path is a pattern like tiles/{z}/{x}/{y}.meta\n"
}
func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input path")
	f.StringVar(&c.inputFormat, "if", "", "Input format (mbtiles, meta, xyz)")
	f.StringVar(&c.outputPath, "o", "", "Output path")
	f.StringVar(&c.outputFormat, "of", "", "Output format (mbtiles, meta, xyz)")
	c.codec.SetFlags(f)
}

func (c *convertCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	inputFormat := deduceFormat(c.inputFormat, c.inputPath)
	outputFormat := deduceFormat(c.outputFormat, c.outputPath)

	opts, err := c.codec.options()
	if err != nil {
		log.Println(err)
		return subcommands.ExitUsageError
	}

	reader, err := openReader(inputFormat, c.inputPath, opts)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if closer, ok := reader.(io.Closer); ok {
		defer closer.Close()
	}

	var metadata map[string]string
	if mbReader, ok := reader.(*mb.Reader); ok && outputFormat == "mbtiles" {
		metadata, err = mbReader.ReadMetadata()
		if err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
	}

	writer, err := openWriter(outputFormat, c.outputPath, metadata, opts)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if closer, ok := writer.(io.Closer); ok {
		defer closer.Close()
	}

	bar := progressbar.NewOptions(-1, progressbar.OptionShowIts(), progressbar.OptionShowCount())
	err = tile.CopyTiles(reader, writer, func() { bar.Add(1) })
	bar.Finish()
	fmt.Println()

	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	if err := writer.Finalize(); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
