package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/eak1mov/go-metatile/meta"
	"github.com/google/subcommands"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

type inspectCmd struct {
	inputPath string
	entries   bool
	codec     codecFlags
}

func (c *inspectCmd) Name() string     { return "inspect" }
func (c *inspectCmd) Synopsis() string { return "print and verify metatile header and index" }
func (c *inspectCmd) Usage() string {
	return "tileutils inspect -i <file.meta> [-entries -size <n> -compress <algo>]\n"
}
func (c *inspectCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input metatile file path")
	f.BoolVar(&c.entries, "entries", false, "Print every index entry")
	c.codec.SetFlags(f)
}

// metatileBound returns the lon/lat bound covered by the metatile, clipped to the world.
func metatileBound(view *meta.View) orb.Bound {
	origin := view.Origin()
	last := uint64(origin.X) + uint64(view.Size()) - 1
	lastY := uint64(origin.Y) + uint64(view.Size()) - 1
	if origin.Z < 32 {
		limit := uint64(1)<<origin.Z - 1
		last, lastY = min(last, limit), min(lastY, limit)
	}
	zoom := maptile.Zoom(origin.Z)
	return maptile.New(origin.X, origin.Y, zoom).Bound().
		Union(maptile.New(uint32(last), uint32(lastY), zoom).Bound())
}

func (c *inspectCmd) print(w io.Writer, view *meta.View) error {
	header := view.Header()
	bound := metatileBound(view)
	fmt.Fprintf(w, "magic:  %q (%v)\n", header.Magic[:], view.Mode())
	fmt.Fprintf(w, "count:  %d (%dx%d)\n", header.Count, view.Size(), view.Size())
	fmt.Fprintf(w, "origin: x=%d y=%d z=%d\n", header.X, header.Y, header.Z)
	fmt.Fprintf(w, "bounds: %.6f,%.6f,%.6f,%.6f\n", bound.Min.Lon(), bound.Min.Lat(), bound.Max.Lon(), bound.Max.Lat())

	if c.entries {
		for i := range view.Count() {
			entry, _ := view.Entry(i)
			dx, dy := meta.Offset(i, view.Size())
			fmt.Fprintf(w, "%4d (%d,%d) %v offset=%d size=%d\n", i, dx, dy, view.TileID(i), entry.Offset, entry.Size)
		}
	}

	return view.Verify()
}

func (c *inspectCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
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

	if err := c.print(os.Stdout, view); err != nil {
		log.Println("verification failed:", err)
		return subcommands.ExitFailure
	}

	fmt.Println("ok")
	return subcommands.ExitSuccess
}
