package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&convertCmd{}, "")
	subcommands.Register(&packCmd{}, "metatile")
	subcommands.Register(&unpackCmd{}, "metatile")
	subcommands.Register(&inspectCmd{}, "metatile")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
