// Command winrt inspects WinRT type signatures, interface identifiers and
// value type layouts, and calls runtime classes from the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

var (
	verbose        bool
	subcommandList []subcommands.Command
)

func init() {
	flag.BoolVar(&verbose, "v", false, "log debug output to stderr")

	subcommandList = append(subcommandList,
		subcommands.HelpCommand(),
		subcommands.FlagsCommand(),
		subcommands.CommandsCommand(),
		&sigCmd{},
		&iidCmd{},
		&layoutCmd{},
		&ifacesCmd{},
		&callCmd{},
		&tuiCmd{},
	)
}

func main() {
	for _, cmd := range subcommandList {
		subcommands.Register(cmd, "")
	}

	flag.Parse()
	log, err := newLogger(verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := withLogger(context.Background(), log)
	status := subcommands.Execute(ctx)
	_ = log.Sync()
	os.Exit(int(status))
}
