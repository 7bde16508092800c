package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/robotomize/symwatch/render"
)

type overviewCmd struct {
	markdown bool
}

func (*overviewCmd) Name() string     { return "overview" }
func (*overviewCmd) Synopsis() string { return "display the portfolio once" }
func (*overviewCmd) Usage() string {
	return `symwatch overview [-md]

  Fetches the price history of every holding once and prints the portfolio
  overview followed by a ticker per symbol.
`
}

func (c *overviewCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.markdown, "md", false, "Print raw markdown instead of styled output")
}

func (c *overviewCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	o, err := a.watcher.Refresh(ctx)
	if err != nil {
		// partial failures keep the rows of the symbols that were fetched
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	var out string
	if c.markdown {
		out, err = render.Screen(o, a.watcher.Symbols())
	} else {
		out, err = a.screen(o)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Print(out)

	return subcommands.ExitSuccess
}
