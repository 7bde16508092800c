package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/subcommands"
	"github.com/robotomize/symwatch"
	"github.com/robotomize/symwatch/label"
	"github.com/robotomize/symwatch/provider/httputil"
	"github.com/robotomize/symwatch/render"
	"github.com/shopspring/decimal"
)

type rateCmd struct{}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "print the exchange rate of a currency pair" }
func (*rateCmd) Usage() string {
	return `symwatch rate <LOCAL> <INSTRUMENT>

  Prints how many INSTRUMENT units one LOCAL unit buys, e.g. symwatch rate SEK USD.
`
}

func (*rateCmd) SetFlags(*flag.FlagSet) {}

func (c *rateCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	local, instrument := currency(f.Arg(0)), currency(f.Arg(1))

	rates, err := newRates()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	rate, err := rates.Rate(ctx, local, instrument)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("%s %s\n", label.NewPair(local, instrument).Symbol(), strconv.FormatFloat(rate, 'f', -1, 64))

	return subcommands.ExitSuccess
}

type convertCmd struct{}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "convert a price into the local currency" }
func (*convertCmd) Usage() string {
	return `symwatch convert <PRICE> <LOCAL> <INSTRUMENT>

  Converts PRICE quoted in INSTRUMENT into LOCAL, e.g. symwatch convert 150 SEK USD.
`
}

func (*convertCmd) SetFlags(*flag.FlagSet) {}

func (c *convertCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	price, err := strconv.ParseFloat(f.Arg(0), 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: price %q: %v\n", f.Arg(0), err)
		return subcommands.ExitUsageError
	}

	local, instrument := currency(f.Arg(1)), currency(f.Arg(2))

	rates, err := newRates()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	converted, err := rates.Convert(ctx, price, local, instrument)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Println(render.Money(decimal.NewFromFloat(converted), local))

	return subcommands.ExitSuccess
}

func currency(s string) label.Symbol {
	return label.Symbol(strings.ToUpper(strings.TrimSpace(s)))
}

// newRates builds a rate cache without reading the settings or holdings files
func newRates() (*symwatch.RateCache, error) {
	source, err := rateSource(*sourceName, httputil.DefaultClient())
	if err != nil {
		return nil, err
	}

	return symwatch.NewRateCache(source), nil
}
