package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/google/subcommands"
	"github.com/robotomize/symwatch/internal/config"
)

var (
	settingsFile = flag.String("settings", config.DefaultSettingsFile, "Path to the settings file (JSON)")
	holdingsFile = flag.String("holdings", config.DefaultHoldingsFile, "Path to the holdings file (JSON), reloaded when it changes")
	envFiles     = flag.String("env", "", "Comma separated env files loaded before the settings, defaults to an optional .env")
	sourceName   = flag.String("source", sourceYahoo, "Exchange rate source: yahoo, ecb, cae, rcb or chain")
	width        = flag.Int("width", 120, "Word wrap width of the rendered output")
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&watchCmd{}, "portfolio")
	commander.Register(&overviewCmd{}, "portfolio")
	commander.Register(&rateCmd{}, "currency")
	commander.Register(&convertCmd{}, "currency")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := commander.Execute(ctx)
	stop()

	os.Exit(int(status))
}
