package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/robotomize/symwatch"
	"github.com/robotomize/symwatch/internal/logging"
)

const clearScreen = "\033[H\033[2J"

type watchCmd struct {
	metricsAddr string
	logFile     string
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "refresh and display the portfolio on a timer" }
func (*watchCmd) Usage() string {
	return `symwatch watch [-metrics-addr <addr>] [-log <file>]

  Fetches the price history of every holding, values the portfolio in the local
  currency and redraws the screen every UPDATE_INTERVAL seconds (min 60).
  The holdings file is reloaded when its content changes.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.metricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address, e.g. :9090")
	f.StringVar(&c.logFile, "log", "", "Write logs to this file instead of stderr")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if c.logFile != "" {
		file, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		defer file.Close()

		ctx = logging.WithLogger(ctx, logging.NewLoggerTo(file, logging.DefaultPrefix, log.LstdFlags|log.Lmsgprefix))
	}

	logger := logging.FromContext(ctx)

	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.metricsAddr != "" {
		srv := &http.Server{
			Addr:              c.metricsAddr,
			Handler:           a.metrics.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf("metrics server: %v", err)
			}
		}()

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Printf("metrics server shutdown: %v", err)
			}
		}()
	}

	if err := a.watcher.Run(ctx, a.settings.RefreshInterval(), func(o symwatch.Overview) {
		out, err := a.screen(o)
		if err != nil {
			logger.Printf("render: %v", err)
			return
		}

		fmt.Print(clearScreen + out)
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
