package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/robotomize/symwatch"
	"github.com/robotomize/symwatch/internal/config"
	"github.com/robotomize/symwatch/internal/metrics"
	"github.com/robotomize/symwatch/provider"
	"github.com/robotomize/symwatch/provider/cae"
	"github.com/robotomize/symwatch/provider/ecb"
	"github.com/robotomize/symwatch/provider/httputil"
	"github.com/robotomize/symwatch/provider/rcb"
	"github.com/robotomize/symwatch/provider/yahoo"
	"github.com/robotomize/symwatch/render"
)

const (
	sourceYahoo = "yahoo"
	sourceECB   = "ecb"
	sourceCAE   = "cae"
	sourceRCB   = "rcb"
	sourceChain = "chain"
)

var errUnknownSource = errors.New("unknown rate source")

// rateSource returns the named exchange rate source, chain asks yahoo first and the central banks after it
func rateSource(name string, client *http.Client) (provider.RateSource, error) {
	switch name {
	case sourceYahoo:
		return yahoo.NewSource(client), nil
	case sourceECB:
		return ecb.NewSource(client), nil
	case sourceCAE:
		return cae.NewSource(client), nil
	case sourceRCB:
		return rcb.NewSource(client), nil
	case sourceChain:
		return provider.Chain{
			yahoo.NewSource(client),
			ecb.NewSource(client),
			cae.NewSource(client),
			rcb.NewSource(client),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownSource, name)
	}
}

func splitList(s string) []string {
	var list []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			list = append(list, v)
		}
	}

	return list
}

type app struct {
	settings config.Settings
	metrics  *metrics.Metrics
	rates    *symwatch.RateCache
	watcher  *symwatch.Watcher
	term     *render.Terminal
}

func newApp(ctx context.Context) (*app, error) {
	if err := config.LoadEnv(ctx, splitList(*envFiles)...); err != nil {
		return nil, err
	}

	settings, err := config.LoadSettings(ctx, *settingsFile)
	if err != nil {
		return nil, err
	}

	client := httputil.DefaultClient()
	source, err := rateSource(*sourceName, client)
	if err != nil {
		return nil, err
	}

	holdings, err := config.LoadHoldings(ctx, *holdingsFile)
	if err != nil {
		return nil, err
	}

	term, err := render.NewTerminal(*width)
	if err != nil {
		return nil, err
	}

	m := metrics.NewMetrics()
	rates := symwatch.NewRateCache(source, symwatch.WithCacheObserver(m))
	valuer := symwatch.NewValuer(rates, settings.Local())

	dir, name := filepath.Split(*holdingsFile)
	if dir == "" {
		dir = "."
	}

	watcher := symwatch.NewWatcher(
		yahoo.NewSource(client),
		valuer,
		symwatch.WithPeriod(settings.Period, settings.Interval),
		symwatch.WithHoldingsFile(os.DirFS(dir), name, config.DecodeHoldings),
		symwatch.WithRefreshObserver(m),
	)
	watcher.SetHoldings(holdings)

	return &app{
		settings: settings,
		metrics:  m,
		rates:    rates,
		watcher:  watcher,
		term:     term,
	}, nil
}

// screen renders the overview and the tickers of every symbol for the terminal
func (a *app) screen(o symwatch.Overview) (string, error) {
	md, err := render.Screen(o, a.watcher.Symbols())
	if err != nil {
		return "", err
	}

	return a.term.Render(md)
}
