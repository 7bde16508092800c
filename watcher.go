package symwatch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/robotomize/symwatch/internal/hashio"
	"github.com/robotomize/symwatch/internal/logging"
	"github.com/robotomize/symwatch/label"
	"github.com/robotomize/symwatch/provider"
	"github.com/sethvargo/go-retry"
)

const (
	DefaultPeriod        = "1d"
	DefaultInterval      = "1m"
	DefaultRetryNum      = 1
	DefaultRetryDuration = 5 * time.Second
	// MinRefreshInterval is the shortest refresh interval Run accepts
	MinRefreshInterval = 60 * time.Second
)

// HoldingsDecoder decodes the content of a holdings file
type HoldingsDecoder func([]byte) ([]Holding, error)

// RefreshObserver receives the outcome of every refresh, see internal/metrics
type RefreshObserver interface {
	ObserveRefresh(elapsed time.Duration, err error)
}

type WatcherOption func(*Watcher)

// WithPeriod sets the span (1d, 5d, 1mo...) and granularity (1m, 5m, 1d...) of fetched histories
func WithPeriod(period, interval string) WatcherOption {
	return func(w *Watcher) {
		w.period = period
		w.interval = interval
	}
}

// WithRetry sets the number of repeated history requests and the pause between them
func WithRetry(n uint64, d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.retryNum = n
		w.retryDuration = d
	}
}

// WithHoldingsFile makes every refresh reload the holdings when the content of name changes
func WithHoldingsFile(fsys fs.FS, name string, decode HoldingsDecoder) WatcherOption {
	return func(w *Watcher) {
		w.holdings = hashio.NewFileDigest(fsys, name, hashio.SHA1HashFunc())
		w.decodeHoldings = decode
	}
}

func WithRefreshObserver(o RefreshObserver) WatcherOption {
	return func(w *Watcher) {
		w.observer = o
	}
}

// Watcher keeps the price histories of the held symbols up to date
type Watcher struct {
	quotes provider.QuoteSource
	valuer *Valuer

	period        string
	interval      string
	retryNum      uint64
	retryDuration time.Duration
	minInterval   time.Duration
	observer      RefreshObserver

	holdings       *hashio.FileDigest
	decodeHoldings HoldingsDecoder
	reloadMtx      sync.Mutex

	mtx   sync.RWMutex
	store map[string]SymbolData
}

func NewWatcher(quotes provider.QuoteSource, valuer *Valuer, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		quotes:        quotes,
		valuer:        valuer,
		period:        DefaultPeriod,
		interval:      DefaultInterval,
		retryNum:      DefaultRetryNum,
		retryDuration: DefaultRetryDuration,
		minInterval:   MinRefreshInterval,
		store:         make(map[string]SymbolData),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// SetHoldings replaces the tracked holdings, histories of symbols still held are kept
func (w *Watcher) SetHoldings(holdings []Holding) {
	w.mtx.Lock()
	defer w.mtx.Unlock()

	store := make(map[string]SymbolData, len(holdings))
	for _, h := range holdings {
		d := w.store[h.Symbol]
		d.Holding = h
		store[h.Symbol] = d
	}

	for symbol := range w.store {
		if _, ok := store[symbol]; !ok {
			w.valuer.Forget(symbol)
		}
	}

	w.store = store
}

// Symbols returns a snapshot of the tracked symbols ordered by symbol
func (w *Watcher) Symbols() []SymbolData {
	w.mtx.RLock()
	defer w.mtx.RUnlock()

	list := make([]SymbolData, 0, len(w.store))
	for _, d := range w.store {
		list = append(list, d)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Symbol < list[j].Symbol
	})

	return list
}

// Refresh fetches the histories of all symbols concurrently and values the portfolio. A symbol that could
// not be fetched keeps its previous history, the failures are returned together with the overview.
func (w *Watcher) Refresh(ctx context.Context) (Overview, error) {
	logger := logging.FromContext(ctx)
	start := time.Now()

	if err := w.reloadHoldings(); err != nil {
		logger.Printf("reload holdings: %v", err)
	}

	var g multierror.Group
	for _, d := range w.Symbols() {
		symbol := d.Symbol
		g.Go(func() error {
			h, err := w.history(ctx, symbol)
			if err != nil {
				return fmt.Errorf("%s: %w", symbol, err)
			}

			w.update(symbol, h)

			return nil
		})
	}

	err := g.Wait().ErrorOrNil()
	overview := w.valuer.Value(ctx, w.Symbols())

	if w.observer != nil {
		w.observer.ObserveRefresh(time.Since(start), err)
	}

	return overview, err
}

// Run refreshes immediately and then on every tick of interval until ctx is done. Intervals shorter
// than MinRefreshInterval are raised to it.
func (w *Watcher) Run(ctx context.Context, interval time.Duration, fn func(Overview)) error {
	logger := logging.FromContext(ctx)

	if interval < w.minInterval {
		interval = w.minInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		overview, err := w.Refresh(ctx)
		if err != nil {
			logger.Printf("refresh: %v", err)
		}

		if ctx.Err() == nil {
			fn(overview)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *Watcher) history(ctx context.Context, symbol string) (provider.History, error) {
	var h provider.History

	b, err := retry.NewConstant(w.retryDuration)
	if err != nil {
		return h, fmt.Errorf("retry.NewConstant: %w", err)
	}

	b = retry.WithMaxRetries(w.retryNum, b)

	if err := retry.Do(ctx, b, func(ctx context.Context) error {
		got, err := w.quotes.History(ctx, symbol, w.period, w.interval)
		if err != nil {
			if errors.Is(err, provider.ErrSymbolNotFound) {
				return err
			}

			return retry.RetryableError(fmt.Errorf("history: %w", err))
		}

		h = got

		return nil
	}); err != nil {
		return h, err
	}

	return h, nil
}

func (w *Watcher) update(symbol string, h provider.History) {
	currency, scale := label.Normalize(h.Currency)

	w.mtx.Lock()
	defer w.mtx.Unlock()

	d, ok := w.store[symbol]
	if !ok {
		return
	}

	d.History = h
	d.Currency = currency
	d.Scale = scale
	d.Updated = time.Now()
	w.store[symbol] = d
}

func (w *Watcher) reloadHoldings() error {
	if w.holdings == nil || w.decodeHoldings == nil {
		return nil
	}

	w.reloadMtx.Lock()
	defer w.reloadMtx.Unlock()

	content, sum, changed, err := w.holdings.Read()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("digest: %w", err)
	}

	if !changed {
		return nil
	}

	holdings, err := w.decodeHoldings(content)
	if err != nil {
		return fmt.Errorf("decode %s: %w", w.holdings.Name(), err)
	}

	w.SetHoldings(holdings)
	w.holdings.Accept(sum)

	return nil
}
