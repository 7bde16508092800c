// Package symwatch tracks a portfolio of listed symbols and values it in a local currency.
//
// Exchange rates are memoized per currency pair for RateTTL:
//
//	rates := symwatch.NewRateCache(yahoo.NewSource(httputil.DefaultClient()))
//	local, err := rates.Convert(ctx, 150, "SEK", "USD")
package symwatch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/robotomize/symwatch/label"
	"github.com/robotomize/symwatch/provider"
	"golang.org/x/sync/singleflight"
)

// RateTTL is how long a fetched rate is served from the cache. It does not depend on the refresh interval.
const RateTTL = 60 * time.Second

// FetchTimeout bounds a single rate fetch shared by concurrent callers
const FetchTimeout = 30 * time.Second

var (
	ErrRateUnavailable = errors.New("exchange rate unavailable")
	ErrInvalidCurrency = errors.New("currency code is empty")
)

// CacheObserver receives cache events, see internal/metrics
type CacheObserver interface {
	ObserveHit(pair label.Pair)
	ObserveFetch(pair label.Pair, elapsed time.Duration, err error)
}

type CacheOption func(*RateCache)

// WithClock replaces the time source used for expiry
func WithClock(now func() time.Time) CacheOption {
	return func(c *RateCache) {
		c.now = now
	}
}

func WithCacheObserver(o CacheObserver) CacheOption {
	return func(c *RateCache) {
		c.observer = o
	}
}

type entry struct {
	fetchedAt time.Time
	rate      float64
}

// RateCache memoizes spot rates per currency pair. Safe for concurrent use.
type RateCache struct {
	source   provider.RateSource
	now      func() time.Time
	observer CacheObserver

	mtx     sync.RWMutex
	entries map[label.Pair]entry

	group singleflight.Group
}

func NewRateCache(source provider.RateSource, opts ...CacheOption) *RateCache {
	c := &RateCache{
		source:  source,
		now:     time.Now,
		entries: make(map[label.Pair]entry),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Rate returns the number of instrument units for one local unit. A rate older than RateTTL is fetched again,
// a failed fetch leaves the cache untouched.
func (c *RateCache) Rate(ctx context.Context, local, instrument label.Symbol) (float64, error) {
	if local == "" || instrument == "" {
		return 0, fmt.Errorf("%w: %w", ErrRateUnavailable, ErrInvalidCurrency)
	}

	pair := label.NewPair(local, instrument)
	if rate, ok := c.lookup(pair); ok {
		if c.observer != nil {
			c.observer.ObserveHit(pair)
		}

		return rate, nil
	}

	// the flight runs detached from the caller, every waiter gives up on its own ctx
	ch := c.group.DoChan(pair.String(), func() (interface{}, error) {
		// the previous flight may have stored the pair while this caller was waiting
		if rate, ok := c.lookup(pair); ok {
			return rate, nil
		}

		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), FetchTimeout)
		defer cancel()

		return c.fetch(fetchCtx, pair)
	})

	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%w: %s: %w", ErrRateUnavailable, pair.Symbol(), ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return 0, res.Err
		}

		return res.Val.(float64), nil
	}
}

// Convert returns price, quoted in instrument, expressed in local
func (c *RateCache) Convert(ctx context.Context, price float64, local, instrument label.Symbol) (float64, error) {
	rate, err := c.Rate(ctx, local, instrument)
	if err != nil {
		return 0, err
	}

	return price / rate, nil
}

// Len returns the number of cached pairs, expired ones included
func (c *RateCache) Len() int {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	return len(c.entries)
}

func (c *RateCache) lookup(pair label.Pair) (float64, bool) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	e, ok := c.entries[pair]
	if !ok || c.now().Sub(e.fetchedAt) > RateTTL {
		return 0, false
	}

	return e.rate, true
}

func (c *RateCache) fetch(ctx context.Context, pair label.Pair) (float64, error) {
	fetchedAt := c.now()

	rate, err := c.spot(ctx, pair)
	if c.observer != nil {
		c.observer.ObserveFetch(pair, c.now().Sub(fetchedAt), err)
	}

	if err != nil {
		return 0, err
	}

	c.mtx.Lock()
	c.entries[pair] = entry{fetchedAt: fetchedAt, rate: rate}
	c.mtx.Unlock()

	return rate, nil
}

func (c *RateCache) spot(ctx context.Context, pair label.Pair) (float64, error) {
	quotes, err := c.source.SpotQuote(ctx, pair)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrRateUnavailable, pair.Symbol(), err)
	}

	if len(quotes) == 0 {
		return 0, fmt.Errorf("%w: %s: %w", ErrRateUnavailable, pair.Symbol(), provider.ErrEmptySeries)
	}

	rate := quotes[len(quotes)-1].Close
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return 0, fmt.Errorf("%w: %s: last close %v", ErrRateUnavailable, pair.Symbol(), rate)
	}

	return rate, nil
}
