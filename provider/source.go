package provider

import (
	"context"
	"errors"
	"time"

	"github.com/robotomize/symwatch/label"
)

var (
	ErrPairNotSupported = errors.New("currency pair is not supported")
	ErrEmptySeries      = errors.New("empty quote series")
	ErrSymbolNotFound   = errors.New("symbol not found")
)

// RateSource is an interface for getting spot quotes of currency pairs from external sources.
//
//go:generate mockgen -source source.go -destination mock_source.go -package provider
type RateSource interface {
	// SpotQuote returns the time-ordered quote series of the pair, the last element is the most recent one.
	// A quote is the number of pair.Quote units for one pair.Base unit
	SpotQuote(ctx context.Context, pair label.Pair) ([]Quote, error)
}

// QuoteSource is an interface for getting the price history of listed symbols
type QuoteSource interface {
	// History returns candles of symbol for the period (1d, 5d, 1mo...) at interval granularity (1m, 5m, 1d...)
	History(ctx context.Context, symbol, period, interval string) (History, error)
}

// Quote is a single observation of a price
type Quote struct {
	Time  time.Time
	Close float64
}

// Candle is an OHLCV bar
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// History represents the price history of a listed symbol
type History struct {
	Symbol string
	// Currency as reported by the source, it can be a minor unit (GBp), see label.Normalize
	Currency string
	Candles  []Candle
}

// Last returns the most recent candle
func (h History) Last() (Candle, bool) {
	if len(h.Candles) == 0 {
		return Candle{}, false
	}

	return h.Candles[len(h.Candles)-1], true
}

// Closes returns close prices in time order
func (h History) Closes() []float64 {
	closes := make([]float64, len(h.Candles))
	for i, c := range h.Candles {
		closes[i] = c.Close
	}

	return closes
}
