package rcb

import (
	"time"

	"github.com/robotomize/symwatch/label"
)

type rubLatestRates struct {
	time  time.Time
	rates []rubExchangeRate
}

// rubExchangeRate holds the price of one unit of symbol in rubles, the nominal already applied
type rubExchangeRate struct {
	symbol label.Symbol
	rate   float64
}
