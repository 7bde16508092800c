package provider

import (
	"fmt"
	"time"

	"github.com/robotomize/symwatch/label"
)

// RateTable is a daily reference table published by a central bank. Rates hold the number
// of units of each currency for one unit of Base.
type RateTable struct {
	Time  time.Time
	Base  label.Symbol
	Rates map[label.Symbol]float64
}

func (t RateTable) rate(s label.Symbol) (float64, bool) {
	if s == t.Base {
		return 1, true
	}

	r, ok := t.Rates[s]
	if !ok || r <= 0 {
		return 0, false
	}

	return r, true
}

// Quote returns the cross rate of the pair derived from the table
func (t RateTable) Quote(pair label.Pair) (Quote, error) {
	base, ok := t.rate(pair.Base)
	if !ok {
		return Quote{}, fmt.Errorf("%s: %w", pair.Base, ErrPairNotSupported)
	}

	quote, ok := t.rate(pair.Quote)
	if !ok {
		return Quote{}, fmt.Errorf("%s: %w", pair.Quote, ErrPairNotSupported)
	}

	return Quote{Time: t.Time, Close: quote / base}, nil
}

// Exchangeable returns the currencies of the table, base included
func (t RateTable) Exchangeable() []label.Symbol {
	list := make([]label.Symbol, 0, len(t.Rates)+1)
	list = append(list, t.Base)
	for s := range t.Rates {
		if s != t.Base {
			list = append(list, s)
		}
	}

	return list
}
