// Package label describes currencies and currency pairs as seen by quote providers.
package label

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
)

// Symbol is an ISO-4217 currency code, e.g. SEK
type Symbol string

func (s Symbol) String() string {
	return string(s)
}

// Valid reports whether the symbol is a known ISO-4217 currency
func (s Symbol) Valid() bool {
	if s == "" {
		return false
	}

	return money.GetCurrency(string(s)) != nil
}

// Fraction returns the number of minor-unit digits of the currency, 2 for unknown codes
func (s Symbol) Fraction() int {
	c := money.GetCurrency(string(s))
	if c == nil {
		return 2
	}

	return c.Fraction
}

const pairSuffix = "=X"

// Pair is an ordered currency pair. The quote of a pair is the number of Quote units for one Base unit.
type Pair struct {
	Base  Symbol
	Quote Symbol
}

// NewPair returns the pair used to convert prices quoted in instrument into local
func NewPair(local, instrument Symbol) Pair {
	return Pair{Base: local, Quote: instrument}
}

// Symbol returns the market-convention pair symbol, e.g. SEKUSD=X
func (p Pair) Symbol() string {
	return string(p.Base) + string(p.Quote) + pairSuffix
}

// Inverse returns the pair with base and quote swapped
func (p Pair) Inverse() Pair {
	return Pair{Base: p.Quote, Quote: p.Base}
}

func (p Pair) String() string {
	return fmt.Sprintf("%s/%s", p.Base, p.Quote)
}

// ParsePair parses a pair symbol such as SEKUSD=X
func ParsePair(s string) (Pair, error) {
	code := strings.TrimSuffix(strings.ToUpper(s), pairSuffix)
	if len(code) != 6 {
		return Pair{}, fmt.Errorf("pair symbol %q: %w", s, ErrPairNotValid)
	}

	p := Pair{Base: Symbol(code[:3]), Quote: Symbol(code[3:])}
	if !p.Base.Valid() || !p.Quote.Valid() {
		return Pair{}, fmt.Errorf("pair symbol %q: %w", s, ErrPairNotValid)
	}

	return p, nil
}
