package label

import (
	"errors"
	"strings"
)

var ErrPairNotValid = errors.New("currency pair is not valid")

// Quote providers report some listings in minor units (London prices in pence as GBp or GBX).
// minorUnits maps such codes to the major currency and the factor to divide prices by.
var minorUnits = map[string]struct {
	symbol Symbol
	scale  float64
}{
	"GBp": {symbol: "GBP", scale: 100},
	"GBX": {symbol: "GBP", scale: 100},
	"ILA": {symbol: "ILS", scale: 100},
	"ZAc": {symbol: "ZAR", scale: 100},
	"ZAC": {symbol: "ZAR", scale: 100},
}

// Normalize maps a provider currency code to its ISO symbol and the divisor that turns
// a price quoted in code into a price in the returned symbol.
//
//	Normalize("GBp") // "GBP", 100
//	Normalize("usd") // "USD", 1
func Normalize(code string) (Symbol, float64) {
	code = strings.TrimSpace(code)
	if m, ok := minorUnits[code]; ok {
		return m.symbol, m.scale
	}

	return Symbol(strings.ToUpper(code)), 1
}
