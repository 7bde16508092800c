package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/robotomize/symwatch"
	"github.com/robotomize/symwatch/internal/logging"
	"github.com/shopspring/decimal"
)

var ErrInvalidHoldings = errors.New("invalid holdings")

// DecodeHoldings decodes {"TICKER": [quantity, purchase_value], ...} into holdings ordered by ticker
func DecodeHoldings(b []byte) ([]symwatch.Holding, error) {
	var raw map[string][]decimal.Decimal
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHoldings, err)
	}

	list := make([]symwatch.Holding, 0, len(raw))
	for symbol, pos := range raw {
		if symbol == "" {
			return nil, fmt.Errorf("%w: empty ticker", ErrInvalidHoldings)
		}

		if len(pos) != 2 {
			return nil, fmt.Errorf("%w: %s: want [quantity, value], got %d numbers", ErrInvalidHoldings, symbol, len(pos))
		}

		if pos[0].IsNegative() || pos[1].IsNegative() {
			return nil, fmt.Errorf("%w: %s: negative position", ErrInvalidHoldings, symbol)
		}

		list = append(list, symwatch.Holding{Symbol: symbol, Quantity: pos[0], Value: pos[1]})
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Symbol < list[j].Symbol
	})

	return list, nil
}

// LoadHoldings reads the holdings file, a missing file yields no holdings
func LoadHoldings(ctx context.Context, path string) ([]symwatch.Holding, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.FromContext(ctx).Printf("holdings file %s not found, tracking nothing", path)
			return nil, nil
		}

		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return DecodeHoldings(b)
}
