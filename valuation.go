package symwatch

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/robotomize/symwatch/internal/logging"
	"github.com/robotomize/symwatch/internal/strutil"
	"github.com/robotomize/symwatch/label"
	"github.com/robotomize/symwatch/provider"
	"github.com/shopspring/decimal"
)

var ErrNoQuotes = errors.New("no quotes for symbol")

// Converter converts a price quoted in instrument into local, RateCache implements it
type Converter interface {
	Convert(ctx context.Context, price float64, local, instrument label.Symbol) (float64, error)
}

// Holding is a position of the portfolio. Value is the purchase price of one unit in the local currency.
type Holding struct {
	Symbol   string
	Quantity decimal.Decimal
	Value    decimal.Decimal
}

// SymbolData is a holding together with its latest price history
type SymbolData struct {
	Holding
	// Currency is the normalized instrument currency, reported prices are divided by Scale to get a price in it
	Currency label.Symbol
	Scale    float64
	History  provider.History
	Updated  time.Time
}

// ID returns the symbol stripped to letters and digits, e.g. SAABB for SAAB-B.ST
func (s SymbolData) ID() string {
	return strutil.AlphaNum(s.Symbol)
}

// Row is the valuation of one holding
type Row struct {
	Symbol   string
	ID       string
	Currency label.Symbol
	// Close is the last close as reported by the source
	Close float64
	// LocalClose is the last close in the local currency
	LocalClose float64
	Actual     decimal.Decimal
	Purchased  decimal.Decimal
	Change     decimal.Decimal
	// Stale rows carry the valuation of a previous refresh because the current one failed
	Stale bool
	// Unavailable rows have never been valued and are left out of the totals
	Unavailable bool
	Err         error
}

// Overview is the valuation of the whole portfolio in the local currency
type Overview struct {
	Local  label.Symbol
	Time   time.Time
	Rows   []Row
	Worth  decimal.Decimal
	Change decimal.Decimal
}

// Stale returns the number of rows carried over from a previous refresh
func (o Overview) Stale() int {
	var n int
	for _, r := range o.Rows {
		if r.Stale {
			n++
		}
	}

	return n
}

// Valuer values holdings in the local currency and remembers the last good row of every symbol
type Valuer struct {
	rates Converter
	local label.Symbol
	now   func() time.Time

	mtx      sync.Mutex
	previous map[string]Row
}

func NewValuer(rates Converter, local label.Symbol) *Valuer {
	return &Valuer{
		rates:    rates,
		local:    local,
		now:      time.Now,
		previous: make(map[string]Row),
	}
}

func (v *Valuer) Local() label.Symbol {
	return v.local
}

// Value returns the overview of data. Worth is the sum of the actual values and Change is the sum of
// the differences to the purchased values.
func (v *Valuer) Value(ctx context.Context, data []SymbolData) Overview {
	logger := logging.FromContext(ctx)

	v.mtx.Lock()
	defer v.mtx.Unlock()

	overview := Overview{
		Local: v.local,
		Time:  v.now(),
		Rows:  make([]Row, 0, len(data)),
	}

	for _, d := range data {
		row, err := v.row(ctx, d)
		if err != nil {
			logger.Printf("value %s: %v", d.Symbol, err)
			row = v.fallback(d, err)
		} else {
			v.previous[d.Symbol] = row
		}

		overview.Rows = append(overview.Rows, row)
		if row.Unavailable {
			continue
		}

		overview.Worth = overview.Worth.Add(row.Actual)
		overview.Change = overview.Change.Add(row.Change)
	}

	sort.SliceStable(overview.Rows, func(i, j int) bool {
		return overview.Rows[i].Symbol < overview.Rows[j].Symbol
	})

	return overview
}

// Forget drops the remembered row of symbol
func (v *Valuer) Forget(symbol string) {
	v.mtx.Lock()
	defer v.mtx.Unlock()

	delete(v.previous, symbol)
}

func (v *Valuer) row(ctx context.Context, d SymbolData) (Row, error) {
	last, ok := d.History.Last()
	if !ok {
		return Row{}, ErrNoQuotes
	}

	row := Row{
		Symbol:     d.Symbol,
		ID:         d.ID(),
		Currency:   d.Currency,
		Close:      last.Close,
		LocalClose: last.Close / scaleOf(d),
	}

	if d.Currency != v.local {
		converted, err := v.rates.Convert(ctx, row.LocalClose, v.local, d.Currency)
		if err != nil {
			return Row{}, err
		}

		row.LocalClose = converted
	}

	row.Actual = decimal.NewFromFloat(row.LocalClose).Mul(d.Quantity)
	row.Purchased = d.Quantity.Mul(d.Value)
	row.Change = row.Actual.Sub(row.Purchased)

	return row, nil
}

func (v *Valuer) fallback(d SymbolData, err error) Row {
	if prev, ok := v.previous[d.Symbol]; ok {
		prev.Stale = true
		prev.Err = err
		return prev
	}

	return Row{
		Symbol:      d.Symbol,
		ID:          d.ID(),
		Currency:    d.Currency,
		Unavailable: true,
		Err:         err,
	}
}

func scaleOf(d SymbolData) float64 {
	if d.Scale == 0 {
		return 1
	}

	return d.Scale
}
