package symwatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/robotomize/symwatch/label"
	"github.com/robotomize/symwatch/provider"
	"github.com/shopspring/decimal"
)

var equateDecimal = cmp.Comparer(func(a, b decimal.Decimal) bool {
	return a.Equal(b)
})

func history(currency string, closes ...float64) provider.History {
	h := provider.History{Currency: currency}
	for i, c := range closes {
		h.Candles = append(h.Candles, provider.Candle{Time: time.Unix(int64(i)*60, 0), Close: c})
	}

	return h
}

func holding(symbol string, qty, value int64) Holding {
	return Holding{Symbol: symbol, Quantity: decimal.NewFromInt(qty), Value: decimal.NewFromInt(value)}
}

func testPortfolio() []SymbolData {
	return []SymbolData{
		{Holding: holding("MSFT", 2, 3000), Currency: "USD", Scale: 1, History: history("USD", 410, 420)},
		{Holding: holding("SAAB-B.ST", 1, 500), Currency: "SEK", Scale: 1, History: history("SEK", 250)},
		{Holding: holding("BA.L", 10, 100), Currency: "GBP", Scale: 100, History: history("GBp", 1190, 1200)},
	}
}

func expectRates(source *provider.MockRateSource) {
	source.EXPECT().SpotQuote(gomock.Any(), label.Pair{Base: "SEK", Quote: "USD"}).Return(quotes(0.125), nil).Times(1)
	source.EXPECT().SpotQuote(gomock.Any(), label.Pair{Base: "SEK", Quote: "GBP"}).Return(quotes(0.0625), nil).Times(1)
}

func TestValuer_Value(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	source := provider.NewMockRateSource(ctrl)
	expectRates(source)

	valuer := NewValuer(NewRateCache(source), "SEK")
	overview := valuer.Value(context.Background(), testPortfolio())

	expected := []Row{
		{
			Symbol: "BA.L", ID: "BAL", Currency: "GBP", Close: 1200, LocalClose: 192,
			Actual: decimal.NewFromInt(1920), Purchased: decimal.NewFromInt(1000), Change: decimal.NewFromInt(920),
		},
		{
			Symbol: "MSFT", ID: "MSFT", Currency: "USD", Close: 420, LocalClose: 3360,
			Actual: decimal.NewFromInt(6720), Purchased: decimal.NewFromInt(6000), Change: decimal.NewFromInt(720),
		},
		{
			Symbol: "SAAB-B.ST", ID: "SAABBST", Currency: "SEK", Close: 250, LocalClose: 250,
			Actual: decimal.NewFromInt(250), Purchased: decimal.NewFromInt(500), Change: decimal.NewFromInt(-250),
		},
	}

	if diff := cmp.Diff(expected, overview.Rows, equateDecimal); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}

	if !overview.Worth.Equal(decimal.NewFromInt(8890)) {
		t.Errorf("got worth %s, want 8890", overview.Worth)
	}

	if !overview.Change.Equal(decimal.NewFromInt(1390)) {
		t.Errorf("got change %s, want 1390", overview.Change)
	}
}

func TestValuer_StaleAndUnavailable(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	source := provider.NewMockRateSource(ctrl)
	clock := newTestClock()

	gomock.InOrder(
		source.EXPECT().SpotQuote(gomock.Any(), label.Pair{Base: "SEK", Quote: "USD"}).Return(quotes(0.125), nil),
		source.EXPECT().SpotQuote(gomock.Any(), label.Pair{Base: "SEK", Quote: "USD"}).Return(nil, provider.ErrEmptySeries),
	)
	source.EXPECT().SpotQuote(gomock.Any(), label.Pair{Base: "SEK", Quote: "NOK"}).
		Return(nil, errors.New("timeout")).Times(2)

	valuer := NewValuer(NewRateCache(source, WithClock(clock.Now)), "SEK")
	ctx := context.Background()

	data := []SymbolData{
		{Holding: holding("MSFT", 2, 3000), Currency: "USD", History: history("USD", 420)},
		{Holding: holding("EQNR.OL", 5, 300), Currency: "NOK", History: history("NOK", 280)},
	}

	first := valuer.Value(ctx, data)

	clock.Advance(RateTTL + time.Second)
	data[0].History = history("USD", 430)
	second := valuer.Value(ctx, data)

	testCases := []struct {
		name        string
		overview    Overview
		stale       bool
		unavailable bool
	}{
		{name: "test_first_refresh", overview: first},
		{name: "test_rate_failed_after_expiry", overview: second, stale: true},
	}

	for _, tc := range testCases {
		msft, eqnr := tc.overview.Rows[1], tc.overview.Rows[0]

		if !eqnr.Unavailable || !errors.Is(eqnr.Err, ErrRateUnavailable) {
			t.Errorf("%s: got %+v, want unavailable row", tc.name, eqnr)
		}

		if msft.Stale != tc.stale {
			t.Errorf("%s: got stale %v, want %v", tc.name, msft.Stale, tc.stale)
		}

		// stale rows keep the previous valuation, unavailable rows are not counted
		if !msft.Actual.Equal(decimal.NewFromInt(6720)) || !tc.overview.Worth.Equal(msft.Actual) {
			t.Errorf("%s: got actual %s worth %s, want 6720", tc.name, msft.Actual, tc.overview.Worth)
		}
	}

	if diff := cmp.Diff(1, second.Stale()); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}
}

func TestValuer_NoQuotes(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	valuer := NewValuer(NewRateCache(provider.NewMockRateSource(ctrl)), "SEK")

	overview := valuer.Value(context.Background(), []SymbolData{
		{Holding: holding("^OMX", 0, 0), Currency: "SEK"},
	})

	expected := []Row{{Symbol: "^OMX", ID: "OMX", Currency: "SEK", Unavailable: true, Err: ErrNoQuotes}}
	if diff := cmp.Diff(expected, overview.Rows, equateDecimal, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}

	if !overview.Worth.IsZero() {
		t.Errorf("got worth %s, want 0", overview.Worth)
	}
}

func TestValuer_MinorUnits(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		reported string
		close    float64
		expected float64
	}{
		{name: "test_pence", reported: "GBp", close: 1200, expected: 12},
		{name: "test_pence_gbx", reported: "GBX", close: 1250, expected: 12.5},
		{name: "test_pound", reported: "GBP", close: 12, expected: 12},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			valuer := NewValuer(NewRateCache(provider.NewMockRateSource(ctrl)), "GBP")

			currency, scale := label.Normalize(tc.reported)
			overview := valuer.Value(context.Background(), []SymbolData{
				{Holding: holding("VOD.L", 10, 10), Currency: currency, Scale: scale, History: history(tc.reported, tc.close)},
			})

			row := overview.Rows[0]
			if row.LocalClose != tc.expected {
				t.Errorf("got local close %v, want %v", row.LocalClose, tc.expected)
			}

			if !row.Actual.Equal(decimal.NewFromFloat(tc.expected * 10)) {
				t.Errorf("got actual %s, want %v", row.Actual, tc.expected*10)
			}
		})
	}
}
