package symwatch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/robotomize/symwatch/label"
	"github.com/robotomize/symwatch/provider"
	"github.com/shopspring/decimal"
)

// decodeTestHoldings reads "SYMBOL QTY VALUE" lines
func decodeTestHoldings(b []byte) ([]Holding, error) {
	var list []Holding
	for _, line := range strings.Split(strings.TrimSpace(string(b)), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, errors.New("bad line")
		}

		qty, err := decimal.NewFromString(fields[1])
		if err != nil {
			return nil, err
		}

		value, err := decimal.NewFromString(fields[2])
		if err != nil {
			return nil, err
		}

		list = append(list, Holding{Symbol: fields[0], Quantity: qty, Value: value})
	}

	return list, nil
}

func symbolsOf(list []SymbolData) []string {
	out := make([]string, len(list))
	for i, d := range list {
		out[i] = d.Symbol
	}

	return out
}

func TestWatcher_Refresh(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	quotes := provider.NewMockQuoteSource(ctrl)
	rates := provider.NewMockRateSource(ctrl)

	quotes.EXPECT().History(gomock.Any(), "MSFT", "5d", "5m").Return(history("USD", 410, 420), nil)
	quotes.EXPECT().History(gomock.Any(), "BA.L", "5d", "5m").Return(history("GBp", 1200), nil)
	quotes.EXPECT().History(gomock.Any(), "SAAB-B.ST", "5d", "5m").Return(history("SEK", 250), nil)
	expectRates(rates)

	w := NewWatcher(quotes, NewValuer(NewRateCache(rates), "SEK"), WithPeriod("5d", "5m"))
	w.SetHoldings([]Holding{holding("MSFT", 2, 3000), holding("SAAB-B.ST", 1, 500), holding("BA.L", 10, 100)})

	overview, err := w.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if !overview.Worth.Equal(decimal.NewFromInt(8890)) {
		t.Errorf("got worth %s, want 8890", overview.Worth)
	}

	symbols := w.Symbols()
	if diff := cmp.Diff([]string{"BA.L", "MSFT", "SAAB-B.ST"}, symbolsOf(symbols)); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}

	// minor units are normalized on update
	if symbols[0].Currency != "GBP" || symbols[0].Scale != 100 {
		t.Errorf("got %s scale %v, want GBP scale 100", symbols[0].Currency, symbols[0].Scale)
	}
}

func TestWatcher_RefreshPartialFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	quotes := provider.NewMockQuoteSource(ctrl)
	rates := provider.NewMockRateSource(ctrl)
	errTransient := errors.New("connection reset")

	gomock.InOrder(
		quotes.EXPECT().History(gomock.Any(), "SAAB-B.ST", gomock.Any(), gomock.Any()).Return(history("SEK", 250), nil),
		quotes.EXPECT().History(gomock.Any(), "SAAB-B.ST", gomock.Any(), gomock.Any()).Return(provider.History{}, errTransient).Times(2),
	)
	quotes.EXPECT().History(gomock.Any(), "NOPE", gomock.Any(), gomock.Any()).Return(provider.History{}, provider.ErrSymbolNotFound).Times(2)

	w := NewWatcher(quotes, NewValuer(NewRateCache(rates), "SEK"), WithRetry(1, time.Millisecond))
	w.SetHoldings([]Holding{holding("SAAB-B.ST", 2, 200), holding("NOPE", 1, 1)})

	testCases := []struct {
		name string
		errs []error
	}{
		{name: "test_unknown_symbol", errs: []error{provider.ErrSymbolNotFound}},
		{name: "test_transient_after_retry", errs: []error{provider.ErrSymbolNotFound, errTransient}},
	}

	for _, tc := range testCases {
		overview, err := w.Refresh(context.Background())
		for _, want := range tc.errs {
			if !errors.Is(err, want) {
				t.Errorf("%s: got %v, want %v", tc.name, err, want)
			}
		}

		// the previous history of SAAB-B.ST is kept
		if !overview.Worth.Equal(decimal.NewFromInt(500)) {
			t.Errorf("%s: got worth %s, want 500", tc.name, overview.Worth)
		}

		if !overview.Rows[0].Unavailable {
			t.Errorf("%s: got %+v, want NOPE unavailable", tc.name, overview.Rows[0])
		}
	}
}

func TestWatcher_Retry(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	quotes := provider.NewMockQuoteSource(ctrl)
	gomock.InOrder(
		quotes.EXPECT().History(gomock.Any(), "SAAB-B.ST", gomock.Any(), gomock.Any()).Return(provider.History{}, errors.New("502")),
		quotes.EXPECT().History(gomock.Any(), "SAAB-B.ST", gomock.Any(), gomock.Any()).Return(history("SEK", 250), nil),
	)

	w := NewWatcher(quotes, NewValuer(NewRateCache(provider.NewMockRateSource(ctrl)), "SEK"), WithRetry(1, time.Millisecond))
	w.SetHoldings([]Holding{holding("SAAB-B.ST", 1, 200)})

	overview, err := w.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if !overview.Change.Equal(decimal.NewFromInt(50)) {
		t.Errorf("got change %s, want 50", overview.Change)
	}
}

func TestWatcher_SetHoldings(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	quotes := provider.NewMockQuoteSource(ctrl)
	quotes.EXPECT().History(gomock.Any(), "AAPL", gomock.Any(), gomock.Any()).Return(history("SEK", 10), nil)
	quotes.EXPECT().History(gomock.Any(), "AMZN", gomock.Any(), gomock.Any()).Return(history("SEK", 20), nil)

	w := NewWatcher(quotes, NewValuer(NewRateCache(provider.NewMockRateSource(ctrl)), "SEK"))
	w.SetHoldings([]Holding{holding("AAPL", 1, 1), holding("AMZN", 1, 1)})

	if _, err := w.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	w.SetHoldings([]Holding{holding("AMZN", 3, 1), holding("MSFT", 1, 1)})

	symbols := w.Symbols()
	if diff := cmp.Diff([]string{"AMZN", "MSFT"}, symbolsOf(symbols)); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}

	if _, ok := symbols[0].History.Last(); !ok || !symbols[0].Quantity.Equal(decimal.NewFromInt(3)) {
		t.Errorf("got %+v, want AMZN history kept with quantity 3", symbols[0])
	}

	if _, ok := symbols[1].History.Last(); ok {
		t.Errorf("got history for MSFT before refresh")
	}
}

func TestWatcher_HoldingsReload(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	quotes := provider.NewMockQuoteSource(ctrl)
	quotes.EXPECT().History(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(history("SEK", 100), nil).AnyTimes()

	fsys := fstest.MapFS{
		"holdings.txt": &fstest.MapFile{Data: []byte("AAPL 1 50\n")},
	}

	w := NewWatcher(quotes, NewValuer(NewRateCache(provider.NewMockRateSource(ctrl)), "SEK"),
		WithHoldingsFile(fsys, "holdings.txt", decodeTestHoldings),
	)

	steps := []struct {
		name     string
		content  string
		expected []string
	}{
		{name: "test_initial_load", expected: []string{"AAPL"}},
		{name: "test_unchanged", expected: []string{"AAPL"}},
		{name: "test_added", content: "AAPL 1 50\nMSFT 2 10\n", expected: []string{"AAPL", "MSFT"}},
		{name: "test_broken_keeps_previous", content: "AAPL one\n", expected: []string{"AAPL", "MSFT"}},
		{name: "test_removed", content: "MSFT 2 10\n", expected: []string{"MSFT"}},
	}

	for _, step := range steps {
		if step.content != "" {
			fsys["holdings.txt"] = &fstest.MapFile{Data: []byte(step.content)}
		}

		if _, err := w.Refresh(context.Background()); err != nil {
			t.Fatalf("%s: refresh: %v", step.name, err)
		}

		if diff := cmp.Diff(step.expected, symbolsOf(w.Symbols())); diff != "" {
			t.Errorf("%s: mismatch (-want, +got):\n%s", step.name, diff)
		}
	}
}

type testRefreshObserver struct {
	mtx   sync.Mutex
	calls int
}

func (o *testRefreshObserver) ObserveRefresh(time.Duration, error) {
	o.mtx.Lock()
	defer o.mtx.Unlock()
	o.calls++
}

func TestWatcher_Run(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	quotes := provider.NewMockQuoteSource(ctrl)
	quotes.EXPECT().History(gomock.Any(), "SAAB-B.ST", gomock.Any(), gomock.Any()).Return(history("SEK", 250), nil).MinTimes(3)

	obs := &testRefreshObserver{}
	w := NewWatcher(quotes, NewValuer(NewRateCache(provider.NewMockRateSource(ctrl)), "SEK"), WithRefreshObserver(obs))
	w.minInterval = 5 * time.Millisecond
	w.SetHoldings([]Holding{holding("SAAB-B.ST", 1, 200)})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var overviews []Overview
	err := w.Run(ctx, time.Nanosecond, func(o Overview) {
		overviews = append(overviews, o)
		if len(overviews) == 3 {
			cancel()
		}
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if diff := cmp.Diff(3, len(overviews)); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}

	if obs.calls < 3 {
		t.Errorf("got %d observed refreshes, want at least 3", obs.calls)
	}

	if overviews[0].Local != label.Symbol("SEK") {
		t.Errorf("got local %s, want SEK", overviews[0].Local)
	}
}
