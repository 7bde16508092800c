package cae

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/robotomize/symwatch/label"
	"github.com/robotomize/symwatch/provider"
	"github.com/robotomize/symwatch/provider/httputil"
)

const hostname = "www.centralbank.ae"

var defaultRatesResource = url.URL{Scheme: "https", Host: hostname, Path: "/en/fx-rates"}

var _ provider.RateSource = (*source)(nil)

type fetcher struct {
	u url.URL
	httputil.SourceHTTPClient
}

// NewSource returns the rate source of the Central Bank of the UAE, all pairs are crossed through AED
func NewSource(client *http.Client) *source {
	return &source{
		client: fetcher{
			u:                defaultRatesResource,
			SourceHTTPClient: httputil.NewHTTPClient(client),
		},
		nowFunc: time.Now,
	}
}

type source struct {
	client  fetcher
	nowFunc func() time.Time
}

func (s *source) SpotQuote(ctx context.Context, pair label.Pair) ([]provider.Quote, error) {
	table, err := s.FetchTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch table: %w", err)
	}

	q, err := table.Quote(pair)
	if err != nil {
		return nil, fmt.Errorf("cae: %w", err)
	}

	return []provider.Quote{q}, nil
}

// FetchTable returns the dirham table published for the current day
func (s *source) FetchTable(ctx context.Context) (provider.RateTable, error) {
	u := s.client.u
	query := u.Query()
	query.Set("date_req", s.nowFunc().UTC().Format("02/01/2006"))
	u.RawQuery = query.Encode()

	b, err := s.client.Get(ctx, u)
	if err != nil {
		return provider.RateTable{}, fmt.Errorf("fetching: %w", err)
	}

	table, err := s.decode(b)
	if err != nil {
		return provider.RateTable{}, fmt.Errorf("decode: %w", err)
	}

	return table, nil
}

func (s *source) decode(b []byte) (provider.RateTable, error) {
	aedExchangeRates, err := parseHTML(b)
	if err != nil {
		return provider.RateTable{}, fmt.Errorf("decode html: %w", err)
	}

	table := provider.RateTable{
		Time:  aedExchangeRates.time,
		Base:  "AED",
		Rates: make(map[label.Symbol]float64, len(aedExchangeRates.rates)),
	}

	// the page lists dirhams per unit, the table holds units per dirham
	for _, r := range aedExchangeRates.rates {
		table.Rates[r.symbol] = 1 / r.rate
	}

	return table, nil
}
