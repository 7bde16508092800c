package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/robotomize/symwatch/label"
	"github.com/robotomize/symwatch/provider"
	"github.com/robotomize/symwatch/provider/httputil"
)

const hostname = "query1.finance.yahoo.com"

const chartRawPath = "/v8/finance/chart/"

// the chart endpoint answers 429 to non-browser user agents
const browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

const (
	spotRange    = "1mo"
	spotInterval = "1d"
)

var defaultChartResource = url.URL{Scheme: "https", Host: hostname, Path: chartRawPath}

var (
	_ provider.RateSource  = (*source)(nil)
	_ provider.QuoteSource = (*source)(nil)
)

func NewSource(client *http.Client) *source {
	return &source{
		chartURL:         defaultChartResource,
		SourceHTTPClient: httputil.NewHTTPClient(client).WithUserAgent(browserUserAgent),
	}
}

type source struct {
	chartURL url.URL
	httputil.SourceHTTPClient
}

// History fetches candles of symbol, period and interval use the Yahoo range notation (1d, 5d, 1mo, 1y...)
func (s *source) History(ctx context.Context, symbol, period, interval string) (provider.History, error) {
	b, err := s.chart(ctx, symbol, period, interval)
	if err != nil {
		return provider.History{}, fmt.Errorf("chart %s: %w", symbol, err)
	}

	h, err := decodeHistory(b)
	if err != nil {
		return provider.History{}, fmt.Errorf("decode %s: %w", symbol, err)
	}

	return h, nil
}

// SpotQuote fetches the daily closes of the pair symbol, e.g. SEKUSD=X
func (s *source) SpotQuote(ctx context.Context, pair label.Pair) ([]provider.Quote, error) {
	b, err := s.chart(ctx, pair.Symbol(), spotRange, spotInterval)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", pair.Symbol(), err)
	}

	quotes, err := decodeQuotes(b)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", pair.Symbol(), err)
	}

	if len(quotes) == 0 {
		return nil, fmt.Errorf("%s: %w", pair.Symbol(), provider.ErrEmptySeries)
	}

	return quotes, nil
}

func (s *source) chart(ctx context.Context, symbol, period, interval string) ([]byte, error) {
	u := s.chartURL
	u.Path += symbol

	query := u.Query()
	query.Set("range", period)
	query.Set("interval", interval)
	u.RawQuery = query.Encode()

	b, err := s.Get(ctx, u)
	if err != nil {
		if errors.Is(err, httputil.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", provider.ErrSymbolNotFound, err)
		}

		return nil, fmt.Errorf("fetching: %w", err)
	}

	return b, nil
}
