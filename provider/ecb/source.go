package ecb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/robotomize/symwatch/label"
	"github.com/robotomize/symwatch/provider"
	"github.com/robotomize/symwatch/provider/httputil"
)

const hostname = "www.ecb.europa.eu"

const (
	latestXMLRawPath = "/stats/eurofxref/eurofxref-daily.xml"
	latestCSVRawPath = "/stats/eurofxref/eurofxref.zip"
)

var (
	defaultLatestResourceCSV = url.URL{Scheme: "https", Host: hostname, Path: latestCSVRawPath}
	defaultLatestResourceXML = url.URL{Scheme: "https", Host: hostname, Path: latestXMLRawPath}
)

var _ provider.RateSource = (*source)(nil)

type fetcher struct {
	latestURL url.URL
	decodeFunc
	httputil.SourceHTTPClient
}

func NewSource(client *http.Client) *source {
	httpClient := httputil.NewHTTPClient(client)

	return &source{
		fetchers: []fetcher{{
			latestURL:        defaultLatestResourceCSV,
			decodeFunc:       decodeCSV,
			SourceHTTPClient: httpClient,
		}, {
			latestURL:        defaultLatestResourceXML,
			decodeFunc:       decodeXML,
			SourceHTTPClient: httpClient,
		}},
	}
}

type source struct {
	fetchers []fetcher
}

// SpotQuote returns the euro reference cross rate of the pair, one quote per publication day.
// Days that did not publish one of the currencies are left out.
func (s *source) SpotQuote(ctx context.Context, pair label.Pair) ([]provider.Quote, error) {
	tables, err := s.FetchTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch tables: %w", err)
	}

	var lastErr error
	quotes := make([]provider.Quote, 0, len(tables))
	for _, table := range tables {
		q, err := table.Quote(pair)
		if err != nil {
			lastErr = err
			continue
		}

		quotes = append(quotes, q)
	}

	if len(quotes) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("ecb: %w", lastErr)
		}

		return nil, fmt.Errorf("ecb %s: %w", pair, provider.ErrEmptySeries)
	}

	return quotes, nil
}

// FetchTables returns the published reference tables in time order
func (s *source) FetchTables(ctx context.Context) ([]provider.RateTable, error) {
	tables, err := s.fetchingPlan(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching plan: %w", err)
	}

	return tables, nil
}

// fetchingPlan asks all fetchers concurrently and decodes the first successful response
func (s *source) fetchingPlan(ctx context.Context) ([]provider.RateTable, error) {
	type fetchingDat struct {
		err error
		b   []byte
		d   decodeFunc
	}

	var dat fetchingDat
	var ferr *multierror.Error

	wg := sync.WaitGroup{}
	wg.Add(1)

	ch := make(chan fetchingDat)
	stopCh := make(chan struct{})

	for _, fet := range s.fetchers {
		fet := fet
		go func() {
			select {
			case <-stopCh:
				return
			default:
			}

			b, err := fet.Get(ctx, fet.latestURL)

			select {
			case <-stopCh:
				return
			case ch <- fetchingDat{b: b, d: fet.decodeFunc, err: err}:
			}
		}()
	}

	go func() {
		defer wg.Done()
		defer close(stopCh)
		n := len(s.fetchers)
		for n > 0 {
			select {
			case <-ctx.Done():
				ferr = multierror.Append(ferr, fmt.Errorf("ctx cancelled: %w", ctx.Err()))
				return
			case dat = <-ch:
				n--
				if dat.err == nil {
					return
				}
				ferr = multierror.Append(ferr, dat.err)
			}
		}
	}()

	wg.Wait()

	if dat.err != nil || dat.b == nil || dat.d == nil {
		return nil, ferr.ErrorOrNil()
	}

	tables, err := dat.d(dat.b)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	return tables, nil
}
