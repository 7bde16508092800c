package yahoo

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/robotomize/symwatch/provider"
)

var (
	errChartNotValid = errors.New("chart response is not valid")
	errChartAPI      = errors.New("chart api error")
)

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		Currency string `json:"currency"`
		Symbol   string `json:"symbol"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// decodeHistory decodes a chart response into candles, bars without a close price are skipped
func decodeHistory(b []byte) (provider.History, error) {
	var resp chartResponse
	if err := json.Unmarshal(b, &resp); err != nil {
		return provider.History{}, fmt.Errorf("%w: %v", errChartNotValid, err)
	}

	if e := resp.Chart.Error; e != nil {
		return provider.History{}, fmt.Errorf("%w: %s: %s", errChartAPI, e.Code, e.Description)
	}

	if len(resp.Chart.Result) == 0 {
		return provider.History{}, provider.ErrSymbolNotFound
	}

	r := resp.Chart.Result[0]
	h := provider.History{
		Symbol:   r.Meta.Symbol,
		Currency: r.Meta.Currency,
		Candles:  make([]provider.Candle, 0, len(r.Timestamp)),
	}

	if len(r.Indicators.Quote) == 0 {
		return h, nil
	}

	q := r.Indicators.Quote[0]
	for i, ts := range r.Timestamp {
		closePrice := at(q.Close, i)
		if closePrice == nil {
			continue
		}

		c := provider.Candle{
			Time:  time.Unix(ts, 0).UTC(),
			Close: *closePrice,
		}

		if v := at(q.Open, i); v != nil {
			c.Open = *v
		}

		if v := at(q.High, i); v != nil {
			c.High = *v
		}

		if v := at(q.Low, i); v != nil {
			c.Low = *v
		}

		if v := at(q.Volume, i); v != nil {
			c.Volume = *v
		}

		h.Candles = append(h.Candles, c)
	}

	return h, nil
}

func at[T any](values []*T, i int) *T {
	if i >= len(values) {
		return nil
	}

	return values[i]
}

const (
	timestampPath = "$.chart.result[0].timestamp"
	closePath     = "$.chart.result[0].indicators.quote[0].close"
	errorPath     = "$.chart.error.description"
)

// decodeQuotes extracts the close series of a chart response
func decodeQuotes(b []byte) ([]provider.Quote, error) {
	var jobj interface{}
	if err := json.Unmarshal(b, &jobj); err != nil {
		return nil, fmt.Errorf("%w: %v", errChartNotValid, err)
	}

	if desc, err := jsonpath.Get(errorPath, jobj); err == nil {
		if s, ok := desc.(string); ok && s != "" {
			return nil, fmt.Errorf("%w: %s", errChartAPI, s)
		}
	}

	jts, err := jsonpath.Get(timestampPath, jobj)
	if err != nil {
		return nil, provider.ErrEmptySeries
	}

	jclose, err := jsonpath.Get(closePath, jobj)
	if err != nil {
		return nil, provider.ErrEmptySeries
	}

	timestamps, ok := jts.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T", errChartNotValid, timestampPath, jts)
	}

	closes, ok := jclose.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T", errChartNotValid, closePath, jclose)
	}

	quotes := make([]provider.Quote, 0, len(timestamps))
	for i, jt := range timestamps {
		if i >= len(closes) {
			break
		}

		ts, ok := jt.(float64)
		if !ok {
			continue
		}

		// yahoo leaves holes as null in the series
		c, ok := closes[i].(float64)
		if !ok {
			continue
		}

		quotes = append(quotes, provider.Quote{Time: time.Unix(int64(ts), 0).UTC(), Close: c})
	}

	return quotes, nil
}
