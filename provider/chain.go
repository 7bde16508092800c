package provider

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/robotomize/symwatch/label"
)

var _ RateSource = (Chain)(nil)

// Chain is a RateSource that asks every source in order and returns the first non-empty series
type Chain []RateSource

func (c Chain) SpotQuote(ctx context.Context, pair label.Pair) ([]Quote, error) {
	var ferr *multierror.Error

	for i, source := range c {
		if err := ctx.Err(); err != nil {
			return nil, multierror.Append(ferr, fmt.Errorf("ctx cancelled: %w", err)).ErrorOrNil()
		}

		quotes, err := source.SpotQuote(ctx, pair)
		if err != nil {
			ferr = multierror.Append(ferr, fmt.Errorf("source %d (%T): %w", i, source, err))
			continue
		}

		if len(quotes) == 0 {
			ferr = multierror.Append(ferr, fmt.Errorf("source %d (%T): %w", i, source, ErrEmptySeries))
			continue
		}

		return quotes, nil
	}

	if ferr == nil {
		return nil, fmt.Errorf("%s: %w", pair, ErrPairNotSupported)
	}

	return nil, ferr.ErrorOrNil()
}
