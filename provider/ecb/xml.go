package ecb

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/robotomize/symwatch/label"
	"github.com/robotomize/symwatch/provider"
)

// eurofxref envelope: Envelope > Cube > Cube time=... > Cube currency=... rate=...
type xmlEnvelope struct {
	Days []xmlDay `xml:"Cube>Cube"`
}

type xmlDay struct {
	Time  string    `xml:"time,attr"`
	Rates []xmlRate `xml:"Cube"`
}

type xmlRate struct {
	Currency string `xml:"currency,attr"`
	Rate     string `xml:"rate,attr"`
}

// decodeXML decodes the eurofxref daily and history XML feeds
func decodeXML(b []byte) ([]provider.RateTable, error) {
	var env xmlEnvelope
	if err := xml.Unmarshal(b, &env); err != nil {
		var syntaxErr *xml.SyntaxError
		if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: %v", errDecodeToken, err)
		}

		return nil, fmt.Errorf("xml unmarshal: %w", err)
	}

	tables := make([]provider.RateTable, 0, len(env.Days))
	for _, d := range env.Days {
		day, err := time.Parse("2006-01-02", strings.TrimSpace(d.Time))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errAttributeNotValid, err)
		}

		table := newTable(day)
		for _, r := range d.Rates {
			symbol := label.Symbol(strings.TrimSpace(r.Currency))
			if !symbol.Valid() {
				continue
			}

			rate, err := parseRate(strings.TrimSpace(r.Rate))
			if err != nil {
				return nil, fmt.Errorf("%s on %s: %w", symbol, d.Time, err)
			}

			table.Rates[symbol] = rate
		}

		tables = append(tables, table)
	}

	sortTables(tables)

	return tables, nil
}
