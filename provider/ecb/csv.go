package ecb

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robotomize/symwatch/label"
	"github.com/robotomize/symwatch/provider"
)

const csvDateColumn = "Date"

// decodeCSV decodes the eurofxref CSV feed, plain or zipped. The first column is the publication
// day, every other column is a currency, N/A marks a rate that was not published.
func decodeCSV(b []byte) ([]provider.RateTable, error) {
	b, err := unzip(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errDecodeToken, err)
	}

	reader := csv.NewReader(bytes.NewReader(b))
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("%w: %v", errDecodeToken, err)
		}

		return nil, fmt.Errorf("csv read: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	if first := strings.TrimSpace(header[0]); first != csvDateColumn {
		return nil, fmt.Errorf("%w: first column %q", errAttributeNotValid, first)
	}

	symbols := make([]label.Symbol, len(header))
	for n, column := range header[1:] {
		symbols[n+1] = label.Symbol(strings.TrimSpace(column))
	}

	tables := make([]provider.RateTable, 0, len(records)-1)
	for _, record := range records[1:] {
		day, err := time.Parse("02 January 2006", strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errAttributeNotValid, err)
		}

		table := newTable(day)
		for n := 1; n < len(record); n++ {
			token := strings.TrimSpace(record[n])
			if token == "" || token == "N/A" || !symbols[n].Valid() {
				continue
			}

			rate, err := parseRate(token)
			if err != nil {
				return nil, fmt.Errorf("%s on %s: %w", symbols[n], record[0], err)
			}

			table.Rates[symbols[n]] = rate
		}

		tables = append(tables, table)
	}

	sortTables(tables)

	return tables, nil
}
