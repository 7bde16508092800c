package ecb

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/robotomize/symwatch/label"
	"github.com/robotomize/symwatch/provider"
)

const euro label.Symbol = "EUR"

var (
	errDecodeToken       = errors.New("decoding of the markup failed")
	errAttributeNotValid = errors.New("attr is not valid")
	errEmptyArchive      = errors.New("empty archive")
)

// decodeFunc turns a feed into reference tables with the euro as base, one table per publication day
type decodeFunc func([]byte) ([]provider.RateTable, error)

func newTable(day time.Time) provider.RateTable {
	return provider.RateTable{Time: day, Base: euro, Rates: make(map[label.Symbol]float64)}
}

// parseRate parses a published rate, rates must be finite and positive
func parseRate(s string) (float64, error) {
	rate, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errAttributeNotValid, err)
	}

	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return 0, fmt.Errorf("%w: rate %s", errAttributeNotValid, s)
	}

	return rate, nil
}

func sortTables(tables []provider.RateTable) {
	sort.Slice(tables, func(i, j int) bool {
		return tables[i].Time.Before(tables[j].Time)
	})
}

var zipMagic = []byte("PK\x03\x04")

// unzip returns the content of the first file of a zip archive, other payloads are returned as is
func unzip(b []byte) ([]byte, error) {
	if !bytes.HasPrefix(b, zipMagic) {
		return b, nil
	}

	r, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("zip.NewReader: %w", err)
	}

	if len(r.File) == 0 {
		return nil, errEmptyArchive
	}

	f, err := r.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", r.File[0].Name, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.File[0].Name, err)
	}

	return content, nil
}
