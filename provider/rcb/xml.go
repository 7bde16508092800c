package rcb

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/robotomize/symwatch/label"
	"golang.org/x/text/encoding/charmap"
)

var (
	errDecodeToken       = errors.New("decoding of the markup failed")
	errAttributeNotValid = errors.New("attr is not valid")
	errCharsetNotDefined = errors.New("charset is not defined")
)

const xmlRootElement = "ValCurs"

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "windows-1251", "cp1251":
		return charmap.Windows1251.NewDecoder().Reader(input), nil
	}

	return nil, fmt.Errorf("%w: %s", errCharsetNotDefined, charset)
}

// decodeXML parses the daily ruble table in streaming mode
func decodeXML(b []byte) (rubLatestRates, error) {
	var dailyRates rubLatestRates
	decoder := xml.NewDecoder(bytes.NewReader(b))
	decoder.CharsetReader = charsetReader

TokenLoop:
	for {
		token, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break TokenLoop
			}

			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				return dailyRates, fmt.Errorf("%w: %v", errDecodeToken, syntaxErr.Error())
			}

			return dailyRates, fmt.Errorf("decode token: %w", err)
		}

		tp, ok := token.(xml.StartElement)
		if !ok || tp.Name.Local != xmlRootElement {
			continue TokenLoop
		}

		var currNode XMLNode
		if err := decoder.DecodeElement(&currNode, &tp); err != nil {
			var syntaxErr *xml.SyntaxError
			switch {
			case errors.As(err, &syntaxErr):
				return dailyRates, fmt.Errorf("%w: %v", errDecodeToken, syntaxErr.Error())
			case errors.Is(err, errAttributeNotValid):
				return dailyRates, err
			default:
				return dailyRates, fmt.Errorf("decode element: %w", err)
			}
		}

		dailyRates.rates = make([]rubExchangeRate, 0, len(currNode.Rates))
		dailyRates.time = time.Time(currNode.Time)

		for _, r := range currNode.Rates {
			v, err := parseDecimalComma(r.Value)
			if err != nil {
				return dailyRates, fmt.Errorf("%w: %s value: %v", errAttributeNotValid, r.Currency, err)
			}

			nominal := 1.0
			if r.Nominal != "" {
				if nominal, err = parseDecimalComma(r.Nominal); err != nil {
					return dailyRates, fmt.Errorf("%w: %s nominal: %v", errAttributeNotValid, r.Currency, err)
				}
			}

			if v <= 0 || nominal <= 0 {
				return dailyRates, errAttributeNotValid
			}

			symbol := label.Symbol(strings.TrimSpace(r.Currency))
			if !symbol.Valid() {
				continue
			}

			dailyRates.rates = append(dailyRates.rates, rubExchangeRate{
				symbol: symbol,
				rate:   v / nominal,
			})
		}
	}

	return dailyRates, nil
}

func parseDecimalComma(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(strings.TrimSpace(s), ",", ".", -1), 64)
}

type XMLAttrTime time.Time

func (x *XMLAttrTime) UnmarshalXMLAttr(attr xml.Attr) error {
	t, err := time.Parse("02.01.2006", attr.Value)
	if err != nil {
		return fmt.Errorf("%w: %v", errAttributeNotValid, err)
	}

	*x = XMLAttrTime(t)

	return nil
}

type XMLCcyRate struct {
	Currency string `xml:"CharCode"`
	Nominal  string `xml:"Nominal"`
	Value    string `xml:"Value"`
}

type XMLNode struct {
	Time  XMLAttrTime  `xml:"Date,attr"`
	Rates []XMLCcyRate `xml:"Valute"`
}
