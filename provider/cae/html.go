package cae

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/robotomize/symwatch/internal/strutil"
	"golang.org/x/net/html"
)

var (
	errParseAttrNotValid = errors.New("attr is not valid")
	errHTMLNotValid      = errors.New("html not valid")
)

const datePrefix = "Date"

func parseHTML(b []byte) (aedLatestRates, error) {
	var dailyRates aedLatestRates
	root, err := html.Parse(bytes.NewReader(b))
	if err != nil {
		return dailyRates, fmt.Errorf("%w: html parse: %v", errHTMLNotValid, err)
	}

	doc := goquery.NewDocumentFromNode(root)

	date := strings.TrimSpace(doc.Find("#ratesDatePicker > h3 > span > span").Text())
	if !strings.HasPrefix(date, datePrefix) {
		return dailyRates, errParseAttrNotValid
	}

	dt, err := time.Parse("02-01-2006", strings.TrimSpace(strings.TrimPrefix(date, datePrefix)))
	if err != nil {
		return dailyRates, fmt.Errorf("%w: %v", errParseAttrNotValid, err)
	}

	dailyRates.time = dt

	var rowErr error
	doc.Find("#ratesDateTable tbody tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return true
		}

		name := strutil.RemoveExtraSpaces(strutil.RemoveContentIntoBrackets(textOf(cells.Get(0))))
		if name == "" {
			rowErr = errParseAttrNotValid
			return false
		}

		symbol, ok := currencyNames[name]
		if !ok {
			return true
		}

		rate, err := strconv.ParseFloat(strings.TrimSpace(textOf(cells.Get(1))), 64)
		if err != nil || rate <= 0 {
			rowErr = fmt.Errorf("%w: %s rate", errParseAttrNotValid, symbol)
			return false
		}

		dailyRates.rates = append(dailyRates.rates, aedExchangeRate{
			symbol: symbol,
			rate:   rate,
		})

		return true
	})

	if rowErr != nil {
		return aedLatestRates{}, rowErr
	}

	return dailyRates, nil
}

// textOf collects the text nodes below n, keeping newlines and spaces like jQuery
func textOf(n *html.Node) string {
	var buf bytes.Buffer

	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)

	return buf.String()
}
