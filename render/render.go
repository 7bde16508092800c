// Package render turns valuations into Markdown and Markdown into terminal output.
package render

import (
	"embed"
	"fmt"
	"io/fs"
	"math"
	"strings"
	"text/template"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/robotomize/symwatch"
	"github.com/robotomize/symwatch/label"
	"github.com/robotomize/symwatch/provider"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.md
var templates embed.FS

// DefaultPlotWidth is the number of sparkline cells of a ticker
const DefaultPlotWidth = 48

var sparks = []rune("▁▂▃▄▅▆▇█")

var funcs = template.FuncMap{
	"money":  Money,
	"signed": Signed,
	"price":  Price,
	"dec":    decimal.NewFromFloat,
}

type ticker struct {
	symwatch.SymbolData
	Last  provider.Candle
	Ok    bool
	Spark string
}

func newTicker(d symwatch.SymbolData, width int) ticker {
	last, ok := d.History.Last()
	return ticker{
		SymbolData: d,
		Last:       last,
		Ok:         ok,
		Spark:      Sparkline(d.History.Closes(), width),
	}
}

// Overview renders the portfolio table with its totals
func Overview(o symwatch.Overview) (string, error) {
	return renderTemplate("overview", "overview.md", nil, o)
}

// Ticker renders the last price and the plot of closes of one symbol
func Ticker(d symwatch.SymbolData) (string, error) {
	return renderTemplate("ticker", "ticker.md", nil, newTicker(d, DefaultPlotWidth))
}

// Screen renders the overview followed by a ticker for every symbol
func Screen(o symwatch.Overview, data []symwatch.SymbolData) (string, error) {
	view := struct {
		Overview symwatch.Overview
		Tickers  []ticker
	}{
		Overview: o,
		Tickers:  make([]ticker, 0, len(data)),
	}

	for _, d := range data {
		view.Tickers = append(view.Tickers, newTicker(d, DefaultPlotWidth))
	}

	partials := map[string]string{
		"overview": "overview.md",
		"ticker":   "ticker.md",
	}

	return renderTemplate("screen", "screen.md", partials, view)
}

func renderTemplate(templateName, mainFile string, partials map[string]string, data any) (string, error) {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return "", fmt.Errorf("read template %q: %w", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return "", fmt.Errorf("parse template %q: %w", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return "", fmt.Errorf("read partial %q: %w", file, err)
		}

		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return "", fmt.Errorf("parse partial %q for %q: %w", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return "", fmt.Errorf("execute template %q: %w", templateName, err)
	}

	return b.String(), nil
}

// Money formats amount with the grapheme and separators of cur, e.g. 8 880,00 kr
func Money(amount decimal.Decimal, cur label.Symbol) string {
	// money.New never returns a nil currency, unknown codes get a default formatter
	c := *money.New(0, string(cur)).Currency()
	return c.Formatter().Format(amount.Shift(int32(c.Fraction)).Round(0).IntPart())
}

// Signed is Money with an explicit plus sign on positive amounts
func Signed(amount decimal.Decimal, cur label.Symbol) string {
	if amount.IsPositive() {
		return "+" + Money(amount, cur)
	}

	return Money(amount, cur)
}

// Price formats a quoted price with two decimals
func Price(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return "n/a"
	}

	return decimal.NewFromFloat(p).StringFixed(2)
}

// Sparkline plots values into at most width cells, resampling long series to their last value per cell.
// Missing values are left blank.
func Sparkline(values []float64, width int) string {
	if width <= 0 || len(values) == 0 {
		return ""
	}

	if len(values) > width {
		sampled := make([]float64, width)
		for i := range sampled {
			sampled[i] = values[(i+1)*len(values)/width-1]
		}
		values = sampled
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	var b strings.Builder
	for _, v := range values {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			b.WriteRune(' ')
		case hi == lo:
			b.WriteRune(sparks[len(sparks)/2])
		default:
			idx := int((v - lo) * float64(len(sparks)-1) / (hi - lo))
			b.WriteRune(sparks[idx])
		}
	}

	return b.String()
}

// Terminal renders Markdown into styled terminal output
type Terminal struct {
	r *glamour.TermRenderer
}

// NewTerminal returns a terminal renderer wrapping words at width, style defaults to the terminal background
func NewTerminal(width int, opts ...glamour.TermRendererOption) (*Terminal, error) {
	options := append([]glamour.TermRendererOption{
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	}, opts...)

	r, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return nil, fmt.Errorf("glamour: %w", err)
	}

	return &Terminal{r: r}, nil
}

func (t *Terminal) Render(md string) (string, error) {
	return t.r.Render(md)
}
