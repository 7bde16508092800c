package cae

import (
	"time"

	"github.com/robotomize/symwatch/label"
)

type aedLatestRates struct {
	time  time.Time
	rates []aedExchangeRate
}

// aedExchangeRate holds the price of one unit of symbol in dirhams
type aedExchangeRate struct {
	symbol label.Symbol
	rate   float64
}

// currencyNames maps the display names of the fx-rates page to currency symbols
var currencyNames = map[string]label.Symbol{
	"US Dollar":           "USD",
	"Argentine Peso":      "ARS",
	"Australian Dollar":   "AUD",
	"Bangladesh Taka":     "BDT",
	"Bahrani Dinar":       "BHD",
	"Brunei Dollar":       "BND",
	"Brazilian Real":      "BRL",
	"Botswana Pula":       "BWP",
	"Belarus Rouble":      "BYN",
	"Canadian Dollar":     "CAD",
	"Swiss Franc":         "CHF",
	"Chilean Peso":        "CLP",
	"Chinese Yuan":        "CNY",
	"Colombian Peso":      "COP",
	"Czech Koruna":        "CZK",
	"Danish Krone":        "DKK",
	"Algerian Dinar":      "DZD",
	"Egypt Pound":         "EGP",
	"Euro":                "EUR",
	"GB Pound":            "GBP",
	"Hongkong Dollar":     "HKD",
	"Hungarian Forint":    "HUF",
	"Indonesia Rupiah":    "IDR",
	"Indian Rupee":        "INR",
	"Iceland Krona":       "ISK",
	"Jordan Dinar":        "JOD",
	"Japanese Yen":        "JPY",
	"Kenya Shilling":      "KES",
	"Korean Won":          "KRW",
	"Kuwaiti Dinar":       "KWD",
	"Kazakhstan Tenge":    "KZT",
	"Lebanon Pound":       "LBP",
	"Sri Lanka Rupee":     "LKR",
	"Moroccan Dirham":     "MAD",
	"Macedonia Denar":     "MKD",
	"Mexican Peso":        "MXN",
	"Malaysia Ringgit":    "MYR",
	"Nigerian Naira":      "NGN",
	"Norwegian Krone":     "NOK",
	"NewZealand Dollar":   "NZD",
	"Omani Rial":          "OMR",
	"Peru Sol":            "PEN",
	"Philippine Piso":     "PHP",
	"Pakistan Rupee":      "PKR",
	"Polish Zloty":        "PLN",
	"Qatari Riyal":        "QAR",
	"Serbian Dinar":       "RSD",
	"Russia Rouble":       "RUB",
	"Saudi Riyal":         "SAR",
	"Sudanese Pound":      "SDG",
	"Swedish Krona":       "SEK",
	"Singapore Dollar":    "SGD",
	"Thai Baht":           "THB",
	"Tunisian Dinar":      "TND",
	"Turkish Lira":        "TRY",
	"Trin Tob Dollar":     "TTD",
	"Taiwan Dollar":       "TWD",
	"Tanzania Shilling":   "TZS",
	"Uganda Shilling":     "UGX",
	"Vietnam Dong":        "VND",
	"South Africa Rand":   "ZAR",
	"Zambian Kwacha":      "ZMW",
	"Azerbaijan manat":    "AZN",
	"Bulgarian lev":       "BGN",
	"Croatian kuna":       "HRK",
	"Ethiopian birr":      "ETB",
	"Iraqi dinar":         "IQD",
	"Israeli new shekel":  "ILS",
	"Libyan dinar":        "LYD",
	"Mauritian rupee":     "MUR",
	"Romanian leu":        "RON",
	"Syrian pound":        "SYP",
	"Turkmen manat":       "TMT",
	"Uzbekistani som":     "UZS",
	"Ukrainian Hryvnia":   "UAH",
	"Nepalese Rupee":      "NPR",
	"Yemen Rial":          "YER",
	"Afghanistan Afghani": "AFN",
}
