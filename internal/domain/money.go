package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is a gateway-supported currency and its minor-unit exponent.
type Currency struct {
	Code     string
	Exponent int32
}

var supportedCurrencies = map[string]Currency{
	"USD": {Code: "USD", Exponent: 2},
	"AUD": {Code: "AUD", Exponent: 2},
	"CAD": {Code: "CAD", Exponent: 2},
	"DKK": {Code: "DKK", Exponent: 2},
	"EUR": {Code: "EUR", Exponent: 2},
	"GBP": {Code: "GBP", Exponent: 2},
	"NZD": {Code: "NZD", Exponent: 2},
	"SEK": {Code: "SEK", Exponent: 2},
}

// LookupCurrency maps a billing currency code to the gateway's currency.
func LookupCurrency(code string) (Currency, error) {
	c, ok := supportedCurrencies[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Currency{}, NewUnsupportedCurrencyError(code)
	}
	return c, nil
}

// ToMinorUnits converts a major-unit amount, rounding half away from zero.
func (c Currency) ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(c.Exponent).Round(0).IntPart()
}
