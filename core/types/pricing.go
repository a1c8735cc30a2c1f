// Package types - Pricing types
package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// MoneyPlaces is the number of fractional digits every observable price carries.
const MoneyPlaces = 2

// RoundMoney rounds half away from zero to two decimals.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// FormatMoney renders an amount as "$12.34".
func FormatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(MoneyPlaces)
	}
	return "$" + d.StringFixed(MoneyPlaces)
}

// BatchFormat is how a batch is supplied: dry powder priced by weight, or
// premixed wet glaze priced by container.
type BatchFormat string

const (
	FormatDry BatchFormat = "dry"
	FormatWet BatchFormat = "wet"
)

// ParseBatchFormat accepts "dry" or "wet", case-insensitively.
func ParseBatchFormat(s string) (BatchFormat, bool) {
	switch BatchFormat(strings.ToLower(strings.TrimSpace(s))) {
	case FormatDry:
		return FormatDry, true
	case FormatWet:
		return FormatWet, true
	}
	return "", false
}

// WetSizeKey identifies a fixed wet container size
type WetSizeKey string

const (
	SizePint   WetSizeKey = "pint"
	SizeGallon WetSizeKey = "gallon"
)

// WetSizes lists the known container sizes, smallest first.
var WetSizes = []WetSizeKey{SizePint, SizeGallon}

// ParseWetSize accepts a known container size, case-insensitively.
func ParseWetSize(s string) (WetSizeKey, bool) {
	key := WetSizeKey(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range WetSizes {
		if key == known {
			return known, true
		}
	}
	return "", false
}

// String returns the string representation
func (k WetSizeKey) String() string {
	return string(k)
}
