// Package quote composes a customer-facing price from a batch price plus
// surcharges, and totals a cart. Amounts are rounded once, after addition.
package quote

import (
	"github.com/shopspring/decimal"

	"glazeworks/core/pricing"
	"glazeworks/core/types"
)

// Composer adds surcharges and shipping on top of a price catalogue
type Composer struct {
	catalog pricing.Catalog
}

// NewComposer creates a composer over catalog
func NewComposer(catalog pricing.Catalog) *Composer {
	return &Composer{catalog: catalog}
}

// Catalog returns the catalogue the composer prices against
func (c *Composer) Catalog() pricing.Catalog {
	return c.catalog
}

// Estimate is the unit price shown for a batch selection: the batch price plus the
// private-formulation surcharge when isPrivate. Inherits Price's dry fallback for
// wet requests without a size.
func (c *Composer) Estimate(grams decimal.Decimal, isPrivate bool, format types.BatchFormat, wetSize *types.WetSizeKey) decimal.Decimal {
	return c.withSurcharge(c.catalog.Price(grams, format, wetSize), isPrivate)
}

// EstimateBatch is Estimate for a validated batch.
func (c *Composer) EstimateBatch(b pricing.Batch, isPrivate bool) (decimal.Decimal, error) {
	base, err := c.catalog.PriceBatch(b)
	if err != nil {
		return decimal.Zero, err
	}
	return c.withSurcharge(base, isPrivate), nil
}

func (c *Composer) withSurcharge(base decimal.Decimal, isPrivate bool) decimal.Decimal {
	if isPrivate {
		base = base.Add(c.catalog.PrivateSurcharge())
	}
	return types.RoundMoney(base)
}

// Totals is an order roll-up
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`

	// TaxRate is echoed for checkout. It is not included in Total.
	TaxRate decimal.Decimal `json:"tax_rate"`

	ItemCount int `json:"item_count"`
}

// Totals sums item prices and adds flat shipping to any non-empty order.
// An empty order totals zero with no shipping. Tax is not applied.
func (c *Composer) Totals(prices []decimal.Decimal) Totals {
	t := Totals{
		Subtotal:  decimal.Zero,
		Shipping:  decimal.Zero,
		Total:     decimal.Zero,
		TaxRate:   c.catalog.TaxRate(),
		ItemCount: len(prices),
	}
	if len(prices) == 0 {
		return t
	}

	subtotal := decimal.Sum(decimal.Zero, prices...)
	t.Subtotal = types.RoundMoney(subtotal)
	t.Shipping = types.RoundMoney(c.catalog.FlatShipping())
	t.Total = types.RoundMoney(subtotal.Add(c.catalog.FlatShipping()))
	return t
}

var defaultComposer = NewComposer(pricing.DefaultCatalog())

// Estimate applies the default catalogue.
func Estimate(grams decimal.Decimal, isPrivate bool, format types.BatchFormat, wetSize *types.WetSizeKey) decimal.Decimal {
	return defaultComposer.Estimate(grams, isPrivate, format, wetSize)
}

// OrderTotals applies the default catalogue.
func OrderTotals(prices []decimal.Decimal) Totals {
	return defaultComposer.Totals(prices)
}
