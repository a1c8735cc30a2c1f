// Package pricing converts a requested batch into a price.
// Every rate lives in an immutable Catalog that is built once at startup;
// all calculations are pure and safe for concurrent use.
package pricing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"glazeworks/core/types"
	"glazeworks/internal/errors"
)

// Rates is the editable form of the price table, as it appears in configuration.
type Rates struct {
	// PintPrice is what one pint of dry material costs
	PintPrice decimal.Decimal `json:"pint_price" yaml:"pint_price"`

	// PintGrams is the weight of one pint of dry material
	PintGrams decimal.Decimal `json:"pint_grams" yaml:"pint_grams"`

	// DiscountThreshold is the largest dry batch priced linearly
	DiscountThreshold decimal.Decimal `json:"discount_threshold" yaml:"discount_threshold"`

	// DiscountStep is the size of each whole increment above the threshold
	DiscountStep decimal.Decimal `json:"discount_step" yaml:"discount_step"`

	// StepDiscount compounds once per whole step
	StepDiscount decimal.Decimal `json:"step_discount" yaml:"step_discount"`

	// MaxDiscount caps the volume discount
	MaxDiscount decimal.Decimal `json:"max_discount" yaml:"max_discount"`

	// WetPrices maps each container size to its fixed price
	WetPrices map[types.WetSizeKey]decimal.Decimal `json:"wet_prices" yaml:"wet_prices"`

	// WetGrams is the approximate weight of each container. Cart records only.
	WetGrams map[types.WetSizeKey]decimal.Decimal `json:"wet_grams" yaml:"wet_grams"`

	// PrivateSurcharge is added once to a private formulation
	PrivateSurcharge decimal.Decimal `json:"private_surcharge" yaml:"private_surcharge"`

	// FlatShipping is added once to a non-empty order
	FlatShipping decimal.Decimal `json:"flat_shipping" yaml:"flat_shipping"`

	// TaxRate is carried for checkout but not applied to order totals
	TaxRate decimal.Decimal `json:"tax_rate" yaml:"tax_rate"`

	Currency types.Currency `json:"currency" yaml:"currency"`
}

// DefaultRates returns the storefront's published price table.
func DefaultRates() Rates {
	return Rates{
		PintPrice:         decimal.RequireFromString("15.00"),
		PintGrams:         decimal.NewFromInt(350),
		DiscountThreshold: decimal.NewFromInt(500),
		DiscountStep:      decimal.NewFromInt(500),
		StepDiscount:      decimal.RequireFromString("0.03"),
		MaxDiscount:       decimal.RequireFromString("0.40"),
		WetPrices: map[types.WetSizeKey]decimal.Decimal{
			types.SizePint:   decimal.RequireFromString("25.00"),
			types.SizeGallon: decimal.RequireFromString("150.00"),
		},
		WetGrams: map[types.WetSizeKey]decimal.Decimal{
			types.SizePint:   decimal.NewFromInt(473),
			types.SizeGallon: decimal.NewFromInt(3785),
		},
		PrivateSurcharge: decimal.RequireFromString("4.99"),
		FlatShipping:     decimal.RequireFromString("8.99"),
		TaxRate:          decimal.RequireFromString("0.08"),
		Currency:         types.CurrencyUSD,
	}
}

// Catalog is the read-only price table. The zero value is not usable; build one
// with NewCatalog or DefaultCatalog.
type Catalog struct {
	pintPrice        decimal.Decimal
	pintGrams        decimal.Decimal
	threshold        decimal.Decimal
	step             decimal.Decimal
	retention        decimal.Decimal
	maxDiscount      decimal.Decimal
	wetPrices        map[types.WetSizeKey]decimal.Decimal
	wetGrams         map[types.WetSizeKey]decimal.Decimal
	privateSurcharge decimal.Decimal
	flatShipping     decimal.Decimal
	taxRate          decimal.Decimal
	currency         types.Currency
	fingerprint      string
}

// NewCatalog validates r and freezes it into a Catalog.
func NewCatalog(r Rates) (Catalog, error) {
	one := decimal.NewFromInt(1)

	switch {
	case !r.PintPrice.IsPositive():
		return Catalog{}, errors.Newf(errors.TypeConfig, "pint_price must be positive, got %s", r.PintPrice)
	case !r.PintGrams.IsPositive():
		return Catalog{}, errors.Newf(errors.TypeConfig, "pint_grams must be positive, got %s", r.PintGrams)
	case r.DiscountThreshold.IsNegative():
		return Catalog{}, errors.Newf(errors.TypeConfig, "discount_threshold must not be negative, got %s", r.DiscountThreshold)
	case !r.DiscountStep.IsPositive():
		return Catalog{}, errors.Newf(errors.TypeConfig, "discount_step must be positive, got %s", r.DiscountStep)
	case !r.StepDiscount.IsPositive() || r.StepDiscount.GreaterThanOrEqual(one):
		return Catalog{}, errors.Newf(errors.TypeConfig, "step_discount must be in (0, 1), got %s", r.StepDiscount)
	case r.MaxDiscount.IsNegative() || r.MaxDiscount.GreaterThanOrEqual(one):
		return Catalog{}, errors.Newf(errors.TypeConfig, "max_discount must be in [0, 1), got %s", r.MaxDiscount)
	case r.PrivateSurcharge.IsNegative():
		return Catalog{}, errors.Newf(errors.TypeConfig, "private_surcharge must not be negative, got %s", r.PrivateSurcharge)
	case r.FlatShipping.IsNegative():
		return Catalog{}, errors.Newf(errors.TypeConfig, "flat_shipping must not be negative, got %s", r.FlatShipping)
	case r.TaxRate.IsNegative():
		return Catalog{}, errors.Newf(errors.TypeConfig, "tax_rate must not be negative, got %s", r.TaxRate)
	}

	c := Catalog{
		pintPrice:        r.PintPrice,
		pintGrams:        r.PintGrams,
		threshold:        r.DiscountThreshold,
		step:             r.DiscountStep,
		retention:        one.Sub(r.StepDiscount),
		maxDiscount:      r.MaxDiscount,
		wetPrices:        make(map[types.WetSizeKey]decimal.Decimal, len(r.WetPrices)),
		wetGrams:         make(map[types.WetSizeKey]decimal.Decimal, len(r.WetGrams)),
		privateSurcharge: r.PrivateSurcharge,
		flatShipping:     r.FlatShipping,
		taxRate:          r.TaxRate,
		currency:         r.Currency,
	}
	if c.currency == "" {
		c.currency = types.CurrencyUSD
	}

	for size, price := range r.WetPrices {
		if _, ok := types.ParseWetSize(string(size)); !ok {
			return Catalog{}, errors.Newf(errors.TypeConfig, "unknown wet size %q in wet_prices", size)
		}
		if price.IsNegative() {
			return Catalog{}, errors.Newf(errors.TypeConfig, "wet price for %s must not be negative, got %s", size, price)
		}
		c.wetPrices[size] = price
	}
	for size, grams := range r.WetGrams {
		if _, ok := c.wetPrices[size]; !ok {
			return Catalog{}, errors.Newf(errors.TypeConfig, "wet_grams lists %q but wet_prices does not", size)
		}
		c.wetGrams[size] = grams
	}

	c.fingerprint = c.computeFingerprint()
	return c, nil
}

// MustCatalog is NewCatalog for tables known to be valid.
func MustCatalog(r Rates) Catalog {
	c, err := NewCatalog(r)
	if err != nil {
		panic(fmt.Sprintf("pricing: invalid catalog: %v", err))
	}
	return c
}

var defaultCatalog = MustCatalog(DefaultRates())

// DefaultCatalog returns the catalogue built from DefaultRates.
func DefaultCatalog() Catalog {
	return defaultCatalog
}

// Rates returns a copy of the table the catalogue was built from.
func (c Catalog) Rates() Rates {
	r := Rates{
		PintPrice:         c.pintPrice,
		PintGrams:         c.pintGrams,
		DiscountThreshold: c.threshold,
		DiscountStep:      c.step,
		StepDiscount:      decimal.NewFromInt(1).Sub(c.retention),
		MaxDiscount:       c.maxDiscount,
		WetPrices:         make(map[types.WetSizeKey]decimal.Decimal, len(c.wetPrices)),
		WetGrams:          make(map[types.WetSizeKey]decimal.Decimal, len(c.wetGrams)),
		PrivateSurcharge:  c.privateSurcharge,
		FlatShipping:      c.flatShipping,
		TaxRate:           c.taxRate,
		Currency:          c.currency,
	}
	for k, v := range c.wetPrices {
		r.WetPrices[k] = v
	}
	for k, v := range c.wetGrams {
		r.WetGrams[k] = v
	}
	return r
}

// BaseRate is the linear price of one gram of dry material.
func (c Catalog) BaseRate() decimal.Decimal {
	return c.pintPrice.Div(c.pintGrams)
}

// WetSizes returns the sizes this catalogue can price, cheapest first.
func (c Catalog) WetSizes() []types.WetSizeKey {
	sizes := make([]types.WetSizeKey, 0, len(c.wetPrices))
	for size := range c.wetPrices {
		sizes = append(sizes, size)
	}
	sort.Slice(sizes, func(i, j int) bool {
		return c.wetPrices[sizes[i]].LessThan(c.wetPrices[sizes[j]])
	})
	return sizes
}

// PrivateSurcharge is the flat fee for a private formulation
func (c Catalog) PrivateSurcharge() decimal.Decimal { return c.privateSurcharge }

// FlatShipping is the per-order shipping charge
func (c Catalog) FlatShipping() decimal.Decimal { return c.flatShipping }

// TaxRate is informational; order totals do not apply it
func (c Catalog) TaxRate() decimal.Decimal { return c.taxRate }

// Currency of every amount in the catalogue
func (c Catalog) Currency() types.Currency { return c.currency }
