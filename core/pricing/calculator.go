package pricing

import (
	"math"

	"github.com/shopspring/decimal"

	"glazeworks/core/types"
)

// maxSteps keeps the step count inside an int64. Past it the discount is the cap.
var maxSteps = decimal.NewFromInt(math.MaxInt32)

// VolumeDiscount returns the fraction knocked off a dry batch of the given weight.
// Batches at or under the threshold get nothing; above it the discount compounds
// once per whole step and is capped at MaxDiscount.
func (c Catalog) VolumeDiscount(grams decimal.Decimal) decimal.Decimal {
	if grams.LessThanOrEqual(c.threshold) {
		return decimal.Zero
	}

	whole, _ := grams.Sub(c.threshold).QuoRem(c.step, 0)
	if whole.GreaterThan(maxSteps) {
		return c.maxDiscount
	}
	steps := whole.IntPart()

	one := decimal.NewFromInt(1)
	factor := one
	for i := int64(0); i < steps; i++ {
		factor = factor.Mul(c.retention)
		if one.Sub(factor).GreaterThanOrEqual(c.maxDiscount) {
			return c.maxDiscount
		}
	}
	return one.Sub(factor)
}

// DryPrice prices a dry batch by weight. The result is rounded once, at the end.
// grams is not validated: zero prices at zero and a negative weight yields a
// negative price. Use NewDryBatch at a trust boundary.
func (c Catalog) DryPrice(grams decimal.Decimal) decimal.Decimal {
	keep := decimal.NewFromInt(1).Sub(c.VolumeDiscount(grams))
	raw := grams.Mul(c.pintPrice).Mul(keep).Div(c.pintGrams)
	return types.RoundMoney(raw)
}

// WetPrice looks up the fixed price of a container. It never depends on weight
// and is never discounted.
func (c Catalog) WetPrice(size types.WetSizeKey) (decimal.Decimal, bool) {
	price, ok := c.wetPrices[size]
	if !ok {
		return decimal.Zero, false
	}
	return types.RoundMoney(price), true
}

// WetGrams is the approximate weight of a container, for cart records.
func (c Catalog) WetGrams(size types.WetSizeKey) (decimal.Decimal, bool) {
	grams, ok := c.wetGrams[size]
	return grams, ok
}

// Price dispatches on format. Wet pricing happens only when format is wet and
// wetSize names a known container; every other combination, including wet with
// no size, is priced as a dry batch of grams. Callers asking for wet pricing must
// pass a size. PriceBatch does not have this fallback.
func (c Catalog) Price(grams decimal.Decimal, format types.BatchFormat, wetSize *types.WetSizeKey) decimal.Decimal {
	if format == types.FormatWet && wetSize != nil {
		if price, ok := c.WetPrice(*wetSize); ok {
			return price
		}
	}
	return c.DryPrice(grams)
}

// WetFallback reports whether Price would silently price a wet request as dry.
func (c Catalog) WetFallback(format types.BatchFormat, wetSize *types.WetSizeKey) bool {
	if format != types.FormatWet {
		return false
	}
	if wetSize == nil {
		return true
	}
	_, ok := c.wetPrices[*wetSize]
	return !ok
}

// VolumeDiscount applies the default catalogue.
func VolumeDiscount(grams decimal.Decimal) decimal.Decimal {
	return defaultCatalog.VolumeDiscount(grams)
}

// DryPrice applies the default catalogue.
func DryPrice(grams decimal.Decimal) decimal.Decimal {
	return defaultCatalog.DryPrice(grams)
}

// WetPrice applies the default catalogue.
func WetPrice(size types.WetSizeKey) (decimal.Decimal, bool) {
	return defaultCatalog.WetPrice(size)
}

// Price applies the default catalogue.
func Price(grams decimal.Decimal, format types.BatchFormat, wetSize *types.WetSizeKey) decimal.Decimal {
	return defaultCatalog.Price(grams, format, wetSize)
}
