package pricing

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/shopspring/decimal"

	"glazeworks/core/types"
)

// Fingerprint identifies the rate table by content. Two catalogues built from
// equal tables share a fingerprint however the values were written, so a saved
// quote can be matched to the rates that produced it.
func (c Catalog) Fingerprint() string {
	return c.fingerprint
}

func (c Catalog) computeFingerprint() string {
	h := sha256.New()
	field := func(name string, d decimal.Decimal) {
		h.Write([]byte(name))
		h.Write([]byte{'='})
		h.Write([]byte(d.String()))
		h.Write([]byte{0})
	}

	field("pint_price", c.pintPrice)
	field("pint_grams", c.pintGrams)
	field("discount_threshold", c.threshold)
	field("discount_step", c.step)
	field("retention", c.retention)
	field("max_discount", c.maxDiscount)
	field("private_surcharge", c.privateSurcharge)
	field("flat_shipping", c.flatShipping)
	field("tax_rate", c.taxRate)
	h.Write([]byte(c.currency))
	h.Write([]byte{0})

	sizes := make([]types.WetSizeKey, 0, len(c.wetPrices))
	for size := range c.wetPrices {
		sizes = append(sizes, size)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })
	for _, size := range sizes {
		field("wet_price:"+string(size), c.wetPrices[size])
		if g, ok := c.wetGrams[size]; ok {
			field("wet_grams:"+string(size), g)
		}
	}

	return hex.EncodeToString(h.Sum(nil))[:16]
}
