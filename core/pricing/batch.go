package pricing

import (
	"math"

	"github.com/shopspring/decimal"

	"glazeworks/core/types"
	"glazeworks/internal/errors"
)

// Batch is a validated batch request: either a DryBatch carrying a weight or a
// WetBatch carrying a container size. A wet batch without a size cannot be built.
type Batch interface {
	Format() types.BatchFormat
	isBatch()
}

// DryBatch is dry material priced by weight
type DryBatch struct {
	Grams decimal.Decimal
}

// Format returns FormatDry
func (DryBatch) Format() types.BatchFormat { return types.FormatDry }
func (DryBatch) isBatch()                  {}

// WetBatch is premixed glaze priced by container
type WetBatch struct {
	Size types.WetSizeKey
}

// Format returns FormatWet
func (WetBatch) Format() types.BatchFormat { return types.FormatWet }
func (WetBatch) isBatch()                  {}

// Grams validates a raw weight. It must be finite and positive.
func Grams(v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, errors.Inputf("grams must be a finite number, got %v", v)
	}
	if v <= 0 {
		return decimal.Zero, errors.Inputf("grams must be positive, got %v", v)
	}
	return decimal.NewFromFloat(v), nil
}

// NewDryBatch builds a dry batch from a raw weight.
func NewDryBatch(grams float64) (DryBatch, error) {
	g, err := Grams(grams)
	if err != nil {
		return DryBatch{}, err
	}
	return DryBatch{Grams: g}, nil
}

// NewWetBatch builds a wet batch from a container label such as "pint".
func NewWetBatch(size string) (WetBatch, error) {
	key, ok := types.ParseWetSize(size)
	if !ok {
		return WetBatch{}, errors.NotFound("wet size", size).WithContext("known", types.WetSizes)
	}
	return WetBatch{Size: key}, nil
}

// NewBatch builds a batch from the loose (grams, format, size) triple that forms
// and order files carry. Unlike Price it refuses a wet format without a size.
func NewBatch(grams float64, format string, size string) (Batch, error) {
	f, ok := types.ParseBatchFormat(format)
	if !ok {
		return nil, errors.Inputf("format must be dry or wet, got %q", format)
	}
	if f == types.FormatWet {
		if size == "" {
			return nil, errors.Input("wet batches require a size")
		}
		wet, err := NewWetBatch(size)
		if err != nil {
			return nil, err
		}
		return wet, nil
	}
	dry, err := NewDryBatch(grams)
	if err != nil {
		return nil, err
	}
	return dry, nil
}

// ResolveBatch is NewBatch with the legacy storefront behaviour available: unless
// strict is set, a wet format without a size resolves to a dry batch of grams and
// the second result reports that the fallback was taken.
func ResolveBatch(grams float64, format string, size string, strict bool) (Batch, bool, error) {
	f, ok := types.ParseBatchFormat(format)
	if ok && f == types.FormatWet && size == "" && !strict {
		dry, err := NewDryBatch(grams)
		if err != nil {
			return nil, false, err
		}
		return dry, true, nil
	}
	b, err := NewBatch(grams, format, size)
	return b, false, err
}

// PriceBatch prices a validated batch.
func (c Catalog) PriceBatch(b Batch) (decimal.Decimal, error) {
	switch b := b.(type) {
	case DryBatch:
		if !b.Grams.IsPositive() {
			return decimal.Zero, errors.Inputf("grams must be positive, got %s", b.Grams)
		}
		return c.DryPrice(b.Grams), nil
	case WetBatch:
		price, ok := c.WetPrice(b.Size)
		if !ok {
			return decimal.Zero, errors.NotFound("wet size", string(b.Size))
		}
		return price, nil
	case nil:
		return decimal.Zero, errors.Input("no batch given")
	}
	return decimal.Zero, errors.Newf(errors.TypeInternal, "unhandled batch type %T", b)
}

// GramEquivalent is the weight recorded against a batch in a cart. Wet batches
// use the container's approximate weight, which never feeds back into pricing.
func (c Catalog) GramEquivalent(b Batch) (decimal.Decimal, bool) {
	switch b := b.(type) {
	case DryBatch:
		return b.Grams, true
	case WetBatch:
		return c.WetGrams(b.Size)
	}
	return decimal.Zero, false
}

// Discount is the volume discount that applies to b. Wet batches are never discounted.
func (c Catalog) Discount(b Batch) decimal.Decimal {
	if dry, ok := b.(DryBatch); ok {
		return c.VolumeDiscount(dry.Grams)
	}
	return decimal.Zero
}

// PriceBatch applies the default catalogue.
func PriceBatch(b Batch) (decimal.Decimal, error) {
	return defaultCatalog.PriceBatch(b)
}
