package quote

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"glazeworks/core/pricing"
	"glazeworks/core/types"
	"glazeworks/internal/errors"
)

// LineItem is what the cart stores for one glaze selection. The cart owns
// persistence; this is only the record.
type LineItem struct {
	ID      string            `json:"id"`
	Label   string            `json:"label"`
	Format  types.BatchFormat `json:"format"`
	WetSize types.WetSizeKey  `json:"wet_size,omitempty"`

	// Grams is the dry weight, or a wet container's approximate weight
	Grams decimal.Decimal `json:"grams"`

	Private  bool `json:"private"`
	Quantity int  `json:"quantity"`

	// UnitPrice includes the private surcharge
	UnitPrice decimal.Decimal `json:"unit_price"`

	// Discount is the volume discount fraction baked into UnitPrice
	Discount decimal.Decimal `json:"discount"`
}

// LinePrice is UnitPrice times Quantity
func (li LineItem) LinePrice() decimal.Decimal {
	return types.RoundMoney(li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity))))
}

// NewLineItem prices b and records it as a cart line. Quantity below one is
// rejected.
func (c *Composer) NewLineItem(label string, b pricing.Batch, isPrivate bool, quantity int) (LineItem, error) {
	if quantity < 1 {
		return LineItem{}, errors.Inputf("quantity must be at least 1, got %d", quantity)
	}

	unit, err := c.EstimateBatch(b, isPrivate)
	if err != nil {
		return LineItem{}, err
	}

	grams, _ := c.catalog.GramEquivalent(b)
	li := LineItem{
		ID:        uuid.New().String(),
		Label:     label,
		Format:    b.Format(),
		Grams:     grams,
		Private:   isPrivate,
		Quantity:  quantity,
		UnitPrice: unit,
		Discount:  c.catalog.Discount(b),
	}
	if wet, ok := b.(pricing.WetBatch); ok {
		li.WetSize = wet.Size
	}
	return li, nil
}

// TotalsFor totals a cart of line items, honouring quantities.
func (c *Composer) TotalsFor(items []LineItem) Totals {
	prices := make([]decimal.Decimal, 0, len(items))
	for _, li := range items {
		prices = append(prices, li.LinePrice())
	}
	return c.Totals(prices)
}
