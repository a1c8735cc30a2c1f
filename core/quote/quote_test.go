package quote

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glazeworks/core/pricing"
	"glazeworks/core/types"
	"glazeworks/internal/errors"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEstimate(t *testing.T) {
	gallon := types.SizeGallon

	tests := []struct {
		name      string
		grams     string
		isPrivate bool
		format    types.BatchFormat
		wetSize   *types.WetSizeKey
		want      string
	}{
		{"private dry at threshold", "500", true, types.FormatDry, nil, "26.42"},
		{"public dry at threshold", "500", false, types.FormatDry, nil, "21.43"},
		{"private dry one step", "1000", true, types.FormatDry, nil, "46.56"},
		{"private wet gallon", "0", true, types.FormatWet, &gallon, "154.99"},
		{"wet without size is dry", "500", true, types.FormatWet, nil, "26.42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimate(money(tt.grams), tt.isPrivate, tt.format, tt.wetSize)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestEstimate_ConfiguredSurcharge(t *testing.T) {
	r := pricing.DefaultRates()
	r.PrivateSurcharge = money("0.005")
	c := NewComposer(pricing.MustCatalog(r))

	// 0.04 + 0.005 rounds half away from zero.
	got := c.Estimate(money("1"), true, types.FormatDry, nil)
	assert.Equal(t, "0.05", got.StringFixed(2))
	assert.Equal(t, int32(-2), got.Exponent())
}

func TestEstimateBatch(t *testing.T) {
	c := NewComposer(pricing.DefaultCatalog())

	got, err := c.EstimateBatch(pricing.WetBatch{Size: types.SizePint}, false)
	require.NoError(t, err)
	assert.Equal(t, "25.00", got.StringFixed(2))

	_, err = c.EstimateBatch(pricing.DryBatch{Grams: money("-3")}, true)
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func TestTotals(t *testing.T) {
	empty := OrderTotals(nil)
	assert.True(t, empty.Total.IsZero())
	assert.True(t, empty.Shipping.IsZero())
	assert.Equal(t, 0, empty.ItemCount)

	totals := OrderTotals([]decimal.Decimal{money("26.42"), money("25.00")})
	assert.Equal(t, "51.42", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "8.99", totals.Shipping.StringFixed(2))
	assert.Equal(t, "60.41", totals.Total.StringFixed(2))
	assert.Equal(t, "0.08", totals.TaxRate.StringFixed(2), "tax rate is reported")
	assert.Equal(t, 2, totals.ItemCount)
}

func TestNewLineItem(t *testing.T) {
	c := NewComposer(pricing.DefaultCatalog())

	wet, err := c.NewLineItem("Tenmoku", pricing.WetBatch{Size: types.SizeGallon}, false, 2)
	require.NoError(t, err)
	_, err = uuid.Parse(wet.ID)
	require.NoError(t, err)
	assert.Equal(t, types.FormatWet, wet.Format)
	assert.Equal(t, types.SizeGallon, wet.WetSize)
	assert.Equal(t, "3785", wet.Grams.String())
	assert.Equal(t, "150.00", wet.UnitPrice.StringFixed(2))
	assert.Equal(t, "300.00", wet.LinePrice().StringFixed(2))
	assert.True(t, wet.Discount.IsZero())

	dry, err := c.NewLineItem("Celadon", pricing.DryBatch{Grams: money("1000")}, true, 1)
	require.NoError(t, err)
	assert.NotEqual(t, wet.ID, dry.ID)
	assert.Equal(t, "46.56", dry.UnitPrice.StringFixed(2))
	assert.Equal(t, "0.03", dry.Discount.String())

	totals := c.TotalsFor([]LineItem{wet, dry})
	assert.Equal(t, "346.56", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "355.55", totals.Total.StringFixed(2))

	_, err = c.NewLineItem("Nothing", pricing.DryBatch{Grams: money("10")}, false, 0)
	assert.True(t, errors.IsType(err, errors.TypeInput))
}
