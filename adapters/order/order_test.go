package order

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"glazeworks/core/pricing"
	"glazeworks/core/quote"
	"glazeworks/core/types"
	"glazeworks/internal/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const sampleOrder = `
item "celadon" {
  format  = "dry"
  grams   = 1000
  private = true
}

item "tenmoku" {
  format   = "wet"
  size     = "gallon"
  quantity = 2
}

item "shino" {
  format = "dry"
  grams  = "500"
}
`

func TestParse(t *testing.T) {
	items, err := NewParser().Parse([]byte(sampleOrder), "order.hcl")
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "celadon", items[0].Name)
	assert.Equal(t, types.FormatDry, items[0].Format)
	assert.Equal(t, "1000", items[0].Grams.String())
	assert.True(t, items[0].Private)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 2, items[0].Line)

	assert.Equal(t, types.FormatWet, items[1].Format)
	assert.Equal(t, "gallon", items[1].Size)
	assert.Equal(t, 2, items[1].Quantity)

	assert.Equal(t, "500", items[2].Grams.String(), "numeric strings convert")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `item "a" {`},
		{"missing format", `item "a" { grams = 10 }`},
		{"unknown attribute", `item "a" {
  format = "dry"
  colour = "blue"
}`},
		{"bad format", `item "a" { format = "slurry" }`},
		{"fractional quantity", `item "a" {
  format   = "dry"
  quantity = 1.5
}`},
		{"zero quantity", `item "a" {
  format   = "dry"
  quantity = 0
}`},
		{"quantity past int64", `item "a" {
  format   = "dry"
  quantity = 100000000000000000000
}`},
		{"quantity wraps to zero", `item "a" {
  format   = "dry"
  quantity = 18446744073709551616
}`},
		{"quantity above limit", `item "a" {
  format   = "dry"
  quantity = 10001
}`},
		{"duplicate", `item "a" { format = "dry" }
item "a" { format = "dry" }`},
		{"grams not a number", `item "a" {
  format = "dry"
  grams  = "lots"
}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().Parse([]byte(tt.src), "order.hcl")
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeParsing), "got %v", err)
		})
	}
}

func TestParse_QuantityLimit(t *testing.T) {
	items, err := NewParser().Parse([]byte(`item "a" {
  format   = "wet"
  size     = "pint"
  quantity = 10000
}`), "order.hcl")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, MaxQuantity, items[0].Quantity)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.hcl")
	require.NoError(t, os.WriteFile(path, []byte(sampleOrder), 0o600))

	items, err := NewParser().ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, items, 3)

	_, err = NewParser().ParseFile(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func TestPricer_Price(t *testing.T) {
	items, err := NewParser().Parse([]byte(sampleOrder), "order.hcl")
	require.NoError(t, err)

	pricer := NewPricer(quote.NewComposer(pricing.DefaultCatalog()), 2)
	priced, err := pricer.Price(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, priced.Lines, 3)

	assert.Equal(t, "celadon", priced.Lines[0].Label)
	assert.Equal(t, "46.56", priced.Lines[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "300.00", priced.Lines[1].LinePrice().StringFixed(2))
	assert.Equal(t, "3785", priced.Lines[1].Grams.String())
	assert.Equal(t, "21.43", priced.Lines[2].UnitPrice.StringFixed(2))

	// 46.56 + 300.00 + 21.43 = 367.99, plus 8.99 shipping.
	assert.Equal(t, "367.99", priced.Totals.Subtotal.StringFixed(2))
	assert.Equal(t, "376.98", priced.Totals.Total.StringFixed(2))
	assert.Equal(t, pricing.DefaultCatalog().Fingerprint(), priced.Rates)
}

func TestPricer_WetWithoutSizeIsRejected(t *testing.T) {
	items := []Item{{Name: "mystery", Format: types.FormatWet, Quantity: 1}}

	_, err := NewPricer(quote.NewComposer(pricing.DefaultCatalog()), 0).Price(context.Background(), items)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func TestPricer_ManyItems(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&b, "item \"g%03d\" {\n  format = \"dry\"\n  grams = %d\n}\n", i, 100+i*50)
	}
	items, err := NewParser().Parse([]byte(b.String()), "big.hcl")
	require.NoError(t, err)

	composer := quote.NewComposer(pricing.DefaultCatalog())
	priced, err := NewPricer(composer, 16).Price(context.Background(), items)
	require.NoError(t, err)

	for i, line := range priced.Lines {
		want, err := composer.EstimateBatch(pricing.DryBatch{Grams: items[i].Grams}, false)
		require.NoError(t, err)
		assert.Equal(t, items[i].Name, line.Label)
		assert.True(t, want.Equal(line.UnitPrice), "line %d", i)
	}
}

func TestPricer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []Item{{Name: "a", Format: types.FormatDry, Grams: decimal.NewFromInt(100), Quantity: 1}}

	_, err := NewPricer(quote.NewComposer(pricing.DefaultCatalog()), 1).Price(ctx, items)
	assert.ErrorIs(t, err, context.Canceled)
}
