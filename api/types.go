// Package api - Request and response types
package api

import (
	"github.com/shopspring/decimal"

	"glazeworks/core/types"
)

// PriceRequest asks for the price of one batch selection
type PriceRequest struct {
	Grams   float64 `json:"grams"`
	Format  string  `json:"format"`
	WetSize string  `json:"wet_size,omitempty"`
}

// PriceResponse is the price of one batch selection
type PriceResponse struct {
	Price    string            `json:"price"`
	Currency types.Currency    `json:"currency"`
	Format   types.BatchFormat `json:"format"`
	WetSize  types.WetSizeKey  `json:"wet_size,omitempty"`
	Discount string            `json:"discount"`

	// DryFallback is set when a wet request without a size was priced as dry
	DryFallback bool `json:"dry_fallback,omitempty"`
}

// EstimateRequest is a PriceRequest for a possibly private formulation
type EstimateRequest struct {
	PriceRequest
	Private bool `json:"private"`
}

// EstimateResponse is the unit price shown to the customer
type EstimateResponse struct {
	PriceResponse
	BasePrice string `json:"base_price"`
	Surcharge string `json:"surcharge"`
}

// CartItem is one priced cart line as the cart UI stores it
type CartItem struct {
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity,omitempty"`
}

// TotalsRequest asks for order totals
type TotalsRequest struct {
	Items []CartItem `json:"items"`
}

// TotalsResponse is the order roll-up
type TotalsResponse struct {
	Subtotal  string         `json:"subtotal"`
	Shipping  string         `json:"shipping"`
	Total     string         `json:"total"`
	TaxRate   string         `json:"tax_rate"`
	ItemCount int            `json:"item_count"`
	Currency  types.Currency `json:"currency"`
}

// DiagnoseResponse grades an uploaded photo
type DiagnoseResponse struct {
	Severity  types.DiagnosticSeverity    `json:"severity"`
	Intensity types.ModificationIntensity `json:"intensity"`
	Length    int                         `json:"length"`
}

// ModificationRequest asks for a recipe adjustment. Intensity wins over
// Severity when both are set.
type ModificationRequest struct {
	Type          string  `json:"type"`
	Intensity     string  `json:"intensity,omitempty"`
	Severity      string  `json:"severity,omitempty"`
	Path          string  `json:"path,omitempty"`
	OriginalColor string  `json:"original_color"`
	GlazeID       *string `json:"glaze_id,omitempty"`
	ClayBody      *string `json:"clay_body,omitempty"`
}
