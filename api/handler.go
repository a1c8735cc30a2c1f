// Package api - HTTP handlers for pricing, diagnosis and modification.
// Handlers wrap the core packages - they contain NO pricing logic.
package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"glazeworks/core/diagnosis"
	"glazeworks/core/modification"
	"glazeworks/core/pricing"
	"glazeworks/core/quote"
	"glazeworks/core/types"
	"glazeworks/internal/errors"
)

// maxJSONBytes bounds JSON request bodies. Uploads use Options.MaxUploadBytes.
const maxJSONBytes = 1 << 20

// Handler handles storefront requests
type Handler struct {
	composer *quote.Composer
	presets  *modification.Catalogue
	analyzer diagnosis.Analyzer

	strictWetSize bool
	maxUpload     int64

	logger *zap.Logger
}

// handlePrice handles POST /price
func (h *Handler) handlePrice(w http.ResponseWriter, r *http.Request) {
	var req PriceRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, _, err := h.price(req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, resp, http.StatusOK)
}

// handleEstimate handles POST /estimate
func (h *Handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if !h.decode(w, r, &req) {
		return
	}

	base, batch, err := h.price(req.PriceRequest)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	unit, err := h.composer.EstimateBatch(batch, req.Private)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	surcharge := decimal.Zero
	if req.Private {
		surcharge = h.composer.Catalog().PrivateSurcharge()
	}

	resp := EstimateResponse{
		PriceResponse: *base,
		BasePrice:     base.Price,
		Surcharge:     money(surcharge),
	}
	resp.Price = money(unit)
	writeJSON(w, resp, http.StatusOK)
}

// handleTotals handles POST /cart/totals
func (h *Handler) handleTotals(w http.ResponseWriter, r *http.Request) {
	var req TotalsRequest
	if !h.decode(w, r, &req) {
		return
	}

	prices := make([]decimal.Decimal, 0, len(req.Items))
	for i, item := range req.Items {
		if item.Price.IsNegative() {
			writeDomainError(w, errors.Inputf("items[%d]: price must not be negative, got %s", i, item.Price))
			return
		}
		if !item.Price.Equal(types.RoundMoney(item.Price)) {
			writeDomainError(w, errors.Inputf("items[%d]: price must have at most %d decimal places, got %s", i, types.MoneyPlaces, item.Price))
			return
		}
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 0 {
			writeDomainError(w, errors.Inputf("items[%d]: quantity must be at least 1, got %d", i, qty))
			return
		}
		prices = append(prices, item.Price.Mul(decimal.NewFromInt(int64(qty))))
	}

	t := h.composer.Totals(prices)
	writeJSON(w, TotalsResponse{
		Subtotal:  money(t.Subtotal),
		Shipping:  money(t.Shipping),
		Total:     money(t.Total),
		TaxRate:   t.TaxRate.String(),
		ItemCount: t.ItemCount,
		Currency:  h.composer.Catalog().Currency(),
	}, http.StatusOK)
}

// handleDiagnose handles POST /diagnose. The body is the raw photo.
func (h *Handler) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, h.maxUpload)
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, "TOO_LARGE", err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		writeDomainError(w, errors.Wrap(errors.TypeInput, "read upload", err))
		return
	}

	sev, err := h.analyzer.Analyze(r.Context(), data)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.logger.Debug("photo classified",
		zap.Int("length", len(data)),
		zap.String("severity", string(sev)),
	)

	writeJSON(w, DiagnoseResponse{
		Severity:  sev,
		Intensity: modification.SeverityToIntensity(sev),
		Length:    len(data),
	}, http.StatusOK)
}

// handleModification handles POST /modifications
func (h *Handler) handleModification(w http.ResponseWriter, r *http.Request) {
	var req ModificationRequest
	if !h.decode(w, r, &req) {
		return
	}

	path, ok := types.ParseDiagnosticPath(req.Path)
	if !ok {
		writeDomainError(w, errors.Inputf("path must be photo or troubleshoot, got %q", req.Path))
		return
	}

	intensity := types.ModificationIntensity(req.Intensity)
	if intensity == "" && req.Severity != "" {
		sev, ok := types.ParseSeverity(req.Severity)
		if !ok {
			writeDomainError(w, errors.Inputf("severity must be mild, moderate or severe, got %q", req.Severity))
			return
		}
		intensity = modification.SeverityToIntensity(sev)
	}

	m := h.presets.Build(modification.Params{
		Type:          types.ModificationType(req.Type),
		Intensity:     intensity,
		Path:          path,
		OriginalColor: req.OriginalColor,
		GlazeID:       req.GlazeID,
		ClayBody:      req.ClayBody,
	})
	if m.Fallback {
		h.logger.Warn("no preset for modification",
			zap.String("preset_key", m.PresetKey),
			zap.Bool("fallback", true),
		)
	}

	writeJSON(w, m, http.StatusOK)
}

// handlePresets handles GET /modifications/presets
func (h *Handler) handlePresets(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]modification.Preset)
	for _, key := range h.presets.Keys() {
		p, _ := h.presets.Lookup(key)
		out[key] = p
	}
	writeJSON(w, out, http.StatusOK)
}

// price resolves a request into a batch and prices it without surcharge.
func (h *Handler) price(req PriceRequest) (*PriceResponse, pricing.Batch, error) {
	batch, fallback, err := h.batch(req)
	if err != nil {
		return nil, nil, err
	}

	catalog := h.composer.Catalog()
	price, err := catalog.PriceBatch(batch)
	if err != nil {
		return nil, nil, err
	}

	resp := &PriceResponse{
		Price:       money(price),
		Currency:    catalog.Currency(),
		Format:      batch.Format(),
		Discount:    catalog.Discount(batch).String(),
		DryFallback: fallback,
	}
	if wet, ok := batch.(pricing.WetBatch); ok {
		resp.WetSize = wet.Size
	}
	return resp, batch, nil
}

// batch validates a request. A wet request without a size is priced as dry
// unless the server runs with strict wet sizes.
func (h *Handler) batch(req PriceRequest) (pricing.Batch, bool, error) {
	b, fallback, err := pricing.ResolveBatch(req.Grams, req.Format, req.WetSize, h.strictWetSize)
	if err != nil {
		return nil, false, err
	}
	if fallback {
		h.logger.Warn("wet request without size priced as dry",
			zap.Float64("grams", req.Grams),
		)
	}
	return b, fallback, nil
}

// decode reads a JSON body into v, writing a 400 on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, "INVALID_REQUEST", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// money renders an amount as a plain two-place string.
func money(d decimal.Decimal) string {
	return d.StringFixed(types.MoneyPlaces)
}
