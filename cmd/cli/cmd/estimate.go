// Package cmd - price and estimate commands
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"glazeworks/core/pricing"
	"glazeworks/internal/config"
	"glazeworks/internal/logging"
)

var (
	batchGrams   float64
	batchFormat  string
	batchSize    string
	batchPrivate bool
)

// priceCmd prices a batch before any surcharge
var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price a dry or wet batch",
	Long: `Price a single batch from the configured rate table.

Dry batches are priced by weight with the volume discount applied.
Wet batches are priced by container size.

Examples:
  glazeworks price --grams 1000
  glazeworks price --format wet --size pint`,
	Args: cobra.NoArgs,
	RunE: runPrice,
}

// estimateCmd prices a batch the way the storefront shows it
var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate the storefront price of a batch",
	Long: `Estimate the unit price shown to a customer, including the surcharge
for private formulations.

Examples:
  glazeworks estimate --grams 500 --private
  glazeworks estimate --format wet --size gallon -o json`,
	Args: cobra.NoArgs,
	RunE: runEstimate,
}

func init() {
	for _, c := range []*cobra.Command{priceCmd, estimateCmd} {
		c.Flags().Float64VarP(&batchGrams, "grams", "g", 0, "dry weight in grams")
		c.Flags().StringVarP(&batchFormat, "format", "f", "dry", "batch format (dry, wet)")
		c.Flags().StringVarP(&batchSize, "size", "s", "", "wet container size (pint, gallon)")
	}
	estimateCmd.Flags().BoolVarP(&batchPrivate, "private", "p", false, "private formulation")
}

// batchQuote is the result shared by price and estimate
type batchQuote struct {
	Format      string `json:"format"`
	WetSize     string `json:"wet_size,omitempty"`
	Grams       string `json:"grams"`
	Discount    string `json:"discount"`
	BasePrice   string `json:"base_price"`
	Surcharge   string `json:"surcharge,omitempty"`
	Price       string `json:"price"`
	DryFallback bool   `json:"dry_fallback,omitempty"`
}

func resolveBatch() (pricing.Batch, bool, error) {
	b, fallback, err := pricing.ResolveBatch(batchGrams, batchFormat, batchSize, config.Get().Pricing.StrictWetSize)
	if err != nil {
		return nil, false, err
	}
	if fallback {
		logging.Warn("wet batch without size priced as dry", zap.Float64("grams", batchGrams))
	}
	return b, fallback, nil
}

func quoteBatch(private bool) (*batchQuote, error) {
	c, err := composer()
	if err != nil {
		return nil, err
	}
	b, fallback, err := resolveBatch()
	if err != nil {
		return nil, err
	}

	cat := c.Catalog()
	base, err := cat.PriceBatch(b)
	if err != nil {
		return nil, err
	}
	unit, err := c.EstimateBatch(b, private)
	if err != nil {
		return nil, err
	}
	grams, _ := cat.GramEquivalent(b)

	q := &batchQuote{
		Format:      string(b.Format()),
		Grams:       grams.String(),
		Discount:    percent(cat.Discount(b)),
		BasePrice:   usd(base),
		Price:       usd(unit),
		DryFallback: fallback,
	}
	if wet, ok := b.(pricing.WetBatch); ok {
		q.WetSize = string(wet.Size)
	}
	if private {
		q.Surcharge = usd(cat.PrivateSurcharge())
	}
	return q, nil
}

func runPrice(cmd *cobra.Command, args []string) error {
	return runQuote(cmd, false, "BATCH PRICE")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	return runQuote(cmd, batchPrivate, "STOREFRONT ESTIMATE")
}

func runQuote(cmd *cobra.Command, private bool, title string) error {
	asJSON, err := wantJSON()
	if err != nil {
		return err
	}
	q, err := quoteBatch(private)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if asJSON {
		return printJSON(w, q)
	}

	rows := []row{{"Format", q.Format}}
	if q.WetSize != "" {
		rows = append(rows, row{"Container", q.WetSize})
	}
	rows = append(rows,
		row{"Grams", q.Grams},
		row{"Volume discount", q.Discount},
		row{"Base price", q.BasePrice},
	)
	if q.Surcharge != "" {
		rows = append(rows, row{"Private formulation", q.Surcharge})
	}
	rows = append(rows, separator, row{"PRICE", q.Price})
	printBox(w, title, rows)

	if q.DryFallback {
		fmt.Fprintln(w, "\nNo container size given; priced as a dry batch.")
	}
	return nil
}
