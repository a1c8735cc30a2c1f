// Package cmd - order command
package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"glazeworks/adapters/order"
	"glazeworks/adapters/storage"
	"glazeworks/internal/logging"
)

var (
	orderConcurrency int
	orderSave        bool
)

// orderCmd prices an HCL order file
var orderCmd = &cobra.Command{
	Use:   "order <file.hcl>",
	Short: "Price every item in an order file",
	Long: `Price an order file and print line items and totals.

An order file holds one item block per glaze:

  item "celadon" {
    format  = "dry"
    grams   = 1000
    private = true
  }

  item "tenmoku" {
    format   = "wet"
    size     = "gallon"
    quantity = 2
  }`,
	Args: cobra.ExactArgs(1),
	RunE: runOrder,
}

func init() {
	orderCmd.Flags().IntVarP(&orderConcurrency, "concurrency", "j", order.DefaultConcurrency, "items priced in parallel")
	orderCmd.Flags().BoolVar(&orderSave, "save", false, "archive the priced order")
}

func runOrder(cmd *cobra.Command, args []string) error {
	start := time.Now()
	asJSON, err := wantJSON()
	if err != nil {
		return err
	}

	items, err := order.NewParser().ParseFile(args[0])
	if err != nil {
		return err
	}

	c, err := composer()
	if err != nil {
		return err
	}
	priced, err := order.NewPricer(c, orderConcurrency).Price(cmd.Context(), items)
	if err != nil {
		return err
	}

	logging.Info("order priced",
		zap.String("file", args[0]),
		zap.Int("items", len(items)),
		zap.Duration("duration", time.Since(start)),
	)

	var saved *storage.Record
	if orderSave {
		if saved, err = saveOrder(cmd, filepath.Base(args[0]), priced); err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	if asJSON {
		if saved != nil {
			return printJSON(w, saved)
		}
		return printJSON(w, priced)
	}

	rows := make([]row, 0, len(priced.Lines)+6)
	for _, line := range priced.Lines {
		label := line.Label
		if line.Private {
			label += " (private)"
		}
		if line.Quantity > 1 {
			label = fmt.Sprintf("%s x%d", label, line.Quantity)
		}
		rows = append(rows, row{label, usd(line.LinePrice())})
	}
	t := priced.Totals
	rows = append(rows,
		separator,
		row{"Subtotal", usd(t.Subtotal)},
		row{"Shipping", usd(t.Shipping)},
		row{"TOTAL", usd(t.Total)},
	)
	printBox(w, "ORDER SUMMARY", rows)
	fmt.Fprintf(w, "\nTax rate %s%% is applied at checkout.\n", t.TaxRate.Shift(2).String())
	if saved != nil {
		fmt.Fprintf(w, "Saved as %s\n", saved.ID)
	}
	return nil
}

func saveOrder(cmd *cobra.Command, label string, priced *order.Priced) (*storage.Record, error) {
	store, err := archive()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	rec := storage.NewRecord(label, priced)
	if err := store.Save(cmd.Context(), rec); err != nil {
		return nil, err
	}
	logging.Debug("order archived", zap.String("id", rec.ID), zap.String("rates", rec.Rates))
	return rec, nil
}
