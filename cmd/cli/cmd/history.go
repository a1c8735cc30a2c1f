// Package cmd - order archive commands
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"glazeworks/adapters/storage"
	"glazeworks/internal/config"
)

var historyLimit int

// historyCmd lists archived orders
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List orders saved with order --save",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print an archived order",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDiffCmd = &cobra.Command{
	Use:   "diff <old-id> <new-id>",
	Short: "Compare the totals of two archived orders",
	Args:  cobra.ExactArgs(2),
	RunE:  runHistoryDiff,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "show at most this many orders")
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDiffCmd)
	rootCmd.AddCommand(historyCmd)
}

func archive() (storage.Store, error) {
	a := config.Get().Archive
	return storage.StoreFactory(storage.Backend(a.Backend), map[string]string{"path": a.Dir})
}

func runHistory(cmd *cobra.Command, args []string) error {
	asJSON, err := wantJSON()
	if err != nil {
		return err
	}
	store, err := archive()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(cmd.Context(), &storage.ListFilter{Limit: historyLimit})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if asJSON {
		return printJSON(w, records)
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "No archived orders.")
		return nil
	}
	for _, rec := range records {
		fmt.Fprintf(w, "%s  %s  %-24s %3d items  %12s\n",
			rec.ID, rec.CreatedAt.Format("2006-01-02 15:04"), truncate(rec.Label, 24), rec.ItemCount, usd(rec.Total))
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := archive()
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), rec)
}

func runHistoryDiff(cmd *cobra.Command, args []string) error {
	asJSON, err := wantJSON()
	if err != nil {
		return err
	}
	store, err := archive()
	if err != nil {
		return err
	}
	defer store.Close()

	cmp, err := storage.Compare(cmd.Context(), store, args[0], args[1])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if asJSON {
		return printJSON(w, cmp)
	}
	rows := []row{
		{"Old total", usd(cmp.OldTotal)},
		{"New total", usd(cmp.NewTotal)},
		separator,
		{"Change", usd(cmp.Delta)},
	}
	printBox(w, "ORDER COMPARISON", rows)
	if !cmp.SameRates {
		fmt.Fprintln(w, "\nThe orders were priced from different rate tables.")
	}
	return nil
}
