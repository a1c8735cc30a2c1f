// Package cmd provides the CLI commands for glazeworks.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"glazeworks/core/pricing"
	"glazeworks/core/quote"
	"glazeworks/internal/config"
	"glazeworks/internal/logging"
)

const version = "0.1.0"

var (
	cfgFile string
	verbose bool
	output  string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "glazeworks",
	Short: "Price glaze batches and recommend recipe adjustments",
	Long: `glazeworks is the operator tool for the glaze storefront.

It prices dry and wet batches, totals orders, grades crazing photos and
looks up recipe adjustments using the same engines as the storefront API.

Examples:
  glazeworks price --grams 1000
  glazeworks estimate --format wet --size gallon --private
  glazeworks order ./order.hcl
  glazeworks modify --type reduce_boron --severity moderate --color celadon`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file, yaml or json (default: built-in rates)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "text", "output format (text, json)")

	// Add subcommands
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(modifyCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	// Initialize logging
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// composer builds a quote composer from the loaded rates.
func composer() (*quote.Composer, error) {
	c, err := catalog()
	if err != nil {
		return nil, err
	}
	return quote.NewComposer(c), nil
}

func catalog() (pricing.Catalog, error) {
	return config.Get().Pricing.Catalog()
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "glazeworks version %s\n", version)
	},
}
