// marketlens analyzes product listing tables: brand share, price distribution,
// feature frequency and brand-feature market gaps.
//
// Usage:
//
//	marketlens analyze listings.csv [--export=json|csv|xlsx|md|html] [--out=<path>] [--summarize]
//	marketlens serve [--port=8080]
//	marketlens generate --out=listings.xlsx [--rows=500] [--seed=42]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "marketlens",
	Short: "Market analytics over product listing tables",
	Long: "MarketLens reads a CSV or XLSX listings table and reports brand share,\n" +
		"price statistics, feature frequency and under-served brand-feature combinations.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
