package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "clearbill",
	Short: "Compliance audit engine for scanned invoices",
	Long:  "Turns extracted invoice line items into an approval verdict: per-category spending limits, restricted-category bans, a 0-100 compliance score, and duplicate-submission detection.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
