package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AKteen/Clear-Bill/internal/journal"
)

var verifyJournal string

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVar(&verifyJournal, "journal", "", "Path to decision journal JSONL file (required)")
	verifyCmd.MarkFlagRequired("journal")
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the decision journal hash chain",
	Long: "Validates that the journal's SHA-256 chain is intact, proving no\n" +
		"recorded verdict was altered or removed. Exit code 0 if valid.",
	Run: func(cmd *cobra.Command, args []string) {
		result := journal.Verify(verifyJournal)
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
		if !result.Valid {
			os.Exit(1)
		}
	},
}
