package cli

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AKteen/Clear-Bill/internal/policy"
)

var (
	rulesPath   string
	rulesFormat string
)

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().StringVar(&rulesPath, "rules", "", "Path to rules YAML (defaults to built-in seed)")
	rulesCmd.Flags().StringVarP(&rulesFormat, "format", "f", "text", "Output format (text|json)")
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List spending rules",
	RunE:  runRules,
}

func runRules(cmd *cobra.Command, args []string) error {
	rules, err := policy.LoadRules(rulesPath)
	if err != nil {
		return err
	}

	if rulesFormat == "json" {
		out, err := json.MarshalIndent(rules, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	for _, r := range rules {
		if r.IsRestricted {
			fmt.Printf("%-16s %s  %s\n", r.Category, color.RedString("RESTRICTED"), r.Description)
			continue
		}
		fmt.Printf("%-16s %10.2f  %s\n", r.Category, r.MaxLimit, r.Description)
	}
	return nil
}
