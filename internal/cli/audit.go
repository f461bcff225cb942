package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AKteen/Clear-Bill/internal/audit"
	"github.com/AKteen/Clear-Bill/internal/extract"
	"github.com/AKteen/Clear-Bill/internal/model"
	"github.com/AKteen/Clear-Bill/internal/policy"
)

var (
	auditItems  string
	auditRules  string
	auditFormat string
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.Flags().StringVar(&auditItems, "items", "", "Path to extracted items JSON file (required)")
	auditCmd.Flags().StringVar(&auditRules, "rules", "", "Path to rules YAML (defaults to built-in seed)")
	auditCmd.Flags().StringVarP(&auditFormat, "format", "f", "text", "Output format (text|json)")
	auditCmd.MarkFlagRequired("items")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit an extracted items file offline",
	Long: "Loads a JSON file in the extraction contract format\n" +
		"({\"items\": [...], \"key_fields\": {...}}), evaluates it against the\n" +
		"spending rules, and prints the verdict. No duplicate gate: the run\n" +
		"touches no fingerprint store.\n\n" +
		"Exit code 0 if approved, 1 otherwise.",
	RunE: runAudit,
}

func runAudit(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(auditItems)
	if err != nil {
		return fmt.Errorf("failed to read items file: %w", err)
	}
	ex, err := extract.ParseExtraction(string(data))
	if err != nil {
		return err
	}

	rules, err := policy.LoadRules(auditRules)
	if err != nil {
		return err
	}

	engine := &audit.Engine{Policies: policy.NewStore(rules)}
	result, err := engine.Run(context.Background(), "", ex.Items, ex.Keys)
	if err != nil {
		return err
	}

	switch auditFormat {
	case "json":
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	case "text":
		printResult(result)
	default:
		return fmt.Errorf("unknown format %q", auditFormat)
	}

	if result.ApprovalStatus != model.StatusApproved {
		os.Exit(1)
	}
	return nil
}

func printResult(result *model.AuditResult) {
	fmt.Printf("Verdict: %s\n", colorStatus(result))
	fmt.Printf("Score:   %d/100\n", result.ComplianceScore)
	fmt.Printf("Summary: %s\n", result.Summary)

	if len(result.Violations) == 0 {
		return
	}
	fmt.Println()
	for _, v := range result.Violations {
		fmt.Printf("  [%s] %s\n", v.Severity, v.RuleName)
		fmt.Printf("      %s\n", v.Message)
		for _, item := range v.FlaggedItems {
			fmt.Printf("      - %s\n", item)
		}
	}
}

func colorStatus(result *model.AuditResult) string {
	s := string(result.ApprovalStatus)
	switch result.StatusColor {
	case model.ColorGreen:
		return color.GreenString(s)
	case model.ColorYellow:
		return color.YellowString(s)
	case model.ColorRed:
		return color.RedString(s)
	default:
		return s
	}
}
