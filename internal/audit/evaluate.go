package audit

import (
	"fmt"

	"github.com/AKteen/Clear-Bill/internal/model"
	"github.com/AKteen/Clear-Bill/internal/policy"
)

// Evaluate checks line items against the rule snapshot and returns one
// violation per breached rule, aggregated per category.
//
// Violations come back in the order categories first appear in the input.
// No re-sorting: the output must be deterministic for identical input.
// Amounts are assumed validated (>= 0) before this point.
func Evaluate(items []model.LineItem, snap *policy.Snapshot) []model.Violation {
	type group struct {
		total  float64
		labels []string
	}

	groups := make(map[string]*group)
	var order []string
	for _, item := range items {
		g, ok := groups[item.Category]
		if !ok {
			g = &group{}
			groups[item.Category] = g
			order = append(order, item.Category)
		}
		g.total += item.Amount
		g.labels = append(g.labels, item.Label)
	}

	var violations []model.Violation
	for _, category := range order {
		g := groups[category]
		rule := snap.GetRule(category)

		switch {
		case rule.IsRestricted:
			// Any nonzero spend violates, independent of amount.
			if g.total <= 0 {
				continue
			}
			violations = append(violations, model.Violation{
				RuleName:     category + " - Restricted Category",
				Severity:     model.SeverityCritical,
				Message:      fmt.Sprintf("%s is strictly prohibited for reimbursement", category),
				FlaggedItems: append([]string(nil), g.labels...),
			})

		case g.total > rule.MaxLimit:
			violations = append(violations, model.Violation{
				RuleName:     category + " - Amount Limit Exceeded",
				Severity:     model.SeverityWarning,
				Message:      fmt.Sprintf("%s total %.2f exceeds limit of %.2f", category, g.total, rule.MaxLimit),
				FlaggedItems: append([]string(nil), g.labels...),
			})
		}
	}

	return violations
}
