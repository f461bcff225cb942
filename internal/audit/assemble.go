package audit

import (
	"fmt"
	"strings"

	"github.com/AKteen/Clear-Bill/internal/model"
)

// Assemble packages a finished evaluation into an immutable AuditResult.
// Pure and deterministic: identical inputs produce byte-identical results.
func Assemble(violations []model.Violation, score int, status model.ApprovalStatus, color model.StatusColor) model.AuditResult {
	if violations == nil {
		violations = []model.Violation{}
	}
	return model.AuditResult{
		IsCompliant:     status == model.StatusApproved,
		ComplianceScore: score,
		Violations:      violations,
		Summary:         summarize(violations, status),
		ApprovalStatus:  status,
		StatusColor:     color,
	}
}

// summarize produces one human-readable sentence naming the dominant reason
// for the verdict.
func summarize(violations []model.Violation, status model.ApprovalStatus) string {
	switch status {
	case model.StatusRejected:
		return fmt.Sprintf("Cannot approve - restricted category %s found", firstCriticalCategory(violations))
	case model.StatusWarning:
		n := 0
		for _, v := range violations {
			if v.Severity == model.SeverityWarning {
				n++
			}
		}
		if n == 1 {
			return "Warning - 1 category exceeds its spending limit"
		}
		return fmt.Sprintf("Warning - %d categories exceed their spending limits", n)
	default:
		return "All items approved - no policy violations found"
	}
}

func firstCriticalCategory(violations []model.Violation) string {
	for _, v := range violations {
		if v.Severity == model.SeverityCritical || v.Severity == model.SeverityHigh {
			// Rule names are "<category> - <breach kind>".
			if category, _, ok := strings.Cut(v.RuleName, " - "); ok {
				return category
			}
			return v.RuleName
		}
	}
	return "unknown"
}
