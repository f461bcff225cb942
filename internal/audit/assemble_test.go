package audit

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/AKteen/Clear-Bill/internal/model"
)

func TestAssembleApproved(t *testing.T) {
	result := Assemble(nil, 100, model.StatusApproved, model.ColorGreen)
	if !result.IsCompliant {
		t.Error("expected approved result to be compliant")
	}
	if result.Violations == nil || len(result.Violations) != 0 {
		t.Errorf("expected empty violations slice, got %v", result.Violations)
	}
	if !strings.Contains(result.Summary, "approved") {
		t.Errorf("expected clean-bill summary, got %q", result.Summary)
	}
}

func TestAssembleRejectedNamesFirstCriticalCategory(t *testing.T) {
	violations := []model.Violation{
		{RuleName: "Food - Amount Limit Exceeded", Severity: model.SeverityWarning},
		{RuleName: "Alcohol - Restricted Category", Severity: model.SeverityCritical},
		{RuleName: "Jewelry - Restricted Category", Severity: model.SeverityCritical},
	}
	result := Assemble(violations, 10, model.StatusRejected, model.ColorRed)
	if result.IsCompliant {
		t.Error("expected rejected result to be non-compliant")
	}
	if !strings.Contains(result.Summary, "Alcohol") {
		t.Errorf("expected summary to name first critical category Alcohol, got %q", result.Summary)
	}
}

func TestAssembleWarningCountsCategories(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want string
	}{
		{"singular", 1, "1 category exceeds"},
		{"plural", 2, "2 categories exceed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var violations []model.Violation
			for i := 0; i < tt.n; i++ {
				violations = append(violations, model.Violation{RuleName: "X - Amount Limit Exceeded", Severity: model.SeverityWarning})
			}
			result := Assemble(violations, 85, model.StatusWarning, model.ColorYellow)
			if !strings.Contains(result.Summary, tt.want) {
				t.Errorf("expected summary containing %q, got %q", tt.want, result.Summary)
			}
		})
	}
}

func TestAssembleDeterministic(t *testing.T) {
	violations := []model.Violation{
		{RuleName: "Food - Amount Limit Exceeded", Severity: model.SeverityWarning, Message: "over", FlaggedItems: []string{"Dinner"}},
	}

	a := Assemble(violations, 85, model.StatusWarning, model.ColorYellow)
	b := Assemble(violations, 85, model.StatusWarning, model.ColorYellow)

	aJSON, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	bJSON, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(aJSON, bJSON) {
		t.Errorf("expected byte-identical results, got\n%s\n%s", aJSON, bJSON)
	}
}
