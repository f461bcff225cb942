package audit

import (
	"testing"

	"github.com/AKteen/Clear-Bill/internal/model"
)

func violationsOf(severities ...model.Severity) []model.Violation {
	out := make([]model.Violation, len(severities))
	for i, s := range severities {
		out[i] = model.Violation{RuleName: "x", Severity: s}
	}
	return out
}

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		violations []model.Violation
		wantScore  int
		wantStatus model.ApprovalStatus
		wantColor  model.StatusColor
	}{
		{
			name:       "no violations",
			violations: nil,
			wantScore:  100,
			wantStatus: model.StatusApproved,
			wantColor:  model.ColorGreen,
		},
		{
			name:       "one warning",
			violations: violationsOf(model.SeverityWarning),
			wantScore:  85,
			wantStatus: model.StatusWarning,
			wantColor:  model.ColorYellow,
		},
		{
			name:       "three warnings",
			violations: violationsOf(model.SeverityWarning, model.SeverityWarning, model.SeverityWarning),
			wantScore:  55,
			wantStatus: model.StatusWarning,
			wantColor:  model.ColorYellow,
		},
		{
			name: "warnings floor at zero",
			violations: violationsOf(model.SeverityWarning, model.SeverityWarning, model.SeverityWarning,
				model.SeverityWarning, model.SeverityWarning, model.SeverityWarning, model.SeverityWarning),
			wantScore:  0,
			wantStatus: model.StatusWarning,
			wantColor:  model.ColorYellow,
		},
		{
			name:       "one critical",
			violations: violationsOf(model.SeverityCritical),
			wantScore:  60,
			wantStatus: model.StatusRejected,
			wantColor:  model.ColorRed,
		},
		{
			name:       "critical dominates warnings",
			violations: violationsOf(model.SeverityWarning, model.SeverityCritical),
			wantScore:  50, // 100 - 40 - 10
			wantStatus: model.StatusRejected,
			wantColor:  model.ColorRed,
		},
		{
			name:       "high counts as rejecting",
			violations: violationsOf(model.SeverityHigh),
			wantScore:  60,
			wantStatus: model.StatusRejected,
			wantColor:  model.ColorRed,
		},
		{
			name:       "criticals floor at zero",
			violations: violationsOf(model.SeverityCritical, model.SeverityCritical, model.SeverityCritical),
			wantScore:  0,
			wantStatus: model.StatusRejected,
			wantColor:  model.ColorRed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, status, color := Score(tt.violations)
			if score != tt.wantScore {
				t.Errorf("score: expected %d, got %d", tt.wantScore, score)
			}
			if status != tt.wantStatus {
				t.Errorf("status: expected %s, got %s", tt.wantStatus, status)
			}
			if color != tt.wantColor {
				t.Errorf("color: expected %s, got %s", tt.wantColor, color)
			}
		})
	}
}
