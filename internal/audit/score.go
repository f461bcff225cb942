package audit

import "github.com/AKteen/Clear-Bill/internal/model"

// Scoring weights. These are policy choices and the part most likely to be
// tuned; keep them named.
const (
	maxScore = 100

	// criticalPenalty is deducted per restricted-category violation.
	criticalPenalty = 40
	// warningPenaltyRejected is deducted per limit violation on a document
	// that is already rejected for a restricted category.
	warningPenaltyRejected = 10
	// warningPenalty is deducted per limit violation on a document with no
	// restricted categories.
	warningPenalty = 15
)

// Score aggregates violations into a compliance score and a three-tier
// verdict. Restricted breaches dominate: a single critical violation rejects
// the document no matter how compliant every other category is.
func Score(violations []model.Violation) (score int, status model.ApprovalStatus, color model.StatusColor) {
	var critical, warnings int
	for _, v := range violations {
		switch v.Severity {
		case model.SeverityCritical, model.SeverityHigh:
			critical++
		case model.SeverityWarning:
			warnings++
		}
	}

	switch {
	case critical > 0:
		score = floor(maxScore - criticalPenalty*critical - warningPenaltyRejected*warnings)
		return score, model.StatusRejected, model.ColorRed
	case warnings > 0:
		score = floor(maxScore - warningPenalty*warnings)
		return score, model.StatusWarning, model.ColorYellow
	default:
		return maxScore, model.StatusApproved, model.ColorGreen
	}
}

// floor keeps the score from going negative under stacked penalties.
func floor(score int) int {
	if score < 0 {
		return 0
	}
	return score
}
