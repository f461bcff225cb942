package audit

import (
	"context"
	"fmt"

	"github.com/AKteen/Clear-Bill/internal/dedupe"
	"github.com/AKteen/Clear-Bill/internal/model"
	"github.com/AKteen/Clear-Bill/internal/policy"
)

// Engine runs one document evaluation end to end: validation, duplicate
// gate, violation evaluation, scoring, assembly.
//
// The engine is stateless between calls; all shared state lives behind the
// injected collaborators. Detector may be nil, which disables the duplicate
// gate (offline CLI path).
type Engine struct {
	Policies policy.Source
	Detector *dedupe.Detector
}

// Run evaluates one document. documentID is the id the document will be
// registered under if its fingerprint is new.
//
// Error cases, in check order:
//   - *model.ValidationError for malformed line items
//   - *dedupe.DuplicateError when the fingerprint is already registered
//   - a wrapped policy.ErrUnavailable when no rule snapshot can be obtained
//
// Every other path terminates in a well-formed AuditResult.
func (e *Engine) Run(ctx context.Context, documentID string, items []model.LineItem, keys model.KeyFields) (*model.AuditResult, error) {
	if err := model.ValidateItems(items); err != nil {
		return nil, err
	}

	if e.Detector != nil {
		fp := dedupe.Compute(keys, documentID)
		match, err := e.Detector.CheckAndRegister(ctx, fp)
		if err != nil {
			return nil, err
		}
		if match.IsDuplicate {
			return nil, &dedupe.DuplicateError{DocumentID: match.DocumentID, MatchedAt: match.MatchedAt}
		}
	}

	snap, err := e.Policies.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("policy snapshot: %w", err)
	}

	violations := Evaluate(items, snap)
	score, status, color := Score(violations)
	result := Assemble(violations, score, status, color)
	return &result, nil
}
