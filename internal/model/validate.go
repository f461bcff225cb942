package model

import (
	"fmt"
	"strings"
)

// ValidationError reports a malformed line item. Raised before evaluation;
// a document that fails validation never produces an AuditResult.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("line item %d: %s: %s", e.Index, e.Field, e.Reason)
}

// ValidateItems checks every line item for the invariants the evaluator
// assumes: category present, amount not negative. Fails on the first
// malformed item.
func ValidateItems(items []LineItem) error {
	for i, item := range items {
		if strings.TrimSpace(item.Category) == "" {
			return &ValidationError{Index: i, Field: "category", Reason: "missing"}
		}
		if item.Amount < 0 {
			return &ValidationError{Index: i, Field: "amount", Reason: fmt.Sprintf("negative amount %.2f", item.Amount)}
		}
	}
	return nil
}
