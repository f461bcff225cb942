package model

import (
	"errors"
	"testing"
)

func TestValidateItemsAcceptsWellFormed(t *testing.T) {
	items := []LineItem{
		{Label: "Lunch", Category: "Food", Amount: 450},
		{Label: "Pens", Category: "Office Supplies", Amount: 0},
	}
	if err := ValidateItems(items); err != nil {
		t.Errorf("expected valid items to pass, got %v", err)
	}
}

func TestValidateItemsEmptyListIsValid(t *testing.T) {
	if err := ValidateItems(nil); err != nil {
		t.Errorf("expected empty list to pass, got %v", err)
	}
}

func TestValidateItemsRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		items []LineItem
		field string
		index int
	}{
		{
			name:  "negative amount",
			items: []LineItem{{Label: "Taxi", Category: "Travel", Amount: -120}},
			field: "amount",
			index: 0,
		},
		{
			name:  "missing category",
			items: []LineItem{{Label: "Lunch", Category: "Food", Amount: 450}, {Label: "???", Category: "  ", Amount: 10}},
			field: "category",
			index: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateItems(tt.items)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, vErr.Field)
			}
			if vErr.Index != tt.index {
				t.Errorf("expected index %d, got %d", tt.index, vErr.Index)
			}
		})
	}
}
