package dedupe

import (
	"strings"
	"testing"

	"github.com/AKteen/Clear-Bill/internal/model"
)

var baseKeys = model.KeyFields{
	InvoiceNumber: "INV-2024-001",
	VendorName:    "Acme Catering Pvt Ltd",
	Amount:        2000,
	Date:          "2024-03-15",
}

func TestComputeStable(t *testing.T) {
	a := Compute(baseKeys, "doc-1")
	b := Compute(baseKeys, "doc-2")
	if a.Hash != b.Hash {
		t.Errorf("same key fields must hash identically regardless of document id")
	}
	if !strings.HasPrefix(a.Hash, "sha256:") {
		t.Errorf("expected sha256: prefix, got %q", a.Hash)
	}
}

func TestComputeCollidesAcrossRescans(t *testing.T) {
	// Re-scans of the same paper document differ in casing, spacing, and
	// date formatting. They must still collide.
	variants := []model.KeyFields{
		{InvoiceNumber: "inv-2024-001", VendorName: "ACME CATERING PVT LTD", Amount: 2000, Date: "2024-03-15"},
		{InvoiceNumber: " INV-2024-001 ", VendorName: "Acme  Catering\tPvt Ltd", Amount: 2000, Date: "15/03/2024"},
		{InvoiceNumber: "INV-2024-001", VendorName: "acme catering pvt ltd", Amount: 2000, Date: "March 15, 2024"},
	}

	want := Compute(baseKeys, "doc-1").Hash
	for i, keys := range variants {
		if got := Compute(keys, "doc-x").Hash; got != want {
			t.Errorf("variant %d did not collide: %q vs %q", i, got, want)
		}
	}
}

func TestComputeDistinguishesDifferentDocuments(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(k *model.KeyFields)
	}{
		{"different invoice number", func(k *model.KeyFields) { k.InvoiceNumber = "INV-2024-002" }},
		{"different vendor", func(k *model.KeyFields) { k.VendorName = "Beta Catering Pvt Ltd" }},
		{"different amount", func(k *model.KeyFields) { k.Amount = 2000.01 }},
		{"different date", func(k *model.KeyFields) { k.Date = "2024-03-16" }},
	}

	want := Compute(baseKeys, "doc-1").Hash
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := baseKeys
			tt.mutate(&keys)
			if got := Compute(keys, "doc-1").Hash; got == want {
				t.Error("expected distinct fingerprint")
			}
		})
	}
}

func TestNormalizeVendor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Catering", "acme catering"},
		{"  ACME\t\tCatering  ", "acme catering"},
		{"Ａｃｍｅ Catering", "acme catering"}, // fullwidth forms fold under NFKC
	}
	for _, tt := range tests {
		if got := NormalizeVendor(tt.in); got != tt.want {
			t.Errorf("NormalizeVendor(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

func TestCanonicalDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-15", "2024-03-15"},
		{"15/03/2024", "2024-03-15"},
		{"March 15, 2024", "2024-03-15"},
		{"15 March 2024", "2024-03-15"},
		{"not a date", "not a date"},
		{"  NOT A DATE  ", "not a date"},
	}
	for _, tt := range tests {
		if got := CanonicalDate(tt.in); got != tt.want {
			t.Errorf("CanonicalDate(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}
