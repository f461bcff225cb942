package extract

import (
	"context"

	"github.com/AKteen/Clear-Bill/internal/model"
)

// Extraction is the typed output of the extraction step: the line items the
// engine audits plus the key fields used for duplicate fingerprinting.
type Extraction struct {
	Items       []model.LineItem `json:"items"`
	Keys        model.KeyFields  `json:"key_fields"`
	TotalAmount float64          `json:"total_amount"`
}

// Extractor turns raw document bytes into a structured Extraction.
// Implementations call an external AI service; the audit engine never sees
// raw text or scraped patterns, only this contract.
type Extractor interface {
	Extract(ctx context.Context, content []byte, filename string) (*Extraction, error)
}
