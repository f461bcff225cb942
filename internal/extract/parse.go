package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AKteen/Clear-Bill/internal/policy"
)

// ParseExtraction decodes the model's JSON reply into a typed Extraction.
// Strips markdown fences the model sometimes adds despite instructions.
// Items without a category are filed under the fallback rule's category.
func ParseExtraction(raw string) (*Extraction, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var ex Extraction
	if err := json.Unmarshal([]byte(raw), &ex); err != nil {
		return nil, fmt.Errorf("extract: reply is not valid JSON: %w", err)
	}

	for i := range ex.Items {
		if strings.TrimSpace(ex.Items[i].Category) == "" {
			ex.Items[i].Category = policy.FallbackCategory
		}
		ex.Items[i].Label = strings.TrimSpace(ex.Items[i].Label)
	}

	return &ex, nil
}
