package policy

// FallbackCategory is the rule applied to any category without an exact match.
const FallbackCategory = "Others"

// Rule is one spending policy: a per-category limit or an outright ban.
// A restricted rule ignores MaxLimit; any nonzero spend in that category
// is a violation.
type Rule struct {
	Category     string  `yaml:"category" json:"category"`
	MaxLimit     float64 `yaml:"max_limit" json:"max_limit"`
	IsRestricted bool    `yaml:"is_restricted" json:"is_restricted"`
	Description  string  `yaml:"description" json:"description"`
}
