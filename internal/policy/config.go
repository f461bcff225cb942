package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultRules returns the built-in rule seed. Matches the seed the original
// deployment shipped with; amounts are in the billing currency.
func DefaultRules() []Rule {
	return []Rule{
		{Category: "Food", MaxLimit: 1500, Description: "Per meal allowance for employees."},
		{Category: "Travel", MaxLimit: 10000, Description: "Inter-city travel and hotel stays."},
		{Category: "Utility", MaxLimit: 5000, Description: "Internet, electricity, and phone bills."},
		{Category: "Office Supplies", MaxLimit: 3000, Description: "Stationery and small equipment."},
		{Category: "Alcohol", IsRestricted: true, Description: "Strictly prohibited for reimbursement."},
		{Category: "Entertainment", IsRestricted: true, Description: "Personal movies, spas, or leisure activities."},
		{Category: "Jewelry", IsRestricted: true, Description: "High-risk personal luxury items."},
		{Category: "Others", MaxLimit: 1000, Description: "General catch-all category for small items."},
	}
}

type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules loads spending rules from a YAML file.
// Empty path or missing file returns the defaults. Invalid YAML or a file
// without rules returns an error.
func LoadRules(path string) ([]Rule, error) {
	if path == "" {
		return DefaultRules(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultRules(), nil
		}
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("rules file %q contains no rules", path)
	}

	for i, r := range f.Rules {
		if r.Category == "" {
			return nil, fmt.Errorf("rules file %q: rule %d has no category", path, i)
		}
		if r.MaxLimit < 0 {
			return nil, fmt.Errorf("rules file %q: rule %q has negative limit", path, r.Category)
		}
	}

	return f.Rules, nil
}
