// Package scoring computes lead priority scores from qualification
// attributes. The score is a coarse triage signal, not a probability: points
// are added per factor with no normalization or cap, and a missing field
// simply contributes zero.
package scoring

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed weights.yaml
var defaultWeightsYAML []byte

// WeightTable maps each scoring factor to its point contributions. The table
// is data, not code, so weights can be revisited without touching the scorer.
type WeightTable struct {
	Budget       BudgetWeights  `yaml:"budget"`
	Timeline     map[string]int `yaml:"timeline"`
	ProjectType  map[string]int `yaml:"project_type"`
	PropertyType map[string]int `yaml:"property_type"`
	Source       map[string]int `yaml:"source"`
	Contact      ContactWeights `yaml:"contact"`
}

// BudgetWeights holds the tiered contribution for a lead's minimum budget.
type BudgetWeights struct {
	Tiers []BudgetTier `yaml:"tiers"`
}

// BudgetTier awards Points when the lead's minimum budget is at least Min.
type BudgetTier struct {
	Min    int64 `yaml:"min"`
	Points int   `yaml:"points"`
}

// ContactWeights holds the flat bonuses for reachable contact channels and a
// filled-in description.
type ContactWeights struct {
	Email       int `yaml:"email"`
	Phone       int `yaml:"phone"`
	Description int `yaml:"description"`
}

// DefaultTable returns the compiled-in weight table. It panics if the
// embedded asset is malformed, which can only happen at build time.
func DefaultTable() WeightTable {
	table, err := parseTable(defaultWeightsYAML)
	if err != nil {
		panic(fmt.Sprintf("scoring: embedded weight table invalid: %v", err))
	}
	return table
}

// LoadTable reads a weight table from a YAML file. An empty path selects the
// compiled-in default.
func LoadTable(path string) (WeightTable, error) {
	if path == "" {
		return DefaultTable(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return WeightTable{}, fmt.Errorf("read weight table: %w", err)
	}
	table, err := parseTable(raw)
	if err != nil {
		return WeightTable{}, fmt.Errorf("parse weight table %s: %w", path, err)
	}
	return table, nil
}

func parseTable(raw []byte) (WeightTable, error) {
	var table WeightTable
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return WeightTable{}, err
	}
	// Tiers are matched highest threshold first.
	sort.Slice(table.Budget.Tiers, func(i, j int) bool {
		return table.Budget.Tiers[i].Min > table.Budget.Tiers[j].Min
	})
	return table, nil
}
