// Package categories maps a resolved or raw product identity to one
// canonical (category, subCategory) pair. Every ingestion path calls the same
// standardizer so a product identity can never end up under two categories.
package categories

import (
	"strings"

	"threadledger/internal/models"
	"threadledger/internal/parsing"
)

// Fallback values used when no rule matches an unresolved description.
const (
	FallbackCategory    = "Uncategorized"
	FallbackSubCategory = "General"
)

// Rule maps a code prefix or a name token to a category pair. A rule fires
// when the extracted code's letter prefix equals CodePrefix, or when the
// base name contains NameToken.
type Rule struct {
	CodePrefix  string
	NameToken   string
	Category    string
	SubCategory string
}

// defaultRules covers the series codes the external feeds are known to emit.
// Order matters: the first matching rule wins.
var defaultRules = []Rule{
	{CodePrefix: "SB", NameToken: "SOLACE", Category: "Shirts", SubCategory: "Slim Fit"},
	{CodePrefix: "BB", NameToken: "BREEZE", Category: "Shirts", SubCategory: "Casual"},
	{CodePrefix: "TS", NameToken: "TEE", Category: "T-Shirts", SubCategory: "Crew Neck"},
	{CodePrefix: "TR", NameToken: "TRACK", Category: "Trousers", SubCategory: "Formal"},
	{CodePrefix: "DN", NameToken: "DENIM", Category: "Jeans", SubCategory: "Denim"},
	{CodePrefix: "KD", NameToken: "KURTA", Category: "Ethnic", SubCategory: "Kurta"},
}

// Standardizer resolves category pairs from an ordered rule table.
type Standardizer struct {
	rules []Rule
}

// NewStandardizer builds a standardizer over the given rules, falling back
// to the built-in table when none are supplied.
func NewStandardizer(rules ...Rule) *Standardizer {
	if len(rules) == 0 {
		rules = defaultRules
	}
	return &Standardizer{rules: rules}
}

// Standardize returns the canonical category pair for a product identity.
// A matched catalog product is authoritative; otherwise the rule table is
// consulted against the raw description, first match wins.
func (s *Standardizer) Standardize(raw string, matched *models.Product) (category, subCategory string) {
	if matched != nil {
		return matched.Category, matched.SubCategory
	}

	prefix := parsing.CodePrefix(parsing.ExtractCode(raw))
	base := parsing.BaseName(raw)

	for _, r := range s.rules {
		if r.CodePrefix != "" && r.CodePrefix == prefix {
			return r.Category, r.SubCategory
		}
		if r.NameToken != "" && strings.Contains(base, r.NameToken) {
			return r.Category, r.SubCategory
		}
	}
	return FallbackCategory, FallbackSubCategory
}
