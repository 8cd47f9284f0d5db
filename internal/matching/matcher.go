// Package matching resolves raw product descriptions to canonical catalog
// entries. Resolution is a pure function of the description and the catalog
// snapshot: same inputs, same result, every call.
package matching

import (
	"sort"
	"strings"

	"threadledger/internal/models"
	"threadledger/internal/parsing"
)

// FuzzyThreshold is the minimum trigram similarity for a fuzzy match.
const FuzzyThreshold = 0.7

// Resolve matches one raw description against an agency's catalog snapshot.
// Stages run in confidence order and the first hit wins: exact name equality
// (code prefix stripped), bracketed-code substring, then trigram similarity
// on base names. An unresolved description degrades to tier "none" with the
// normalized key still populated.
func Resolve(raw string, catalog []*models.Product) models.MatchResult {
	result := models.MatchResult{
		Key:  parsing.Normalize(raw),
		Tier: models.MatchNone,
	}

	ordered := orderedSnapshot(catalog)
	stripped := parsing.StripCode(raw)

	for _, p := range ordered {
		if strings.EqualFold(p.Name, stripped) {
			id := p.ID
			result.ProductID = &id
			result.Tier = models.MatchExact
			result.Score = 1
			return result
		}
	}

	if code := parsing.ExtractCode(raw); code != "" {
		for _, p := range ordered {
			if strings.Contains(strings.ToUpper(p.Name), code) {
				id := p.ID
				result.ProductID = &id
				result.Tier = models.MatchCode
				result.Score = 1
				return result
			}
		}
	}

	base := result.Key.BaseName
	best := -1.0
	var bestID *models.Product
	for _, p := range ordered {
		score := Similarity(parsing.BaseName(p.Name), base)
		if score > best {
			best = score
			bestID = p
		}
	}
	if bestID != nil && best >= FuzzyThreshold {
		id := bestID.ID
		result.ProductID = &id
		result.Tier = models.MatchFuzzy
		result.Score = best
	}

	return result
}

// orderedSnapshot copies and sorts the catalog by name then id so iteration
// order, and therefore tie-breaking, never depends on caller ordering.
func orderedSnapshot(catalog []*models.Product) []*models.Product {
	ordered := make([]*models.Product, len(catalog))
	copy(ordered, catalog)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Name != ordered[j].Name {
			return ordered[i].Name < ordered[j].Name
		}
		return ordered[i].ID.String() < ordered[j].ID.String()
	})
	return ordered
}

// Similarity computes trigram similarity between two strings as the Jaccard
// ratio of their padded trigram sets, like postgres pg_trgm.
func Similarity(a, b string) float64 {
	ta := trigrams(a)
	tb := trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	shared := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			shared++
		}
	}
	union := len(ta) + len(tb) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

func trigrams(s string) map[string]struct{} {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	padded := "  " + s + " "
	set := make(map[string]struct{}, len(padded))
	for i := 0; i+3 <= len(padded); i++ {
		set[padded[i:i+3]] = struct{}{}
	}
	return set
}
