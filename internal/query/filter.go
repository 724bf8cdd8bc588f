// Package query holds read-only derivations over a catalog snapshot.
package query

import (
	"strings"

	"atlanend/internal/model"
)

// Filter is the browse filter. An empty Category is treated as "all".
type Filter struct {
	Category model.Category
	Search   string
}

// Activities returns the catalog entries matching f, in catalog order.
// The input slice is never modified; returned entries are copies.
func Activities(catalog []model.Activity, f Filter) []model.Activity {
	needle := strings.ToLower(f.Search)
	out := make([]model.Activity, 0, len(catalog))
	for _, a := range catalog {
		if !matchesCategory(a, f.Category) || !matchesSearch(a, needle) {
			continue
		}
		out = append(out, a.Clone())
	}
	return out
}

// CountByCategory returns how many activities match search in each category,
// plus the total under model.CategoryAll.
func CountByCategory(catalog []model.Activity, search string) map[model.Category]int {
	needle := strings.ToLower(search)
	counts := make(map[model.Category]int, len(model.Categories)+1)
	counts[model.CategoryAll] = 0
	for _, c := range model.Categories {
		counts[c] = 0
	}
	for _, a := range catalog {
		if !matchesSearch(a, needle) {
			continue
		}
		counts[model.CategoryAll]++
		counts[a.Category]++
	}
	return counts
}

func matchesCategory(a model.Activity, c model.Category) bool {
	return c == "" || c == model.CategoryAll || a.Category == c
}

// matchesSearch expects needle already lower-cased. Substring match only.
func matchesSearch(a model.Activity, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(a.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(a.Description), needle) {
		return true
	}
	for _, tag := range a.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}
