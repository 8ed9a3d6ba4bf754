package catalog

import (
	"strings"
	"time"

	"github.com/kiddarkness/itemshop/internal/app/domain/shop"
)

// BuildIndex normalizes every raw entry in feed order and groups the results
// into category buckets. Buckets keep the order of their first appearance;
// the total count is incremented once per entry regardless of category.
func BuildIndex(entries []shop.RawCatalogEntry, now time.Time) shop.Snapshot {
	snap := shop.Snapshot{FetchedAt: now.UTC()}
	position := make(map[string]int)

	for _, entry := range entries {
		item := Normalize(entry, now)
		idx, seen := position[item.Category]
		if !seen {
			idx = len(snap.Categories)
			position[item.Category] = idx
			snap.Categories = append(snap.Categories, shop.Category{Name: item.Category})
		}
		snap.Categories[idx].Items = append(snap.Categories[idx].Items, item)
		snap.TotalCount++
	}
	return snap
}

// Filter returns, per category, the items whose name contains term
// case-insensitively. Categories left empty by the filter are omitted. An
// empty term returns every category untouched. Pure; safe to call per
// keystroke.
func Filter(categories []shop.Category, term string) []shop.Category {
	if term == "" {
		return categories
	}
	needle := strings.ToLower(term)

	var out []shop.Category
	for _, cat := range categories {
		var items []shop.DisplayItem
		for _, item := range cat.Items {
			if strings.Contains(strings.ToLower(item.Name), needle) {
				items = append(items, item)
			}
		}
		if len(items) > 0 {
			out = append(out, shop.Category{Name: cat.Name, Items: items})
		}
	}
	return out
}
