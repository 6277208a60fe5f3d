package catalog

import (
	"strings"

	"github.com/foodsupplychain/procurement/pkg/enums"
)

// FilterCatalog returns the orderable products whose name or vendor display
// name contains query (case-insensitive) and whose category matches. The
// All category matches everything. Input order is preserved and the input
// slice is never modified.
func FilterCatalog(products []Product, query string, category enums.ProductCategory) []Product {
	needle := strings.ToLower(query)
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if !matchesQuery(p, needle) {
			continue
		}
		if !category.IsWildcard() && p.Category != category {
			continue
		}
		if !p.Orderable() {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesQuery(p Product, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.VendorDisplayName()), needle)
}
