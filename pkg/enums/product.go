package enums

import (
	"fmt"
	"strings"
)

// ProductCategory groups catalog products for browsing.
type ProductCategory string

const (
	// ProductCategoryAll is the catalog filter wildcard; no product carries it.
	ProductCategoryAll        ProductCategory = "All"
	ProductCategoryVegetables ProductCategory = "Vegetables"
	ProductCategoryDairy      ProductCategory = "Dairy"
	ProductCategoryGrains     ProductCategory = "Grains"
	ProductCategoryMeat       ProductCategory = "Meat"
	ProductCategorySpices     ProductCategory = "Spices"
	ProductCategoryFruits     ProductCategory = "Fruits"

	// ProductCategoryGeneral is used on order items whose line has no category.
	ProductCategoryGeneral ProductCategory = "General"
)

var browsableCategories = []ProductCategory{
	ProductCategoryAll,
	ProductCategoryVegetables,
	ProductCategoryDairy,
	ProductCategoryGrains,
	ProductCategoryMeat,
	ProductCategorySpices,
	ProductCategoryFruits,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsWildcard reports whether the category matches every product.
func (c ProductCategory) IsWildcard() bool {
	return c == ProductCategoryAll
}

// BrowsableCategories lists the selectable catalog categories, wildcard first.
func BrowsableCategories() []ProductCategory {
	out := make([]ProductCategory, len(browsableCategories))
	copy(out, browsableCategories)
	return out
}

// ParseProductCategory converts a catalog query value. Empty input means All.
func ParseProductCategory(value string) (ProductCategory, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ProductCategoryAll, nil
	}
	for _, candidate := range browsableCategories {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ProductUnit is the unit of measure a product is sold in.
type ProductUnit string

const (
	ProductUnitKg     ProductUnit = "kg"
	ProductUnitLiters ProductUnit = "liters"
	ProductUnitPieces ProductUnit = "pieces"
	ProductUnitTons   ProductUnit = "tons"
	ProductUnitBoxes  ProductUnit = "boxes"
	ProductUnitBags   ProductUnit = "bags"
)

var validProductUnits = []ProductUnit{
	ProductUnitKg,
	ProductUnitLiters,
	ProductUnitPieces,
	ProductUnitTons,
	ProductUnitBoxes,
	ProductUnitBags,
}

// String implements fmt.Stringer.
func (u ProductUnit) String() string {
	return string(u)
}

// IsValid reports whether the value is a known ProductUnit.
func (u ProductUnit) IsValid() bool {
	for _, candidate := range validProductUnits {
		if candidate == u {
			return true
		}
	}
	return false
}
