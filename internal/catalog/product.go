package catalog

import (
	"fmt"
	"strings"

	"github.com/foodsupplychain/procurement/pkg/backend"
	"github.com/foodsupplychain/procurement/pkg/enums"
	pkgerrors "github.com/foodsupplychain/procurement/pkg/errors"
	"github.com/shopspring/decimal"
)

// Product is a read-only catalog entry supplied by the marketplace.
type Product struct {
	ID                string                `json:"id"`
	Name              string                `json:"name"`
	Category          enums.ProductCategory `json:"category"`
	Description       string                `json:"description,omitempty"`
	VendorID          string                `json:"vendor_id"`
	VendorName        string                `json:"vendor_name"`
	VendorCompanyName string                `json:"vendor_company_name"`
	Unit              enums.ProductUnit     `json:"unit"`
	PricePerUnit      decimal.Decimal       `json:"price_per_unit"`
	AvailableQuantity int                   `json:"available_quantity"`
	MinOrderQuantity  int                   `json:"min_order_quantity"`
	Available         bool                  `json:"available"`
}

// NewProduct validates a marketplace record and converts it to a Product.
func NewProduct(rec backend.ProductRecord) (Product, error) {
	p := Product{
		ID:                strings.TrimSpace(rec.ID),
		Name:              strings.TrimSpace(rec.ProductName),
		Category:          enums.ProductCategory(strings.TrimSpace(rec.Category)),
		Description:       rec.Description,
		VendorID:          strings.TrimSpace(string(rec.Vendor)),
		VendorName:        strings.TrimSpace(rec.VendorName),
		VendorCompanyName: strings.TrimSpace(rec.VendorCompanyName),
		Unit:              enums.ProductUnit(strings.TrimSpace(rec.Unit)),
		PricePerUnit:      rec.PricePerUnit,
		AvailableQuantity: int(rec.Quantity.Floor().IntPart()),
		MinOrderQuantity:  int(rec.MinOrderQuantity.Ceil().IntPart()),
		Available:         rec.IsAvailable,
	}
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Validate checks the fields the ordering flow relies on.
func (p Product) Validate() error {
	switch {
	case p.ID == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	case p.Name == "":
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %s has no name", p.ID))
	case p.VendorID == "":
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %s has no vendor", p.ID))
	case p.PricePerUnit.IsNegative():
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %s has a negative price", p.ID))
	case p.AvailableQuantity < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %s has negative stock", p.ID))
	}
	return nil
}

// MinimumQuantity is the smallest orderable quantity; unset minimums mean 1.
func (p Product) MinimumQuantity() int {
	if p.MinOrderQuantity < 1 {
		return 1
	}
	return p.MinOrderQuantity
}

// VendorDisplayName prefers the company name and falls back to the contact name.
func (p Product) VendorDisplayName() string {
	if p.VendorCompanyName != "" {
		return p.VendorCompanyName
	}
	return p.VendorName
}

// Orderable reports whether the product is listed and in stock.
func (p Product) Orderable() bool {
	return p.Available && p.AvailableQuantity > 0
}
