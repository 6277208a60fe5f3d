package cartdto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// AddLineRequest is the body of POST /api/v1/cart/lines. Quantity may be a
// JSON number or a numeric string.
type AddLineRequest struct {
	ProductID            string          `json:"productId" validate:"required,max=64"`
	Quantity             json.RawMessage `json:"quantity"`
	DeliveryAddress      string          `json:"deliveryAddress" validate:"max=500"`
	ExpectedDeliveryDate string          `json:"expectedDeliveryDate" validate:"omitempty,datetime=2006-01-02"`
	Notes                string          `json:"notes" validate:"max=1000"`
}

// CartLine is one line as rendered to the buyer.
type CartLine struct {
	Index                int             `json:"index"`
	ID                   string          `json:"id"`
	ProductID            string          `json:"product_id"`
	ProductName          string          `json:"product_name"`
	Category             string          `json:"category,omitempty"`
	VendorID             string          `json:"vendor_id"`
	VendorName           string          `json:"vendor_name"`
	Unit                 string          `json:"unit"`
	Quantity             int             `json:"quantity"`
	UnitPrice            decimal.Decimal `json:"unit_price"`
	LineTotal            decimal.Decimal `json:"line_total"`
	DeliveryAddress      string          `json:"delivery_address"`
	ExpectedDeliveryDate string          `json:"expected_delivery_date"`
	Notes                string          `json:"notes,omitempty"`
}

// Cart is the cart summary returned by every cart endpoint.
type Cart struct {
	Lines       []CartLine      `json:"lines"`
	LineCount   int             `json:"line_count"`
	VendorCount int             `json:"vendor_count"`
	Total       decimal.Decimal `json:"total"`
}
