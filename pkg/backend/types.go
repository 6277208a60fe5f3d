package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// VendorRef is the product's vendor reference. The marketplace returns it
// either as a bare id or as a populated vendor document.
type VendorRef string

// UnmarshalJSON accepts "id", {"_id": "id"} and null.
func (v *VendorRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = ""
		return nil
	}
	if trimmed[0] == '"' {
		var id string
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return err
		}
		*v = VendorRef(id)
		return nil
	}
	var doc struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return fmt.Errorf("decode vendor reference: %w", err)
	}
	*v = VendorRef(doc.ID)
	return nil
}

// ProductRecord is one entry of GET /api/inventory/vendor-products.
type ProductRecord struct {
	ID                string          `json:"_id"`
	ProductName       string          `json:"productName"`
	Category          string          `json:"category"`
	Description       string          `json:"description,omitempty"`
	Vendor            VendorRef       `json:"vendor"`
	VendorName        string          `json:"vendorName"`
	VendorCompanyName string          `json:"vendorCompanyName"`
	Unit              string          `json:"unit"`
	PricePerUnit      decimal.Decimal `json:"pricePerUnit"`
	// Stock figures are entered as free text by vendors, so fractional
	// values such as 12.5 kg occur.
	Quantity         decimal.Decimal `json:"quantity"`
	MinOrderQuantity decimal.Decimal `json:"minOrderQuantity"`
	IsAvailable      bool            `json:"isAvailable"`
}

// OrderItemPayload is one line of an order creation request.
type OrderItemPayload struct {
	ItemName     string      `json:"itemName"`
	Category     string      `json:"category"`
	Quantity     int         `json:"quantity"`
	Unit         string      `json:"unit"`
	PricePerUnit json.Number `json:"pricePerUnit"`
	TotalPrice   json.Number `json:"totalPrice"`
}

// OrderPayload is the body of POST /api/orders; one is sent per vendor.
type OrderPayload struct {
	Vendor               string             `json:"vendor"`
	VendorName           string             `json:"vendorName"`
	VendorCompanyName    string             `json:"vendorCompanyName"`
	Items                []OrderItemPayload `json:"items"`
	TotalAmount          json.Number        `json:"totalAmount"`
	DeliveryAddress      string             `json:"deliveryAddress"`
	ExpectedDeliveryDate string             `json:"expectedDeliveryDate"`
	Notes                string             `json:"notes,omitempty"`
	CreatedBy            string             `json:"createdBy"`
}

// OrderRecord is an order as stored by the marketplace API.
type OrderRecord struct {
	ID                   string             `json:"_id"`
	OrderID              string             `json:"orderId,omitempty"`
	Vendor               VendorRef          `json:"vendor"`
	VendorName           string             `json:"vendorName,omitempty"`
	VendorCompanyName    string             `json:"vendorCompanyName,omitempty"`
	ItemsDescription     string             `json:"itemsDescription,omitempty"`
	Items                []OrderItemPayload `json:"items,omitempty"`
	TotalAmount          decimal.Decimal    `json:"totalAmount"`
	Status               string             `json:"status,omitempty"`
	DeliveryAddress      string             `json:"deliveryAddress,omitempty"`
	ExpectedDeliveryDate string             `json:"expectedDeliveryDate,omitempty"`
	CreatedBy            string             `json:"createdBy,omitempty"`
	CreatedAt            *time.Time         `json:"createdAt,omitempty"`
}

// DecimalNumber renders an exact decimal as a JSON number literal.
func DecimalNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
