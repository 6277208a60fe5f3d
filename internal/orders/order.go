package orders

import (
	"strings"
	"time"

	"github.com/foodsupplychain/procurement/pkg/backend"
	"github.com/foodsupplychain/procurement/pkg/enums"
	"github.com/shopspring/decimal"
)

// Order is a vendor order as created or listed by the marketplace.
type Order struct {
	ID                   string            `json:"id"`
	OrderNumber          string            `json:"order_number,omitempty"`
	VendorID             string            `json:"vendor_id"`
	VendorName           string            `json:"vendor_name,omitempty"`
	VendorCompanyName    string            `json:"vendor_company_name,omitempty"`
	ItemsDescription     string            `json:"items_description"`
	ItemCount            int               `json:"item_count"`
	TotalAmount          decimal.Decimal   `json:"total_amount"`
	Status               enums.OrderStatus `json:"status"`
	DeliveryAddress      string            `json:"delivery_address,omitempty"`
	ExpectedDeliveryDate string            `json:"expected_delivery_date,omitempty"`
	CreatedBy            string            `json:"created_by,omitempty"`
	CreatedAt            *time.Time        `json:"created_at,omitempty"`
}

// NewOrder maps a marketplace record. Orders without a status are pending and
// a missing items description is derived from the item names.
func NewOrder(rec backend.OrderRecord) Order {
	status := enums.OrderStatus(strings.TrimSpace(rec.Status))
	if status == "" {
		status = enums.OrderStatusPending
	}
	description := strings.TrimSpace(rec.ItemsDescription)
	if description == "" && len(rec.Items) > 0 {
		names := make([]string, 0, len(rec.Items))
		for _, item := range rec.Items {
			if name := strings.TrimSpace(item.ItemName); name != "" {
				names = append(names, name)
			}
		}
		description = strings.Join(names, ", ")
	}
	return Order{
		ID:                   rec.ID,
		OrderNumber:          rec.OrderID,
		VendorID:             string(rec.Vendor),
		VendorName:           rec.VendorName,
		VendorCompanyName:    rec.VendorCompanyName,
		ItemsDescription:     description,
		ItemCount:            len(rec.Items),
		TotalAmount:          rec.TotalAmount,
		Status:               status,
		DeliveryAddress:      rec.DeliveryAddress,
		ExpectedDeliveryDate: rec.ExpectedDeliveryDate,
		CreatedBy:            rec.CreatedBy,
		CreatedAt:            rec.CreatedAt,
	}
}

// DisplayID prefers the human readable order number.
func (o Order) DisplayID() string {
	if o.OrderNumber != "" {
		return o.OrderNumber
	}
	return o.ID
}

// VendorDisplayName prefers the vendor company name.
func (o Order) VendorDisplayName() string {
	if o.VendorCompanyName != "" {
		return o.VendorCompanyName
	}
	return o.VendorName
}
