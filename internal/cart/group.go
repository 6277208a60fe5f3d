package cart

import (
	"time"

	"github.com/foodsupplychain/procurement/pkg/enums"
	pkgerrors "github.com/foodsupplychain/procurement/pkg/errors"
	"github.com/shopspring/decimal"
)

// OrderItem is one cart line as it appears on a vendor order.
type OrderItem struct {
	ItemName     string                `json:"item_name"`
	Category     enums.ProductCategory `json:"category"`
	Quantity     int                   `json:"quantity"`
	Unit         enums.ProductUnit     `json:"unit"`
	PricePerUnit decimal.Decimal       `json:"price_per_unit"`
	TotalPrice   decimal.Decimal       `json:"total_price"`
}

// VendorOrderGroup is the per-vendor slice of a cart submitted as one order.
// It only lives for the duration of one submission attempt.
type VendorOrderGroup struct {
	VendorID             string          `json:"vendor_id"`
	VendorName           string          `json:"vendor_name"`
	VendorCompanyName    string          `json:"vendor_company_name"`
	Items                []OrderItem     `json:"items"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	DeliveryAddress      string          `json:"delivery_address"`
	ExpectedDeliveryDate time.Time       `json:"expected_delivery_date"`
	Notes                string          `json:"notes,omitempty"`
}

// DisplayName prefers the vendor company name.
func (g VendorOrderGroup) DisplayName() string {
	if g.VendorCompanyName != "" {
		return g.VendorCompanyName
	}
	return g.VendorName
}

// GroupByVendor partitions the cart by vendor id. Groups follow the order in
// which each vendor first appears, and a group's delivery address, date and
// notes come from that first line; later lines' delivery details are dropped.
func (c *Cart) GroupByVendor() ([]VendorOrderGroup, error) {
	if c.Len() == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	index := make(map[string]int)
	groups := make([]VendorOrderGroup, 0)
	for _, line := range c.Lines {
		pos, ok := index[line.VendorID]
		if !ok {
			pos = len(groups)
			index[line.VendorID] = pos
			groups = append(groups, VendorOrderGroup{
				VendorID:             line.VendorID,
				VendorName:           line.VendorName,
				VendorCompanyName:    line.VendorCompanyName,
				Items:                []OrderItem{},
				TotalAmount:          decimal.Zero,
				DeliveryAddress:      line.DeliveryAddress,
				ExpectedDeliveryDate: line.ExpectedDeliveryDate,
				Notes:                line.Notes,
			})
		}
		group := &groups[pos]
		group.Items = append(group.Items, orderItemFromLine(line))
		group.TotalAmount = group.TotalAmount.Add(line.LineTotal)
	}
	return groups, nil
}

func orderItemFromLine(line Line) OrderItem {
	category := line.Category
	if category == "" {
		category = enums.ProductCategoryGeneral
	}
	return OrderItem{
		ItemName:     line.ProductName,
		Category:     category,
		Quantity:     line.Quantity,
		Unit:         line.Unit,
		PricePerUnit: line.UnitPrice,
		TotalPrice:   line.LineTotal,
	}
}
