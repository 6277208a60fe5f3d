package cart

import (
	cartdto "github.com/foodsupplychain/procurement/api/controllers/cart/dto"
	"github.com/foodsupplychain/procurement/internal/cart"
)

func newCartResponse(c *cart.Cart) cartdto.Cart {
	lines := make([]cartdto.CartLine, 0, c.Len())
	vendors := map[string]struct{}{}
	for i, line := range c.Lines {
		vendors[line.VendorID] = struct{}{}
		vendorName := line.VendorCompanyName
		if vendorName == "" {
			vendorName = line.VendorName
		}
		lines = append(lines, cartdto.CartLine{
			Index:                i,
			ID:                   line.ID,
			ProductID:            line.ProductID,
			ProductName:          line.ProductName,
			Category:             line.Category.String(),
			VendorID:             line.VendorID,
			VendorName:           vendorName,
			Unit:                 line.Unit.String(),
			Quantity:             line.Quantity,
			UnitPrice:            line.UnitPrice,
			LineTotal:            line.LineTotal,
			DeliveryAddress:      line.DeliveryAddress,
			ExpectedDeliveryDate: line.ExpectedDeliveryDate.Format(cart.DateLayout),
			Notes:                line.Notes,
		})
	}
	return cartdto.Cart{
		Lines:       lines,
		LineCount:   len(lines),
		VendorCount: len(vendors),
		Total:       c.Total(),
	}
}
