package cart

import (
	cartdto "github.com/foodsupplychain/procurement/api/controllers/cart/dto"
	"github.com/foodsupplychain/procurement/api/validators"
	"github.com/foodsupplychain/procurement/internal/cart"
)

const (
	maxAddressLength = 500
	maxNotesLength   = 1000
)

func toAddLineInput(payload cartdto.AddLineRequest) (cart.AddLineInput, error) {
	quantity, err := cart.ParseQuantity(payload.Quantity)
	if err != nil {
		return cart.AddLineInput{}, err
	}
	address := validators.SanitizeString(payload.DeliveryAddress, maxAddressLength)
	expected, err := cart.ParseDeliveryDate(payload.ExpectedDeliveryDate)
	if err != nil {
		return cart.AddLineInput{}, err
	}
	return cart.AddLineInput{
		ProductID: validators.SanitizeString(payload.ProductID, 0),
		LineInput: cart.LineInput{
			Quantity:             quantity,
			DeliveryAddress:      address,
			ExpectedDeliveryDate: expected,
			Notes:                validators.SanitizeString(payload.Notes, maxNotesLength),
		},
	}, nil
}
