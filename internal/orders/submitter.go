package orders

import (
	"context"

	"github.com/foodsupplychain/procurement/internal/cart"
	"github.com/foodsupplychain/procurement/pkg/backend"
	"github.com/foodsupplychain/procurement/pkg/logger"
	"github.com/foodsupplychain/procurement/pkg/session"
	"github.com/google/uuid"
)

type orderCreator interface {
	CreateOrder(ctx context.Context, token, idempotencyKey string, payload backend.OrderPayload) (*backend.OrderRecord, error)
}

// BackendSubmitter creates vendor orders through the marketplace API.
type BackendSubmitter struct {
	client orderCreator
	logg   *logger.Logger
}

// NewBackendSubmitter wraps the marketplace client.
func NewBackendSubmitter(client orderCreator, logg *logger.Logger) *BackendSubmitter {
	return &BackendSubmitter{client: client, logg: logg}
}

// For binds the submitter to the caller's session. Each call sends a fresh
// idempotency key so retries of a failed checkout are distinct attempts.
func (s *BackendSubmitter) For(sess session.Context) SubmitFunc {
	return func(ctx context.Context, group cart.VendorOrderGroup) (*Order, error) {
		key := uuid.NewString()
		if s.logg != nil {
			ctx = s.logg.WithVendorID(ctx, group.VendorID)
			ctx = s.logg.WithField(ctx, "idempotency_key", key)
		}
		rec, err := s.client.CreateOrder(ctx, sess.Token, key, BuildPayload(group, sess.UserID))
		if err != nil {
			if s.logg != nil {
				s.logg.Error(ctx, "orders.submit.failed", err)
			}
			return nil, err
		}
		order := NewOrder(*rec)
		if order.VendorID == "" {
			order.VendorID = group.VendorID
		}
		if s.logg != nil {
			s.logg.Info(s.logg.WithField(ctx, "order_id", order.DisplayID()), "orders.submit.created")
		}
		return &order, nil
	}
}

// BuildPayload renders a vendor group as an order creation request.
func BuildPayload(group cart.VendorOrderGroup, createdBy string) backend.OrderPayload {
	items := make([]backend.OrderItemPayload, 0, len(group.Items))
	for _, item := range group.Items {
		items = append(items, backend.OrderItemPayload{
			ItemName:     item.ItemName,
			Category:     item.Category.String(),
			Quantity:     item.Quantity,
			Unit:         item.Unit.String(),
			PricePerUnit: backend.DecimalNumber(item.PricePerUnit),
			TotalPrice:   backend.DecimalNumber(item.TotalPrice),
		})
	}
	return backend.OrderPayload{
		Vendor:               group.VendorID,
		VendorName:           group.VendorName,
		VendorCompanyName:    group.VendorCompanyName,
		Items:                items,
		TotalAmount:          backend.DecimalNumber(group.TotalAmount),
		DeliveryAddress:      group.DeliveryAddress,
		ExpectedDeliveryDate: group.ExpectedDeliveryDate.Format(cart.DateLayout),
		Notes:                group.Notes,
		CreatedBy:            createdBy,
	}
}
