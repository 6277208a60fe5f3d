package catalog

import (
	"context"

	"github.com/foodsupplychain/procurement/pkg/backend"
	"github.com/foodsupplychain/procurement/pkg/logger"
	"github.com/foodsupplychain/procurement/pkg/session"
)

// Source fetches the full product list visible to a caller.
type Source interface {
	ListProducts(ctx context.Context, sess session.Context) ([]Product, error)
}

type productLister interface {
	ListVendorProducts(ctx context.Context, token string) ([]backend.ProductRecord, error)
}

// BackendSource reads products from the marketplace API.
type BackendSource struct {
	client productLister
	logg   *logger.Logger
}

// NewBackendSource wraps the marketplace client.
func NewBackendSource(client productLister, logg *logger.Logger) *BackendSource {
	return &BackendSource{client: client, logg: logg}
}

// ListProducts converts marketplace records, dropping ones that fail validation.
func (s *BackendSource) ListProducts(ctx context.Context, sess session.Context) ([]Product, error) {
	records, err := s.client.ListVendorProducts(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(records))
	for _, rec := range records {
		p, err := NewProduct(rec)
		if err != nil {
			if s.logg != nil {
				s.logg.Warn(s.logg.WithField(ctx, "product_id", rec.ID), "catalog.product.skipped: "+err.Error())
			}
			continue
		}
		products = append(products, p)
	}
	return products, nil
}
