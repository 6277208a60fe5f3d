package cart

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/foodsupplychain/procurement/internal/catalog"
	pkgerrors "github.com/foodsupplychain/procurement/pkg/errors"
	"github.com/foodsupplychain/procurement/pkg/logger"
	"github.com/foodsupplychain/procurement/pkg/metrics"
	"github.com/foodsupplychain/procurement/pkg/session"
)

type productLookup interface {
	Product(ctx context.Context, sess session.Context, productID string) (*catalog.Product, error)
}

// Service manages the caller's cart.
type Service interface {
	Get(ctx context.Context, sess session.Context) (*Cart, error)
	AddLine(ctx context.Context, sess session.Context, input AddLineInput) (*Cart, error)
	RemoveLine(ctx context.Context, sess session.Context, index int) (*Cart, error)
	Clear(ctx context.Context, sess session.Context) error
}

// AddLineInput names the product by id; the service snapshots it from the catalog.
type AddLineInput struct {
	ProductID string
	LineInput
}

// ServiceParams wires the cart service.
type ServiceParams struct {
	Store    Store
	Products productLookup
	MaxLines int
	Metrics  *metrics.ProcurementMetrics
	Logger   *logger.Logger
	Now      func() time.Time
}

type service struct {
	store    Store
	products productLookup
	maxLines int
	metrics  *metrics.ProcurementMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds a cart service.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		store:    params.Store,
		products: params.Products,
		maxLines: params.MaxLines,
		metrics:  params.Metrics,
		logg:     params.Logger,
		now:      now,
	}, nil
}

func (s *service) Get(ctx context.Context, sess session.Context) (*Cart, error) {
	if !sess.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	cart, err := s.store.Load(ctx, sess.SessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func (s *service) AddLine(ctx context.Context, sess session.Context, input AddLineInput) (*Cart, error) {
	cart, err := s.Get(ctx, sess)
	if err != nil {
		return nil, err
	}
	if s.maxLines > 0 && cart.Len() >= s.maxLines {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("cart cannot hold more than %d lines", s.maxLines))
	}
	if strings.TrimSpace(input.ProductID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := s.products.Product(ctx, sess, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Orderable() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "product is currently unavailable")
	}

	line, err := cart.Add(*product, input.LineInput, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}

	s.metrics.IncCartMutation("add")
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"product_id": line.ProductID,
			"vendor_id":  line.VendorID,
			"quantity":   line.Quantity,
			"lines":      cart.Len(),
		})
		s.logg.Info(logCtx, "cart.line.added")
	}
	return cart, nil
}

func (s *service) RemoveLine(ctx context.Context, sess session.Context, index int) (*Cart, error) {
	cart, err := s.Get(ctx, sess)
	if err != nil {
		return nil, err
	}
	removed, err := cart.Remove(index, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}

	s.metrics.IncCartMutation("remove")
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{"product_id": removed.ProductID, "index": index})
		s.logg.Info(logCtx, "cart.line.removed")
	}
	return cart, nil
}

func (s *service) Clear(ctx context.Context, sess session.Context) error {
	if !sess.Valid() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := s.store.Delete(ctx, sess.SessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	s.metrics.IncCartMutation("clear")
	return nil
}
