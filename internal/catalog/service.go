package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/foodsupplychain/procurement/pkg/enums"
	pkgerrors "github.com/foodsupplychain/procurement/pkg/errors"
	"github.com/foodsupplychain/procurement/pkg/logger"
	"github.com/foodsupplychain/procurement/pkg/metrics"
	"github.com/foodsupplychain/procurement/pkg/session"
)

// Service exposes catalog browsing and product lookup for the ordering flow.
type Service interface {
	Browse(ctx context.Context, sess session.Context, query BrowseQuery) (*Listing, error)
	Product(ctx context.Context, sess session.Context, productID string) (*Product, error)
}

// BrowseQuery holds the free-text search and category selector.
type BrowseQuery struct {
	Query    string
	Category enums.ProductCategory
}

// Listing is a filtered catalog page.
type Listing struct {
	Products   []Product
	Categories []enums.ProductCategory
	Total      int
}

// ServiceParams wires the catalog service.
type ServiceParams struct {
	Source   Source
	Cache    Cache
	CacheTTL time.Duration
	Metrics  *metrics.ProcurementMetrics
	Logger   *logger.Logger
}

type service struct {
	source   Source
	cache    Cache
	cacheTTL time.Duration
	metrics  *metrics.ProcurementMetrics
	logg     *logger.Logger
}

// NewService builds the catalog service. Cache is optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Source == nil {
		return nil, fmt.Errorf("product source required")
	}
	return &service{
		source:   params.Source,
		cache:    params.Cache,
		cacheTTL: params.CacheTTL,
		metrics:  params.Metrics,
		logg:     params.Logger,
	}, nil
}

func (s *service) Browse(ctx context.Context, sess session.Context, query BrowseQuery) (*Listing, error) {
	category := query.Category
	if category == "" {
		category = enums.ProductCategoryAll
	}
	products, err := s.load(ctx, sess)
	if err != nil {
		return nil, err
	}
	filtered := FilterCatalog(products, query.Query, category)
	return &Listing{
		Products:   filtered,
		Categories: enums.BrowsableCategories(),
		Total:      len(filtered),
	}, nil
}

// Product returns the current snapshot of one product.
func (s *service) Product(ctx context.Context, sess session.Context, productID string) (*Product, error) {
	id := strings.TrimSpace(productID)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	products, err := s.load(ctx, sess)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			p := products[i]
			return &p, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s *service) load(ctx context.Context, sess session.Context) ([]Product, error) {
	if !sess.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if s.cache != nil {
		products, ok, err := s.cache.Get(ctx, sess.UserID)
		if err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "cache_error", err.Error()), "catalog.cache.read_failed")
		}
		if ok {
			s.metrics.IncCatalogCache(true)
			return products, nil
		}
		s.metrics.IncCatalogCache(false)
	}

	products, err := s.source.ListProducts(ctx, sess)
	if err != nil {
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to fetch products")
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, sess.UserID, products, s.cacheTTL); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "cache_error", err.Error()), "catalog.cache.write_failed")
		}
	}
	return products, nil
}
