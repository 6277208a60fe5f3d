package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foodsupplychain/procurement/pkg/backend"
	"github.com/foodsupplychain/procurement/pkg/enums"
	pkgerrors "github.com/foodsupplychain/procurement/pkg/errors"
	"github.com/foodsupplychain/procurement/pkg/session"
	"github.com/shopspring/decimal"
)

type stubSource struct {
	products []Product
	err      error
	calls    int
}

func (s *stubSource) ListProducts(ctx context.Context, sess session.Context) ([]Product, error) {
	s.calls++
	return s.products, s.err
}

func testSession() session.Context {
	return session.New("tok", "user-1", "sess-1", enums.UserRoleProcurement)
}

func TestBrowseFiltersAndCaches(t *testing.T) {
	src := &stubSource{products: sampleCatalog()}
	svc, err := NewService(ServiceParams{Source: src, Cache: NewMemoryCache(), CacheTTL: time.Minute})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	listing, err := svc.Browse(context.Background(), testSession(), BrowseQuery{Query: "acme"})
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if listing.Total != 1 || listing.Products[0].ID != "p1" {
		t.Fatalf("unexpected listing %+v", listing)
	}
	if len(listing.Categories) != 7 || listing.Categories[0] != enums.ProductCategoryAll {
		t.Fatalf("unexpected categories %v", listing.Categories)
	}

	if _, err := svc.Browse(context.Background(), testSession(), BrowseQuery{Category: enums.ProductCategoryDairy}); err != nil {
		t.Fatalf("browse: %v", err)
	}
	if src.calls != 1 {
		t.Fatalf("expected second browse to hit cache, source calls=%d", src.calls)
	}
}

func TestBrowseWithoutCacheAlwaysFetches(t *testing.T) {
	src := &stubSource{products: sampleCatalog()}
	svc, _ := NewService(ServiceParams{Source: src})
	for i := 0; i < 2; i++ {
		if _, err := svc.Browse(context.Background(), testSession(), BrowseQuery{}); err != nil {
			t.Fatalf("browse: %v", err)
		}
	}
	if src.calls != 2 {
		t.Fatalf("expected 2 source calls, got %d", src.calls)
	}
}

func TestBrowseWrapsSourceErrors(t *testing.T) {
	svc, _ := NewService(ServiceParams{Source: &stubSource{err: errors.New("dial tcp: refused")}})
	_, err := svc.Browse(context.Background(), testSession(), BrowseQuery{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}

	upstream := pkgerrors.New(pkgerrors.CodeUnauthorized, "Token expired")
	svc, _ = NewService(ServiceParams{Source: &stubSource{err: upstream}})
	_, err = svc.Browse(context.Background(), testSession(), BrowseQuery{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected typed source error to pass through, got %v", err)
	}
}

func TestBrowseRequiresSession(t *testing.T) {
	svc, _ := NewService(ServiceParams{Source: &stubSource{}})
	_, err := svc.Browse(context.Background(), session.Context{}, BrowseQuery{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestProductLookup(t *testing.T) {
	svc, _ := NewService(ServiceParams{Source: &stubSource{products: sampleCatalog()}})

	p, err := svc.Product(context.Background(), testSession(), "p3")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if p.Name != "Wheat" {
		t.Fatalf("unexpected product %+v", p)
	}

	if _, err := svc.Product(context.Background(), testSession(), "missing"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Product(context.Background(), testSession(), " "); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewServiceRequiresSource(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatalf("expected error without source")
	}
}

type stubLister struct {
	records []backend.ProductRecord
}

func (s stubLister) ListVendorProducts(ctx context.Context, token string) ([]backend.ProductRecord, error) {
	return s.records, nil
}

func TestBackendSourceSkipsInvalidRecords(t *testing.T) {
	src := NewBackendSource(stubLister{records: []backend.ProductRecord{
		{ID: "p1", ProductName: "Rice", Vendor: "v1", PricePerUnit: decimal.NewFromInt(20), Quantity: decimal.NewFromInt(3), IsAvailable: true},
		{ID: "p2", ProductName: "", Vendor: "v1"},
	}}, nil)

	products, err := src.ListProducts(context.Background(), testSession())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(products) != 1 || products[0].ID != "p1" {
		t.Fatalf("unexpected products %+v", products)
	}
}
