package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	cartdto "github.com/foodsupplychain/procurement/api/controllers/cart/dto"
	cartsvc "github.com/foodsupplychain/procurement/internal/cart"
	"github.com/foodsupplychain/procurement/internal/catalog"
	"github.com/foodsupplychain/procurement/pkg/enums"
	pkgerrors "github.com/foodsupplychain/procurement/pkg/errors"
	"github.com/foodsupplychain/procurement/pkg/session"
	"github.com/foodsupplychain/procurement/pkg/types"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2030, 3, 10, 9, 0, 0, 0, time.UTC)

type stubProducts struct{}

func (stubProducts) Product(ctx context.Context, sess session.Context, productID string) (*catalog.Product, error) {
	products := map[string]catalog.Product{
		"rice": {ID: "rice", Name: "Rice", Category: enums.ProductCategoryGrains, VendorID: "V1", VendorCompanyName: "Acme Farms", Unit: enums.ProductUnitKg, PricePerUnit: decimal.NewFromInt(20), AvailableQuantity: 50, Available: true},
		"milk": {ID: "milk", Name: "Milk", Category: enums.ProductCategoryDairy, VendorID: "V2", VendorName: "Sunrise", Unit: enums.ProductUnitLiters, PricePerUnit: decimal.NewFromInt(50), AvailableQuantity: 4, Available: true},
	}
	p, ok := products[productID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &p, nil
}

func newService(t *testing.T) cartsvc.Service {
	t.Helper()
	svc, err := cartsvc.NewService(cartsvc.ServiceParams{
		Store:    cartsvc.NewMemoryStore(time.Hour),
		Products: stubProducts{},
		Now:      func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("new cart service: %v", err)
	}
	return svc
}

func withSession(req *http.Request) *http.Request {
	sess := session.New("tok", "user-1", "sess-1", enums.UserRoleProcurement)
	return req.WithContext(session.WithContext(req.Context(), sess))
}

func router(svc cartsvc.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/cart", CartFetch(svc, nil))
	r.Post("/cart/lines", CartAddLine(svc, nil))
	r.Delete("/cart/lines/{index}", CartRemoveLine(svc, nil))
	r.Delete("/cart", CartClear(svc, nil))
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, withSession(req))
	return resp
}

func decodeCart(t *testing.T, resp *httptest.ResponseRecorder) cartdto.Cart {
	t.Helper()
	var envelope struct {
		Data cartdto.Cart `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) types.APIError {
	t.Helper()
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return envelope.Error
}

func TestCartAddFetchRemoveClear(t *testing.T) {
	h := router(newService(t))

	resp := do(t, h, http.MethodPost, "/cart/lines", `{"productId":"rice","quantity":10,"deliveryAddress":"12 Market Road","expectedDeliveryDate":"2030-03-12","notes":"gate 2"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	resp = do(t, h, http.MethodPost, "/cart/lines", `{"productId":"milk","quantity":"2","deliveryAddress":"12 Market Road","expectedDeliveryDate":"2030-03-12"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	c := decodeCart(t, do(t, h, http.MethodGet, "/cart", ""))
	if c.LineCount != 2 || c.VendorCount != 2 || !c.Total.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("unexpected cart %+v", c)
	}
	if c.Lines[0].ExpectedDeliveryDate != "2030-03-12" || c.Lines[0].VendorName != "Acme Farms" || c.Lines[1].VendorName != "Sunrise" {
		t.Fatalf("unexpected lines %+v", c.Lines)
	}

	resp = do(t, h, http.MethodDelete, "/cart/lines/0", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	c = decodeCart(t, resp)
	if c.LineCount != 1 || c.Lines[0].ProductID != "milk" || c.Lines[0].Index != 0 {
		t.Fatalf("unexpected cart after remove %+v", c)
	}

	resp = do(t, h, http.MethodDelete, "/cart", "")
	if resp.Code != http.StatusOK || decodeCart(t, resp).LineCount != 0 {
		t.Fatalf("expected empty cart after clear")
	}
}

func TestCartAddLineErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   pkgerrors.Code
	}{
		{"quantity above stock", `{"productId":"milk","quantity":5,"deliveryAddress":"x","expectedDeliveryDate":"2030-03-12"}`, http.StatusBadRequest, pkgerrors.CodeInvalidQuantity},
		{"non-numeric quantity", `{"productId":"milk","quantity":"lots","deliveryAddress":"x","expectedDeliveryDate":"2030-03-12"}`, http.StatusBadRequest, pkgerrors.CodeInvalidQuantity},
		{"missing address", `{"productId":"milk","quantity":1,"expectedDeliveryDate":"2030-03-12"}`, http.StatusBadRequest, pkgerrors.CodeMissingDeliveryInfo},
		{"missing date", `{"productId":"milk","quantity":1,"deliveryAddress":"x"}`, http.StatusBadRequest, pkgerrors.CodeMissingDeliveryInfo},
		{"past date", `{"productId":"milk","quantity":1,"deliveryAddress":"x","expectedDeliveryDate":"2030-03-01"}`, http.StatusBadRequest, pkgerrors.CodeMissingDeliveryInfo},
		{"unknown product", `{"productId":"salt","quantity":1,"deliveryAddress":"x","expectedDeliveryDate":"2030-03-12"}`, http.StatusNotFound, pkgerrors.CodeNotFound},
		{"malformed date", `{"productId":"milk","quantity":1,"deliveryAddress":"x","expectedDeliveryDate":"12/03/2030"}`, http.StatusBadRequest, pkgerrors.CodeValidation},
		{"missing product id", `{"quantity":1}`, http.StatusBadRequest, pkgerrors.CodeValidation},
		{"unknown field", `{"productId":"milk","qty":1}`, http.StatusBadRequest, pkgerrors.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := router(newService(t))
			resp := do(t, h, http.MethodPost, "/cart/lines", tt.body)
			if resp.Code != tt.status {
				t.Fatalf("expected %d got %d: %s", tt.status, resp.Code, resp.Body.String())
			}
			if got := decodeError(t, resp); got.Code != string(tt.code) {
				t.Fatalf("expected code %s got %s", tt.code, got.Code)
			}
			if c := decodeCart(t, do(t, h, http.MethodGet, "/cart", "")); c.LineCount != 0 {
				t.Fatalf("cart changed on failure")
			}
		})
	}
}

func TestCartRemoveLineOutOfRange(t *testing.T) {
	h := router(newService(t))
	for _, path := range []string{"/cart/lines/0", "/cart/lines/-1", "/cart/lines/abc"} {
		resp := do(t, h, http.MethodDelete, path, "")
		if resp.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404 got %d", path, resp.Code)
		}
		if got := decodeError(t, resp); got.Code != string(pkgerrors.CodeIndexOutOfRange) {
			t.Fatalf("%s: unexpected code %s", path, got.Code)
		}
	}
}

func TestCartFetchRequiresSession(t *testing.T) {
	resp := httptest.NewRecorder()
	CartFetch(newService(t), nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/cart", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
