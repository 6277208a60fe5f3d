package orders

import (
	"context"
	"testing"
	"time"

	"github.com/foodsupplychain/procurement/internal/cart"
	"github.com/foodsupplychain/procurement/internal/catalog"
	"github.com/foodsupplychain/procurement/pkg/enums"
	pkgerrors "github.com/foodsupplychain/procurement/pkg/errors"
	"github.com/foodsupplychain/procurement/pkg/metrics"
	"github.com/foodsupplychain/procurement/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCarts struct {
	cart    *cart.Cart
	cleared int
}

func (s *stubCarts) Get(ctx context.Context, sess session.Context) (*cart.Cart, error) {
	return s.cart, nil
}

func (s *stubCarts) Clear(ctx context.Context, sess session.Context) error {
	s.cleared++
	return nil
}

type stubFactory struct {
	rec *recordingSubmitter
}

func (f stubFactory) For(sess session.Context) SubmitFunc { return f.rec.submit }

func scenarioCart(t *testing.T) *cart.Cart {
	t.Helper()
	now := time.Date(2030, 3, 10, 9, 0, 0, 0, time.UTC)
	c := cart.New("sess-1")
	lines := []struct {
		id, vendor string
		qty        int
		price      int64
	}{
		{"Rice", "V1", 10, 20},
		{"Wheat", "V1", 5, 30},
		{"Milk", "V2", 2, 50},
	}
	for _, l := range lines {
		p := catalog.Product{ID: l.id, Name: l.id, VendorID: l.vendor, PricePerUnit: decimal.NewFromInt(l.price), AvailableQuantity: 100, Available: true}
		_, err := c.Add(p, cart.LineInput{Quantity: l.qty, DeliveryAddress: "12 Market Road", ExpectedDeliveryDate: now.AddDate(0, 0, 1)}, now)
		require.NoError(t, err)
	}
	return c
}

func newPlacement(t *testing.T, carts *stubCarts, rec *recordingSubmitter) PlacementService {
	t.Helper()
	svc, err := NewPlacementService(PlacementParams{
		Carts:     carts,
		Submitter: stubFactory{rec: rec},
		Metrics:   metrics.NewProcurementMetrics(prometheus.NewRegistry()),
	})
	require.NoError(t, err)
	return svc
}

func buyer() session.Context {
	return session.New("tok", "user-1", "sess-1", enums.UserRoleProcurement)
}

func TestPlaceClearsCartOnFullSuccess(t *testing.T) {
	carts := &stubCarts{cart: scenarioCart(t)}
	rec := &recordingSubmitter{}

	result, err := newPlacement(t, carts, rec).Place(context.Background(), buyer())
	require.NoError(t, err)
	assert.Equal(t, 2, result.SucceededCount)
	assert.True(t, result.Orders[0].TotalAmount.Equal(decimal.NewFromInt(350)))
	assert.True(t, result.Orders[1].TotalAmount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 1, carts.cleared)
}

func TestPlaceKeepsCartWhenAVendorFails(t *testing.T) {
	carts := &stubCarts{cart: scenarioCart(t)}
	rec := &recordingSubmitter{failures: map[string]error{
		"V2": marketplaceErr(pkgerrors.CodeValidation, 400, "Milk is out of stock"),
	}}

	result, err := newPlacement(t, carts, rec).Place(context.Background(), buyer())
	require.Error(t, err)
	assert.True(t, IsSubmissionFailure(err))
	assert.Contains(t, pkgerrors.As(err).Message(), "Milk is out of stock")
	assert.Equal(t, 0, carts.cleared)
	assert.Equal(t, 1, result.SucceededCount)
	assert.Equal(t, "order-V1", result.Orders[0].ID)
	assert.Equal(t, 3, carts.cart.Len())
}

func TestPlaceEmptyCart(t *testing.T) {
	carts := &stubCarts{cart: cart.New("sess-1")}
	rec := &recordingSubmitter{}
	_, err := newPlacement(t, carts, rec).Place(context.Background(), buyer())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeEmptyCart))
	assert.Empty(t, rec.submitted)
}

func TestNewPlacementServiceValidates(t *testing.T) {
	_, err := NewPlacementService(PlacementParams{Submitter: stubFactory{}})
	assert.Error(t, err)
	_, err = NewPlacementService(PlacementParams{Carts: &stubCarts{}})
	assert.Error(t, err)
}

func TestPlaceSettlesAfterCallerCancels(t *testing.T) {
	carts := &stubCarts{cart: scenarioCart(t)}
	started := make(chan struct{}, 2)
	slow := func(ctx context.Context, group cart.VendorOrderGroup) (*Order, error) {
		started <- struct{}{}
		select {
		case <-time.After(50 * time.Millisecond):
			return &Order{ID: "order-" + group.VendorID, VendorID: group.VendorID, TotalAmount: group.TotalAmount}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	svc, err := NewPlacementService(PlacementParams{Carts: carts, Submitter: funcFactory(slow)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-started
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	result, err := svc.Place(ctx, buyer())
	require.NoError(t, err)
	assert.Equal(t, 2, result.SucceededCount)
	for _, outcome := range result.Outcomes {
		assert.True(t, outcome.Succeeded, "vendor %s", outcome.VendorID)
	}
	assert.Equal(t, 1, carts.cleared)
}

type funcFactory SubmitFunc

func (f funcFactory) For(session.Context) SubmitFunc { return SubmitFunc(f) }
