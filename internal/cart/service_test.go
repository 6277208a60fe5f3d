package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foodsupplychain/procurement/internal/catalog"
	"github.com/foodsupplychain/procurement/pkg/enums"
	pkgerrors "github.com/foodsupplychain/procurement/pkg/errors"
	"github.com/foodsupplychain/procurement/pkg/metrics"
	"github.com/foodsupplychain/procurement/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProducts struct {
	products map[string]catalog.Product
}

func (s stubProducts) Product(ctx context.Context, sess session.Context, productID string) (*catalog.Product, error) {
	p, ok := s.products[productID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &p, nil
}

func newTestService(t *testing.T, maxLines int) (Service, *MemoryStore) {
	t.Helper()
	unavailable := product("gone", "Saffron", "V3", 500, 4)
	unavailable.Available = false
	store := NewMemoryStore(time.Hour)
	svc, err := NewService(ServiceParams{
		Store: store,
		Products: stubProducts{products: map[string]catalog.Product{
			"rice": product("rice", "Rice", "V1", 20, 100),
			"milk": product("milk", "Milk", "V2", 50, 5),
			"gone": unavailable,
		}},
		MaxLines: maxLines,
		Metrics:  metrics.NewProcurementMetrics(prometheus.NewRegistry()),
		Now:      func() time.Time { return testNow },
	})
	require.NoError(t, err)
	return svc, store
}

func buyer() session.Context {
	return session.New("tok", "user-1", "sess-1", enums.UserRoleProcurement)
}

func addInput(productID string, qty int) AddLineInput {
	return AddLineInput{ProductID: productID, LineInput: input(qty)}
}

func TestServiceAddGetRemoveClear(t *testing.T) {
	svc, _ := newTestService(t, 0)
	ctx := context.Background()

	c, err := svc.AddLine(ctx, buyer(), addInput("rice", 10))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = svc.AddLine(ctx, buyer(), addInput("milk", 2))
	require.NoError(t, err)

	got, err := svc.Get(ctx, buyer())
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, "300", got.Total().String())

	got, err = svc.RemoveLine(ctx, buyer(), 0)
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, "milk", got.Lines[0].ProductID)

	require.NoError(t, svc.Clear(ctx, buyer()))
	got, err = svc.Get(ctx, buyer())
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestServiceCartsAreScopedBySession(t *testing.T) {
	svc, _ := newTestService(t, 0)
	ctx := context.Background()
	_, err := svc.AddLine(ctx, buyer(), addInput("rice", 1))
	require.NoError(t, err)

	other := session.New("tok2", "user-2", "sess-2", enums.UserRoleProcurement)
	got, err := svc.Get(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestServiceAddFailuresLeaveCartUnchanged(t *testing.T) {
	svc, store := newTestService(t, 0)
	ctx := context.Background()
	_, err := svc.AddLine(ctx, buyer(), addInput("rice", 1))
	require.NoError(t, err)

	cases := []struct {
		in   AddLineInput
		code pkgerrors.Code
	}{
		{addInput("milk", 6), pkgerrors.CodeInvalidQuantity},
		{addInput("gone", 1), pkgerrors.CodeInvalidQuantity},
		{addInput("unknown", 1), pkgerrors.CodeNotFound},
		{addInput(" ", 1), pkgerrors.CodeValidation},
		{AddLineInput{ProductID: "rice", LineInput: LineInput{Quantity: 1}}, pkgerrors.CodeMissingDeliveryInfo},
	}
	for _, tc := range cases {
		_, err := svc.AddLine(ctx, buyer(), tc.in)
		assert.True(t, pkgerrors.IsCode(err, tc.code), "input %+v: got %v", tc.in, err)
	}

	stored, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Len())
}

func TestServiceMaxLines(t *testing.T) {
	svc, _ := newTestService(t, 1)
	ctx := context.Background()
	_, err := svc.AddLine(ctx, buyer(), addInput("rice", 1))
	require.NoError(t, err)
	_, err = svc.AddLine(ctx, buyer(), addInput("milk", 1))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
}

func TestServiceRemoveOutOfRange(t *testing.T) {
	svc, _ := newTestService(t, 0)
	_, err := svc.RemoveLine(context.Background(), buyer(), 0)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeIndexOutOfRange), "got %v", err)
}

func TestServiceRequiresSession(t *testing.T) {
	svc, _ := newTestService(t, 0)
	_, err := svc.Get(context.Background(), session.Context{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	assert.True(t, pkgerrors.IsCode(svc.Clear(context.Background(), session.Context{}), pkgerrors.CodeUnauthorized))
}

type failingStore struct{}

func (failingStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	return nil, errors.New("redis down")
}

func (failingStore) Save(ctx context.Context, cart *Cart) error { return errors.New("redis down") }

func (failingStore) Delete(ctx context.Context, sessionID string) error {
	return errors.New("redis down")
}

func TestServiceWrapsStoreErrors(t *testing.T) {
	svc, err := NewService(ServiceParams{Store: failingStore{}, Products: stubProducts{}})
	require.NoError(t, err)
	_, err = svc.Get(context.Background(), buyer())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency), "got %v", err)
	assert.True(t, pkgerrors.IsCode(svc.Clear(context.Background(), buyer()), pkgerrors.CodeDependency))
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{Products: stubProducts{}})
	assert.Error(t, err)
	_, err = NewService(ServiceParams{Store: NewMemoryStore(0)})
	assert.Error(t, err)
}
