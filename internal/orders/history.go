package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/foodsupplychain/procurement/pkg/backend"
	"github.com/foodsupplychain/procurement/pkg/enums"
	pkgerrors "github.com/foodsupplychain/procurement/pkg/errors"
	"github.com/foodsupplychain/procurement/pkg/session"
)

// HistoryQuery filters the caller's past orders.
type HistoryQuery struct {
	Status enums.OrderStatus
	Query  string
}

// History is a filtered order list plus per-status counts over all orders.
type History struct {
	Orders       []Order                   `json:"orders"`
	StatusCounts map[enums.OrderStatus]int `json:"status_counts"`
	Total        int                       `json:"total"`
}

// FilterHistory keeps orders whose status matches (All matches every status)
// and whose order number, vendor name or items description contains query,
// case-insensitively. Input order is preserved.
func FilterHistory(orders []Order, status enums.OrderStatus, query string) []Order {
	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if status != "" && status != enums.OrderStatusAll && o.Status != status {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(o.OrderNumber), needle) &&
			!strings.Contains(strings.ToLower(o.VendorDisplayName()), needle) &&
			!strings.Contains(strings.ToLower(o.ItemsDescription), needle) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// CountByStatus tallies orders per reported status.
func CountByStatus(orders []Order) map[enums.OrderStatus]int {
	counts := make(map[enums.OrderStatus]int)
	for _, o := range orders {
		counts[o.Status]++
	}
	return counts
}

type orderLister interface {
	ListOrders(ctx context.Context, token string) ([]backend.OrderRecord, error)
}

// HistoryService lists the caller's orders from the marketplace.
type HistoryService interface {
	List(ctx context.Context, sess session.Context, query HistoryQuery) (*History, error)
}

type historyService struct {
	client orderLister
}

// NewHistoryService wraps the marketplace client.
func NewHistoryService(client orderLister) (HistoryService, error) {
	if client == nil {
		return nil, fmt.Errorf("order lister required")
	}
	return &historyService{client: client}, nil
}

func (s *historyService) List(ctx context.Context, sess session.Context, query HistoryQuery) (*History, error) {
	if !sess.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	records, err := s.client.ListOrders(ctx, sess.Token)
	if err != nil {
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to fetch orders")
		}
		return nil, err
	}
	all := make([]Order, 0, len(records))
	for _, rec := range records {
		all = append(all, NewOrder(rec))
	}
	filtered := FilterHistory(all, query.Status, query.Query)
	return &History{
		Orders:       filtered,
		StatusCounts: CountByStatus(all),
		Total:        len(all),
	}, nil
}
