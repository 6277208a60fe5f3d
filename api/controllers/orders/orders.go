package orders

import (
	"net/http"

	"github.com/foodsupplychain/procurement/api/middleware"
	"github.com/foodsupplychain/procurement/api/responses"
	"github.com/foodsupplychain/procurement/api/validators"
	ordersvc "github.com/foodsupplychain/procurement/internal/orders"
	"github.com/foodsupplychain/procurement/pkg/enums"
	pkgerrors "github.com/foodsupplychain/procurement/pkg/errors"
	"github.com/foodsupplychain/procurement/pkg/logger"
)

const (
	maxSearchLength = 100
	maxHistoryLimit = 200
)

type placeOrdersResponse struct {
	SucceededCount int              `json:"succeeded_count"`
	Orders         []ordersvc.Order `json:"orders"`
}

// PlaceOrders splits the caller's cart by vendor and submits one order per vendor.
func PlaceOrders(svc ordersvc.PlacementService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		sess, err := middleware.SessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Place(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, placeOrdersResponse{
			SucceededCount: result.SucceededCount,
			Orders:         result.Orders,
		})
	}
}

// OrderHistory lists the caller's orders filtered by ?status= and ?q=.
func OrderHistory(svc ordersvc.HistoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		sess, err := middleware.SessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(r.URL.Query().Get("status"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status").WithDetails(map[string]any{"field": "status"}))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, maxHistoryLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query, err := validators.ParseSearchQuery(r, "q", maxSearchLength)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := svc.List(r.Context(), sess, ordersvc.HistoryQuery{
			Status: status,
			Query:  query,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if limit > 0 && len(history.Orders) > limit {
			history.Orders = history.Orders[:limit]
		}
		responses.WriteSuccess(w, history)
	}
}
