package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/foodsupplychain/procurement/internal/cart"
	pkgerrors "github.com/foodsupplychain/procurement/pkg/errors"
	"github.com/foodsupplychain/procurement/pkg/logger"
	"github.com/foodsupplychain/procurement/pkg/metrics"
	"github.com/foodsupplychain/procurement/pkg/session"
)

const outcomePartial = "partial"

type cartAccess interface {
	Get(ctx context.Context, sess session.Context) (*cart.Cart, error)
	Clear(ctx context.Context, sess session.Context) error
}

type submitterFactory interface {
	For(sess session.Context) SubmitFunc
}

// PlacementService turns the caller's cart into one order per vendor.
type PlacementService interface {
	Place(ctx context.Context, sess session.Context) (*SubmissionResult, error)
}

// PlacementParams wires the placement service.
type PlacementParams struct {
	Carts         cartAccess
	Submitter     submitterFactory
	MaxConcurrent int
	Metrics       *metrics.ProcurementMetrics
	Logger        *logger.Logger
}

type placementService struct {
	carts         cartAccess
	submitter     submitterFactory
	maxConcurrent int
	metrics       *metrics.ProcurementMetrics
	logg          *logger.Logger
}

// NewPlacementService builds the checkout flow.
func NewPlacementService(params PlacementParams) (PlacementService, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.Submitter == nil {
		return nil, fmt.Errorf("order submitter required")
	}
	return &placementService{
		carts:         params.Carts,
		submitter:     params.Submitter,
		maxConcurrent: params.MaxConcurrent,
		metrics:       params.Metrics,
		logg:          params.Logger,
	}, nil
}

// Place groups the cart by vendor and submits every group. The cart is only
// cleared after every vendor order was created; on any failure it is kept so
// the buyer can retry, and the orders that did succeed stay placed.
func (s *placementService) Place(ctx context.Context, sess session.Context) (*SubmissionResult, error) {
	c, err := s.carts.Get(ctx, sess)
	if err != nil {
		return nil, err
	}
	groups, err := c.GroupByVendor()
	if err != nil {
		return nil, err
	}

	// Submissions outlive the caller: a disconnect must not abort orders the
	// marketplace may already be creating. The backend client timeout bounds them.
	ctx = context.WithoutCancel(ctx)

	started := time.Now()
	result, err := SubmitOrders(ctx, groups, s.submitter.For(sess), s.maxConcurrent)
	if result == nil {
		return nil, err
	}
	for _, outcome := range result.Outcomes {
		if outcome.Succeeded {
			s.metrics.IncSubmission(metrics.OutcomeSucceeded)
		} else {
			s.metrics.IncSubmission(metrics.OutcomeFailed)
		}
	}

	if err != nil {
		outcome := metrics.OutcomeFailed
		if result.Partial() {
			outcome = outcomePartial
		}
		s.metrics.ObservePlacement(outcome, len(groups), time.Since(started))
		if s.logg != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"vendor_groups": len(groups),
				"succeeded":     result.SucceededCount,
				"partial":       result.Partial(),
			})
			s.logg.Error(logCtx, "orders.place.failed", err)
		}
		return result, err
	}

	s.metrics.ObservePlacement(metrics.OutcomeSucceeded, len(groups), time.Since(started))
	if clearErr := s.carts.Clear(ctx, sess); clearErr != nil && s.logg != nil {
		s.logg.Error(ctx, "orders.place.cart_clear_failed", clearErr)
	}
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"vendor_groups": len(groups),
			"total_amount":  c.Total().String(),
		})
		s.logg.Info(logCtx, "orders.place.succeeded")
	}
	return result, nil
}

// IsSubmissionFailure reports whether err is an aggregate vendor submission failure.
func IsSubmissionFailure(err error) bool {
	return pkgerrors.IsCode(err, pkgerrors.CodeSubmissionFailure)
}
