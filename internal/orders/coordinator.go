package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/foodsupplychain/procurement/internal/cart"
	pkgerrors "github.com/foodsupplychain/procurement/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const defaultFailureMessage = "failed to place order"

// SubmitFunc creates the order for one vendor group.
type SubmitFunc func(ctx context.Context, group cart.VendorOrderGroup) (*Order, error)

// Outcome reports what happened to one vendor group.
type Outcome struct {
	VendorID   string `json:"vendor_id"`
	VendorName string `json:"vendor_name"`
	Succeeded  bool   `json:"succeeded"`
	OrderID    string `json:"order_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// SubmissionResult collects every settled vendor submission in group order.
type SubmissionResult struct {
	SucceededCount int       `json:"succeeded_count"`
	Orders         []Order   `json:"orders"`
	Outcomes       []Outcome `json:"outcomes"`
}

// Partial reports whether some, but not all, vendor orders were created.
func (r *SubmissionResult) Partial() bool {
	return r != nil && r.SucceededCount > 0 && r.SucceededCount < len(r.Outcomes)
}

// FailureDetails is attached to a SUBMISSION_FAILURE error.
type FailureDetails struct {
	Partial        bool      `json:"partial"`
	SucceededCount int       `json:"succeeded_count"`
	FailedCount    int       `json:"failed_count"`
	Outcomes       []Outcome `json:"outcomes"`
}

// SubmitOrders issues one submission per group concurrently and waits for all
// of them to settle. maxConcurrent bounds in-flight calls; zero or less means
// no bound. Created orders are never rolled back: when any group fails the
// returned error is a SUBMISSION_FAILURE carrying the first failed group's
// message, and the result still lists the orders that were created.
func SubmitOrders(ctx context.Context, groups []cart.VendorOrderGroup, submit SubmitFunc, maxConcurrent int) (*SubmissionResult, error) {
	if len(groups) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "no vendor orders to submit")
	}
	if submit == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order submitter not configured")
	}

	orders := make([]*Order, len(groups))
	errs := make([]error, len(groups))

	var g errgroup.Group
	if maxConcurrent > 0 {
		g.SetLimit(maxConcurrent)
	}
	for i := range groups {
		g.Go(func() error {
			order, err := submit(ctx, groups[i])
			if err == nil && order == nil {
				err = pkgerrors.New(pkgerrors.CodeDependency, "order service returned no order")
			}
			orders[i], errs[i] = order, err
			return nil
		})
	}
	_ = g.Wait()

	result := &SubmissionResult{
		Orders:   make([]Order, 0, len(groups)),
		Outcomes: make([]Outcome, len(groups)),
	}
	var combined error
	var firstErr error
	for i, group := range groups {
		outcome := Outcome{VendorID: group.VendorID, VendorName: group.DisplayName()}
		if errs[i] != nil {
			outcome.Error = failureMessage(errs[i])
			combined = multierr.Append(combined, fmt.Errorf("vendor %s: %w", group.VendorID, errs[i]))
			if firstErr == nil {
				firstErr = errs[i]
			}
		} else {
			outcome.Succeeded = true
			outcome.OrderID = orders[i].DisplayID()
			result.SucceededCount++
			result.Orders = append(result.Orders, *orders[i])
		}
		result.Outcomes[i] = outcome
	}
	if firstErr == nil {
		return result, nil
	}

	message := failureMessage(firstErr)
	if result.SucceededCount > 0 {
		message = fmt.Sprintf("%s; %d of %d vendor orders were already placed", message, result.SucceededCount, len(groups))
	}
	return result, pkgerrors.Wrap(pkgerrors.CodeSubmissionFailure, combined, message).WithDetails(FailureDetails{
		Partial:        result.Partial(),
		SucceededCount: result.SucceededCount,
		FailedCount:    len(groups) - result.SucceededCount,
		Outcomes:       result.Outcomes,
	})
}

// failureMessage surfaces the marketplace's own message; transport and local
// errors get the generic message.
func failureMessage(err error) string {
	var upstream pkgerrors.UpstreamError
	if errors.As(err, &upstream) {
		if msg := strings.TrimSpace(upstream.UpstreamMessage()); msg != "" {
			return msg
		}
	}
	return defaultFailureMessage
}
