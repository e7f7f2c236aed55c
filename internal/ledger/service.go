package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jcmexdev/ecommerce-core/internal/notify"
)

// Service exposes the ledger operations to the API layer. It validates input
// before any mutation, retries a failed commit exactly once, and dispatches
// notifications only after the transaction has committed.
type Service struct {
	store Store
	sink  notify.Sink
}

func NewService(store Store, sink notify.Sink) *Service {
	if sink == nil {
		sink = notify.NopSink{}
	}
	return &Service{store: store, sink: sink}
}

// CreateOrder places an order, reserving stock for every item. The whole
// call is all-or-nothing: on any failure no order row, no item row, and no
// stock decrement survives.
func (s *Service) CreateOrder(ctx context.Context, draft Draft) (*Order, error) {
	if len(draft.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, it := range draft.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrEmptyOrder)
		}
	}

	order, err := s.withRetry(ctx, func(ctx context.Context) (*Order, error) {
		return s.store.PlaceOrder(ctx, draft)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "order created",
		"order_id", order.ID,
		"customer_email", order.CustomerEmail,
		"total_amount", order.TotalAmount.String(),
		"items", len(order.Items),
	)
	s.notifyAsync(ctx, notify.EventOrderConfirmed,
		fmt.Sprintf("Order Confirmation #%d", order.ID),
		fmt.Sprintf("Thank you for your order! Order ID: %d, Total Amount: $%s", order.ID, order.TotalAmount.StringFixed(2)),
		[]string{order.CustomerEmail},
	)
	return order, nil
}

// GetOrder returns the order with its items eagerly loaded.
func (s *Service) GetOrder(ctx context.Context, id int64) (*Order, error) {
	return s.store.Get(ctx, id)
}

// ListOrders pages through orders, optionally filtered by exact status.
// Page and pageSize default to 1 and 10 and are clamped to >= 1. The returned
// count reflects the filtered set, not the page.
func (s *Service) ListOrders(ctx context.Context, f ListFilter) ([]*Order, int, error) {
	if f.Status != "" && !ValidStatus(f.Status) {
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidStatus, f.Status)
	}
	page, pageSize := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return s.store.List(ctx, (page-1)*pageSize, pageSize, f.Status)
}

// UpdateOrderStatus assigns one of the five known statuses. Direction is not
// enforced; an unknown status fails before anything is written, leaving both
// status and updated_at untouched.
func (s *Service) UpdateOrderStatus(ctx context.Context, id int64, status Status) (*Order, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: must be one of: pending, processing, shipped, delivered, cancelled (got %q)",
			ErrInvalidStatus, status)
	}

	order, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "order status updated", "order_id", id, "status", string(status))
	if status == StatusShipped {
		s.notifyAsync(ctx, notify.EventOrderShipped,
			fmt.Sprintf("Order #%d Shipped", order.ID),
			fmt.Sprintf("Your order has been shipped to %s", order.ShippingAddress),
			[]string{order.CustomerEmail},
		)
	}
	return order, nil
}

// CancelOrder restores every item's stock and marks the order cancelled, as
// one transaction. Shipped, delivered, and already-cancelled orders are
// rejected without any mutation.
func (s *Service) CancelOrder(ctx context.Context, id int64) (*Order, error) {
	order, err := s.withRetry(ctx, func(ctx context.Context) (*Order, error) {
		return s.store.Cancel(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "order cancelled", "order_id", id)
	s.notifyAsync(ctx, notify.EventOrderCancelled,
		fmt.Sprintf("Order #%d Cancelled", order.ID),
		fmt.Sprintf("Your order #%d has been cancelled and any reserved stock released.", order.ID),
		[]string{order.CustomerEmail},
	)
	return order, nil
}

// GetOrdersByCustomer returns all orders for an exact customer email match.
func (s *Service) GetOrdersByCustomer(ctx context.Context, email string) ([]*Order, error) {
	return s.store.ByCustomer(ctx, email)
}

// Statistics aggregates order counts and revenue.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	return s.store.Statistics(ctx)
}

// withRetry retries exactly once on a commit failure. Anything wrapped in
// ErrTransaction is guaranteed by the store to have left no side effects.
func (s *Service) withRetry(ctx context.Context, op func(ctx context.Context) (*Order, error)) (*Order, error) {
	order, err := op(ctx)
	if err != nil && errors.Is(err, ErrTransaction) {
		slog.WarnContext(ctx, "ledger transaction failed, retrying once", "error", err)
		order, err = op(ctx)
	}
	return order, err
}

// notifyAsync dispatches outside the transaction boundary. Delivery is
// at-most-once: failures are logged and dropped.
func (s *Service) notifyAsync(ctx context.Context, event notify.Event, subject, message string, recipients []string) {
	// Detach from the request context so the notification is not cancelled
	// when the response is sent, while still propagating tracing metadata.
	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := s.sink.Notify(ctx, event, subject, message, recipients); err != nil {
			slog.ErrorContext(ctx, "notification delivery failed", "event", string(event), "error", err)
		}
	}()
}
