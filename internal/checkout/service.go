package checkout

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/jcmexdev/ecommerce-core/internal/cart"
	"github.com/jcmexdev/ecommerce-core/internal/checkout/checkoutlog"
	"github.com/jcmexdev/ecommerce-core/internal/ledger"
	"github.com/jcmexdev/ecommerce-core/internal/payment"
)

// Result is what a successful checkout hands back to the API layer.
type Result struct {
	Order   *ledger.Order
	Payment *payment.Payment
}

// Service drives the cart-to-order flow. The order is placed first (which
// reserves stock inside the ledger transaction); the remaining steps run
// under the coordinator, and if any of them fails the order is cancelled,
// which restores the reserved stock.
type Service struct {
	carts    *cart.Service
	orders   *ledger.Service
	payments *payment.Service
	logRepo  checkoutlog.Repository
}

func NewService(carts *cart.Service, orders *ledger.Service, payments *payment.Service, logRepo checkoutlog.Repository) *Service {
	return &Service{carts: carts, orders: orders, payments: payments, logRepo: logRepo}
}

// Checkout converts the customer's cart into a paid order.
func (s *Service) Checkout(ctx context.Context, customerEmail, customerName, shippingAddress string) (*Result, error) {
	c, err := s.carts.Get(ctx, customerEmail)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, cart.ErrEmptyCart
	}

	draft := ledger.Draft{
		CustomerName:    customerName,
		CustomerEmail:   customerEmail,
		ShippingAddress: shippingAddress,
	}
	for _, it := range c.Items {
		draft.Items = append(draft.Items, ledger.DraftItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := s.orders.CreateOrder(ctx, draft)
	if err != nil {
		return nil, err
	}

	chargeStep := NewChargePaymentStep(s.payments, order)
	steps := []Step{
		chargeStep,
		NewClearCartStep(s.carts, customerEmail),
		NewConfirmOrderStep(s.orders, order.ID),
	}

	coord := NewCoordinator(strconv.FormatInt(order.ID, 10), steps, s.logRepo)
	if err := coord.Run(ctx, s.payload(c, order)); err != nil {
		slog.ErrorContext(ctx, "checkout failed, cancelling order", "order_id", order.ID, "error", err)
		if _, cancelErr := s.orders.CancelOrder(ctx, order.ID); cancelErr != nil {
			slog.ErrorContext(ctx, "CRITICAL: failed to cancel order after checkout failure",
				"order_id", order.ID,
				"checkout_error", err,
				"cancel_error", cancelErr,
			)
		}
		return nil, err
	}

	// Re-read so the response carries the confirmed status.
	order, err = s.orders.GetOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	return &Result{Order: order, Payment: chargeStep.Result}, nil
}

// payload serialises the checkout input for the STARTED log row so a run can
// be reconstructed from the log alone.
func (s *Service) payload(c *cart.Cart, order *ledger.Order) string {
	type line struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	}
	doc := struct {
		OrderID       int64  `json:"order_id"`
		CustomerEmail string `json:"customer_email"`
		Total         string `json:"total"`
		Items         []line `json:"items"`
	}{
		OrderID:       order.ID,
		CustomerEmail: c.CustomerEmail,
		Total:         order.TotalAmount.String(),
	}
	for _, it := range c.Items {
		doc.Items = append(doc.Items, line{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return ""
	}
	return string(b)
}
