package checkout

import (
	"context"
	"fmt"

	"github.com/jcmexdev/ecommerce-core/internal/cart"
	"github.com/jcmexdev/ecommerce-core/internal/ledger"
	"github.com/jcmexdev/ecommerce-core/internal/payment"
)

// --- ChargePaymentStep ---

// ChargePaymentStep charges the order total. Compensation refunds whatever
// was charged.
type ChargePaymentStep struct {
	payments *payment.Service
	order    *ledger.Order

	// Result holds the persisted payment after Execute, also on decline.
	Result *payment.Payment
}

func NewChargePaymentStep(payments *payment.Service, order *ledger.Order) *ChargePaymentStep {
	return &ChargePaymentStep{payments: payments, order: order}
}

func (s *ChargePaymentStep) Name() string { return "charge_payment" }

func (s *ChargePaymentStep) Execute(ctx context.Context) error {
	p, err := s.payments.Charge(ctx, s.order.ID, s.order.TotalAmount, "USD")
	s.Result = p
	if err != nil {
		return fmt.Errorf("charge for order %d: %w", s.order.ID, err)
	}
	return nil
}

func (s *ChargePaymentStep) Compensate(ctx context.Context) error {
	return s.payments.RefundByOrder(ctx, s.order.ID, "checkout rolled back")
}

// --- ClearCartStep ---

// ClearCartStep empties the customer's cart once the order is paid. The cart
// contents are not restored on rollback; the items live on in the cancelled
// order, and silently refilling a cart the customer may have changed since is
// worse than leaving it empty.
type ClearCartStep struct {
	carts         *cart.Service
	customerEmail string
}

func NewClearCartStep(carts *cart.Service, customerEmail string) *ClearCartStep {
	return &ClearCartStep{carts: carts, customerEmail: customerEmail}
}

func (s *ClearCartStep) Name() string { return "clear_cart" }

func (s *ClearCartStep) Execute(ctx context.Context) error {
	if err := s.carts.Clear(ctx, s.customerEmail); err != nil {
		return fmt.Errorf("clear cart for %s: %w", s.customerEmail, err)
	}
	return nil
}

func (s *ClearCartStep) Compensate(ctx context.Context) error {
	return nil
}

// --- ConfirmOrderStep ---

// ConfirmOrderStep advances the paid order from pending to processing.
type ConfirmOrderStep struct {
	orders  *ledger.Service
	orderID int64
}

func NewConfirmOrderStep(orders *ledger.Service, orderID int64) *ConfirmOrderStep {
	return &ConfirmOrderStep{orders: orders, orderID: orderID}
}

func (s *ConfirmOrderStep) Name() string { return "confirm_order" }

func (s *ConfirmOrderStep) Execute(ctx context.Context) error {
	if _, err := s.orders.UpdateOrderStatus(ctx, s.orderID, ledger.StatusProcessing); err != nil {
		return fmt.Errorf("confirm order %d: %w", s.orderID, err)
	}
	return nil
}

func (s *ConfirmOrderStep) Compensate(ctx context.Context) error {
	// Last step; the order-level compensation is the cancel performed by the
	// checkout service when the run fails.
	return nil
}
