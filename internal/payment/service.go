package payment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is the persistence port for payments and refunds.
type Store interface {
	CreatePayment(ctx context.Context, p *Payment) error
	UpdatePayment(ctx context.Context, p *Payment) error
	GetPayment(ctx context.Context, id int64) (*Payment, error)
	ListByOrder(ctx context.Context, orderID int64) ([]*Payment, error)
	CreateRefund(ctx context.Context, r *Refund) error
	ListRefunds(ctx context.Context, paymentID int64) ([]*Refund, error)
}

type Service struct {
	store     Store
	processor Processor
}

func NewService(store Store, processor Processor) *Service {
	return &Service{store: store, processor: processor}
}

// Charge records a pending payment, runs it through the processor, and marks
// the row succeeded or failed. A declined charge returns the persisted failed
// payment together with the DeclinedError.
func (s *Service) Charge(ctx context.Context, orderID int64, amount decimal.Decimal, currency string) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if currency == "" {
		currency = "USD"
	}

	p := &Payment{
		OrderID:      orderID,
		Amount:       amount,
		Currency:     currency,
		Status:       StatusPending,
		IntentID:     "pi_" + uuid.NewString(),
		RefundAmount: decimal.Zero,
	}
	if err := s.store.CreatePayment(ctx, p); err != nil {
		return nil, err
	}

	if err := s.processor.Charge(ctx, p.IntentID, amount); err != nil {
		p.Status = StatusFailed
		p.FailureMessage = err.Error()
		if uerr := s.store.UpdatePayment(ctx, p); uerr != nil {
			slog.ErrorContext(ctx, "failed to persist declined payment", "payment_id", p.ID, "error", uerr)
		}
		return p, err
	}

	p.Status = StatusSucceeded
	if err := s.store.UpdatePayment(ctx, p); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "payment succeeded", "payment_id", p.ID, "order_id", orderID, "amount", amount.String())
	return p, nil
}

// Refund reverses up to the remaining refundable amount. A zero amount means
// a full refund of whatever remains.
func (s *Service) Refund(ctx context.Context, paymentID int64, amount decimal.Decimal, reason string) (*Refund, error) {
	p, err := s.store.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !p.Refundable() {
		return nil, ErrNotRefundable
	}

	remaining := p.Amount.Sub(p.RefundAmount)
	if amount.IsZero() {
		amount = remaining
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if amount.GreaterThan(remaining) {
		return nil, ErrRefundTooLarge
	}

	if err := s.processor.Refund(ctx, p.IntentID, amount); err != nil {
		return nil, err
	}

	r := &Refund{
		PaymentID: p.ID,
		Amount:    amount,
		Reason:    reason,
		Status:    StatusSucceeded,
	}
	if err := s.store.CreateRefund(ctx, r); err != nil {
		return nil, err
	}

	p.RefundAmount = p.RefundAmount.Add(amount)
	if p.RefundAmount.Equal(p.Amount) {
		p.Status = StatusRefunded
	}
	if err := s.store.UpdatePayment(ctx, p); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "refund recorded", "payment_id", p.ID, "amount", amount.String())
	return r, nil
}

// RefundByOrder refunds the most recent successful payment on an order.
// Used by checkout compensation; refunding an order that never charged is a
// no-op.
func (s *Service) RefundByOrder(ctx context.Context, orderID int64, reason string) error {
	payments, err := s.store.ListByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	for _, p := range payments {
		if p.Refundable() {
			if _, err := s.Refund(ctx, p.ID, decimal.Zero, reason); err != nil && !errors.Is(err, ErrNotRefundable) {
				return err
			}
			return nil
		}
	}
	return nil
}

func (s *Service) ListByOrder(ctx context.Context, orderID int64) ([]*Payment, error) {
	return s.store.ListByOrder(ctx, orderID)
}
