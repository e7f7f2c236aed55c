// Package payment records charge and refund transactions against orders and
// talks to the payment processor through a small port.
package payment

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound       = errors.New("payment not found")
	ErrNotRefundable  = errors.New("payment cannot be refunded")
	ErrInvalidAmount  = errors.New("amount must be positive")
	ErrRefundTooLarge = errors.New("refund exceeds remaining refundable amount")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

// DeclinedError signals that the processor rejected the charge.
type DeclinedError struct {
	IntentID string
	Reason   string
}

func (e *DeclinedError) Error() string {
	return fmt.Sprintf("payment declined: %s", e.Reason)
}

// Payment is one charge attempt against an order.
type Payment struct {
	ID             int64
	OrderID        int64
	Amount         decimal.Decimal
	Currency       string
	Status         Status
	IntentID       string
	FailureMessage string
	RefundAmount   decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Refundable reports whether any amount can still be refunded.
func (p *Payment) Refundable() bool {
	return p.Status == StatusSucceeded && p.RefundAmount.LessThan(p.Amount)
}

// Refund is one refund transaction against a payment.
type Refund struct {
	ID        int64
	PaymentID int64
	Amount    decimal.Decimal
	Reason    string
	Status    Status
	CreatedAt time.Time
}
