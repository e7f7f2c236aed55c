package payment

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
)

// Processor is the port to the external payment provider.
type Processor interface {
	Charge(ctx context.Context, intentID string, amount decimal.Decimal) error
	Refund(ctx context.Context, intentID string, amount decimal.Decimal) error
}

// StubProcessor approves every charge up to a configured limit and declines
// anything above it. It stands in for a real provider in development and
// tests.
type StubProcessor struct {
	Limit decimal.Decimal
}

// NewStubProcessor returns a processor with the default $500.00 decline
// threshold.
func NewStubProcessor() *StubProcessor {
	return &StubProcessor{Limit: decimal.NewFromInt(500)}
}

func (p *StubProcessor) Charge(ctx context.Context, intentID string, amount decimal.Decimal) error {
	if amount.GreaterThan(p.Limit) {
		slog.WarnContext(ctx, "charge declined: amount exceeds limit",
			"intent_id", intentID, "amount", amount.String(), "limit", p.Limit.String())
		return &DeclinedError{IntentID: intentID, Reason: "amount exceeds limit"}
	}
	slog.InfoContext(ctx, "charge approved", "intent_id", intentID, "amount", amount.String())
	return nil
}

func (p *StubProcessor) Refund(ctx context.Context, intentID string, amount decimal.Decimal) error {
	slog.InfoContext(ctx, "refund processed", "intent_id", intentID, "amount", amount.String())
	return nil
}
