// Package notify defines the one-way notification sink. Delivery is
// best-effort, at-most-once; a failed notification never affects the outcome
// of the operation that triggered it, and the sink is always invoked outside
// the ledger's transaction boundary.
package notify

import (
	"context"
	"log/slog"
)

type Event string

const (
	EventOrderConfirmed Event = "order.confirmed"
	EventOrderCancelled Event = "order.cancelled"
	EventOrderShipped   Event = "order.shipped"
	EventPaymentFailed  Event = "payment.failed"
)

// Sink accepts fire-and-forget messages. Implementations must not block on
// external delivery longer than the context allows.
type Sink interface {
	Notify(ctx context.Context, event Event, subject, message string, recipients []string) error
}

// SlogSink writes notifications to the structured log. It stands in for an
// email or queue-backed sink in development and tests.
type SlogSink struct{}

func NewSlogSink() *SlogSink { return &SlogSink{} }

func (s *SlogSink) Notify(ctx context.Context, event Event, subject, message string, recipients []string) error {
	slog.InfoContext(ctx, "notification dispatched",
		"event", string(event),
		"subject", subject,
		"recipients", recipients,
	)
	return nil
}

// NopSink discards everything. Useful when notifications are disabled.
type NopSink struct{}

func (NopSink) Notify(context.Context, Event, string, string, []string) error { return nil }
