// Package checkoutlog defines the durable audit trail of checkout runs.
//
// Every state transition a checkout goes through is appended as a row, which
// serves two purposes:
//
//  1. Observability: the table shows exactly where a checkout is (or was) and
//     correlates with a distributed trace via the trace_id field.
//
//  2. Forensics: when a compensation itself fails, the accumulated error
//     messages pinpoint which step left residue behind.
package checkoutlog

import "time"

// Status represents the lifecycle state of a checkout execution.
type Status string

const (
	StatusStarted      Status = "STARTED"
	StatusStepDone     Status = "STEP_DONE"
	StatusCompleted    Status = "COMPLETED"
	StatusCompensating Status = "COMPENSATING"
	StatusFailed       Status = "FAILED"
)

// Entry is a single row in the checkout_logs table, a point-in-time snapshot
// of a checkout execution.
type Entry struct {
	// CheckoutID is the order ID the checkout produced (or tried to), so the
	// log can be joined with business data.
	CheckoutID string

	// Status is the lifecycle state at the time this row was written.
	Status Status

	// CurrentStep is the name of the step that was just executed or failed.
	CurrentStep string

	// Payload is the JSON-serialised input that started the checkout.
	// Stored once on the STARTED row.
	Payload string

	// ErrorMessages accumulates failure details as a JSON array, one entry
	// per failed step or failed compensation.
	ErrorMessages string

	// TraceID is the W3C trace ID from the OpenTelemetry span active when
	// this row was written.
	TraceID string

	// SpanID pinpoints the exact span within the trace.
	SpanID string

	// UpdatedAt is the wall-clock time of this log entry.
	UpdatedAt time.Time
}
