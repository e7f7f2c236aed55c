package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrNotCancellable    = errors.New("order cannot be cancelled in its current status")

	// ErrTransaction marks a storage-layer commit failure. The operation was
	// never partially applied; callers retry at most once.
	ErrTransaction = errors.New("transaction failed")
)

// InsufficientStockError carries the quantity that was actually available so
// the message can be surfaced verbatim to the caller.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// NotCancellableError reports the status that blocked cancellation.
type NotCancellableError struct {
	OrderID int64
	Status  Status
}

func (e *NotCancellableError) Error() string {
	return fmt.Sprintf("cannot cancel order %d with status: %s", e.OrderID, e.Status)
}

func (e *NotCancellableError) Unwrap() error { return ErrNotCancellable }
