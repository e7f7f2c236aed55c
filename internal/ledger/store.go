package ledger

import (
	"context"
	"time"
)

// Store is the persistence port for the ledger. PlaceOrder and Cancel must be
// atomic: either every row mutation (order, items, stock decrements or
// restorations) commits, or none do. Implementations return the sentinel
// errors from this package; commit failures are wrapped in ErrTransaction.
type Store interface {
	// PlaceOrder runs the stock-reservation transaction: create the order as
	// pending, snapshot product name and price per item, conditionally
	// decrement stock per product row, recompute the total from stored
	// subtotals. Item order follows the draft.
	PlaceOrder(ctx context.Context, draft Draft) (*Order, error)

	// Get returns the order with items eagerly loaded.
	Get(ctx context.Context, id int64) (*Order, error)

	// List returns one page plus the total count of the filtered set.
	List(ctx context.Context, offset, limit int, status Status) ([]*Order, int, error)

	// UpdateStatus assigns the (already validated) status and bumps
	// updated_at.
	UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error)

	// Cancel restores every item's stock and marks the order cancelled, as
	// one transaction. The cancellability guard runs inside the transaction
	// so a concurrent status change cannot slip between check and write.
	Cancel(ctx context.Context, id int64) (*Order, error)

	// ByCustomer returns all orders for an exact customer email match.
	ByCustomer(ctx context.Context, email string) ([]*Order, error)

	// StaleByStatus returns orders in the given status created before the
	// cutoff. Used by the pending-order sweep.
	StaleByStatus(ctx context.Context, status Status, before time.Time) ([]*Order, error)

	// UpdatedSince returns orders in the given status updated at or after
	// the cutoff. Used by the shipping-notification sweep.
	UpdatedSince(ctx context.Context, status Status, since time.Time) ([]*Order, error)

	// Statistics aggregates order counts and revenue across all orders.
	Statistics(ctx context.Context) (*Statistics, error)

	// HasPurchased reports whether the customer has any non-cancelled order
	// containing the product. Feeds the verified-purchase flag on reviews.
	HasPurchased(ctx context.Context, customerEmail string, productID int64) (bool, error)
}
