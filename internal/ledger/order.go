// Package ledger owns order creation, status transitions, and cancellation
// with stock reservation. Stock is decremented when an order is placed and
// restored in full when it is cancelled; both paths run as a single storage
// transaction so partial orders are never visible to readers.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the externally visible order state. Values travel over the wire
// as the five lowercase strings below.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

var validStatuses = map[Status]bool{
	StatusPending:    true,
	StatusProcessing: true,
	StatusShipped:    true,
	StatusDelivered:  true,
	StatusCancelled:  true,
}

// ValidStatus reports whether s is one of the five known statuses. Transition
// direction is deliberately not enforced; any known status may be assigned.
func ValidStatus(s Status) bool {
	return validStatuses[s]
}

// Cancellable reports whether an order in status s may still be cancelled.
// Shipped, delivered, and already-cancelled orders are final for cancellation
// purposes.
func (s Status) Cancellable() bool {
	switch s {
	case StatusShipped, StatusDelivered, StatusCancelled:
		return false
	}
	return true
}

// Order is the aggregate root. CustomerName, CustomerEmail, and
// ShippingAddress are immutable once set. TotalAmount always equals the sum
// of item subtotals; it is recomputed after any item mutation, never
// maintained incrementally.
type Order struct {
	ID              int64
	CustomerName    string
	CustomerEmail   string
	ShippingAddress string
	Status          Status
	TotalAmount     decimal.Decimal
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem is owned exclusively by its order. ProductName and Price are
// value copies snapshotted from the catalog at creation time so later catalog
// changes never alter historical orders. Subtotal is stored, not derived on
// read.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Quantity    int
	Price       decimal.Decimal
	Subtotal    decimal.Decimal
}

// Draft is the input to PlaceOrder. Items are processed in caller order.
type Draft struct {
	CustomerName    string
	CustomerEmail   string
	ShippingAddress string
	Items           []DraftItem
}

type DraftItem struct {
	ProductID int64
	Quantity  int
}

// ListFilter selects a page of orders. Status empty means no status filter.
type ListFilter struct {
	Status   Status
	Page     int
	PageSize int
}

// Statistics is the aggregate snapshot cached by the periodic job.
type Statistics struct {
	TotalOrders       int             `json:"total_orders"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	StatusBreakdown   map[string]int  `json:"status_breakdown"`
}
