// Package cart implements per-customer shopping carts. Quantities for the
// same product merge on re-add, and every quantity change is checked against
// current catalog stock inside the storage transaction.
package cart

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrItemNotFound    = errors.New("cart item not found")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrEmptyCart       = errors.New("cart is empty")
)

// StockError reports how many more units could still be added.
type StockError struct {
	ProductID int64
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("only %d units available", e.Available)
}

// Cart is one customer's cart. A cart is created implicitly on first use and
// keyed by customer email.
type Cart struct {
	ID            int64
	CustomerEmail string
	Items         []Item
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TotalItems sums quantities across all lines.
func (c *Cart) TotalItems() int {
	var n int
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Subtotal sums line subtotals at current catalog prices. Carts carry no
// price snapshot; the snapshot is taken when the order is placed.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Item is one product line. Price reflects the catalog's current price at
// read time.
type Item struct {
	ID          int64
	CartID      int64
	ProductID   int64
	ProductName string
	Price       decimal.Decimal
	Quantity    int
	AddedAt     time.Time
	UpdatedAt   time.Time
}

func (i *Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
