package cart

import "context"

// Store is the persistence port for carts. AddItem and UpdateItem run the
// stock check and the quantity write in the same transaction so a concurrent
// stock change cannot slip between check and write.
type Store interface {
	// GetOrCreate returns the customer's cart with items loaded, creating an
	// empty cart on first use.
	GetOrCreate(ctx context.Context, customerEmail string) (*Cart, error)

	// AddItem inserts a new line or merges quantity into an existing line for
	// the same product. The merged quantity must not exceed current stock;
	// on violation it returns a StockError carrying how many more units fit.
	AddItem(ctx context.Context, customerEmail string, productID int64, quantity int) (*Item, bool, error)

	// UpdateItem replaces the line quantity, subject to the same stock check.
	UpdateItem(ctx context.Context, customerEmail string, itemID int64, quantity int) (*Item, error)

	// RemoveItem deletes one line from the customer's cart.
	RemoveItem(ctx context.Context, customerEmail string, itemID int64) error

	// Clear deletes every line from the customer's cart.
	Clear(ctx context.Context, customerEmail string) error
}
