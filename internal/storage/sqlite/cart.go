package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jcmexdev/ecommerce-core/internal/cart"
	"github.com/jcmexdev/ecommerce-core/internal/catalog"
)

// CartStore is the SQLite implementation of cart.Store. Every mutation runs
// the stock check and the write in one transaction.
type CartStore struct {
	db *sql.DB
}

func NewCartStore(d *DB) *CartStore {
	return &CartStore{db: d.db}
}

var _ cart.Store = (*CartStore)(nil)

func (s *CartStore) GetOrCreate(ctx context.Context, customerEmail string) (*cart.Cart, error) {
	c, err := s.getOrCreateCart(ctx, s.db, customerEmail)
	if err != nil {
		return nil, err
	}
	if c.Items, err = s.loadItems(ctx, c.ID); err != nil {
		return nil, err
	}
	return c, nil
}

// execer covers both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *CartStore) getOrCreateCart(ctx context.Context, q execer, customerEmail string) (*cart.Cart, error) {
	now := formatTime(time.Now().UTC())

	// Upsert keyed on the unique customer_email; DO NOTHING keeps created_at
	// of an existing cart intact.
	if _, err := q.ExecContext(ctx, `
		INSERT INTO carts (customer_email, created_at, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(customer_email) DO NOTHING`,
		customerEmail, now, now,
	); err != nil {
		return nil, fmt.Errorf("sqlite: ensure cart: %w", err)
	}

	var c cart.Cart
	var createdAt, updatedAt string
	err := q.QueryRowContext(ctx,
		"SELECT id, customer_email, created_at, updated_at FROM carts WHERE customer_email = ?",
		customerEmail,
	).Scan(&c.ID, &c.CustomerEmail, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load cart: %w", err)
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// AddItem merges quantity into an existing line or inserts a new one. The
// merged quantity is checked against current stock; on violation the error
// reports how many more units still fit (stock minus what is already in the
// cart).
func (s *CartStore) AddItem(ctx context.Context, customerEmail string, productID int64, quantity int) (*cart.Item, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	c, err := s.getOrCreateCart(ctx, tx, customerEmail)
	if err != nil {
		return nil, false, err
	}

	var stock int
	err = tx.QueryRowContext(ctx,
		"SELECT stock_quantity FROM products WHERE id = ?", productID,
	).Scan(&stock)
	if err == sql.ErrNoRows {
		return nil, false, catalog.ErrNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite: load product %d: %w", productID, err)
	}

	var itemID int64
	var existing int
	err = tx.QueryRowContext(ctx,
		"SELECT id, quantity FROM cart_items WHERE cart_id = ? AND product_id = ?",
		c.ID, productID,
	).Scan(&itemID, &existing)
	switch {
	case err == sql.ErrNoRows:
		existing = 0
	case err != nil:
		return nil, false, fmt.Errorf("sqlite: load cart item: %w", err)
	}

	if existing+quantity > stock {
		return nil, false, &cart.StockError{ProductID: productID, Available: stock - existing}
	}

	now := formatTime(time.Now().UTC())
	created := existing == 0

	if created {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO cart_items (cart_id, product_id, quantity, added_at, updated_at)
			VALUES (?, ?, ?, ?, ?)`,
			c.ID, productID, quantity, now, now,
		)
		if err != nil {
			return nil, false, fmt.Errorf("sqlite: insert cart item: %w", err)
		}
		if itemID, err = res.LastInsertId(); err != nil {
			return nil, false, fmt.Errorf("sqlite: insert cart item id: %w", err)
		}
	} else {
		if _, err := tx.ExecContext(ctx,
			"UPDATE cart_items SET quantity = ?, updated_at = ? WHERE id = ?",
			existing+quantity, now, itemID,
		); err != nil {
			return nil, false, fmt.Errorf("sqlite: merge cart item: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE carts SET updated_at = ? WHERE id = ?", now, c.ID,
	); err != nil {
		return nil, false, fmt.Errorf("sqlite: touch cart: %w", err)
	}

	item, err := loadCartItemTx(ctx, tx, itemID)
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("sqlite: commit: %w", err)
	}
	return item, created, nil
}

func (s *CartStore) UpdateItem(ctx context.Context, customerEmail string, itemID int64, quantity int) (*cart.Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	var cartID, productID int64
	var stock int
	err = tx.QueryRowContext(ctx, `
		SELECT ci.cart_id, ci.product_id, p.stock_quantity
		FROM   cart_items ci
		JOIN   carts c ON c.id = ci.cart_id
		JOIN   products p ON p.id = ci.product_id
		WHERE  ci.id = ? AND c.customer_email = ?`,
		itemID, customerEmail,
	).Scan(&cartID, &productID, &stock)
	if err == sql.ErrNoRows {
		return nil, cart.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: load cart item %d: %w", itemID, err)
	}

	if quantity > stock {
		return nil, &cart.StockError{ProductID: productID, Available: stock}
	}

	now := formatTime(time.Now().UTC())
	if _, err := tx.ExecContext(ctx,
		"UPDATE cart_items SET quantity = ?, updated_at = ? WHERE id = ?",
		quantity, now, itemID,
	); err != nil {
		return nil, fmt.Errorf("sqlite: update cart item: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE carts SET updated_at = ? WHERE id = ?", now, cartID,
	); err != nil {
		return nil, fmt.Errorf("sqlite: touch cart: %w", err)
	}

	item, err := loadCartItemTx(ctx, tx, itemID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: commit: %w", err)
	}
	return item, nil
}

func (s *CartStore) RemoveItem(ctx context.Context, customerEmail string, itemID int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE  id = ? AND cart_id IN (SELECT id FROM carts WHERE customer_email = ?)`,
		itemID, customerEmail,
	)
	if err != nil {
		return fmt.Errorf("sqlite: remove cart item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: remove cart item: %w", err)
	}
	if n == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

func (s *CartStore) Clear(ctx context.Context, customerEmail string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE  cart_id IN (SELECT id FROM carts WHERE customer_email = ?)`,
		customerEmail,
	)
	if err != nil {
		return fmt.Errorf("sqlite: clear cart: %w", err)
	}
	return nil
}

const cartItemQuery = `
	SELECT ci.id, ci.cart_id, ci.product_id, p.name, p.price, ci.quantity, ci.added_at, ci.updated_at
	FROM   cart_items ci
	JOIN   products p ON p.id = ci.product_id`

func (s *CartStore) loadItems(ctx context.Context, cartID int64) ([]cart.Item, error) {
	rows, err := s.db.QueryContext(ctx, cartItemQuery+" WHERE ci.cart_id = ? ORDER BY ci.id", cartID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load cart items: %w", err)
	}
	defer rows.Close()

	var items []cart.Item
	for rows.Next() {
		it, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate cart items: %w", err)
	}
	return items, nil
}

func loadCartItemTx(ctx context.Context, tx *sql.Tx, itemID int64) (*cart.Item, error) {
	row := tx.QueryRowContext(ctx, cartItemQuery+" WHERE ci.id = ?", itemID)
	return scanCartItem(row)
}

func scanCartItem(row rowScanner) (*cart.Item, error) {
	var it cart.Item
	var price, addedAt, updatedAt string

	err := row.Scan(&it.ID, &it.CartID, &it.ProductID, &it.ProductName, &price, &it.Quantity, &addedAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, cart.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: scan cart item: %w", err)
	}

	if it.Price, err = parseDecimal(price); err != nil {
		return nil, err
	}
	if it.AddedAt, err = parseTime(addedAt); err != nil {
		return nil, err
	}
	if it.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}
