package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jcmexdev/ecommerce-core/internal/catalog"
	"github.com/jcmexdev/ecommerce-core/internal/wishlist"
)

// WishlistStore is the SQLite implementation of wishlist.Store.
type WishlistStore struct {
	db *sql.DB
}

func NewWishlistStore(d *DB) *WishlistStore {
	return &WishlistStore{db: d.db}
}

var _ wishlist.Store = (*WishlistStore)(nil)

func (s *WishlistStore) Add(ctx context.Context, customerEmail string, productID int64, notes string) (*wishlist.Item, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM products WHERE id = ?)", productID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("sqlite: product check: %w", err)
	}
	if !exists {
		return nil, catalog.ErrNotFound
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO wishlist_items (customer_email, product_id, notes, added_at)
		VALUES (?, ?, ?, ?)`,
		customerEmail, productID, notes, formatTime(time.Now().UTC()),
	)
	if err != nil {
		// The UNIQUE(customer_email, product_id) constraint enforces
		// one entry per product.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, wishlist.ErrAlreadyListed
		}
		return nil, fmt.Errorf("sqlite: add wishlist item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("sqlite: add wishlist item id: %w", err)
	}
	return s.get(ctx, id)
}

func (s *WishlistStore) Remove(ctx context.Context, customerEmail string, productID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM wishlist_items WHERE customer_email = ? AND product_id = ?",
		customerEmail, productID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: remove wishlist item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: remove wishlist item: %w", err)
	}
	if n == 0 {
		return wishlist.ErrItemNotFound
	}
	return nil
}

const wishlistItemQuery = `
	SELECT w.id, w.customer_email, w.product_id, p.name, p.price, p.stock_quantity, w.notes, w.added_at
	FROM   wishlist_items w
	JOIN   products p ON p.id = w.product_id`

func (s *WishlistStore) List(ctx context.Context, customerEmail string) ([]*wishlist.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		wishlistItemQuery+" WHERE w.customer_email = ? ORDER BY w.added_at DESC, w.id DESC",
		customerEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list wishlist: %w", err)
	}
	defer rows.Close()

	var items []*wishlist.Item
	for rows.Next() {
		it, err := scanWishlistItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate wishlist: %w", err)
	}
	return items, nil
}

func (s *WishlistStore) get(ctx context.Context, id int64) (*wishlist.Item, error) {
	row := s.db.QueryRowContext(ctx, wishlistItemQuery+" WHERE w.id = ?", id)
	return scanWishlistItem(row)
}

func scanWishlistItem(row rowScanner) (*wishlist.Item, error) {
	var it wishlist.Item
	var price, addedAt string
	var stock int

	err := row.Scan(&it.ID, &it.CustomerEmail, &it.ProductID, &it.ProductName, &price, &stock, &it.Notes, &addedAt)
	if err == sql.ErrNoRows {
		return nil, wishlist.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: scan wishlist item: %w", err)
	}

	it.InStock = stock > 0
	if it.ProductPrice, err = parseDecimal(price); err != nil {
		return nil, err
	}
	if it.AddedAt, err = parseTime(addedAt); err != nil {
		return nil, err
	}
	return &it, nil
}
