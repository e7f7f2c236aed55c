package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/ecommerce-core/internal/ledger"
)

const orderColumns = "id, customer_name, customer_email, shipping_address, status, total_amount, created_at, updated_at"

// OrderStore is the SQLite implementation of ledger.Store. PlaceOrder and
// Cancel run as single transactions; a failure at any point rolls back every
// stock mutation and row insertion performed earlier in the same call, so
// partial orders are never visible to readers.
type OrderStore struct {
	db *sql.DB
}

func NewOrderStore(d *DB) *OrderStore {
	return &OrderStore{db: d.db}
}

var _ ledger.Store = (*OrderStore)(nil)

// PlaceOrder creates the order as pending, snapshots product name and price
// per item, decrements stock per product with a conditional update, and
// recomputes the total from the stored subtotals — all in one transaction.
//
// The conditional decrement (stock_quantity >= requested in the WHERE clause)
// is the atomic check-and-decrement that closes the lost-update race between
// two concurrent orders for the same product.
func (s *OrderStore) PlaceOrder(ctx context.Context, draft ledger.Draft) (*ledger.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", ledger.ErrTransaction, err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO orders (customer_name, customer_email, shipping_address, status, total_amount, created_at, updated_at)
		VALUES (?, ?, ?, 'pending', '0', ?, ?)`,
		draft.CustomerName, draft.CustomerEmail, draft.ShippingAddress,
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: insert order: %w", err)
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("sqlite: insert order id: %w", err)
	}

	// Items are processed in caller order.
	for _, item := range draft.Items {
		var name, price string
		var stock int
		err := tx.QueryRowContext(ctx,
			"SELECT name, price, stock_quantity FROM products WHERE id = ?", item.ProductID,
		).Scan(&name, &price, &stock)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: product with ID %d", ledger.ErrProductNotFound, item.ProductID)
		}
		if err != nil {
			return nil, fmt.Errorf("sqlite: load product %d: %w", item.ProductID, err)
		}

		// Conditional decrement: the WHERE clause re-checks stock so the
		// reservation is atomic per product row even outside this
		// connection's serialisation.
		decRes, err := tx.ExecContext(ctx, `
			UPDATE products
			SET    stock_quantity = stock_quantity - ?, updated_at = ?
			WHERE  id = ? AND stock_quantity >= ?`,
			item.Quantity, formatTime(now), item.ProductID, item.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("sqlite: reserve stock for product %d: %w", item.ProductID, err)
		}
		n, err := decRes.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("sqlite: reserve stock for product %d: %w", item.ProductID, err)
		}
		if n == 0 {
			return nil, &ledger.InsufficientStockError{
				ProductID:   item.ProductID,
				ProductName: name,
				Requested:   item.Quantity,
				Available:   stock,
			}
		}

		priceDec, err := parseDecimal(price)
		if err != nil {
			return nil, err
		}
		subtotal := priceDec.Mul(decimal.NewFromInt(int64(item.Quantity)))

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, quantity, price, subtotal)
			VALUES (?, ?, ?, ?, ?, ?)`,
			orderID, item.ProductID, name, item.Quantity, priceDec.String(), subtotal.String(),
		); err != nil {
			return nil, fmt.Errorf("sqlite: insert order item: %w", err)
		}
	}

	// Recompute the total from the stored subtotals rather than carrying a
	// running sum; the stored rows are the source of truth.
	total, err := sumSubtotalsTx(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET total_amount = ?, updated_at = ? WHERE id = ?",
		total.String(), formatTime(now), orderID,
	); err != nil {
		return nil, fmt.Errorf("sqlite: set order total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", ledger.ErrTransaction, err)
	}

	return s.Get(ctx, orderID)
}

func (s *OrderStore) Get(ctx context.Context, id int64) (*ledger.Order, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = ?", id)
	order, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	if order.Items, err = s.loadItems(ctx, id); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderStore) List(ctx context.Context, offset, limit int, status ledger.Status) ([]*ledger.Order, int, error) {
	where, args := "", []any{}
	if status != "" {
		where = " WHERE status = ?"
		args = append(args, string(status))
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: count orders: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders"+where+" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: list orders: %w", err)
	}
	orders, err := s.collectWithItems(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id int64, status ledger.Status) (*ledger.Order, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = ?, updated_at = ? WHERE id = ?",
		string(status), formatTime(time.Now().UTC()), id,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: update order status: %w", err)
	}
	if n == 0 {
		return nil, ledger.ErrOrderNotFound
	}
	return s.Get(ctx, id)
}

// Cancel restores every item's stock and marks the order cancelled, as one
// transaction. The cancellability guard runs inside the transaction so a
// concurrent status change cannot slip between check and write.
func (s *OrderStore) Cancel(ctx context.Context, id int64) (*ledger.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", ledger.ErrTransaction, err)
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx, "SELECT status FROM orders WHERE id = ?", id).Scan(&status)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: load order %d: %w", id, err)
	}
	if !ledger.Status(status).Cancellable() {
		return nil, &ledger.NotCancellableError{OrderID: id, Status: ledger.Status(status)}
	}

	now := time.Now().UTC()

	// Full restoration: compensate the PlaceOrder decrement exactly.
	rows, err := tx.QueryContext(ctx,
		"SELECT product_id, quantity FROM order_items WHERE order_id = ? ORDER BY id", id)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load order items %d: %w", id, err)
	}
	type restore struct {
		productID int64
		quantity  int
	}
	var restores []restore
	for rows.Next() {
		var r restore
		if err := rows.Scan(&r.productID, &r.quantity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("sqlite: scan order item: %w", err)
		}
		restores = append(restores, r)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate order items: %w", err)
	}

	for _, r := range restores {
		if _, err := tx.ExecContext(ctx, `
			UPDATE products
			SET    stock_quantity = stock_quantity + ?, updated_at = ?
			WHERE  id = ?`,
			r.quantity, formatTime(now), r.productID,
		); err != nil {
			return nil, fmt.Errorf("sqlite: restore stock for product %d: %w", r.productID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET status = 'cancelled', updated_at = ? WHERE id = ?",
		formatTime(now), id,
	); err != nil {
		return nil, fmt.Errorf("sqlite: mark order cancelled: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", ledger.ErrTransaction, err)
	}

	return s.Get(ctx, id)
}

func (s *OrderStore) ByCustomer(ctx context.Context, email string) ([]*ledger.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE customer_email = ? ORDER BY created_at DESC, id DESC", email)
	if err != nil {
		return nil, fmt.Errorf("sqlite: orders by customer: %w", err)
	}
	return s.collectWithItems(ctx, rows)
}

func (s *OrderStore) StaleByStatus(ctx context.Context, status ledger.Status, before time.Time) ([]*ledger.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE status = ? AND created_at < ? ORDER BY created_at",
		string(status), formatTime(before))
	if err != nil {
		return nil, fmt.Errorf("sqlite: stale orders: %w", err)
	}
	return s.collectWithItems(ctx, rows)
}

func (s *OrderStore) UpdatedSince(ctx context.Context, status ledger.Status, since time.Time) ([]*ledger.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE status = ? AND updated_at >= ? ORDER BY updated_at",
		string(status), formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("sqlite: recently updated orders: %w", err)
	}
	return s.collectWithItems(ctx, rows)
}

// Statistics aggregates in Go rather than SQL so the decimal TEXT amounts are
// never coerced to floats.
func (s *OrderStore) Statistics(ctx context.Context) (*ledger.Statistics, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT status, total_amount FROM orders")
	if err != nil {
		return nil, fmt.Errorf("sqlite: statistics: %w", err)
	}
	defer rows.Close()

	stats := &ledger.Statistics{
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		StatusBreakdown:   make(map[string]int),
	}
	for rows.Next() {
		var status, amount string
		if err := rows.Scan(&status, &amount); err != nil {
			return nil, fmt.Errorf("sqlite: scan statistics row: %w", err)
		}
		total, err := parseDecimal(amount)
		if err != nil {
			return nil, err
		}
		stats.TotalOrders++
		stats.TotalRevenue = stats.TotalRevenue.Add(total)
		stats.StatusBreakdown[status]++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate statistics: %w", err)
	}

	if stats.TotalOrders > 0 {
		stats.AverageOrderValue = stats.TotalRevenue.
			Div(decimal.NewFromInt(int64(stats.TotalOrders))).
			Round(2)
	}
	return stats, nil
}

func (s *OrderStore) HasPurchased(ctx context.Context, customerEmail string, productID int64) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1
			FROM   order_items oi
			JOIN   orders o ON o.id = oi.order_id
			WHERE  o.customer_email = ? AND oi.product_id = ? AND o.status != 'cancelled'
		)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, q, customerEmail, productID).Scan(&exists); err != nil {
		return false, fmt.Errorf("sqlite: purchase check: %w", err)
	}
	return exists, nil
}

func (s *OrderStore) loadItems(ctx context.Context, orderID int64) ([]ledger.OrderItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, price, subtotal
		FROM   order_items
		WHERE  order_id = ?
		ORDER  BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load order items: %w", err)
	}
	defer rows.Close()

	var items []ledger.OrderItem
	for rows.Next() {
		var it ledger.OrderItem
		var price, subtotal string
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &price, &subtotal); err != nil {
			return nil, fmt.Errorf("sqlite: scan order item: %w", err)
		}
		if it.Price, err = parseDecimal(price); err != nil {
			return nil, err
		}
		if it.Subtotal, err = parseDecimal(subtotal); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate order items: %w", err)
	}
	return items, nil
}

func (s *OrderStore) collectWithItems(ctx context.Context, rows *sql.Rows) ([]*ledger.Order, error) {
	defer rows.Close()

	var orders []*ledger.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate orders: %w", err)
	}

	for _, order := range orders {
		items, err := s.loadItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}
	return orders, nil
}

func scanOrder(row rowScanner) (*ledger.Order, error) {
	var o ledger.Order
	var status, total, createdAt, updatedAt string

	err := row.Scan(&o.ID, &o.CustomerName, &o.CustomerEmail, &o.ShippingAddress, &status, &total, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: scan order: %w", err)
	}

	o.Status = ledger.Status(status)
	if o.TotalAmount, err = parseDecimal(total); err != nil {
		return nil, err
	}
	if o.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if o.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func sumSubtotalsTx(ctx context.Context, tx *sql.Tx, orderID int64) (decimal.Decimal, error) {
	rows, err := tx.QueryContext(ctx, "SELECT subtotal FROM order_items WHERE order_id = ?", orderID)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("sqlite: sum subtotals: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var sub string
		if err := rows.Scan(&sub); err != nil {
			return decimal.Decimal{}, fmt.Errorf("sqlite: scan subtotal: %w", err)
		}
		d, err := parseDecimal(sub)
		if err != nil {
			return decimal.Decimal{}, err
		}
		total = total.Add(d)
	}
	if err := rows.Err(); err != nil {
		return decimal.Decimal{}, fmt.Errorf("sqlite: iterate subtotals: %w", err)
	}
	return total, nil
}
