// Package sqlite implements every persistence port on SQLite.
//
// WAL mode is enabled on Open so that readers never block writers and vice
// versa — important because the background jobs read while request handlers
// write. All monetary values are stored as decimal TEXT and aggregated in Go
// to avoid float coercion; timestamps are RFC3339 TEXT, the SQLite idiom.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	// Register the pure-Go SQLite driver.
	// We use modernc.org/sqlite instead of mattn/go-sqlite3 to avoid CGO
	// requirements, making it easier to build and run in Docker (Alpine).
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup. Idempotent due to IF NOT EXISTS.
const schema = `
CREATE TABLE IF NOT EXISTS products (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    name            TEXT    NOT NULL,
    description     TEXT    NOT NULL DEFAULT '',
    price           TEXT    NOT NULL,
    stock_quantity  INTEGER NOT NULL DEFAULT 0,
    category        TEXT    NOT NULL DEFAULT '',
    created_at      TEXT    NOT NULL,
    updated_at      TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);

CREATE TABLE IF NOT EXISTS orders (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    customer_name    TEXT    NOT NULL,
    customer_email   TEXT    NOT NULL,
    shipping_address TEXT    NOT NULL,
    status           TEXT    NOT NULL DEFAULT 'pending',
    total_amount     TEXT    NOT NULL DEFAULT '0',
    created_at       TEXT    NOT NULL,
    updated_at       TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_customer_email ON orders(customer_email);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);

CREATE TABLE IF NOT EXISTS order_items (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id      INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    product_id    INTEGER NOT NULL REFERENCES products(id),
    product_name  TEXT    NOT NULL,
    quantity      INTEGER NOT NULL DEFAULT 1,
    price         TEXT    NOT NULL,
    subtotal      TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);

CREATE TABLE IF NOT EXISTS carts (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    customer_email TEXT    NOT NULL UNIQUE,
    created_at     TEXT    NOT NULL,
    updated_at     TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS cart_items (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    cart_id    INTEGER NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
    product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
    quantity   INTEGER NOT NULL DEFAULT 1,
    added_at   TEXT    NOT NULL,
    updated_at TEXT    NOT NULL,
    UNIQUE(cart_id, product_id)
);

CREATE TABLE IF NOT EXISTS wishlist_items (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    customer_email TEXT    NOT NULL,
    product_id     INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
    notes          TEXT    NOT NULL DEFAULT '',
    added_at       TEXT    NOT NULL,
    UNIQUE(customer_email, product_id)
);
CREATE INDEX IF NOT EXISTS idx_wishlist_customer ON wishlist_items(customer_email, added_at);

CREATE TABLE IF NOT EXISTS reviews (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    product_id           INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
    customer_email       TEXT    NOT NULL,
    rating               INTEGER NOT NULL,
    title                TEXT    NOT NULL DEFAULT '',
    comment              TEXT    NOT NULL DEFAULT '',
    is_verified_purchase INTEGER NOT NULL DEFAULT 0,
    helpful_count        INTEGER NOT NULL DEFAULT 0,
    not_helpful_count    INTEGER NOT NULL DEFAULT 0,
    created_at           TEXT    NOT NULL,
    updated_at           TEXT    NOT NULL,
    UNIQUE(product_id, customer_email)
);
CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_id, created_at);

CREATE TABLE IF NOT EXISTS review_votes (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    review_id      INTEGER NOT NULL REFERENCES reviews(id) ON DELETE CASCADE,
    customer_email TEXT    NOT NULL,
    is_helpful     INTEGER NOT NULL,
    created_at     TEXT    NOT NULL,
    UNIQUE(review_id, customer_email)
);

CREATE TABLE IF NOT EXISTS payments (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id        INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    amount          TEXT    NOT NULL,
    currency        TEXT    NOT NULL DEFAULT 'USD',
    status          TEXT    NOT NULL DEFAULT 'pending',
    intent_id       TEXT    NOT NULL UNIQUE,
    failure_message TEXT    NOT NULL DEFAULT '',
    refund_amount   TEXT    NOT NULL DEFAULT '0',
    created_at      TEXT    NOT NULL,
    updated_at      TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_payments_order ON payments(order_id, created_at);

CREATE TABLE IF NOT EXISTS refunds (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    payment_id INTEGER NOT NULL REFERENCES payments(id) ON DELETE CASCADE,
    amount     TEXT    NOT NULL,
    reason     TEXT    NOT NULL DEFAULT '',
    status     TEXT    NOT NULL DEFAULT 'pending',
    created_at TEXT    NOT NULL
);
`

// DB wraps the shared database handle. Repositories are cheap views over it.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema. WAL mode is enabled for better concurrent read/write
// performance.
//
//	store, err := sqlite.Open("./data/ecommerce.db")
func Open(path string) (*DB, error) {
	// The pure-Go driver uses _pragma query parameters to configure connection state.
	// WAL enables concurrent readers. foreign_keys=on enforces integrity.
	// busy_timeout waits for locks instead of failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	// Use "sqlite", not "sqlite3" for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection; serialising all
	// access through one connection also makes every transaction in this
	// package race-free without row locks.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Handle exposes the raw *sql.DB for repositories that live outside this
// package (the checkout log).
func (d *DB) Handle() *sql.DB { return d.db }

// Close releases the database connection. Call it with defer in main().
func (d *DB) Close() error { return d.db.Close() }

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse time %q: %w", s, err)
	}
	return t, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("sqlite: parse decimal %q: %w", s, err)
	}
	return d, nil
}
