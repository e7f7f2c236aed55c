package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jcmexdev/ecommerce-core/internal/catalog"
)

const productColumns = "id, name, description, price, stock_quantity, category, created_at, updated_at"

// CatalogStore is the SQLite implementation of catalog.Repository.
type CatalogStore struct {
	db *sql.DB
}

func NewCatalogStore(d *DB) *CatalogStore {
	return &CatalogStore{db: d.db}
}

func (s *CatalogStore) Create(ctx context.Context, p *catalog.Product) error {
	const q = `
		INSERT INTO products (name, description, price, stock_quantity, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, q,
		p.Name, p.Description, p.Price.String(), p.StockQuantity, p.Category,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: create product: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: create product id: %w", err)
	}
	return nil
}

func (s *CatalogStore) Get(ctx context.Context, id int64) (*catalog.Product, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id)
	return scanProduct(row)
}

func (s *CatalogStore) List(ctx context.Context, offset, limit int) ([]*catalog.Product, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: count products: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: list products: %w", err)
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *CatalogStore) Update(ctx context.Context, p *catalog.Product) error {
	const q = `
		UPDATE products
		SET    name = ?, description = ?, price = ?, stock_quantity = ?, category = ?, updated_at = ?
		WHERE  id = ?`

	res, err := s.db.ExecContext(ctx, q,
		p.Name, p.Description, p.Price.String(), p.StockQuantity, p.Category,
		formatTime(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: update product %d: %w", p.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: update product %d: %w", p.ID, err)
	}
	if n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (s *CatalogStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("sqlite: delete product %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: delete product %d: %w", id, err)
	}
	if n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (s *CatalogStore) Search(ctx context.Context, q catalog.SearchQuery, limit int) ([]*catalog.Product, int, error) {
	var conds []string
	var args []any

	if q.Query != "" {
		conds = append(conds, "(name LIKE ? OR description LIKE ?)")
		pattern := "%" + q.Query + "%"
		args = append(args, pattern, pattern)
	}
	if q.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, q.Category)
	}
	// Prices are decimal TEXT; CAST to REAL is close enough for range
	// filtering and keeps the stored values exact.
	if q.MinPrice.IsPositive() {
		conds = append(conds, "CAST(price AS REAL) >= ?")
		args = append(args, q.MinPrice.InexactFloat64())
	}
	if q.MaxPrice.IsPositive() {
		conds = append(conds, "CAST(price AS REAL) <= ?")
		args = append(args, q.MaxPrice.InexactFloat64())
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: count search results: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products"+where+" ORDER BY id LIMIT ?",
		append(args, limit)...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: search products: %w", err)
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*catalog.Product, error) {
	var p catalog.Product
	var price, createdAt, updatedAt string

	err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.StockQuantity, &p.Category, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: scan product: %w", err)
	}

	if p.Price, err = parseDecimal(price); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows *sql.Rows) ([]*catalog.Product, error) {
	var products []*catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate products: %w", err)
	}
	return products, nil
}
