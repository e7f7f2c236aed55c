package catalog

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("product not found")
	ErrInvalidPrice = errors.New("price cannot be negative")
	ErrInvalidStock = errors.New("stock quantity cannot be negative")
	ErrNameRequired = errors.New("product name is required")
)

// Product is a catalog entry. Price and stock are the authoritative values;
// orders snapshot them at creation time and never read back.
type Product struct {
	ID            int64
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	Category      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// UpdateParams carries a partial update. Nil fields are left untouched,
// matching the upstream PATCH semantics.
type UpdateParams struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	StockQuantity *int
	Category      *string
}

// SearchQuery filters products. Zero values disable the corresponding filter.
type SearchQuery struct {
	Query    string
	Category string
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
}
