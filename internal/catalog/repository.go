package catalog

import "context"

// Repository is the port for product persistence. Implementations must return
// ErrNotFound for missing ids.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Get(ctx context.Context, id int64) (*Product, error)
	// List returns one page of products plus the unfiltered total count.
	List(ctx context.Context, offset, limit int) ([]*Product, int, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
	// Search returns at most limit matches plus the total match count.
	Search(ctx context.Context, q SearchQuery, limit int) ([]*Product, int, error)
}
