package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// searchResultCap bounds search responses regardless of the requested page
// size, mirroring the upstream behaviour.
const searchResultCap = 50

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, name, description string, price decimal.Decimal, stock int, category string) (*Product, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}

	now := time.Now().UTC()
	p := &Product{
		Name:          name,
		Description:   description,
		Price:         price,
		StockQuantity: stock,
		Category:      category,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "product created", "product_id", p.ID, "name", p.Name)
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.Get(ctx, id)
}

// List returns a page of products. Page and pageSize are clamped to >= 1
// server-side; pageSize defaults to 10 when zero.
func (s *Service) List(ctx context.Context, page, pageSize int) ([]*Product, int, error) {
	page, pageSize = clampPage(page, pageSize)
	return s.repo.List(ctx, (page-1)*pageSize, pageSize)
}

// Update applies a partial update. Nil fields keep their current value.
func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil && *params.Name != "" {
		p.Name = *params.Name
	}
	if params.Description != nil {
		p.Description = *params.Description
	}
	if params.Price != nil {
		if params.Price.IsNegative() {
			return nil, ErrInvalidPrice
		}
		p.Price = *params.Price
	}
	if params.StockQuantity != nil {
		if *params.StockQuantity < 0 {
			return nil, ErrInvalidStock
		}
		p.StockQuantity = *params.StockQuantity
	}
	if params.Category != nil && *params.Category != "" {
		p.Category = *params.Category
	}

	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "product deleted", "product_id", id)
	return nil
}

func (s *Service) Search(ctx context.Context, q SearchQuery) ([]*Product, int, error) {
	return s.repo.Search(ctx, q, searchResultCap)
}

func clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return page, pageSize
}
