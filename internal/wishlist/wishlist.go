// Package wishlist lets customers save products for later. A product appears
// at most once per customer.
package wishlist

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrAlreadyListed = errors.New("product already in wishlist")
	ErrItemNotFound  = errors.New("wishlist item not found")
)

// Item joins the wishlist row with live catalog data (name, price, stock) so
// the summary can report availability without a second query.
type Item struct {
	ID            int64
	CustomerEmail string
	ProductID     int64
	ProductName   string
	ProductPrice  decimal.Decimal
	InStock       bool
	Notes         string
	AddedAt       time.Time
}

// Summary aggregates availability across one customer's wishlist.
type Summary struct {
	TotalItems      int `json:"total_items"`
	InStockCount    int `json:"in_stock_count"`
	OutOfStockCount int `json:"out_of_stock_count"`
}

type Store interface {
	Add(ctx context.Context, customerEmail string, productID int64, notes string) (*Item, error)
	Remove(ctx context.Context, customerEmail string, productID int64) error
	List(ctx context.Context, customerEmail string) ([]*Item, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Add(ctx context.Context, customerEmail string, productID int64, notes string) (*Item, error) {
	return s.store.Add(ctx, customerEmail, productID, notes)
}

func (s *Service) Remove(ctx context.Context, customerEmail string, productID int64) error {
	return s.store.Remove(ctx, customerEmail, productID)
}

// List returns the customer's wishlist with an availability summary.
func (s *Service) List(ctx context.Context, customerEmail string) ([]*Item, Summary, error) {
	items, err := s.store.List(ctx, customerEmail)
	if err != nil {
		return nil, Summary{}, err
	}

	sum := Summary{TotalItems: len(items)}
	for _, it := range items {
		if it.InStock {
			sum.InStockCount++
		} else {
			sum.OutOfStockCount++
		}
	}
	return items, sum, nil
}
