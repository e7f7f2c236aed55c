package cart

import (
	"context"
	"log/slog"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, customerEmail string) (*Cart, error) {
	return s.store.GetOrCreate(ctx, customerEmail)
}

// AddItem adds quantity of a product, merging with an existing line. The
// second return value is true when a new line was created.
func (s *Service) AddItem(ctx context.Context, customerEmail string, productID int64, quantity int) (*Item, bool, error) {
	if quantity <= 0 {
		return nil, false, ErrInvalidQuantity
	}
	item, created, err := s.store.AddItem(ctx, customerEmail, productID, quantity)
	if err != nil {
		return nil, false, err
	}
	slog.InfoContext(ctx, "cart item added",
		"customer_email", customerEmail,
		"product_id", productID,
		"quantity", item.Quantity,
		"created", created,
	)
	return item, created, nil
}

func (s *Service) UpdateItem(ctx context.Context, customerEmail string, itemID int64, quantity int) (*Item, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return s.store.UpdateItem(ctx, customerEmail, itemID, quantity)
}

func (s *Service) RemoveItem(ctx context.Context, customerEmail string, itemID int64) error {
	return s.store.RemoveItem(ctx, customerEmail, itemID)
}

func (s *Service) Clear(ctx context.Context, customerEmail string) error {
	return s.store.Clear(ctx, customerEmail)
}
