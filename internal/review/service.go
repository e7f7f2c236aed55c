package review

import (
	"context"
	"log/slog"
)

// Store is the persistence port for reviews. Vote must replace any previous
// vote by the same customer and recompute the tallies in the same
// transaction.
type Store interface {
	Create(ctx context.Context, r *Review) error
	Get(ctx context.Context, id int64) (*Review, error)
	ListByProduct(ctx context.Context, productID int64) ([]*Review, error)
	Vote(ctx context.Context, reviewID int64, customerEmail string, helpful bool) (*Review, error)
	Delete(ctx context.Context, id int64, customerEmail string) error
}

// PurchaseChecker answers whether a customer has bought a product. The order
// ledger provides the implementation.
type PurchaseChecker interface {
	HasPurchased(ctx context.Context, customerEmail string, productID int64) (bool, error)
}

type Service struct {
	store     Store
	purchases PurchaseChecker
}

func NewService(store Store, purchases PurchaseChecker) *Service {
	return &Service{store: store, purchases: purchases}
}

// Create validates the rating and derives the verified-purchase flag from the
// customer's order history.
func (s *Service) Create(ctx context.Context, productID int64, customerEmail string, rating int, title, comment string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	verified := false
	if s.purchases != nil {
		v, err := s.purchases.HasPurchased(ctx, customerEmail, productID)
		if err != nil {
			// A failed lookup downgrades the flag, never the review itself.
			slog.WarnContext(ctx, "verified-purchase lookup failed", "product_id", productID, "error", err)
		} else {
			verified = v
		}
	}

	r := &Review{
		ProductID:          productID,
		CustomerEmail:      customerEmail,
		Rating:             rating,
		Title:              title,
		Comment:            comment,
		IsVerifiedPurchase: verified,
	}
	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) ListByProduct(ctx context.Context, productID int64) ([]*Review, error) {
	return s.store.ListByProduct(ctx, productID)
}

func (s *Service) Vote(ctx context.Context, reviewID int64, customerEmail string, helpful bool) (*Review, error) {
	return s.store.Vote(ctx, reviewID, customerEmail, helpful)
}

func (s *Service) Delete(ctx context.Context, id int64, customerEmail string) error {
	return s.store.Delete(ctx, id, customerEmail)
}
