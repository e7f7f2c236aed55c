package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jcmexdev/ecommerce-core/internal/catalog"
	"github.com/jcmexdev/ecommerce-core/internal/review"
)

const reviewColumns = "id, product_id, customer_email, rating, title, comment, is_verified_purchase, helpful_count, not_helpful_count, created_at, updated_at"

// ReviewStore is the SQLite implementation of review.Store.
type ReviewStore struct {
	db *sql.DB
}

func NewReviewStore(d *DB) *ReviewStore {
	return &ReviewStore{db: d.db}
}

var _ review.Store = (*ReviewStore)(nil)

func (s *ReviewStore) Create(ctx context.Context, r *review.Review) error {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM products WHERE id = ?)", r.ProductID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("sqlite: product check: %w", err)
	}
	if !exists {
		return catalog.ErrNotFound
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (product_id, customer_email, rating, title, comment, is_verified_purchase, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ProductID, r.CustomerEmail, r.Rating, r.Title, r.Comment,
		boolToInt(r.IsVerifiedPurchase), formatTime(now), formatTime(now),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return review.ErrAlreadyReviewed
		}
		return fmt.Errorf("sqlite: create review: %w", err)
	}

	if r.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("sqlite: create review id: %w", err)
	}
	r.CreatedAt = now
	r.UpdatedAt = now
	return nil
}

func (s *ReviewStore) Get(ctx context.Context, id int64) (*review.Review, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+reviewColumns+" FROM reviews WHERE id = ?", id)
	return scanReview(row)
}

func (s *ReviewStore) ListByProduct(ctx context.Context, productID int64) ([]*review.Review, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE product_id = ? ORDER BY created_at DESC, id DESC",
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*review.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate reviews: %w", err)
	}
	return reviews, nil
}

// Vote upserts the customer's vote and recomputes both tallies from the vote
// rows in the same transaction, so a changed vote moves one count down and
// the other up.
func (s *ReviewStore) Vote(ctx context.Context, reviewID int64, customerEmail string, helpful bool) (*review.Review, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM reviews WHERE id = ?)", reviewID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("sqlite: review check: %w", err)
	}
	if !exists {
		return nil, review.ErrNotFound
	}

	now := formatTime(time.Now().UTC())
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO review_votes (review_id, customer_email, is_helpful, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(review_id, customer_email) DO UPDATE SET is_helpful = excluded.is_helpful`,
		reviewID, customerEmail, boolToInt(helpful), now,
	); err != nil {
		return nil, fmt.Errorf("sqlite: record vote: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE reviews
		SET    helpful_count     = (SELECT COUNT(*) FROM review_votes WHERE review_id = ? AND is_helpful = 1),
		       not_helpful_count = (SELECT COUNT(*) FROM review_votes WHERE review_id = ? AND is_helpful = 0),
		       updated_at        = ?
		WHERE  id = ?`,
		reviewID, reviewID, now, reviewID,
	); err != nil {
		return nil, fmt.Errorf("sqlite: retally votes: %w", err)
	}

	r, err := scanReview(tx.QueryRowContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE id = ?", reviewID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: commit: %w", err)
	}
	return r, nil
}

// Delete removes a review, but only for its author.
func (s *ReviewStore) Delete(ctx context.Context, id int64, customerEmail string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM reviews WHERE id = ? AND customer_email = ?", id, customerEmail)
	if err != nil {
		return fmt.Errorf("sqlite: delete review: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: delete review: %w", err)
	}
	if n == 0 {
		return review.ErrNotFound
	}
	return nil
}

func scanReview(row rowScanner) (*review.Review, error) {
	var r review.Review
	var verified int
	var createdAt, updatedAt string

	err := row.Scan(&r.ID, &r.ProductID, &r.CustomerEmail, &r.Rating, &r.Title, &r.Comment,
		&verified, &r.HelpfulCount, &r.NotHelpfulCount, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, review.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: scan review: %w", err)
	}

	r.IsVerifiedPurchase = verified != 0
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
