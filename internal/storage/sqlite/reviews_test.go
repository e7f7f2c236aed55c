package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-core/internal/review"
)

func newReview(productID int64, email string) *review.Review {
	return &review.Review{
		ProductID:     productID,
		CustomerEmail: email,
		Rating:        4,
		Title:         "Good",
		Comment:       "Does what it says",
	}
}

func TestCreateReview(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewReviewStore(db)
	p := createProduct(t, db, "Widget", "10.00", 5)

	r := newReview(p.ID, testEmail)
	require.NoError(t, store.Create(ctx, r))
	require.NotZero(t, r.ID)

	got, err := store.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Rating)
	assert.Equal(t, testEmail, got.CustomerEmail)

	t.Run("one review per customer per product", func(t *testing.T) {
		err := store.Create(ctx, newReview(p.ID, testEmail))
		assert.ErrorIs(t, err, review.ErrAlreadyReviewed)
	})

	t.Run("another customer may review", func(t *testing.T) {
		require.NoError(t, store.Create(ctx, newReview(p.ID, "bob@example.com")))

		reviews, err := store.ListByProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.Len(t, reviews, 2)
	})
}

func TestVoteReview(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewReviewStore(db)
	p := createProduct(t, db, "Widget", "10.00", 5)

	r := newReview(p.ID, testEmail)
	require.NoError(t, store.Create(ctx, r))

	got, err := store.Vote(ctx, r.ID, "bob@example.com", true)
	require.NoError(t, err)
	assert.Equal(t, 1, got.HelpfulCount)
	assert.Equal(t, 0, got.NotHelpfulCount)

	t.Run("re-voting replaces instead of stacking", func(t *testing.T) {
		got, err := store.Vote(ctx, r.ID, "bob@example.com", false)
		require.NoError(t, err)
		assert.Equal(t, 0, got.HelpfulCount)
		assert.Equal(t, 1, got.NotHelpfulCount)
	})

	t.Run("votes from different customers accumulate", func(t *testing.T) {
		got, err := store.Vote(ctx, r.ID, "carol@example.com", true)
		require.NoError(t, err)
		assert.Equal(t, 1, got.HelpfulCount)
		assert.Equal(t, 1, got.NotHelpfulCount)
		assert.InDelta(t, 50.0, got.HelpfulPercentage(), 0.01)
	})

	t.Run("unknown review", func(t *testing.T) {
		_, err := store.Vote(ctx, 999, testEmail, true)
		assert.ErrorIs(t, err, review.ErrNotFound)
	})
}

func TestDeleteReview(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewReviewStore(db)
	p := createProduct(t, db, "Widget", "10.00", 5)

	r := newReview(p.ID, testEmail)
	require.NoError(t, store.Create(ctx, r))

	// Only the author may delete.
	assert.ErrorIs(t, store.Delete(ctx, r.ID, "bob@example.com"), review.ErrNotFound)
	require.NoError(t, store.Delete(ctx, r.ID, testEmail))

	_, err := store.Get(ctx, r.ID)
	assert.ErrorIs(t, err, review.ErrNotFound)
}

func TestVerifiedPurchaseFlag(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	orderStore := NewOrderStore(db)
	svc := review.NewService(NewReviewStore(db), orderStore)
	p := createProduct(t, db, "Widget", "10.00", 5)

	_, err := orderStore.PlaceOrder(ctx, draftFor(p, 1))
	require.NoError(t, err)

	purchased, err := svc.Create(ctx, p.ID, "alice@example.com", 5, "Great", "")
	require.NoError(t, err)
	assert.True(t, purchased.IsVerifiedPurchase)

	notPurchased, err := svc.Create(ctx, p.ID, "bob@example.com", 3, "Fine", "")
	require.NoError(t, err)
	assert.False(t, notPurchased.IsVerifiedPurchase)
}
