package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-core/internal/catalog"
	"github.com/jcmexdev/ecommerce-core/internal/wishlist"
)

func TestWishlistAdd(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewWishlistStore(db)
	p := createProduct(t, db, "Widget", "10.00", 5)

	item, err := store.Add(ctx, testEmail, p.ID, "birthday idea")
	require.NoError(t, err)
	assert.Equal(t, "Widget", item.ProductName)
	assert.True(t, item.ProductPrice.Equal(mustDecimal(t, "10.00")))
	assert.True(t, item.InStock)
	assert.Equal(t, "birthday idea", item.Notes)

	t.Run("duplicate is rejected", func(t *testing.T) {
		_, err := store.Add(ctx, testEmail, p.ID, "")
		assert.ErrorIs(t, err, wishlist.ErrAlreadyListed)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := store.Add(ctx, testEmail, 999, "")
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})
}

func TestWishlistSummary(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	svc := wishlist.NewService(NewWishlistStore(db))

	inStock := createProduct(t, db, "Widget", "10.00", 5)
	outOfStock := createProduct(t, db, "Gadget", "25.00", 0)

	_, err := svc.Add(ctx, testEmail, inStock.ID, "")
	require.NoError(t, err)
	_, err = svc.Add(ctx, testEmail, outOfStock.ID, "")
	require.NoError(t, err)

	items, summary, err := svc.List(ctx, testEmail)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, wishlist.Summary{TotalItems: 2, InStockCount: 1, OutOfStockCount: 1}, summary)
}

func TestWishlistRemove(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewWishlistStore(db)
	p := createProduct(t, db, "Widget", "10.00", 5)

	_, err := store.Add(ctx, testEmail, p.ID, "")
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, testEmail, p.ID))
	assert.ErrorIs(t, store.Remove(ctx, testEmail, p.ID), wishlist.ErrItemNotFound)

	items, err := store.List(ctx, testEmail)
	require.NoError(t, err)
	assert.Empty(t, items)
}
