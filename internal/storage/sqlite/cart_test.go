package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-core/internal/cart"
	"github.com/jcmexdev/ecommerce-core/internal/catalog"
)

const testEmail = "alice@example.com"

func TestGetOrCreateCart(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewCartStore(db)

	c1, err := store.GetOrCreate(ctx, testEmail)
	require.NoError(t, err)
	assert.Equal(t, testEmail, c1.CustomerEmail)
	assert.Empty(t, c1.Items)

	// Second call returns the same cart, not a new one.
	c2, err := store.GetOrCreate(ctx, testEmail)
	require.NoError(t, err)
	assert.Equal(t, c1.ID, c2.ID)
}

func TestAddCartItem(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewCartStore(db)
	p := createProduct(t, db, "Widget", "10.00", 5)

	item, created, err := store.AddItem(ctx, testEmail, p.ID, 2)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, "Widget", item.ProductName)
	assert.True(t, item.Price.Equal(mustDecimal(t, "10.00")))

	t.Run("re-adding merges quantities", func(t *testing.T) {
		item, created, err := store.AddItem(ctx, testEmail, p.ID, 2)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, 4, item.Quantity)

		c, err := store.GetOrCreate(ctx, testEmail)
		require.NoError(t, err)
		assert.Len(t, c.Items, 1)
		assert.Equal(t, 4, c.TotalItems())
	})

	t.Run("merge is capped by stock", func(t *testing.T) {
		// 4 already in the cart, stock 5: only 1 more fits.
		_, _, err := store.AddItem(ctx, testEmail, p.ID, 3)
		require.Error(t, err)

		var stockErr *cart.StockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 1, stockErr.Available)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, _, err := store.AddItem(ctx, testEmail, 999, 1)
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})
}

func TestUpdateCartItem(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewCartStore(db)
	p := createProduct(t, db, "Widget", "10.00", 5)

	item, _, err := store.AddItem(ctx, testEmail, p.ID, 2)
	require.NoError(t, err)

	updated, err := store.UpdateItem(ctx, testEmail, item.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)

	t.Run("quantity above stock is rejected", func(t *testing.T) {
		_, err := store.UpdateItem(ctx, testEmail, item.ID, 6)
		var stockErr *cart.StockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 5, stockErr.Available)
	})

	t.Run("someone else's item is invisible", func(t *testing.T) {
		_, err := store.UpdateItem(ctx, "bob@example.com", item.ID, 1)
		assert.ErrorIs(t, err, cart.ErrItemNotFound)
	})
}

func TestRemoveCartItem(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewCartStore(db)
	p := createProduct(t, db, "Widget", "10.00", 5)

	item, _, err := store.AddItem(ctx, testEmail, p.ID, 2)
	require.NoError(t, err)

	require.NoError(t, store.RemoveItem(ctx, testEmail, item.ID))

	c, err := store.GetOrCreate(ctx, testEmail)
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	assert.ErrorIs(t, store.RemoveItem(ctx, testEmail, item.ID), cart.ErrItemNotFound)
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewCartStore(db)
	p1 := createProduct(t, db, "Widget", "10.00", 5)
	p2 := createProduct(t, db, "Gadget", "25.50", 5)

	_, _, err := store.AddItem(ctx, testEmail, p1.ID, 1)
	require.NoError(t, err)
	_, _, err = store.AddItem(ctx, testEmail, p2.ID, 2)
	require.NoError(t, err)

	c, err := store.GetOrCreate(ctx, testEmail)
	require.NoError(t, err)
	assert.True(t, c.Subtotal().Equal(mustDecimal(t, "61.00")), "subtotal = %s", c.Subtotal())

	require.NoError(t, store.Clear(ctx, testEmail))

	c, err = store.GetOrCreate(ctx, testEmail)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.True(t, c.Subtotal().IsZero())

	// Clearing an empty cart is fine.
	require.NoError(t, store.Clear(ctx, testEmail))
}
