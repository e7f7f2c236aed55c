package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-core/internal/catalog"
)

func TestCatalogCRUD(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewCatalogStore(db)

	p := createProduct(t, db, "Widget", "19.99", 10)
	require.NotZero(t, p.ID)

	got, err := store.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Name)
	assert.True(t, got.Price.Equal(mustDecimal(t, "19.99")))
	assert.Equal(t, 10, got.StockQuantity)

	got.Name = "Widget Pro"
	got.StockQuantity = 0
	require.NoError(t, store.Update(ctx, got))

	got, err = store.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget Pro", got.Name)
	assert.False(t, got.InStock())

	require.NoError(t, store.Delete(ctx, p.ID))
	_, err = store.Get(ctx, p.ID)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, p.ID), catalog.ErrNotFound)
}

func TestCatalogList(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewCatalogStore(db)

	for i := 0; i < 12; i++ {
		createProduct(t, db, "Widget", "10.00", 1)
	}

	first, total, err := store.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	assert.Len(t, first, 10)

	second, _, err := store.List(ctx, 10, 10)
	require.NoError(t, err)
	assert.Len(t, second, 2)
}

func TestCatalogSearch(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewCatalogStore(db)

	// Descriptions are part of the free-text match, so keep them distinct
	// from the terms the subtests search for.
	laptop := createProduct(t, db, "MacBook Pro", "2499.99", 5)
	laptop.Description = "16-inch laptop"
	laptop.Category = "electronics"
	require.NoError(t, store.Update(ctx, laptop))

	phone := createProduct(t, db, "iPhone 15 Pro", "1199.99", 5)
	phone.Description = "flagship phone"
	phone.Category = "electronics"
	require.NoError(t, store.Update(ctx, phone))

	book := createProduct(t, db, "Clean Code", "44.99", 5)
	book.Description = "software craftsmanship classic"
	book.Category = "books"
	require.NoError(t, store.Update(ctx, book))

	t.Run("free text matches name", func(t *testing.T) {
		results, total, err := store.Search(ctx, catalog.SearchQuery{Query: "Pro"}, 50)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, results, 2)
	})

	t.Run("free text matches description", func(t *testing.T) {
		results, _, err := store.Search(ctx, catalog.SearchQuery{Query: "laptop"}, 50)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "MacBook Pro", results[0].Name)
	})

	t.Run("free text is case-insensitive", func(t *testing.T) {
		_, total, err := store.Search(ctx, catalog.SearchQuery{Query: "macbook"}, 50)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
	})

	t.Run("category filter", func(t *testing.T) {
		results, _, err := store.Search(ctx, catalog.SearchQuery{Category: "books"}, 50)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Clean Code", results[0].Name)
	})

	t.Run("price range", func(t *testing.T) {
		results, _, err := store.Search(ctx, catalog.SearchQuery{
			MinPrice: mustDecimal(t, "1000"),
			MaxPrice: mustDecimal(t, "2000"),
		}, 50)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "iPhone 15 Pro", results[0].Name)
	})

	t.Run("filters combine with AND", func(t *testing.T) {
		results, _, err := store.Search(ctx, catalog.SearchQuery{
			Query:    "Pro",
			Category: "electronics",
			MaxPrice: mustDecimal(t, "1500"),
		}, 50)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "iPhone 15 Pro", results[0].Name)
	})

	t.Run("limit caps results", func(t *testing.T) {
		results, total, err := store.Search(ctx, catalog.SearchQuery{}, 2)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, results, 2)
	})
}
