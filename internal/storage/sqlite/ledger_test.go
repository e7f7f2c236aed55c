package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-core/internal/catalog"
	"github.com/jcmexdev/ecommerce-core/internal/ledger"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createProduct(t *testing.T, db *DB, name string, price string, stock int) *catalog.Product {
	t.Helper()
	now := time.Now().UTC()
	p := &catalog.Product{
		Name:          name,
		Description:   "test product",
		Price:         mustDecimal(t, price),
		StockQuantity: stock,
		Category:      "test",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, NewCatalogStore(db).Create(context.Background(), p))
	return p
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func draftFor(p *catalog.Product, qty int) ledger.Draft {
	return ledger.Draft{
		CustomerName:    "Alice Johnson",
		CustomerEmail:   "alice@example.com",
		ShippingAddress: "123 Tech Street",
		Items:           []ledger.DraftItem{{ProductID: p.ID, Quantity: qty}},
	}
}

func TestPlaceOrderReservesStock(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewOrderStore(db)
	p := createProduct(t, db, "Widget", "10.00", 5)

	order, err := store.PlaceOrder(ctx, draftFor(p, 3))
	require.NoError(t, err)

	assert.Equal(t, ledger.StatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(mustDecimal(t, "30.00")), "total = %s", order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Widget", order.Items[0].ProductName)
	assert.True(t, order.Items[0].Subtotal.Equal(mustDecimal(t, "30.00")))

	got, err := NewCatalogStore(db).Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.StockQuantity)
}

func TestPlaceOrderSnapshotsPrice(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewOrderStore(db)
	catalogStore := NewCatalogStore(db)
	p := createProduct(t, db, "Widget", "10.00", 5)

	order, err := store.PlaceOrder(ctx, draftFor(p, 1))
	require.NoError(t, err)

	// A later price change must not alter the historical order.
	p.Price = mustDecimal(t, "99.99")
	require.NoError(t, catalogStore.Update(ctx, p))

	got, err := store.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, got.Items[0].Price.Equal(mustDecimal(t, "10.00")))
	assert.True(t, got.TotalAmount.Equal(mustDecimal(t, "10.00")))
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewOrderStore(db)
	p := createProduct(t, db, "Widget", "10.00", 5)

	_, err := store.PlaceOrder(ctx, draftFor(p, 6))
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrInsufficientStock)

	var stockErr *ledger.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 6, stockErr.Requested)
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, "Widget", stockErr.ProductName)

	// Nothing was written.
	got, err := NewCatalogStore(db).Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.StockQuantity)

	_, total, err := store.List(ctx, 0, 10, "")
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPlaceOrderRollsBackOnPartialFailure(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewOrderStore(db)
	p1 := createProduct(t, db, "First", "10.00", 5)
	p2 := createProduct(t, db, "Second", "20.00", 1)

	draft := ledger.Draft{
		CustomerName:    "Bob Smith",
		CustomerEmail:   "bob@example.com",
		ShippingAddress: "456 Main Avenue",
		Items: []ledger.DraftItem{
			{ProductID: p1.ID, Quantity: 2},
			{ProductID: p2.ID, Quantity: 3}, // exceeds stock
		},
	}

	_, err := store.PlaceOrder(ctx, draft)
	assert.ErrorIs(t, err, ledger.ErrInsufficientStock)

	// The first item's decrement must have been rolled back with the rest.
	got1, err := NewCatalogStore(db).Get(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got1.StockQuantity)

	_, total, err := store.List(ctx, 0, 10, "")
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewOrderStore(db)

	draft := ledger.Draft{
		CustomerEmail: "alice@example.com",
		Items:         []ledger.DraftItem{{ProductID: 999, Quantity: 1}},
	}
	_, err := store.PlaceOrder(ctx, draft)
	assert.ErrorIs(t, err, ledger.ErrProductNotFound)
}

func TestCancelRestoresStock(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewOrderStore(db)
	p := createProduct(t, db, "Widget", "10.00", 5)

	order, err := store.PlaceOrder(ctx, draftFor(p, 3))
	require.NoError(t, err)

	cancelled, err := store.Cancel(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusCancelled, cancelled.Status)

	got, err := NewCatalogStore(db).Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.StockQuantity)

	t.Run("cancel twice does not restore twice", func(t *testing.T) {
		_, err := store.Cancel(ctx, order.ID)
		assert.ErrorIs(t, err, ledger.ErrNotCancellable)

		got, err := NewCatalogStore(db).Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, got.StockQuantity)
	})
}

func TestCancelRejectsFinalStatuses(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewOrderStore(db)
	p := createProduct(t, db, "Widget", "10.00", 5)

	for _, status := range []ledger.Status{ledger.StatusShipped, ledger.StatusDelivered} {
		t.Run(string(status), func(t *testing.T) {
			order, err := store.PlaceOrder(ctx, draftFor(p, 1))
			require.NoError(t, err)
			_, err = store.UpdateStatus(ctx, order.ID, status)
			require.NoError(t, err)

			_, err = store.Cancel(ctx, order.ID)
			require.Error(t, err)
			assert.ErrorIs(t, err, ledger.ErrNotCancellable)

			var ncErr *ledger.NotCancellableError
			require.ErrorAs(t, err, &ncErr)
			assert.Equal(t, status, ncErr.Status)
		})
	}

	// Two units were reserved by the uncancellable orders and must stay
	// reserved.
	got, err := NewCatalogStore(db).Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.StockQuantity)
}

func TestCancelUnknownOrder(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewOrderStore(db)

	_, err := store.Cancel(ctx, 42)
	assert.ErrorIs(t, err, ledger.ErrOrderNotFound)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewOrderStore(db)
	p := createProduct(t, db, "Widget", "10.00", 5)

	order, err := store.PlaceOrder(ctx, draftFor(p, 1))
	require.NoError(t, err)

	updated, err := store.UpdateStatus(ctx, order.ID, ledger.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusShipped, updated.Status)
	assert.False(t, updated.UpdatedAt.Before(order.UpdatedAt))

	_, err = store.UpdateStatus(ctx, 999, ledger.StatusShipped)
	assert.ErrorIs(t, err, ledger.ErrOrderNotFound)
}

func TestListOrders(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewOrderStore(db)
	p := createProduct(t, db, "Widget", "10.00", 100)

	var last *ledger.Order
	for i := 0; i < 5; i++ {
		o, err := store.PlaceOrder(ctx, draftFor(p, 1))
		require.NoError(t, err)
		last = o
	}
	_, err := store.UpdateStatus(ctx, last.ID, ledger.StatusShipped)
	require.NoError(t, err)

	t.Run("pagination", func(t *testing.T) {
		page, total, err := store.List(ctx, 0, 2, "")
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Len(t, page, 2)

		rest, _, err := store.List(ctx, 4, 2, "")
		require.NoError(t, err)
		assert.Len(t, rest, 1)
	})

	t.Run("status filter", func(t *testing.T) {
		shipped, total, err := store.List(ctx, 0, 10, ledger.StatusShipped)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, shipped, 1)
		assert.Equal(t, last.ID, shipped[0].ID)
	})

	t.Run("offset beyond end", func(t *testing.T) {
		page, total, err := store.List(ctx, 100, 10, "")
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Empty(t, page)
	})
}

func TestByCustomer(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewOrderStore(db)
	p := createProduct(t, db, "Widget", "10.00", 100)

	_, err := store.PlaceOrder(ctx, draftFor(p, 1))
	require.NoError(t, err)

	other := draftFor(p, 1)
	other.CustomerEmail = "bob@example.com"
	_, err = store.PlaceOrder(ctx, other)
	require.NoError(t, err)

	orders, err := store.ByCustomer(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "alice@example.com", orders[0].CustomerEmail)

	none, err := store.ByCustomer(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStatistics(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewOrderStore(db)
	p := createProduct(t, db, "Widget", "10.00", 100)

	o1, err := store.PlaceOrder(ctx, draftFor(p, 1)) // 10.00
	require.NoError(t, err)
	_, err = store.PlaceOrder(ctx, draftFor(p, 2)) // 20.00
	require.NoError(t, err)
	_, err = store.Cancel(ctx, o1.ID)
	require.NoError(t, err)

	stats, err := store.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.True(t, stats.TotalRevenue.Equal(mustDecimal(t, "30.00")), "revenue = %s", stats.TotalRevenue)
	assert.True(t, stats.AverageOrderValue.Equal(mustDecimal(t, "15.00")), "avg = %s", stats.AverageOrderValue)
	assert.Equal(t, 1, stats.StatusBreakdown["pending"])
	assert.Equal(t, 1, stats.StatusBreakdown["cancelled"])
}

func TestStatisticsEmpty(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	stats, err := NewOrderStore(db).Statistics(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalOrders)
	assert.True(t, stats.TotalRevenue.IsZero())
	assert.True(t, stats.AverageOrderValue.IsZero())
}

func TestHasPurchased(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewOrderStore(db)
	p := createProduct(t, db, "Widget", "10.00", 100)

	order, err := store.PlaceOrder(ctx, draftFor(p, 1))
	require.NoError(t, err)

	ok, err := store.HasPurchased(ctx, "alice@example.com", p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.HasPurchased(ctx, "bob@example.com", p.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	t.Run("cancelled orders do not count", func(t *testing.T) {
		_, err := store.Cancel(ctx, order.ID)
		require.NoError(t, err)

		ok, err := store.HasPurchased(ctx, "alice@example.com", p.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestStaleByStatusAndUpdatedSince(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewOrderStore(db)
	p := createProduct(t, db, "Widget", "10.00", 100)

	order, err := store.PlaceOrder(ctx, draftFor(p, 1))
	require.NoError(t, err)

	stale, err := store.StaleByStatus(ctx, ledger.StatusPending, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, order.ID, stale[0].ID)

	stale, err = store.StaleByStatus(ctx, ledger.StatusPending, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, stale)

	_, err = store.UpdateStatus(ctx, order.ID, ledger.StatusShipped)
	require.NoError(t, err)

	recent, err := store.UpdatedSince(ctx, ledger.StatusShipped, time.Now().UTC().Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, order.ID, recent[0].ID)
}
