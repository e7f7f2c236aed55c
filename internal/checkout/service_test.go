package checkout_test

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-core/internal/cart"
	"github.com/jcmexdev/ecommerce-core/internal/catalog"
	"github.com/jcmexdev/ecommerce-core/internal/checkout"
	"github.com/jcmexdev/ecommerce-core/internal/checkout/checkoutlog"
	checkoutsqlite "github.com/jcmexdev/ecommerce-core/internal/checkout/checkoutlog/sqlite"
	"github.com/jcmexdev/ecommerce-core/internal/ledger"
	"github.com/jcmexdev/ecommerce-core/internal/payment"
	"github.com/jcmexdev/ecommerce-core/internal/storage/sqlite"
)

type env struct {
	db       *sqlite.DB
	products *catalog.Service
	carts    *cart.Service
	orders   *ledger.Service
	payments *payment.Service
	checkout *checkout.Service
	logs     *checkoutsqlite.Repository
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logs, err := checkoutsqlite.New(db.Handle())
	require.NoError(t, err)

	carts := cart.NewService(sqlite.NewCartStore(db))
	orders := ledger.NewService(sqlite.NewOrderStore(db), nil)
	payments := payment.NewService(sqlite.NewPaymentStore(db), payment.NewStubProcessor())

	return &env{
		db:       db,
		products: catalog.NewService(sqlite.NewCatalogStore(db)),
		carts:    carts,
		orders:   orders,
		payments: payments,
		checkout: checkout.NewService(carts, orders, payments, logs),
		logs:     logs,
	}
}

func (e *env) addProduct(t *testing.T, price string, stock int) *catalog.Product {
	t.Helper()
	d, err := decimal.NewFromString(price)
	require.NoError(t, err)
	p, err := e.products.Create(context.Background(), "Widget", "test", d, stock, "test")
	require.NoError(t, err)
	return p
}

func TestCheckoutSuccess(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	p := e.addProduct(t, "100.00", 5)

	_, _, err := e.carts.AddItem(ctx, "alice@example.com", p.ID, 2)
	require.NoError(t, err)

	result, err := e.checkout.Checkout(ctx, "alice@example.com", "Alice Johnson", "123 Tech Street")
	require.NoError(t, err)

	assert.Equal(t, ledger.StatusProcessing, result.Order.Status)
	assert.True(t, result.Order.TotalAmount.Equal(decimal.RequireFromString("200.00")))
	require.NotNil(t, result.Payment)
	assert.Equal(t, payment.StatusSucceeded, result.Payment.Status)

	// Stock reserved, cart emptied.
	got, err := e.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.StockQuantity)

	c, err := e.carts.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	// The durable log ends in COMPLETED.
	entry, err := e.logs.GetLatest(ctx, strconv.FormatInt(result.Order.ID, 10))
	require.NoError(t, err)
	assert.Equal(t, checkoutlog.StatusCompleted, entry.Status)
	assert.WithinDuration(t, time.Now(), entry.UpdatedAt, time.Minute)
}

func TestCheckoutPaymentDeclined(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	// 2 x 300.00 exceeds the stub processor's limit.
	p := e.addProduct(t, "300.00", 5)

	_, _, err := e.carts.AddItem(ctx, "alice@example.com", p.ID, 2)
	require.NoError(t, err)

	_, err = e.checkout.Checkout(ctx, "alice@example.com", "Alice Johnson", "123 Tech Street")
	require.Error(t, err)

	var declined *payment.DeclinedError
	assert.ErrorAs(t, err, &declined)

	// The order was cancelled and the reserved stock restored.
	orders, err := e.orders.GetOrdersByCustomer(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, ledger.StatusCancelled, orders[0].Status)

	got, err := e.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.StockQuantity)

	// The charge failed before the cart was touched, so it survives for a
	// retry with a smaller order.
	c, err := e.carts.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Len(t, c.Items, 1)

	// The failed attempt is on the payment record.
	payments, err := e.payments.ListByOrder(ctx, orders[0].ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, payment.StatusFailed, payments[0].Status)

	entry, err := e.logs.GetLatest(ctx, strconv.FormatInt(orders[0].ID, 10))
	require.NoError(t, err)
	assert.Equal(t, checkoutlog.StatusFailed, entry.Status)
}

func TestCheckoutEmptyCart(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.checkout.Checkout(ctx, "alice@example.com", "Alice Johnson", "123 Tech Street")
	assert.ErrorIs(t, err, cart.ErrEmptyCart)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	p := e.addProduct(t, "10.00", 3)

	_, _, err := e.carts.AddItem(ctx, "alice@example.com", p.ID, 3)
	require.NoError(t, err)

	// Stock drains between adding to cart and checking out.
	_, err = e.products.Update(ctx, p.ID, catalog.UpdateParams{StockQuantity: intPtr(1)})
	require.NoError(t, err)

	_, err = e.checkout.Checkout(ctx, "alice@example.com", "Alice Johnson", "123 Tech Street")
	assert.ErrorIs(t, err, ledger.ErrInsufficientStock)

	// No order survives the failed reservation.
	orders, err := e.orders.GetOrdersByCustomer(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func intPtr(v int) *int { return &v }
