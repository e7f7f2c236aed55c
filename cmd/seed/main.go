// Command seed loads a demo catalog and a handful of orders into the
// database so the API has something to serve right after a fresh start.
// Running it twice is safe: products are matched by name and customers by
// email before anything is inserted.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/ecommerce-core/internal/catalog"
	"github.com/jcmexdev/ecommerce-core/internal/ledger"
	"github.com/jcmexdev/ecommerce-core/internal/pkg/telemetry"
	"github.com/jcmexdev/ecommerce-core/internal/storage/sqlite"
)

type Config struct {
	DBPath string `envconfig:"DB_PATH" default:"ecommerce.db"`
}

type seedProduct struct {
	name        string
	description string
	price       string
	stock       int
	category    string
}

var products = []seedProduct{
	{"MacBook Pro 16\"", "High-performance laptop with M2 chip, 16GB RAM, 512GB SSD", "2499.99", 25, "electronics"},
	{"iPhone 15 Pro", "Latest iPhone with A17 Pro chip, 256GB storage", "1199.99", 50, "electronics"},
	{"Sony WH-1000XM5", "Premium noise-cancelling wireless headphones", "399.99", 100, "electronics"},
	{"Nike Air Max 270", "Comfortable running shoes with Air cushioning", "149.99", 75, "sports"},
	{"Levi's 501 Jeans", "Classic straight-fit jeans, blue denim", "89.99", 150, "clothing"},
	{"The Pragmatic Programmer", "Essential book for software developers", "39.99", 200, "books"},
	{"Clean Code", "A Handbook of Agile Software Craftsmanship", "44.99", 180, "books"},
	{"Dyson V15 Vacuum", "Cordless vacuum cleaner with laser detection", "649.99", 30, "home"},
	{"LEGO Star Wars Set", "Millennium Falcon building set, 1351 pieces", "159.99", 60, "toys"},
	{"Wilson Tennis Racket", "Professional-grade tennis racket", "199.99", 40, "sports"},
}

type seedOrder struct {
	customerName    string
	customerEmail   string
	shippingAddress string
	// indexes into the products slice paired with quantities
	lines []struct {
		product  int
		quantity int
	}
}

var orders = []seedOrder{
	{"Alice Johnson", "alice@example.com", "123 Tech Street, San Francisco, CA 94102",
		[]struct{ product, quantity int }{{0, 1}, {2, 1}}},
	{"Bob Smith", "bob@example.com", "456 Main Avenue, New York, NY 10001",
		[]struct{ product, quantity int }{{1, 2}, {5, 3}}},
	{"Carol Williams", "carol@example.com", "789 Oak Road, Austin, TX 78701",
		[]struct{ product, quantity int }{{3, 1}, {4, 2}}},
	{"David Brown", "david@example.com", "321 Pine Lane, Seattle, WA 98101",
		[]struct{ product, quantity int }{{7, 1}, {8, 2}}},
}

func main() {
	telemetry.InitLogger()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := run(ctx, db); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, db *sqlite.DB) error {
	catalogSvc := catalog.NewService(sqlite.NewCatalogStore(db))
	orderStore := sqlite.NewOrderStore(db)
	orderSvc := ledger.NewService(orderStore, nil)

	ids, err := seedProducts(ctx, catalogSvc)
	if err != nil {
		return err
	}
	return seedOrders(ctx, orderSvc, ids)
}

// seedProducts creates each demo product unless one with the same name
// already exists, and returns the product IDs in declaration order.
func seedProducts(ctx context.Context, svc *catalog.Service) ([]int64, error) {
	existing := map[string]int64{}
	page := 1
	for {
		batch, total, err := svc.List(ctx, page, 100)
		if err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		for _, p := range batch {
			existing[p.Name] = p.ID
		}
		if page*100 >= total || len(batch) == 0 {
			break
		}
		page++
	}

	ids := make([]int64, 0, len(products))
	for _, sp := range products {
		if id, ok := existing[sp.name]; ok {
			slog.Info("product already exists", "name", sp.name)
			ids = append(ids, id)
			continue
		}
		price, err := decimal.NewFromString(sp.price)
		if err != nil {
			return nil, fmt.Errorf("parse price for %q: %w", sp.name, err)
		}
		p, err := svc.Create(ctx, sp.name, sp.description, price, sp.stock, sp.category)
		if err != nil {
			return nil, fmt.Errorf("create product %q: %w", sp.name, err)
		}
		slog.Info("product created", "name", p.Name, "id", p.ID)
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func seedOrders(ctx context.Context, svc *ledger.Service, productIDs []int64) error {
	for _, so := range orders {
		existing, err := svc.GetOrdersByCustomer(ctx, so.customerEmail)
		if err != nil {
			return fmt.Errorf("check orders for %s: %w", so.customerEmail, err)
		}
		if len(existing) > 0 {
			slog.Info("order already exists", "customer", so.customerName)
			continue
		}

		draft := ledger.Draft{
			CustomerName:    so.customerName,
			CustomerEmail:   so.customerEmail,
			ShippingAddress: so.shippingAddress,
		}
		for _, line := range so.lines {
			draft.Items = append(draft.Items, ledger.DraftItem{
				ProductID: productIDs[line.product],
				Quantity:  line.quantity,
			})
		}

		order, err := svc.CreateOrder(ctx, draft)
		if err != nil {
			return fmt.Errorf("create order for %s: %w", so.customerName, err)
		}
		slog.Info("order created", "customer", so.customerName, "total", order.TotalAmount.String())
	}
	return nil
}
