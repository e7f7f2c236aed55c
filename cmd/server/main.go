package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/jcmexdev/ecommerce-core/internal/cart"
	"github.com/jcmexdev/ecommerce-core/internal/catalog"
	"github.com/jcmexdev/ecommerce-core/internal/checkout"
	checkoutsqlite "github.com/jcmexdev/ecommerce-core/internal/checkout/checkoutlog/sqlite"
	"github.com/jcmexdev/ecommerce-core/internal/httpx"
	"github.com/jcmexdev/ecommerce-core/internal/jobs"
	"github.com/jcmexdev/ecommerce-core/internal/ledger"
	"github.com/jcmexdev/ecommerce-core/internal/notify"
	"github.com/jcmexdev/ecommerce-core/internal/payment"
	"github.com/jcmexdev/ecommerce-core/internal/pkg/cache"
	"github.com/jcmexdev/ecommerce-core/internal/pkg/telemetry"
	"github.com/jcmexdev/ecommerce-core/internal/review"
	"github.com/jcmexdev/ecommerce-core/internal/storage/sqlite"
	"github.com/jcmexdev/ecommerce-core/internal/wishlist"
)

// Config is populated from the environment. Every field has a local default
// so `go run ./cmd/server` works with nothing but a writable data directory.
type Config struct {
	Addr        string `envconfig:"ADDR" default:":8080"`
	DBPath      string `envconfig:"DB_PATH" default:"ecommerce.db"`
	RedisAddr   string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"ecommerce-core"`
	JobsEnabled bool   `envconfig:"JOBS_ENABLED" default:"true"`
}

func main() {
	telemetry.InitLogger()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, cfg.ServiceName)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			slog.Error("tracer shutdown failed", "error", err)
		}
	}()

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	checkoutLogs, err := checkoutsqlite.New(db.Handle())
	if err != nil {
		slog.Error("failed to prepare checkout log", "error", err)
		os.Exit(1)
	}

	redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.ServiceName)
	sink := notify.NewSlogSink()

	products := catalog.NewService(sqlite.NewCatalogStore(db))
	orderStore := sqlite.NewOrderStore(db)
	orders := ledger.NewService(orderStore, sink)
	carts := cart.NewService(sqlite.NewCartStore(db))
	wishlists := wishlist.NewService(sqlite.NewWishlistStore(db))
	reviews := review.NewService(sqlite.NewReviewStore(db), orderStore)
	payments := payment.NewService(sqlite.NewPaymentStore(db), payment.NewStubProcessor())
	checkoutSvc := checkout.NewService(carts, orders, payments, checkoutLogs)

	handler := httpx.NewHandler(products, orders, carts, wishlists, reviews, payments, checkoutSvc, redisCache)

	if cfg.JobsEnabled {
		orderJobs := jobs.NewOrderJobs(orderStore, sink, redisCache)
		runner := jobs.NewRunner(orderJobs.Jobs()...)
		go runner.Start(ctx)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpx.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
