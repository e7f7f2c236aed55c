package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jcmexdev/ecommerce-core/internal/ledger"
	"github.com/jcmexdev/ecommerce-core/internal/notify"
	"github.com/jcmexdev/ecommerce-core/internal/pkg/cache"
)

// StatisticsKey is the cache key under which the statistics snapshot is
// stored, namespaced by the cache's service prefix.
const StatisticsKey = "statistics"

// statisticsTTL matches the upstream one-hour cache window.
const statisticsTTL = time.Hour

// OrderJobs bundles the periodic order maintenance tasks.
type OrderJobs struct {
	store ledger.Store
	sink  notify.Sink
	cache cache.Cache

	// pendingAge is how long an order may stay pending before the sweep
	// advances it to processing.
	pendingAge time.Duration
	// shippedWindow is how far back the notification sweep looks for
	// freshly shipped orders.
	shippedWindow time.Duration
}

func NewOrderJobs(store ledger.Store, sink notify.Sink, c cache.Cache) *OrderJobs {
	return &OrderJobs{
		store:         store,
		sink:          sink,
		cache:         c,
		pendingAge:    24 * time.Hour,
		shippedWindow: time.Hour,
	}
}

// Jobs returns the job set with production intervals.
func (j *OrderJobs) Jobs() []Job {
	return []Job{
		{Name: "process_pending_orders", Every: time.Hour, Run: j.ProcessPendingOrders},
		{Name: "send_order_status_notifications", Every: 15 * time.Minute, Run: j.SendOrderStatusNotifications},
		{Name: "calculate_order_statistics", Every: 15 * time.Minute, Run: j.CalculateOrderStatistics},
	}
}

// ProcessPendingOrders advances orders that have been pending for too long to
// processing.
func (j *OrderJobs) ProcessPendingOrders(ctx context.Context) error {
	threshold := time.Now().UTC().Add(-j.pendingAge)
	stale, err := j.store.StaleByStatus(ctx, ledger.StatusPending, threshold)
	if err != nil {
		return fmt.Errorf("find stale pending orders: %w", err)
	}

	var count int
	for _, o := range stale {
		if _, err := j.store.UpdateStatus(ctx, o.ID, ledger.StatusProcessing); err != nil {
			slog.ErrorContext(ctx, "failed to auto-process order", "order_id", o.ID, "error", err)
			continue
		}
		slog.InfoContext(ctx, "auto-processed pending order", "order_id", o.ID)
		count++
	}

	if count > 0 {
		slog.InfoContext(ctx, "pending order sweep finished", "processed", count)
	}
	return nil
}

// SendOrderStatusNotifications dispatches a shipping notice for every order
// shipped within the lookback window. Delivery is best-effort.
func (j *OrderJobs) SendOrderStatusNotifications(ctx context.Context) error {
	since := time.Now().UTC().Add(-j.shippedWindow)
	shipped, err := j.store.UpdatedSince(ctx, ledger.StatusShipped, since)
	if err != nil {
		return fmt.Errorf("find recently shipped orders: %w", err)
	}

	for _, o := range shipped {
		err := j.sink.Notify(ctx, notify.EventOrderShipped,
			fmt.Sprintf("Order #%d Shipped", o.ID),
			fmt.Sprintf("Your order has been shipped to %s", o.ShippingAddress),
			[]string{o.CustomerEmail},
		)
		if err != nil {
			slog.ErrorContext(ctx, "failed to send shipping notification", "order_id", o.ID, "error", err)
		}
	}
	return nil
}

// CalculateOrderStatistics aggregates order counts and revenue and caches the
// snapshot for the stats endpoint.
func (j *OrderJobs) CalculateOrderStatistics(ctx context.Context) error {
	stats, err := j.store.Statistics(ctx)
	if err != nil {
		return fmt.Errorf("aggregate order statistics: %w", err)
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal order statistics: %w", err)
	}

	key := j.cache.GenerateKey("orders", StatisticsKey)
	if err := j.cache.Set(ctx, key, string(payload), statisticsTTL); err != nil {
		return fmt.Errorf("cache order statistics: %w", err)
	}

	slog.InfoContext(ctx, "order statistics updated", "total_orders", stats.TotalOrders)
	return nil
}
