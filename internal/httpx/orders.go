package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jcmexdev/ecommerce-core/internal/jobs"
	"github.com/jcmexdev/ecommerce-core/internal/ledger"
)

// CreateOrder places an order directly from a list of product lines, checking
// and reserving stock atomically.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.CustomerEmail == "" || len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "customer_email and items are required")
		return
	}

	draft := ledger.Draft{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		ShippingAddress: req.ShippingAddress,
	}
	for _, it := range req.Items {
		if it.ProductID <= 0 || it.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_item", "product_id and quantity must be positive")
			return
		}
		draft.Items = append(draft.Items, ledger.DraftItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := h.orders.CreateOrder(r.Context(), draft)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapOrderToResponse(order))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

// ListOrders pages through orders. A customer_email query switches to the
// per-customer view, which is unpaged; status filters by exact match.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	if email := r.URL.Query().Get("customer_email"); email != "" {
		orders, err := h.orders.GetOrdersByCustomer(r.Context(), email)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, OrderListResponse{
			Count:    len(orders),
			Page:     1,
			PageSize: len(orders),
			Results:  mapOrders(orders),
		})
		return
	}

	page, pageSize := pageParams(r)
	orders, total, err := h.orders.ListOrders(r.Context(), ledger.ListFilter{
		Status:   ledger.Status(r.URL.Query().Get("status")),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OrderListResponse{
		Count:    total,
		Page:     page,
		PageSize: pageSize,
		Results:  mapOrders(orders),
	})
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	order, err := h.orders.UpdateOrderStatus(r.Context(), id, ledger.Status(req.Status))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, err := h.orders.CancelOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

// OrderStatistics serves the cached snapshot maintained by the periodic job
// and falls back to a live aggregation on a cache miss.
func (h *Handler) OrderStatistics(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		key := h.cache.GenerateKey("orders", jobs.StatisticsKey)
		if cached, err := h.cache.Get(r.Context(), key); err != nil {
			slog.WarnContext(r.Context(), "statistics cache read failed", "error", err)
		} else if cached != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(cached))
			return
		}
	}

	stats, err := h.orders.Statistics(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) ListOrderPayments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	payments, err := h.payments.ListByOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		out[i] = mapPaymentToResponse(p)
	}
	writeJSON(w, http.StatusOK, PaymentListResponse{Payments: out})
}
