// Package httpx exposes the REST API. Handlers decode and validate the wire
// format, delegate to the domain services, and map domain errors onto HTTP
// statuses; no business rule lives here.
package httpx

import (
	"net/http"

	"github.com/jcmexdev/ecommerce-core/internal/cart"
	"github.com/jcmexdev/ecommerce-core/internal/catalog"
	"github.com/jcmexdev/ecommerce-core/internal/checkout"
	"github.com/jcmexdev/ecommerce-core/internal/ledger"
	"github.com/jcmexdev/ecommerce-core/internal/payment"
	"github.com/jcmexdev/ecommerce-core/internal/pkg/cache"
	"github.com/jcmexdev/ecommerce-core/internal/review"
	"github.com/jcmexdev/ecommerce-core/internal/wishlist"
)

// Handler handles incoming HTTP requests for all store domains.
type Handler struct {
	products  *catalog.Service
	orders    *ledger.Service
	carts     *cart.Service
	wishlists *wishlist.Service
	reviews   *review.Service
	payments  *payment.Service
	checkout  *checkout.Service
	cache     cache.Cache // nil-safe: statistics fall back to a live query
}

func NewHandler(
	products *catalog.Service,
	orders *ledger.Service,
	carts *cart.Service,
	wishlists *wishlist.Service,
	reviews *review.Service,
	payments *payment.Service,
	co *checkout.Service,
	c cache.Cache,
) *Handler {
	return &Handler{
		products:  products,
		orders:    orders,
		carts:     carts,
		wishlists: wishlists,
		reviews:   reviews,
		payments:  payments,
		checkout:  co,
		cache:     c,
	}
}

// Health is the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
