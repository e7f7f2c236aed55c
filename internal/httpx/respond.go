package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jcmexdev/ecommerce-core/internal/cart"
	"github.com/jcmexdev/ecommerce-core/internal/catalog"
	"github.com/jcmexdev/ecommerce-core/internal/ledger"
	"github.com/jcmexdev/ecommerce-core/internal/payment"
	"github.com/jcmexdev/ecommerce-core/internal/review"
	"github.com/jcmexdev/ecommerce-core/internal/wishlist"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}

// writeDomainError maps domain errors onto HTTP statuses and stable error
// codes. The message carries the human-readable detail (including available
// quantities for stock errors), the code is what clients branch on.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, ledger.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, ledger.ErrProductNotFound):
		writeError(w, http.StatusBadRequest, "product_not_found", err.Error())
	case errors.Is(err, cart.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "cart_item_not_found", err.Error())
	case errors.Is(err, wishlist.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "wishlist_item_not_found", err.Error())
	case errors.Is(err, review.ErrNotFound):
		writeError(w, http.StatusNotFound, "review_not_found", err.Error())
	case errors.Is(err, payment.ErrNotFound):
		writeError(w, http.StatusNotFound, "payment_not_found", err.Error())

	case errors.Is(err, ledger.ErrInsufficientStock):
		writeError(w, http.StatusBadRequest, "insufficient_stock", err.Error())
	case isCartStockError(err):
		writeError(w, http.StatusBadRequest, "insufficient_stock", err.Error())

	case errors.Is(err, ledger.ErrNotCancellable):
		writeError(w, http.StatusBadRequest, "order_not_cancellable", err.Error())
	case errors.Is(err, review.ErrAlreadyReviewed):
		writeError(w, http.StatusConflict, "already_reviewed", err.Error())
	case errors.Is(err, wishlist.ErrAlreadyListed):
		writeError(w, http.StatusConflict, "already_in_wishlist", err.Error())
	case errors.Is(err, payment.ErrNotRefundable):
		writeError(w, http.StatusConflict, "payment_not_refundable", err.Error())

	case isDeclinedError(err):
		writeError(w, http.StatusPaymentRequired, "payment_declined", err.Error())

	case errors.Is(err, ledger.ErrEmptyOrder),
		errors.Is(err, ledger.ErrInvalidStatus),
		errors.Is(err, catalog.ErrInvalidPrice),
		errors.Is(err, catalog.ErrInvalidStock),
		errors.Is(err, catalog.ErrNameRequired),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrEmptyCart),
		errors.Is(err, review.ErrInvalidRating),
		errors.Is(err, payment.ErrInvalidAmount),
		errors.Is(err, payment.ErrRefundTooLarge):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())

	case errors.Is(err, ledger.ErrTransaction):
		writeError(w, http.StatusBadGateway, "transaction_failed", err.Error())

	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func isCartStockError(err error) bool {
	var se *cart.StockError
	return errors.As(err, &se)
}

func isDeclinedError(err error) bool {
	var de *payment.DeclinedError
	return errors.As(err, &de)
}
