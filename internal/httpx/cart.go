package httpx

import (
	"encoding/json"
	"net/http"
)

// customerEmail reads the required customer_email query parameter. Carts are
// keyed by email; there is no authenticated session.
func customerEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	email := r.URL.Query().Get("customer_email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "customer_email is required")
		return "", false
	}
	return email, true
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	email, ok := customerEmail(w, r)
	if !ok {
		return
	}
	c, err := h.carts.Get(r.Context(), email)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCartToResponse(c))
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.CustomerEmail == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "customer_email is required")
		return
	}

	item, created, err := h.carts.AddItem(r.Context(), req.CustomerEmail, req.ProductID, req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, mapCartItemToResponse(item))
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.CustomerEmail == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "customer_email is required")
		return
	}

	item, err := h.carts.UpdateItem(r.Context(), req.CustomerEmail, itemID, req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCartItemToResponse(item))
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}
	email, ok := customerEmail(w, r)
	if !ok {
		return
	}
	if err := h.carts.RemoveItem(r.Context(), email, itemID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	email, ok := customerEmail(w, r)
	if !ok {
		return
	}
	if err := h.carts.Clear(r.Context(), email); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Checkout converts the customer's cart into a paid order. On any step
// failure the order is cancelled and reserved stock is restored before the
// error is returned.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.CustomerEmail == "" || req.ShippingAddress == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "customer_email and shipping_address are required")
		return
	}

	result, err := h.checkout.Checkout(r.Context(), req.CustomerEmail, req.CustomerName, req.ShippingAddress)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := CheckoutResponse{Order: mapOrderToResponse(result.Order)}
	if result.Payment != nil {
		p := mapPaymentToResponse(result.Payment)
		resp.Payment = &p
	}
	writeJSON(w, http.StatusCreated, resp)
}
