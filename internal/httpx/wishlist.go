package httpx

import (
	"encoding/json"
	"net/http"
)

func (h *Handler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	email, ok := customerEmail(w, r)
	if !ok {
		return
	}
	items, summary, err := h.wishlists.List(r.Context(), email)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, WishlistResponse{
		Items:   mapWishlistItems(items),
		Summary: summary,
	})
}

func (h *Handler) AddWishlistItem(w http.ResponseWriter, r *http.Request) {
	var req AddWishlistItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.CustomerEmail == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "customer_email is required")
		return
	}

	item, err := h.wishlists.Add(r.Context(), req.CustomerEmail, req.ProductID, req.Notes)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, WishlistItemResponse{
		ID:           item.ID,
		ProductID:    item.ProductID,
		ProductName:  item.ProductName,
		ProductPrice: item.ProductPrice.String(),
		InStock:      item.InStock,
		Notes:        item.Notes,
		AddedAt:      fmtTime(item.AddedAt),
	})
}

func (h *Handler) RemoveWishlistItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "productID")
	if !ok {
		return
	}
	email, ok := customerEmail(w, r)
	if !ok {
		return
	}
	if err := h.wishlists.Remove(r.Context(), email, productID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
