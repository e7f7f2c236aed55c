package httpx

import (
	"encoding/json"
	"net/http"
)

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.CustomerEmail == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "customer_email is required")
		return
	}

	rev, err := h.reviews.Create(r.Context(), productID, req.CustomerEmail, req.Rating, req.Title, req.Comment)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapReviewToResponse(rev))
}

func (h *Handler) ListProductReviews(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	reviews, err := h.reviews.ListByProduct(r.Context(), productID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapReviews(reviews))
}

// VoteReview records a helpfulness vote. Voting again replaces the previous
// vote rather than stacking.
func (h *Handler) VoteReview(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req VoteReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.CustomerEmail == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "customer_email is required")
		return
	}

	rev, err := h.reviews.Vote(r.Context(), reviewID, req.CustomerEmail, req.Helpful)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapReviewToResponse(rev))
}

// DeleteReview removes a review; only its author may delete it.
func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	email, ok := customerEmail(w, r)
	if !ok {
		return
	}
	if err := h.reviews.Delete(r.Context(), reviewID, email); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
