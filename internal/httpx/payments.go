package httpx

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/shopspring/decimal"
)

// RefundPayment reverses up to the remaining refundable amount of a payment.
// An absent or empty amount means a full refund of whatever remains.
func (h *Handler) RefundPayment(w http.ResponseWriter, r *http.Request) {
	paymentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req RefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	amount := decimal.Zero
	if req.Amount != "" {
		d, err := decimal.NewFromString(req.Amount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_amount", "amount must be a decimal string")
			return
		}
		amount = d
	}

	refund, err := h.payments.Refund(r.Context(), paymentID, amount, req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapRefundToResponse(refund))
}
