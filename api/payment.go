package api

import (
	"encoding/json"
	"net/http"

	"github.com/codewithus/ledgerbridge/models"
	"github.com/codewithus/ledgerbridge/services"
)

type PaymentHandler struct {
	collectionService *services.CollectionService
}

func CreatePaymentHandler(collectionService *services.CollectionService) *PaymentHandler {
	return &PaymentHandler{
		collectionService: collectionService,
	}
}

func (h *PaymentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	payments, err := h.collectionService.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.DuePaymentListResponse{
		Payments: payments,
		Total:    len(payments),
	})
}

func (h *PaymentHandler) HandleSendReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req models.ReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	payment, err := h.collectionService.SendReminder(r.Context(), id, req.Channel)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, payment)
}
