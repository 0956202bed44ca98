package api

import (
	"net/http"

	"github.com/codewithus/ledgerbridge/services"
)

type TransactionHandler struct {
	settlementService *services.SettlementService
}

func CreateTransactionHandler(settlementService *services.SettlementService) *TransactionHandler {
	return &TransactionHandler{
		settlementService: settlementService,
	}
}

// HandleGrouped serves transactions split into pending and success buckets.
func (h *TransactionHandler) HandleGrouped(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.settlementService.Grouped(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, grouped)
}
