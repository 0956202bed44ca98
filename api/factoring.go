package api

import (
	"encoding/json"
	"net/http"

	"github.com/codewithus/ledgerbridge/models"
	"github.com/codewithus/ledgerbridge/services"
)

type FactoringHandler struct {
	bidService        *services.BidService
	settlementService *services.SettlementService
}

func CreateFactoringHandler(bidService *services.BidService, settlementService *services.SettlementService) *FactoringHandler {
	return &FactoringHandler{
		bidService:        bidService,
		settlementService: settlementService,
	}
}

func (h *FactoringHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	requests, err := h.bidService.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.RequestListResponse{
		Requests: requests,
		Total:    len(requests),
	})
}

// HandleAvailable serves the marketplace of requests still open for a bid.
func (h *FactoringHandler) HandleAvailable(w http.ResponseWriter, r *http.Request) {
	requests, err := h.bidService.Available(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.RequestListResponse{
		Requests: requests,
		Total:    len(requests),
	})
}

func (h *FactoringHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	request, err := h.bidService.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.RequestResponse{Request: request})
}

func (h *FactoringHandler) HandleSubmitBid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req models.SubmitBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	request, err := h.bidService.SubmitBid(r.Context(), id, actorFrom(r), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.RequestResponse{Request: request})
}

func (h *FactoringHandler) HandleAcceptBid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	tx, err := h.settlementService.AcceptBid(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tx)
}
