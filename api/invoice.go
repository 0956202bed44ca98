package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/codewithus/ledgerbridge/models"
	"github.com/codewithus/ledgerbridge/services"
)

type decisionFunc func(ctx context.Context, id uuid.UUID, actor, remark string) (*models.Invoice, error)

type InvoiceHandler struct {
	invoiceService *services.InvoiceService
}

func CreateInvoiceHandler(invoiceService *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

// HandleList serves the approval queue, filtered by the optional type,
// status and q query parameters.
func (h *InvoiceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := services.InvoiceFilter{
		FactoringType: firstOf(query.Get("type"), query.Get("factoring_type")),
		Status:        query.Get("status"),
		SearchTerm:    firstOf(query.Get("q"), query.Get("search")),
	}

	invoices, err := h.invoiceService.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.InvoiceListResponse{
		Invoices: invoices,
		Total:    len(invoices),
	})
}

func (h *InvoiceHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	invoice, err := h.invoiceService.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.InvoiceResponse{Invoice: invoice})
}

func (h *InvoiceHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.invoiceService.Approve)
}

func (h *InvoiceHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.invoiceService.Reject)
}

func (h *InvoiceHandler) decide(w http.ResponseWriter, r *http.Request, op decisionFunc) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req models.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	invoice, err := op(r.Context(), id, actorFrom(r), req.Remark)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.InvoiceResponse{Invoice: invoice})
}
