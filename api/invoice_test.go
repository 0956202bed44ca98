package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/codewithus/ledgerbridge/models"
	"github.com/codewithus/ledgerbridge/services"
	ledgertesting "github.com/codewithus/ledgerbridge/testing"
)

func newInvoiceRouter(store *ledgertesting.InMemoryInvoiceStore) *mux.Router {
	handler := CreateInvoiceHandler(services.CreateInvoiceService(store, zap.NewNop()))
	router := mux.NewRouter()
	router.HandleFunc("/invoices", handler.HandleList).Methods(http.MethodGet)
	router.HandleFunc("/invoices/{id}", handler.HandleGet).Methods(http.MethodGet)
	router.HandleFunc("/invoices/{id}/approve", handler.HandleApprove).Methods(http.MethodPost)
	router.HandleFunc("/invoices/{id}/reject", handler.HandleReject).Methods(http.MethodPost)
	return router
}

func TestInvoiceHandler_HandleList(t *testing.T) {
	inv := ledgertesting.MockInvoice()
	router := newInvoiceRouter(ledgertesting.NewInMemoryInvoiceStore(inv))

	req := httptest.NewRequest(http.MethodGet, "/invoices?status=pending&search=tech", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp models.InvoiceListResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 || len(resp.Invoices) != 1 {
		t.Errorf("got %d invoices, want 1", resp.Total)
	}
	if resp.Invoices[0].InvoiceNumber != inv.InvoiceNumber {
		t.Errorf("invoice number = %s, want %s", resp.Invoices[0].InvoiceNumber, inv.InvoiceNumber)
	}
}

func TestInvoiceHandler_HandleApprove(t *testing.T) {
	inv := ledgertesting.MockInvoice()
	router := newInvoiceRouter(ledgertesting.NewInMemoryInvoiceStore(inv))

	body, _ := json.Marshal(models.DecisionRequest{Remark: "Verified against PO"})
	req := httptest.NewRequest(http.MethodPost, "/invoices/"+inv.ID.String()+"/approve", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp models.InvoiceResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Invoice.Status != models.InvoiceStatusApproved {
		t.Errorf("status = %s, want approved", resp.Invoice.Status)
	}
}

func TestInvoiceHandler_HandleApprove_MissingRemark(t *testing.T) {
	inv := ledgertesting.MockInvoice()
	router := newInvoiceRouter(ledgertesting.NewInMemoryInvoiceStore(inv))

	body, _ := json.Marshal(models.DecisionRequest{})
	req := httptest.NewRequest(http.MethodPost, "/invoices/"+inv.ID.String()+"/approve", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestInvoiceHandler_HandleReject_AlreadyDecided(t *testing.T) {
	inv := ledgertesting.MockInvoice()
	inv.Status = models.InvoiceStatusApproved
	router := newInvoiceRouter(ledgertesting.NewInMemoryInvoiceStore(inv))

	body, _ := json.Marshal(models.DecisionRequest{Remark: "too late"})
	req := httptest.NewRequest(http.MethodPost, "/invoices/"+inv.ID.String()+"/reject", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestInvoiceHandler_HandleGet_NotFound(t *testing.T) {
	router := newInvoiceRouter(ledgertesting.NewInMemoryInvoiceStore())

	req := httptest.NewRequest(http.MethodGet, "/invoices/00000000-0000-0000-0000-000000000001", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestInvoiceHandler_HandleGet_BadID(t *testing.T) {
	router := newInvoiceRouter(ledgertesting.NewInMemoryInvoiceStore())

	req := httptest.NewRequest(http.MethodGet, "/invoices/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
