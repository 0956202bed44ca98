package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/codewithus/ledgerbridge/ledger"
	"github.com/codewithus/ledgerbridge/models"
	ledgertesting "github.com/codewithus/ledgerbridge/testing"
)

func TestBidService_SubmitBid(t *testing.T) {
	req := ledgertesting.MockFactoringRequest()
	store := ledgertesting.NewInMemoryRequestStore(req)
	svc := CreateBidService(store, zap.NewNop())

	got, err := svc.SubmitBid(ledgertesting.MockContext(), req.ID, "Apex Capital", ledgertesting.MockSubmitBidRequest())
	if err != nil {
		t.Fatalf("SubmitBid() error = %v", err)
	}
	if got.Status != models.RequestStatusBidPlaced {
		t.Errorf("status = %s, want bid_placed", got.Status)
	}
	if got.Bid == nil || got.Bid.Financier != "Apex Capital" {
		t.Fatalf("bid not attached: %+v", got.Bid)
	}
}

func TestBidService_SubmitBidValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.SubmitBidRequest)
		field  string
	}{
		{
			name:   "negative interest rate",
			mutate: func(r *models.SubmitBidRequest) { r.InterestRate = decimal.NewFromInt(-1) },
			field:  "interest_rate",
		},
		{
			name:   "zero interest rate",
			mutate: func(r *models.SubmitBidRequest) { r.InterestRate = decimal.Zero },
			field:  "interest_rate",
		},
		{
			name:   "zero advance amount",
			mutate: func(r *models.SubmitBidRequest) { r.AdvanceAmount = decimal.Zero },
			field:  "advance_amount",
		},
		{
			name:   "zero validity period",
			mutate: func(r *models.SubmitBidRequest) { r.ValidityPeriodDays = 0 },
			field:  "validity_period_days",
		},
		{
			name:   "missing terms",
			mutate: func(r *models.SubmitBidRequest) { r.Terms = "" },
			field:  "terms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ledgertesting.MockFactoringRequest()
			store := ledgertesting.NewInMemoryRequestStore(req)
			svc := CreateBidService(store, zap.NewNop())

			in := ledgertesting.MockSubmitBidRequest()
			tt.mutate(&in)

			_, err := svc.SubmitBid(ledgertesting.MockContext(), req.ID, "Apex Capital", in)
			var validation *ledger.ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("SubmitBid() error = %v, want ValidationError", err)
			}
			if validation.Field != tt.field {
				t.Errorf("field = %s, want %s", validation.Field, tt.field)
			}

			stored, _ := store.GetByID(ledgertesting.MockContext(), req.ID)
			if stored.Status != models.RequestStatusPendingBid {
				t.Errorf("request mutated on failed validation: %s", stored.Status)
			}
		})
	}
}

func TestBidService_SecondBidConflicts(t *testing.T) {
	req := ledgertesting.MockFactoringRequest()
	store := ledgertesting.NewInMemoryRequestStore(req)
	svc := CreateBidService(store, zap.NewNop())

	if _, err := svc.SubmitBid(ledgertesting.MockContext(), req.ID, "Apex Capital", ledgertesting.MockSubmitBidRequest()); err != nil {
		t.Fatalf("first SubmitBid() error = %v", err)
	}

	_, err := svc.SubmitBid(ledgertesting.MockContext(), req.ID, "Nova Finance", ledgertesting.MockSubmitBidRequest())
	var conflict *ledger.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("second SubmitBid() error = %v, want ConflictError", err)
	}

	stored, _ := store.GetByID(ledgertesting.MockContext(), req.ID)
	if stored.Bid.Financier != "Apex Capital" {
		t.Errorf("first bid overwritten by %s", stored.Bid.Financier)
	}
}

func TestBidService_SubmitBidNotFound(t *testing.T) {
	store := ledgertesting.NewInMemoryRequestStore()
	svc := CreateBidService(store, zap.NewNop())

	_, err := svc.SubmitBid(ledgertesting.MockContext(), uuid.New(), "Apex Capital", ledgertesting.MockSubmitBidRequest())
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("SubmitBid() error = %v, want ErrNotFound", err)
	}
}

func TestBidService_AvailableExcludesBidPlaced(t *testing.T) {
	open := ledgertesting.MockFactoringRequest()
	taken := ledgertesting.MockFactoringRequest()
	taken.InvoiceNumber = "INV-2025-099"
	taken.Status = models.RequestStatusBidPlaced

	store := ledgertesting.NewInMemoryRequestStore(open, taken)
	svc := CreateBidService(store, zap.NewNop())

	got, err := svc.Available(ledgertesting.MockContext())
	if err != nil {
		t.Fatalf("Available() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != open.ID {
		t.Errorf("Available() = %d requests, want only the open one", len(got))
	}
}
