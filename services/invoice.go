package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codewithus/ledgerbridge/ledger"
	"github.com/codewithus/ledgerbridge/models"
	"github.com/codewithus/ledgerbridge/monitoring"
	"github.com/codewithus/ledgerbridge/stores"
)

// FilterAll is the wildcard value for any invoice filter field.
const FilterAll = "all"

type InvoiceFilter struct {
	FactoringType string
	Status        string
	SearchTerm    string
}

// Filter narrows invoices by type, status and free-text search. Predicates
// are ANDed; an empty or "all" field applies no constraint. The search term
// matches case-insensitively against the invoice number and seller name.
// Input order is preserved.
func Filter(invoices []*models.Invoice, f InvoiceFilter) []*models.Invoice {
	out := make([]*models.Invoice, 0, len(invoices))
	term := strings.ToLower(f.SearchTerm)
	for _, inv := range invoices {
		if constrains(f.FactoringType) && string(inv.FactoringType) != f.FactoringType {
			continue
		}
		if constrains(f.Status) && string(inv.Status) != f.Status {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(inv.InvoiceNumber), term) &&
			!strings.Contains(strings.ToLower(inv.Seller.Name), term) {
			continue
		}
		out = append(out, inv)
	}
	return out
}

func constrains(field string) bool {
	return field != "" && field != FilterAll
}

type InvoiceService struct {
	invoices stores.InvoiceStore
	log      *zap.Logger
	now      func() time.Time
}

func CreateInvoiceService(invoices stores.InvoiceStore, log *zap.Logger) *InvoiceService {
	return &InvoiceService{
		invoices: invoices,
		log:      log,
		now:      time.Now,
	}
}

func (s *InvoiceService) List(ctx context.Context, f InvoiceFilter) ([]*models.Invoice, error) {
	invoices, err := s.invoices.List(ctx)
	if err != nil {
		return nil, ledger.NewRemoteError("list invoices", err)
	}
	return Filter(invoices, f), nil
}

func (s *InvoiceService) Get(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.invoices.GetByID(ctx, id)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, ledger.NewRemoteError("get invoice", err)
	}
	return invoice, nil
}

func (s *InvoiceService) Approve(ctx context.Context, id uuid.UUID, actor, remark string) (*models.Invoice, error) {
	return s.decide(ctx, id, actor, remark, models.InvoiceStatusApproved)
}

func (s *InvoiceService) Reject(ctx context.Context, id uuid.UUID, actor, remark string) (*models.Invoice, error) {
	return s.decide(ctx, id, actor, remark, models.InvoiceStatusRejected)
}

// decide applies a terminal approve/reject decision. The remark is
// mandatory and the invoice must still be pending; the status guard is
// re-checked inside the store transaction, so a stale client loses with
// an InvalidStateError rather than clobbering the earlier decision.
func (s *InvoiceService) decide(ctx context.Context, id uuid.UUID, actor, remark string, decision models.InvoiceStatus) (*models.Invoice, error) {
	if strings.TrimSpace(remark) == "" {
		return nil, ledger.NewValidationError("remark", "remark is required")
	}

	invoice, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !invoice.Decidable() {
		return nil, &ledger.InvalidStateError{
			Entity:  "invoice",
			ID:      id.String(),
			Current: string(invoice.Status),
			Wanted:  string(models.InvoiceStatusPending),
		}
	}

	now := s.now()
	invoice.Status = decision
	event := models.TimelineEvent{
		InvoiceID: invoice.ID,
		Action:    string(decision),
		Date:      now,
		Actor:     actor,
		Remark:    remark,
	}

	if err := s.invoices.SaveDecision(ctx, invoice, event); err != nil {
		var stale *ledger.InvalidStateError
		if errors.As(err, &stale) {
			return nil, err
		}
		return nil, ledger.NewRemoteError("save decision", err)
	}

	invoice.Timeline = append(invoice.Timeline, event)
	monitoring.InvoiceDecisions.WithLabelValues(string(decision)).Inc()
	s.log.Info("invoice decided",
		zap.String("invoice_id", id.String()),
		zap.String("decision", string(decision)),
		zap.String("actor", actor))
	return invoice, nil
}
