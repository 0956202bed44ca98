package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codewithus/ledgerbridge/ledger"
	"github.com/codewithus/ledgerbridge/models"
	"github.com/codewithus/ledgerbridge/monitoring"
	"github.com/codewithus/ledgerbridge/providers"
	"github.com/codewithus/ledgerbridge/stores"
	"github.com/codewithus/ledgerbridge/utils"
)

// SettlementService turns an accepted bid into money movement: it records a
// PENDING transaction, disburses the advance through a payment provider and
// opens a due payment for the buyer to settle.
type SettlementService struct {
	requests     stores.RequestStore
	payments     stores.DuePaymentStore
	transactions stores.TransactionStore
	selector     *providers.Selector
	currency     string
	retry        *utils.RetryConfig
	log          *zap.Logger
	now          func() time.Time
}

func CreateSettlementService(
	requests stores.RequestStore,
	payments stores.DuePaymentStore,
	transactions stores.TransactionStore,
	selector *providers.Selector,
	currency string,
	log *zap.Logger,
) *SettlementService {
	return &SettlementService{
		requests:     requests,
		payments:     payments,
		transactions: transactions,
		selector:     selector,
		currency:     currency,
		retry:        utils.CreateDefaultRetryConfig(),
		log:          log,
		now:          time.Now,
	}
}

// AcceptBid finances a bid_placed request. The request flips to financed
// before the provider call; if disbursement ultimately fails, the flip is
// reverted and the transaction is left FAILED so the acceptance can be
// retried.
func (s *SettlementService) AcceptBid(ctx context.Context, requestID uuid.UUID) (*models.Transaction, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, ledger.NewRemoteError("get factoring request", err)
	}
	if request.Status != models.RequestStatusBidPlaced || request.Bid == nil {
		return nil, &ledger.InvalidStateError{
			Entity:  "factoring_request",
			ID:      requestID.String(),
			Current: string(request.Status),
			Wanted:  string(models.RequestStatusBidPlaced),
		}
	}

	if err := s.requests.UpdateStatus(ctx, requestID, models.RequestStatusBidPlaced, models.RequestStatusFinanced); err != nil {
		var conflict *ledger.ConflictError
		var stale *ledger.InvalidStateError
		if errors.As(err, &conflict) || errors.As(err, &stale) {
			return nil, err
		}
		return nil, ledger.NewRemoteError("update request status", err)
	}

	tx := &models.Transaction{
		ID:              uuid.New(),
		InvoiceID:       request.InvoiceID,
		BidID:           request.Bid.ID,
		BidAmount:       request.Bid.AdvanceAmount,
		DiscountRate:    request.Bid.InterestRate,
		CreditedTo:      request.CreditedParty(),
		TransactionTime: s.now(),
		Status:          models.TransactionStatusPending,
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		s.revert(ctx, requestID)
		return nil, ledger.NewRemoteError("create transaction", err)
	}

	result, err := s.disburse(ctx, request, tx)
	if err != nil {
		if uerr := s.transactions.UpdateStatus(ctx, tx.ID, models.TransactionStatusFailed, "", ""); uerr != nil {
			s.log.Error("failed to mark transaction failed",
				zap.String("transaction_id", tx.ID.String()), zap.Error(uerr))
		}
		s.revert(ctx, requestID)
		tx.Status = models.TransactionStatusFailed
		return nil, ledger.NewRemoteError("disburse advance", err)
	}

	if err := s.transactions.UpdateStatus(ctx, tx.ID, models.TransactionStatusSuccess, result.ProviderName, result.ProviderRef); err != nil {
		return nil, ledger.NewRemoteError("update transaction status", err)
	}
	tx.Status = models.TransactionStatusSuccess
	tx.ProviderName = result.ProviderName
	tx.ProviderRef = result.ProviderRef

	if err := s.payments.Create(ctx, s.duePaymentFor(request)); err != nil {
		// The disbursement already happened; surface the error but leave
		// the transaction SUCCESS.
		s.log.Error("failed to open due payment",
			zap.String("request_id", requestID.String()), zap.Error(err))
		return tx, ledger.NewRemoteError("create due payment", err)
	}

	s.log.Info("bid accepted and disbursed",
		zap.String("request_id", requestID.String()),
		zap.String("transaction_id", tx.ID.String()),
		zap.String("provider", result.ProviderName))
	return tx, nil
}

func (s *SettlementService) disburse(ctx context.Context, request *models.FactoringRequest, tx *models.Transaction) (*providers.DisbursementResult, error) {
	provider, err := s.selector.ForCurrency(ctx, s.currency)
	if err != nil {
		return nil, err
	}

	req := &providers.DisbursementRequest{
		TransactionID: tx.ID.String(),
		InvoiceNumber: request.InvoiceNumber,
		Amount:        tx.BidAmount,
		Currency:      s.currency,
		Beneficiary:   request.CreditedParty(),
		Description:   fmt.Sprintf("Advance for invoice %s", request.InvoiceNumber),
	}

	var result *providers.DisbursementResult
	err = utils.CreateRetry(ctx, s.retry, func() error {
		var derr error
		result, derr = provider.Disburse(ctx, req)
		return derr
	})
	if err != nil {
		monitoring.Disbursements.WithLabelValues(provider.Name(), "failure").Inc()
		return nil, err
	}
	monitoring.Disbursements.WithLabelValues(provider.Name(), "success").Inc()
	return result, nil
}

func (s *SettlementService) duePaymentFor(request *models.FactoringRequest) *models.DuePayment {
	return &models.DuePayment{
		ID:            uuid.New(),
		InvoiceID:     request.InvoiceID,
		InvoiceNumber: request.InvoiceNumber,
		Amount:        request.Amount,
		IssueDate:     request.UploadDate,
		DueDate:       request.DueDate,
		Buyer: models.BuyerContact{
			Name:         request.Buyer.Name,
			CreditRating: request.Buyer.CreditRating,
		},
		FactoringType: request.FactoringType,
		Status:        models.PaymentStatusUpcoming,
	}
}

// revert undoes the financed flip after a failed disbursement.
func (s *SettlementService) revert(ctx context.Context, requestID uuid.UUID) {
	if err := s.requests.UpdateStatus(ctx, requestID, models.RequestStatusFinanced, models.RequestStatusBidPlaced); err != nil {
		s.log.Error("failed to revert request status",
			zap.String("request_id", requestID.String()), zap.Error(err))
	}
}

// Grouped returns pending and successful transactions, each newest first.
// Failed transactions are internal bookkeeping and stay out of the view.
func (s *SettlementService) Grouped(ctx context.Context) (*models.GroupedTransactions, error) {
	pending, err := s.transactions.ListByStatus(ctx, models.TransactionStatusPending)
	if err != nil {
		return nil, ledger.NewRemoteError("list pending transactions", err)
	}
	success, err := s.transactions.ListByStatus(ctx, models.TransactionStatusSuccess)
	if err != nil {
		return nil, ledger.NewRemoteError("list successful transactions", err)
	}
	return &models.GroupedTransactions{Pending: pending, Success: success}, nil
}
