package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/codewithus/ledgerbridge/ledger"
	"github.com/codewithus/ledgerbridge/models"
	"github.com/codewithus/ledgerbridge/monitoring"
	"github.com/codewithus/ledgerbridge/stores"
)

type BidService struct {
	requests stores.RequestStore
	log      *zap.Logger
	now      func() time.Time
}

func CreateBidService(requests stores.RequestStore, log *zap.Logger) *BidService {
	return &BidService{
		requests: requests,
		log:      log,
		now:      time.Now,
	}
}

func (s *BidService) List(ctx context.Context) ([]*models.FactoringRequest, error) {
	requests, err := s.requests.List(ctx)
	if err != nil {
		return nil, ledger.NewRemoteError("list factoring requests", err)
	}
	return requests, nil
}

// Available returns only requests still open for bidding, the marketplace
// view a financier browses.
func (s *BidService) Available(ctx context.Context) ([]*models.FactoringRequest, error) {
	requests, err := s.requests.ListAvailable(ctx)
	if err != nil {
		return nil, ledger.NewRemoteError("list available requests", err)
	}
	return requests, nil
}

func (s *BidService) Get(ctx context.Context, id uuid.UUID) (*models.FactoringRequest, error) {
	request, err := s.requests.GetByID(ctx, id)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, ledger.NewRemoteError("get factoring request", err)
	}
	return request, nil
}

// SubmitBid attaches a financier's offer to an open request and moves it to
// bid_placed. The request may carry at most one bid, so a second submission
// fails with a conflict no matter how the two raced.
func (s *BidService) SubmitBid(ctx context.Context, requestID uuid.UUID, financier string, in models.SubmitBidRequest) (*models.FactoringRequest, error) {
	if err := validateBid(in); err != nil {
		return nil, err
	}

	request, err := s.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != models.RequestStatusPendingBid {
		return nil, ledger.NewConflictError("request %s already has a bid", requestID)
	}

	bid := &models.Bid{
		ID:                 uuid.New(),
		RequestID:          requestID,
		Financier:          financier,
		InterestRate:       in.InterestRate,
		AdvanceAmount:      in.AdvanceAmount,
		ValidityPeriodDays: in.ValidityPeriodDays,
		Terms:              in.Terms,
		CreatedAt:          s.now(),
	}

	if err := s.requests.PlaceBid(ctx, requestID, bid); err != nil {
		var conflict *ledger.ConflictError
		if errors.As(err, &conflict) {
			return nil, err
		}
		return nil, ledger.NewRemoteError("place bid", err)
	}

	request.Status = models.RequestStatusBidPlaced
	request.Bid = bid
	monitoring.BidsPlaced.Inc()
	s.log.Info("bid placed",
		zap.String("request_id", requestID.String()),
		zap.String("financier", financier),
		zap.String("advance_amount", in.AdvanceAmount.String()))
	return request, nil
}

func validateBid(in models.SubmitBidRequest) error {
	if !in.InterestRate.GreaterThan(decimal.Zero) {
		return ledger.NewValidationError("interest_rate", "interest rate must be positive")
	}
	if !in.AdvanceAmount.GreaterThan(decimal.Zero) {
		return ledger.NewValidationError("advance_amount", "advance amount must be positive")
	}
	if in.ValidityPeriodDays <= 0 {
		return ledger.NewValidationError("validity_period_days", "validity period must be positive")
	}
	if in.Terms == "" {
		return ledger.NewValidationError("terms", "terms are required")
	}
	return nil
}
