package stores

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codewithus/ledgerbridge/ledger"
	"github.com/codewithus/ledgerbridge/models"
)

type RequestRepository struct {
	BaseStore
}

func CreateRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{BaseStore: BaseStore{db: db}}
}

func (r *RequestRepository) List(ctx context.Context) ([]*models.FactoringRequest, error) {
	var requests []*models.FactoringRequest
	err := r.GetDB(ctx).Preload("Bid").Order("upload_date ASC").Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// ListAvailable returns requests still open for bidding.
func (r *RequestRepository) ListAvailable(ctx context.Context) ([]*models.FactoringRequest, error) {
	var requests []*models.FactoringRequest
	err := r.GetDB(ctx).
		Where("status = ?", models.RequestStatusPendingBid).
		Order("upload_date ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.FactoringRequest, error) {
	var request models.FactoringRequest
	err := r.GetDB(ctx).Preload("Bid").First(&request, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *RequestRepository) Create(ctx context.Context, req *models.FactoringRequest) error {
	return r.GetDB(ctx).Create(req).Error
}

// PlaceBid inserts the bid and flips the request to bid_placed in one
// transaction. The status guard plus the unique index on bids.request_id
// make a second submission lose with a conflict no matter how the race
// interleaves.
func (r *RequestRepository) PlaceBid(ctx context.Context, requestID uuid.UUID, bid *models.Bid) error {
	return r.WithTransaction(ctx, func(txCtx context.Context) error {
		res := r.GetDB(txCtx).
			Model(&models.FactoringRequest{}).
			Where("id = ? AND status = ?", requestID, models.RequestStatusPendingBid).
			Update("status", models.RequestStatusBidPlaced)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ledger.NewConflictError("request %s is no longer open for bidding", requestID)
		}
		return r.GetDB(txCtx).Create(bid).Error
	})
}

func (r *RequestRepository) UpdateStatus(ctx context.Context, requestID uuid.UUID, from, to models.RequestStatus) error {
	res := r.GetDB(ctx).
		Model(&models.FactoringRequest{}).
		Where("id = ? AND status = ?", requestID, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &ledger.InvalidStateError{
			Entity: "factoring request",
			ID:     requestID.String(),
			Wanted: string(from),
		}
	}
	return nil
}
