package stores

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codewithus/ledgerbridge/ledger"
	"github.com/codewithus/ledgerbridge/models"
)

type DuePaymentRepository struct {
	BaseStore
}

func CreateDuePaymentRepository(db *gorm.DB) *DuePaymentRepository {
	return &DuePaymentRepository{BaseStore: BaseStore{db: db}}
}

func (r *DuePaymentRepository) List(ctx context.Context) ([]*models.DuePayment, error) {
	var payments []*models.DuePayment
	err := r.GetDB(ctx).
		Preload("Attempts", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("due_date ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *DuePaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.DuePayment, error) {
	var payment models.DuePayment
	err := r.GetDB(ctx).
		Preload("Attempts", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *DuePaymentRepository) Create(ctx context.Context, payment *models.DuePayment) error {
	return r.GetDB(ctx).Create(payment).Error
}

func (r *DuePaymentRepository) AppendAttempt(ctx context.Context, paymentID uuid.UUID, attempt models.CollectionAttempt) error {
	attempt.PaymentID = paymentID
	return r.GetDB(ctx).Create(&attempt).Error
}
