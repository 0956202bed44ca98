package stores

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codewithus/ledgerbridge/ledger"
	"github.com/codewithus/ledgerbridge/models"
)

type TransactionRepository struct {
	BaseStore
}

func CreateTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{BaseStore: BaseStore{db: db}}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	return r.GetDB(ctx).Create(tx).Error
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.TransactionStatus, providerName, providerRef string) error {
	res := r.GetDB(ctx).
		Model(&models.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        status,
			"provider_name": providerName,
			"provider_ref":  providerRef,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func (r *TransactionRepository) ListByStatus(ctx context.Context, status models.TransactionStatus) ([]*models.Transaction, error) {
	var txs []*models.Transaction
	err := r.GetDB(ctx).
		Where("status = ?", status).
		Order("transaction_time DESC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}
