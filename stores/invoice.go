package stores

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codewithus/ledgerbridge/ledger"
	"github.com/codewithus/ledgerbridge/models"
)

type InvoiceRepository struct {
	BaseStore
}

func CreateInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{BaseStore: BaseStore{db: db}}
}

func (r *InvoiceRepository) List(ctx context.Context) ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	err := r.GetDB(ctx).
		Preload("Items").
		Preload("Timeline", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("created_at ASC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.GetDB(ctx).
		Preload("Items").
		Preload("Timeline", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.GetDB(ctx).Create(invoice).Error
}

// SaveDecision writes the terminal status and the new timeline event in one
// transaction. The UPDATE is guarded on status = pending so a concurrent
// decision loses cleanly instead of overwriting.
func (r *InvoiceRepository) SaveDecision(ctx context.Context, invoice *models.Invoice, event models.TimelineEvent) error {
	return r.WithTransaction(ctx, func(txCtx context.Context) error {
		res := r.GetDB(txCtx).
			Model(&models.Invoice{}).
			Where("id = ? AND status = ?", invoice.ID, models.InvoiceStatusPending).
			Update("status", invoice.Status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &ledger.InvalidStateError{
				Entity:  "invoice",
				ID:      invoice.ID.String(),
				Current: "not pending",
				Wanted:  string(models.InvoiceStatusPending),
			}
		}
		return r.GetDB(txCtx).Create(&event).Error
	})
}
