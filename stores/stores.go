// Package stores contains the gorm-backed repositories. Services depend on
// the interfaces below so tests can swap in the in-memory doubles from the
// testing package.
package stores

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codewithus/ledgerbridge/models"
)

type InvoiceStore interface {
	List(ctx context.Context) ([]*models.Invoice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	Create(ctx context.Context, invoice *models.Invoice) error
	// SaveDecision persists a terminal status change together with its
	// timeline event in one transaction, guarding on the prior status.
	SaveDecision(ctx context.Context, invoice *models.Invoice, event models.TimelineEvent) error
}

type RequestStore interface {
	List(ctx context.Context) ([]*models.FactoringRequest, error)
	ListAvailable(ctx context.Context) ([]*models.FactoringRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.FactoringRequest, error)
	Create(ctx context.Context, req *models.FactoringRequest) error
	// PlaceBid stores the bid and moves the request to bid_placed
	// atomically, failing if a bid already exists.
	PlaceBid(ctx context.Context, requestID uuid.UUID, bid *models.Bid) error
	UpdateStatus(ctx context.Context, requestID uuid.UUID, from, to models.RequestStatus) error
}

type DuePaymentStore interface {
	List(ctx context.Context) ([]*models.DuePayment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.DuePayment, error)
	Create(ctx context.Context, payment *models.DuePayment) error
	AppendAttempt(ctx context.Context, paymentID uuid.UUID, attempt models.CollectionAttempt) error
}

type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.TransactionStatus, providerName, providerRef string) error
	ListByStatus(ctx context.Context, status models.TransactionStatus) ([]*models.Transaction, error)
}

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type contextKey string

const txKey contextKey = "tx"

// BaseStore gives every repository the shared transaction plumbing: a
// transaction started by WithTransaction travels down through the context.
type BaseStore struct {
	db *gorm.DB
}

func (s *BaseStore) GetDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx
	}
	return s.db.WithContext(ctx)
}

func (s *BaseStore) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey, tx))
	})
}
