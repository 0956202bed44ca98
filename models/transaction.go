package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

// Transaction is the settlement record created when an accepted bid is
// disbursed. It stays PENDING until the payment provider confirms.
type Transaction struct {
	ID              uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	InvoiceID       uuid.UUID         `json:"invoice_id" gorm:"type:uuid;index;not null"`
	BidID           uuid.UUID         `json:"bid_id" gorm:"type:uuid;index;not null"`
	BidAmount       decimal.Decimal   `json:"bid_amount" gorm:"type:numeric(14,2);not null"`
	DiscountRate    decimal.Decimal   `json:"discount_rate" gorm:"type:numeric(6,3);not null"`
	CreditedTo      string            `json:"credited_to" gorm:"not null"`
	ProviderName    string            `json:"provider_name,omitempty"`
	ProviderRef     string            `json:"provider_ref,omitempty"`
	TransactionTime time.Time         `json:"transaction_time" gorm:"not null"`
	Status          TransactionStatus `json:"status" gorm:"not null;default:'PENDING'"`
}

// GroupedTransactions splits transactions by settlement state, each group
// ordered by transaction time descending.
type GroupedTransactions struct {
	Pending []*Transaction `json:"pending"`
	Success []*Transaction `json:"success"`
}
