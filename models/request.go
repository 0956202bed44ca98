package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RequestStatus string

const (
	RequestStatusPendingBid RequestStatus = "pending_bid"
	RequestStatusBidPlaced  RequestStatus = "bid_placed"
	RequestStatusFinanced   RequestStatus = "financed"
)

// SellerProfile is the credit profile a financier reviews before bidding.
type SellerProfile struct {
	Name               string `json:"name" gorm:"column:seller_name;not null"`
	RegistrationNumber string `json:"registration_number" gorm:"column:seller_registration"`
	CreditScore        int    `json:"credit_score" gorm:"column:seller_credit_score"`
	Address            string `json:"address" gorm:"column:seller_address"`
	ContactPerson      string `json:"contact_person" gorm:"column:seller_contact"`
	Email              string `json:"email" gorm:"column:seller_email"`
	Phone              string `json:"phone" gorm:"column:seller_phone"`
	YearsInBusiness    int    `json:"years_in_business" gorm:"column:seller_years"`
}

type BuyerRef struct {
	Name         string `json:"name" gorm:"column:buyer_name;not null"`
	CreditRating string `json:"credit_rating" gorm:"column:buyer_rating"`
}

// Bid is a financier's offer on a factoring request. A request carries at
// most one bid, and a bid is immutable once stored.
type Bid struct {
	ID                 uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	RequestID          uuid.UUID       `json:"request_id" gorm:"type:uuid;uniqueIndex;not null"`
	Financier          string          `json:"financier" gorm:"not null"`
	InterestRate       decimal.Decimal `json:"interest_rate" gorm:"type:numeric(6,3);not null"`
	AdvanceAmount      decimal.Decimal `json:"advance_amount" gorm:"type:numeric(14,2);not null"`
	ValidityPeriodDays int             `json:"validity_period_days" gorm:"not null"`
	Terms              string          `json:"terms" gorm:"not null"`
	CreatedAt          time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

// FactoringRequest is an approved invoice put up for financing.
type FactoringRequest struct {
	ID             uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	InvoiceID      uuid.UUID       `json:"invoice_id" gorm:"type:uuid;uniqueIndex;not null"`
	InvoiceNumber  string          `json:"invoice_number" gorm:"not null"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:numeric(14,2);not null"`
	UploadDate     time.Time       `json:"upload_date" gorm:"not null"`
	DueDate        time.Time       `json:"due_date" gorm:"not null"`
	FactoringType  FactoringType   `json:"factoring_type" gorm:"not null"`
	Status         RequestStatus   `json:"status" gorm:"not null;default:'pending_bid'"`
	Seller         SellerProfile   `json:"seller" gorm:"embedded"`
	Buyer          BuyerRef        `json:"buyer" gorm:"embedded"`
	PreviousDeals  int             `json:"previous_deals,omitempty"`
	ExpectedReturn decimal.Decimal `json:"expected_return,omitempty" gorm:"type:numeric(6,3)"`
	Bid            *Bid            `json:"bid,omitempty" gorm:"foreignKey:RequestID"`
	CreatedAt      time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// CreditedParty returns who receives the disbursed funds, which depends on
// the factoring direction: the supplier for plain factoring, the buyer for
// reverse factoring.
func (r *FactoringRequest) CreditedParty() string {
	if r.FactoringType == FactoringTypeFactoring {
		return "Supplier"
	}
	return "Buyer"
}

type SubmitBidRequest struct {
	InterestRate       decimal.Decimal `json:"interest_rate"`
	AdvanceAmount      decimal.Decimal `json:"advance_amount"`
	ValidityPeriodDays int             `json:"validity_period_days"`
	Terms              string          `json:"terms"`
}

type RequestResponse struct {
	Request *FactoringRequest `json:"request"`
}

type RequestListResponse struct {
	Requests []*FactoringRequest `json:"requests"`
	Total    int                 `json:"total"`
}
