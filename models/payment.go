package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusUpcoming      PaymentStatus = "upcoming"
	PaymentStatusOverdue       PaymentStatus = "overdue"
	PaymentStatusPartiallyPaid PaymentStatus = "partially_paid"
)

type ReminderChannel string

const (
	ChannelEmail    ReminderChannel = "email"
	ChannelPhone    ReminderChannel = "phone"
	ChannelReminder ReminderChannel = "reminder"
)

// ValidChannel reports whether c is one of the three reminder channels.
func ValidChannel(c ReminderChannel) bool {
	switch c {
	case ChannelEmail, ChannelPhone, ChannelReminder:
		return true
	}
	return false
}

// BuyerContact is who the financier chases for settlement.
type BuyerContact struct {
	Name          string `json:"name" gorm:"column:buyer_name;not null"`
	CreditRating  string `json:"credit_rating" gorm:"column:buyer_rating"`
	ContactPerson string `json:"contact_person" gorm:"column:buyer_contact"`
	Email         string `json:"email" gorm:"column:buyer_email"`
	Phone         string `json:"phone" gorm:"column:buyer_phone"`
}

// CollectionAttempt logs one reminder sent to the buyer. Append-only.
type CollectionAttempt struct {
	ID        uint            `json:"-" gorm:"primaryKey;autoIncrement"`
	PaymentID uuid.UUID       `json:"-" gorm:"type:uuid;index;not null"`
	Date      time.Time       `json:"date" gorm:"not null"`
	Channel   ReminderChannel `json:"channel" gorm:"not null"`
	Response  string          `json:"response,omitempty"`
}

// DuePayment is a financed invoice awaiting buyer settlement.
type DuePayment struct {
	ID            uuid.UUID           `json:"id" gorm:"type:uuid;primaryKey"`
	InvoiceID     uuid.UUID           `json:"invoice_id" gorm:"type:uuid;uniqueIndex;not null"`
	InvoiceNumber string              `json:"invoice_number" gorm:"not null"`
	Amount        decimal.Decimal     `json:"amount" gorm:"type:numeric(14,2);not null"`
	IssueDate     time.Time           `json:"issue_date"`
	DueDate       time.Time           `json:"due_date" gorm:"not null"`
	Buyer         BuyerContact        `json:"buyer" gorm:"embedded"`
	FactoringType FactoringType       `json:"factoring_type" gorm:"not null"`
	Status        PaymentStatus       `json:"status" gorm:"not null;default:'upcoming'"`
	DaysOverdue   *int                `json:"days_overdue,omitempty"`
	PartialAmount *decimal.Decimal    `json:"partial_amount,omitempty" gorm:"type:numeric(14,2)"`
	Attempts      []CollectionAttempt `json:"collection_attempts" gorm:"foreignKey:PaymentID"`
	CreatedAt     time.Time           `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time           `json:"updated_at" gorm:"autoUpdateTime"`
}

type ReminderRequest struct {
	Channel ReminderChannel `json:"channel"`
}

// DuePaymentView decorates a payment with the derived fields the dashboard
// shows. The band and day count are computed per request, never stored.
type DuePaymentView struct {
	*DuePayment
	DaysRemaining int    `json:"days_remaining"`
	Band          string `json:"band"`
}

type DuePaymentListResponse struct {
	Payments []*DuePaymentView `json:"payments"`
	Total    int               `json:"total"`
}
