package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusPending  InvoiceStatus = "pending"
	InvoiceStatusApproved InvoiceStatus = "approved"
	InvoiceStatusRejected InvoiceStatus = "rejected"
)

type FactoringType string

const (
	FactoringTypeFactoring FactoringType = "factoring"
	FactoringTypeReverse   FactoringType = "reverse_factoring"
)

// Seller identifies the business that issued the invoice.
type Seller struct {
	Name  string `json:"name" gorm:"column:seller_name;not null"`
	GSTIN string `json:"gstin" gorm:"column:seller_gstin"`
}

// FinancierRef is the financier assigned to an invoice, if any.
type FinancierRef struct {
	Name         string          `json:"name" gorm:"column:financier_name"`
	InterestRate decimal.Decimal `json:"interest_rate" gorm:"column:financier_rate;type:numeric(6,3)"`
}

type LineItem struct {
	ID          uint            `json:"-" gorm:"primaryKey;autoIncrement"`
	InvoiceID   uuid.UUID       `json:"-" gorm:"type:uuid;index;not null"`
	Description string          `json:"description" gorm:"not null"`
	Quantity    int64           `json:"quantity" gorm:"not null"`
	Rate        decimal.Decimal `json:"rate" gorm:"type:numeric(14,2);not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(14,2);not null"`
}

// TimelineEvent is one entry in an invoice's append-only history.
// Rows are only ever inserted; nothing updates or deletes them.
type TimelineEvent struct {
	ID        uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	InvoiceID uuid.UUID `json:"-" gorm:"type:uuid;index;not null"`
	Action    string    `json:"action" gorm:"not null"`
	Date      time.Time `json:"date" gorm:"not null"`
	Actor     string    `json:"actor" gorm:"not null"`
	Remark    string    `json:"remark,omitempty"`
}

type Invoice struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	InvoiceNumber string          `json:"invoice_number" gorm:"uniqueIndex;not null"`
	Seller        Seller          `json:"seller" gorm:"embedded"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:numeric(14,2);not null"`
	IssueDate     time.Time       `json:"issue_date" gorm:"not null"`
	DueDate       time.Time       `json:"due_date" gorm:"not null"`
	Description   string          `json:"description"`
	Items         []LineItem      `json:"items" gorm:"foreignKey:InvoiceID"`
	FactoringType FactoringType   `json:"factoring_type" gorm:"not null"`
	Financier     *FinancierRef   `json:"financier,omitempty" gorm:"embedded"`
	Status        InvoiceStatus   `json:"status" gorm:"not null;default:'pending'"`
	Timeline      []TimelineEvent `json:"timeline" gorm:"foreignKey:InvoiceID"`
	CreatedAt     time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// Validate checks the amount invariants: every line item amount must equal
// quantity x rate, and the invoice amount must equal the sum of its items.
func (i *Invoice) Validate() error {
	sum := decimal.Zero
	for idx, item := range i.Items {
		expected := item.Rate.Mul(decimal.NewFromInt(item.Quantity))
		if !item.Amount.Equal(expected) {
			return fmt.Errorf("line item %d: amount %s != quantity %d x rate %s",
				idx, item.Amount, item.Quantity, item.Rate)
		}
		sum = sum.Add(item.Amount)
	}
	if !i.Amount.Equal(sum) {
		return fmt.Errorf("invoice amount %s != line item total %s", i.Amount, sum)
	}
	return nil
}

// Decidable reports whether the invoice can still be approved or rejected.
// Approved and rejected are terminal.
func (i *Invoice) Decidable() bool {
	return i.Status == InvoiceStatusPending
}

// AppendEvent records an action on the invoice timeline.
func (i *Invoice) AppendEvent(action, actor, remark string, at time.Time) {
	i.Timeline = append(i.Timeline, TimelineEvent{
		InvoiceID: i.ID,
		Action:    action,
		Date:      at,
		Actor:     actor,
		Remark:    remark,
	})
}

type DecisionRequest struct {
	Remark string `json:"remark"`
}

type InvoiceResponse struct {
	Invoice *Invoice `json:"invoice"`
}

type InvoiceListResponse struct {
	Invoices []*Invoice `json:"invoices"`
	Total    int        `json:"total"`
}
