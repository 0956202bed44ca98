package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func testInvoice() *Invoice {
	id := uuid.New()
	return &Invoice{
		ID:            id,
		InvoiceNumber: "INV-2025-001",
		Seller:        Seller{Name: "Tech Manufacturing Ltd"},
		Amount:        decimal.NewFromInt(285000),
		FactoringType: FactoringTypeFactoring,
		Status:        InvoiceStatusPending,
		Items: []LineItem{
			{InvoiceID: id, Description: "Housings", Quantity: 2, Rate: decimal.NewFromInt(75000), Amount: decimal.NewFromInt(150000)},
			{InvoiceID: id, Description: "Gears", Quantity: 3, Rate: decimal.NewFromInt(45000), Amount: decimal.NewFromInt(135000)},
		},
	}
}

func TestInvoiceValidate(t *testing.T) {
	inv := testInvoice()
	if err := inv.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	bad := testInvoice()
	bad.Items[0].Amount = decimal.NewFromInt(150001)
	if err := bad.Validate(); err == nil {
		t.Error("Validate() with wrong line item amount should fail")
	}

	mismatch := testInvoice()
	mismatch.Amount = decimal.NewFromInt(285001)
	if err := mismatch.Validate(); err == nil {
		t.Error("Validate() with amount != item total should fail")
	}
}

func TestInvoiceDecidable(t *testing.T) {
	inv := testInvoice()
	if !inv.Decidable() {
		t.Error("pending invoice should be decidable")
	}

	inv.Status = InvoiceStatusApproved
	if inv.Decidable() {
		t.Error("approved invoice is terminal")
	}

	inv.Status = InvoiceStatusRejected
	if inv.Decidable() {
		t.Error("rejected invoice is terminal")
	}
}

func TestAppendEvent(t *testing.T) {
	inv := testInvoice()
	at := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	inv.AppendEvent("approved", "buyer@metro.example", "Verified against PO", at)

	if len(inv.Timeline) != 1 {
		t.Fatalf("timeline length = %d, want 1", len(inv.Timeline))
	}
	event := inv.Timeline[0]
	if event.Action != "approved" || event.Actor != "buyer@metro.example" || !event.Date.Equal(at) {
		t.Errorf("unexpected event: %+v", event)
	}
}

func TestCreditedParty(t *testing.T) {
	factoring := &FactoringRequest{FactoringType: FactoringTypeFactoring}
	if got := factoring.CreditedParty(); got != "Supplier" {
		t.Errorf("CreditedParty() = %s, want Supplier", got)
	}

	reverse := &FactoringRequest{FactoringType: FactoringTypeReverse}
	if got := reverse.CreditedParty(); got != "Buyer" {
		t.Errorf("CreditedParty() = %s, want Buyer", got)
	}
}

func TestValidChannel(t *testing.T) {
	for _, c := range []ReminderChannel{ChannelEmail, ChannelPhone, ChannelReminder} {
		if !ValidChannel(c) {
			t.Errorf("ValidChannel(%s) = false, want true", c)
		}
	}
	if ValidChannel("fax") {
		t.Error("ValidChannel(fax) = true, want false")
	}
}
