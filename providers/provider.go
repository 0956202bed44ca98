// Package providers integrates the payment gateways used to disburse
// accepted bids.
package providers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNoAvailableProvider = errors.New("no disbursement provider available for currency")

type DisbursementRequest struct {
	TransactionID string
	InvoiceNumber string
	Amount        decimal.Decimal
	Currency      string
	Beneficiary   string
	Description   string
}

type DisbursementResult struct {
	ProviderName string
	ProviderRef  string
	CompletedAt  time.Time
}

type DisbursementProvider interface {
	Name() string
	Supports(currency string) bool
	Disburse(ctx context.Context, req *DisbursementRequest) (*DisbursementResult, error)
	IsAvailable(ctx context.Context) bool
}

// Selector picks the first provider that supports the currency and is
// currently reachable.
type Selector struct {
	providers []DisbursementProvider
}

func CreateSelector(providers ...DisbursementProvider) *Selector {
	return &Selector{providers: providers}
}

func (s *Selector) ForCurrency(ctx context.Context, currency string) (DisbursementProvider, error) {
	currency = strings.ToLower(currency)
	for _, p := range s.providers {
		if p.Supports(currency) && p.IsAvailable(ctx) {
			return p, nil
		}
	}
	return nil, ErrNoAvailableProvider
}
