package providers

import (
	"context"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/balance"
	"github.com/stripe/stripe-go/v76/transfer"
)

var stripeCurrencies = map[string]bool{
	"usd": true,
	"eur": true,
	"gbp": true,
	"inr": true,
}

type StripeProvider struct {
	apiKey string
}

func CreateStripeProvider(apiKey string) *StripeProvider {
	stripe.Key = apiKey
	return &StripeProvider{apiKey: apiKey}
}

func (p *StripeProvider) Name() string {
	return "stripe"
}

func (p *StripeProvider) Supports(currency string) bool {
	return stripeCurrencies[currency]
}

func (p *StripeProvider) Disburse(ctx context.Context, req *DisbursementRequest) (*DisbursementResult, error) {
	params := &stripe.TransferParams{
		// Stripe wants the amount in the currency's smallest unit.
		Amount:      stripe.Int64(req.Amount.Mul(hundred).IntPart()),
		Currency:    stripe.String(req.Currency),
		Destination: stripe.String(req.Beneficiary),
		Description: stripe.String(req.Description),
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.TransactionID)
	params.AddMetadata("invoice_number", req.InvoiceNumber)

	tr, err := transfer.New(params)
	if err != nil {
		return nil, err
	}

	return &DisbursementResult{
		ProviderName: p.Name(),
		ProviderRef:  tr.ID,
		CompletedAt:  time.Unix(tr.Created, 0),
	}, nil
}

func (p *StripeProvider) IsAvailable(ctx context.Context) bool {
	params := &stripe.BalanceParams{}
	params.Context = ctx
	_, err := balance.Get(params)
	return err == nil
}
