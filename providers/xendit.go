package providers

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xendit/xendit-go"
	"github.com/xendit/xendit-go/balance"
	"github.com/xendit/xendit-go/disbursement"
)

var hundred = decimal.NewFromInt(100)

var xenditCurrencies = map[string]bool{
	"idr": true,
	"php": true,
	"sgd": true,
	"myr": true,
	"thb": true,
	"vnd": true,
}

type XenditProvider struct {
	apiKey string
}

func CreateXenditProvider(apiKey string) *XenditProvider {
	xendit.Opt.SecretKey = apiKey
	return &XenditProvider{apiKey: apiKey}
}

func (p *XenditProvider) Name() string {
	return "xendit"
}

func (p *XenditProvider) Supports(currency string) bool {
	return xenditCurrencies[currency]
}

func (p *XenditProvider) Disburse(ctx context.Context, req *DisbursementRequest) (*DisbursementResult, error) {
	amount, _ := req.Amount.Float64()
	params := &disbursement.CreateParams{
		IdempotencyKey:    req.TransactionID,
		ExternalID:        req.InvoiceNumber,
		AccountHolderName: req.Beneficiary,
		Description:       req.Description,
		Amount:            amount,
	}

	d, err := disbursement.CreateWithContext(ctx, params)
	if err != nil {
		return nil, err
	}

	return &DisbursementResult{
		ProviderName: p.Name(),
		ProviderRef:  d.ID,
		CompletedAt:  time.Now(),
	}, nil
}

func (p *XenditProvider) IsAvailable(ctx context.Context) bool {
	_, err := balance.GetWithContext(ctx, &balance.GetParams{})
	return err == nil
}
