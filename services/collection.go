package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codewithus/ledgerbridge/ledger"
	"github.com/codewithus/ledgerbridge/models"
	"github.com/codewithus/ledgerbridge/monitoring"
	"github.com/codewithus/ledgerbridge/notifications"
	"github.com/codewithus/ledgerbridge/stores"
	"github.com/codewithus/ledgerbridge/utils"
)

// CollectionService is the financier's chase list: it classifies financed
// invoices by proximity to their due date and sends payment reminders.
type CollectionService struct {
	payments stores.DuePaymentStore
	notifier notifications.Notifier
	retry    *utils.RetryConfig
	log      *zap.Logger
	now      func() time.Time
}

func CreateCollectionService(payments stores.DuePaymentStore, notifier notifications.Notifier, log *zap.Logger) *CollectionService {
	return &CollectionService{
		payments: payments,
		notifier: notifier,
		retry:    utils.CreateDefaultRetryConfig(),
		log:      log,
		now:      time.Now,
	}
}

// List decorates every due payment with its day count and band as of now.
func (s *CollectionService) List(ctx context.Context) ([]*models.DuePaymentView, error) {
	payments, err := s.payments.List(ctx)
	if err != nil {
		return nil, ledger.NewRemoteError("list due payments", err)
	}

	now := s.now()
	views := make([]*models.DuePaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, &models.DuePaymentView{
			DuePayment:    p,
			DaysRemaining: ledger.DaysRemaining(p.DueDate, now),
			Band:          string(Classify(p, now)),
		})
	}
	return views, nil
}

// Classify derives the display band for a payment. A recorded partial
// payment wins over the date-derived band.
func Classify(p *models.DuePayment, now time.Time) ledger.Band {
	if p.Status == models.PaymentStatusPartiallyPaid {
		return ledger.BandPartiallyPaid
	}
	return ledger.ClassifyDays(ledger.DaysRemaining(p.DueDate, now))
}

// SendReminder nudges the buyer over the chosen channel and logs the
// attempt on the payment. Email and phone go out through the notifier with
// retries; the reminder channel only records that a manual follow-up is
// scheduled. Delivery failure is reported, never swallowed, and no attempt
// is logged for it.
func (s *CollectionService) SendReminder(ctx context.Context, paymentID uuid.UUID, channel models.ReminderChannel) (*models.DuePayment, error) {
	if !models.ValidChannel(channel) {
		return nil, ledger.NewValidationError("channel", "channel must be one of email, phone, reminder")
	}

	payment, err := s.payments.GetByID(ctx, paymentID)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, ledger.NewRemoteError("get due payment", err)
	}

	response, err := s.deliver(ctx, payment, channel)
	if err != nil {
		monitoring.RemindersSent.WithLabelValues(string(channel), "failure").Inc()
		return nil, ledger.NewRemoteError(fmt.Sprintf("send %s reminder", channel), err)
	}

	attempt := models.CollectionAttempt{
		PaymentID: paymentID,
		Date:      s.now(),
		Channel:   channel,
		Response:  response,
	}
	if err := s.payments.AppendAttempt(ctx, paymentID, attempt); err != nil {
		return nil, ledger.NewRemoteError("record collection attempt", err)
	}
	payment.Attempts = append(payment.Attempts, attempt)

	monitoring.RemindersSent.WithLabelValues(string(channel), "success").Inc()
	s.log.Info("reminder sent",
		zap.String("payment_id", paymentID.String()),
		zap.String("channel", string(channel)))
	return payment, nil
}

func (s *CollectionService) deliver(ctx context.Context, payment *models.DuePayment, channel models.ReminderChannel) (string, error) {
	switch channel {
	case models.ChannelEmail:
		if payment.Buyer.Email == "" {
			return "", fmt.Errorf("buyer has no email on file")
		}
		subject := fmt.Sprintf("Payment reminder: invoice %s", payment.InvoiceNumber)
		body := s.reminderText(payment)
		err := utils.CreateRetry(ctx, s.retry, func() error {
			return s.notifier.SendEmail(ctx, payment.Buyer.Email, subject, body)
		})
		if err != nil {
			return "", err
		}
		return "email sent to " + payment.Buyer.Email, nil

	case models.ChannelPhone:
		if payment.Buyer.Phone == "" {
			return "", fmt.Errorf("buyer has no phone on file")
		}
		err := utils.CreateRetry(ctx, s.retry, func() error {
			return s.notifier.SendSMS(ctx, payment.Buyer.Phone, s.reminderText(payment))
		})
		if err != nil {
			return "", err
		}
		return "sms sent to " + payment.Buyer.Phone, nil

	default:
		return "follow-up scheduled", nil
	}
}

func (s *CollectionService) reminderText(payment *models.DuePayment) string {
	days := ledger.DaysRemaining(payment.DueDate, s.now())
	if days < 0 {
		return fmt.Sprintf("Invoice %s for %s is %d day(s) overdue. Please arrange payment.",
			payment.InvoiceNumber, payment.Amount.StringFixed(2), -days)
	}
	return fmt.Sprintf("Invoice %s for %s is due on %s.",
		payment.InvoiceNumber, payment.Amount.StringFixed(2), payment.DueDate.Format("2006-01-02"))
}
