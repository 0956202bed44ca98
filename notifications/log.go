package notifications

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes would-be deliveries to the log instead of sending
// them. Used in development when AWS delivery is disabled.
type LogNotifier struct {
	log *zap.Logger
}

func CreateLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendEmail(ctx context.Context, to, subject, body string) error {
	n.log.Info("email (not sent, notifications disabled)",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}

func (n *LogNotifier) SendSMS(ctx context.Context, phone, message string) error {
	n.log.Info("sms (not sent, notifications disabled)",
		zap.String("phone", phone))
	return nil
}
