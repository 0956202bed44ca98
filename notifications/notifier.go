// Package notifications sends collection reminders to buyers over email
// (SES) and SMS (SNS).
package notifications

import "context"

// Notifier is the outbound channel abstraction the collection service
// depends on. Tests substitute a fake.
type Notifier interface {
	SendEmail(ctx context.Context, to, subject, body string) error
	SendSMS(ctx context.Context, phone, message string) error
}

// AWSNotifier routes email through SES and SMS through SNS.
type AWSNotifier struct {
	ses       *SESClient
	sns       *SNSClient
	fromEmail string
	senderID  string
}

func CreateAWSNotifier(ctx context.Context, region, fromEmail, senderID string) (*AWSNotifier, error) {
	sesClient, err := CreateSESClient(ctx, region)
	if err != nil {
		return nil, err
	}
	snsClient, err := CreateSNSClient(ctx, region)
	if err != nil {
		return nil, err
	}
	return &AWSNotifier{
		ses:       sesClient,
		sns:       snsClient,
		fromEmail: fromEmail,
		senderID:  senderID,
	}, nil
}

func (n *AWSNotifier) SendEmail(ctx context.Context, to, subject, body string) error {
	return n.ses.Send(ctx, n.fromEmail, to, subject, body)
}

func (n *AWSNotifier) SendSMS(ctx context.Context, phone, message string) error {
	return n.sns.Publish(ctx, phone, message, n.senderID)
}
