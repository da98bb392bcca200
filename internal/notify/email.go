package notify

import (
	"context"
	"fmt"

	"branch-locator/pkg/utils"

	"go.uber.org/zap"
)

const msgEmailNotConfigured = "Email not configured"

// EmailSender defines the interface for sending emails.
// Implementations can be swapped (SMTP, SendGrid, SES) without changing callers.
type EmailSender interface {
	// Verify checks connectivity and credentials without sending anything.
	Verify(ctx context.Context) error
	Send(ctx context.Context, msg EmailMessage) error
	Provider() string
}

// EmailMessage represents an email to be sent.
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string // Plain text body
	HTML    string // Optional HTML body
}

// NewEmailSender builds the transport selected by cfg.Provider.
// It returns nil, nil when the provider is missing required settings.
func NewEmailSender(ctx context.Context, cfg utils.EmailConfig, log *zap.Logger) (EmailSender, error) {
	if !cfg.Configured() {
		return nil, nil
	}

	switch cfg.Provider {
	case "sendgrid":
		return NewSendGridSender(SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.From,
			FromName:  cfg.FromName,
		}, log), nil
	case "ses":
		client, err := NewSESClient(ctx, cfg.SESRegion)
		if err != nil {
			return nil, fmt.Errorf("notify: ses client: %w", err)
		}
		return NewSESSender(client, SESConfig{FromEmail: cfg.From, FromName: cfg.FromName}, log), nil
	case "", "smtp":
		return NewSMTPSender(SMTPConfig{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Username: cfg.User,
			Password: cfg.Password,
			From:     cfg.From,
			FromName: cfg.FromName,
		}, log), nil
	default:
		return nil, fmt.Errorf("notify: unknown email provider %q", cfg.Provider)
	}
}

// StubEmailSender logs instead of sending. Used by tests and dry runs.
type StubEmailSender struct {
	log *zap.Logger
}

func NewStubEmailSender(log *zap.Logger) *StubEmailSender {
	return &StubEmailSender{log: log}
}

func (s *StubEmailSender) Verify(ctx context.Context) error { return nil }

func (s *StubEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	s.log.Info("stub email sender: would send email", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func (s *StubEmailSender) Provider() string { return "stub" }
