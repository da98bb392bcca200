package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	log       *zap.Logger
}

// NewSendGridSender returns nil without an API key.
func NewSendGridSender(cfg SendGridConfig, log *zap.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	return &SendGridSender{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		log:       log.With(zap.String("service", "sendgrid")),
	}
}

func (s *SendGridSender) Provider() string { return "sendgrid" }

// Verify only checks local configuration. SendGrid has no handshake to probe.
func (s *SendGridSender) Verify(ctx context.Context) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("notify: sendgrid client not configured")
	}
	if s.fromEmail == "" {
		return fmt.Errorf("notify: sendgrid sender address not configured")
	}
	return nil
}

func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("notify: sendgrid client not configured")
	}

	from := sgmail.NewEmail(s.fromName, s.fromEmail)
	to := sgmail.NewEmail(msg.ToName, msg.To)

	html := msg.HTML
	if html == "" {
		html = msg.Body
	}
	message := sgmail.NewSingleEmail(from, msg.Subject, to, msg.Body, html)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		s.log.Error("sendgrid send failed", zap.String("to", msg.To), zap.Error(err))
		return fmt.Errorf("notify: sendgrid send failed: %w", err)
	}

	if response.StatusCode >= 400 {
		s.log.Error("sendgrid returned error status", zap.Int("status", response.StatusCode), zap.String("body", response.Body), zap.String("to", msg.To))
		return fmt.Errorf("notify: sendgrid returned status %d", response.StatusCode)
	}

	s.log.Info("email sent via sendgrid", zap.String("to", msg.To), zap.Int("status", response.StatusCode))
	return nil
}

var _ EmailSender = (*SendGridSender)(nil)
