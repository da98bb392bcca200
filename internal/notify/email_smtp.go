package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const smtpImplicitTLSPort = 465

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	Timeout  time.Duration
}

// SMTPSender dials a fresh connection for every operation. Booking traffic is
// low and a pooled connection would go stale between requests.
type SMTPSender struct {
	cfg SMTPConfig
	log *zap.Logger
}

func NewSMTPSender(cfg SMTPConfig, log *zap.Logger) *SMTPSender {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &SMTPSender{cfg: cfg, log: log.With(zap.String("service", "smtp"))}
}

func (s *SMTPSender) Provider() string { return "smtp" }

func (s *SMTPSender) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTimeout(s.cfg.Timeout),
	}
	if s.cfg.Port == smtpImplicitTLSPort {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	opts = append(opts, mail.WithPort(s.cfg.Port))

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("notify: smtp client: %w", err)
	}
	return client, nil
}

// Verify dials, authenticates and disconnects.
func (s *SMTPSender) Verify(ctx context.Context) error {
	client, err := s.client()
	if err != nil {
		return err
	}
	if err := client.DialWithContext(ctx); err != nil {
		s.log.Warn("SMTP verify failed", zap.String("host", s.cfg.Host), zap.Int("port", s.cfg.Port), zap.Error(err))
		return fmt.Errorf("notify: smtp verify: %w", err)
	}
	return client.Close()
}

func (s *SMTPSender) Send(ctx context.Context, msg EmailMessage) error {
	m := mail.NewMsg()
	if err := m.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
		return fmt.Errorf("notify: smtp from %q: %w", s.cfg.From, err)
	}
	if err := m.AddToFormat(msg.ToName, msg.To); err != nil {
		return fmt.Errorf("notify: smtp to %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}

	client, err := s.client()
	if err != nil {
		return err
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		s.log.Error("SMTP send failed", zap.String("to", msg.To), zap.Error(err))
		return fmt.Errorf("notify: smtp send: %w", err)
	}

	s.log.Info("email sent via smtp", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

var _ EmailSender = (*SMTPSender)(nil)
