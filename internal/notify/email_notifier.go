package notify

import (
	"context"
	"errors"
	"time"

	"branch-locator/internal/data/entity"
	"branch-locator/pkg/fanout"

	"go.uber.org/zap"
)

var (
	ErrEmailDisabled    = errors.New("email transport not configured")
	ErrNoAlertRecipient = errors.New("no recipient configured for token refresh notification")
)

// EmailNotifier sends booking confirmations and operator alerts. A nil sender
// turns every operation into a reported no-op.
type EmailNotifier struct {
	sender     EmailSender
	businessTo []string
	alertTo    string
	log        *zap.Logger
}

func NewEmailNotifier(sender EmailSender, businessTo []string, alertTo string, log *zap.Logger) *EmailNotifier {
	return &EmailNotifier{
		sender:     sender,
		businessTo: businessTo,
		alertTo:    alertTo,
		log:        log.With(zap.String("service", "email_notifier")),
	}
}

func (n *EmailNotifier) Configured() bool { return n.sender != nil }

func (n *EmailNotifier) Provider() string {
	if n.sender == nil {
		return ""
	}
	return n.sender.Provider()
}

func (n *EmailNotifier) BusinessRecipients() []string { return n.businessTo }

// AlertRecipient is the dedicated alert address, else the first business recipient.
func (n *EmailNotifier) AlertRecipient() string {
	if n.alertTo != "" {
		return n.alertTo
	}
	if len(n.businessTo) > 0 {
		return n.businessTo[0]
	}
	return ""
}

type emailTarget struct {
	to       string
	name     string
	customer bool
}

// NotifyBooking verifies the transport once, then mails the customer and every
// business recipient in parallel. Failures are reported per recipient.
func (n *EmailNotifier) NotifyBooking(ctx context.Context, b *entity.Booking) entity.EmailDetails {
	details := entity.EmailDetails{
		Customer: entity.EmailResult{Success: false, Attempted: entity.Bool(false), Error: msgEmailNotConfigured},
		Business: entity.BusinessEmailResult{Success: false, Error: msgEmailNotConfigured},
	}
	if n.sender == nil {
		return details
	}

	if err := n.sender.Verify(ctx); err != nil {
		n.log.Warn("Email verify failed, skipping booking mails", zap.String("booking_id", b.ID), zap.Error(err))
		details.Customer = entity.EmailResult{Success: false, Attempted: entity.Bool(false), Error: err.Error()}
		details.Business = entity.BusinessEmailResult{Success: false, Error: err.Error()}
		return details
	}

	msg, err := BookingEmail(b)
	if err != nil {
		n.log.Error("Failed to render booking email", zap.Error(err))
		details.Customer.Error = err.Error()
		details.Business.Error = err.Error()
		return details
	}

	var targets []emailTarget
	if b.HasEmail() {
		targets = append(targets, emailTarget{to: b.CustomerEmail, name: b.CustomerName, customer: true})
	}
	for _, to := range n.businessTo {
		targets = append(targets, emailTarget{to: to})
	}

	results := fanout.Each(ctx, targets, func(ctx context.Context, t emailTarget) (struct{}, error) {
		m := msg
		m.To = t.to
		m.ToName = t.name
		return struct{}{}, n.sender.Send(ctx, m)
	})

	if len(n.businessTo) == 0 {
		details.Business.Error = "No business recipients configured"
	} else {
		details.Business = entity.BusinessEmailResult{}
	}

	for i, t := range targets {
		res := results[i]
		if t.customer {
			details.Customer = entity.EmailResult{Success: res.Err == nil, Attempted: entity.Bool(true)}
			if res.Err != nil {
				details.Customer.Error = res.Err.Error()
			}
			continue
		}

		rr := entity.RecipientResult{To: t.to, Success: res.Err == nil}
		if res.Err != nil {
			rr.Error = res.Err.Error()
			if details.Business.Error == "" {
				details.Business.Error = rr.Error
			}
		} else {
			details.Business.Success = true
		}
		details.Business.Recipients = append(details.Business.Recipients, rr)
	}
	if details.Business.Success {
		details.Business.Error = ""
	}

	n.log.Info("Booking emails processed",
		zap.String("booking_id", b.ID),
		zap.Bool("customer_sent", details.Customer.Success),
		zap.Bool("business_sent", details.Business.Success),
	)
	return details
}

// SendTokenRefreshAlert mails the refreshed token pair to the operator.
func (n *EmailNotifier) SendTokenRefreshAlert(ctx context.Context, alert TokenAlert) (string, error) {
	recipient := n.AlertRecipient()
	if n.sender == nil {
		return recipient, ErrEmailDisabled
	}
	if recipient == "" {
		return "", ErrNoAlertRecipient
	}

	msg, err := TokenAlertEmail(alert)
	if err != nil {
		return recipient, err
	}
	msg.To = recipient

	if err := n.sender.Send(ctx, msg); err != nil {
		n.log.Error("Failed to send token refresh email", zap.String("to", recipient), zap.Error(err))
		return recipient, err
	}

	n.log.Info("Token refresh email sent", zap.String("to", recipient))
	return recipient, nil
}

type StepResult struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	Recipient string `json:"recipient,omitempty"`
}

type EmailTestReport struct {
	Verify StepResult
	Send   StepResult
}

// RunSelfTest verifies the transport and sends a test mail to the first business recipient.
func (n *EmailNotifier) RunSelfTest(ctx context.Context, now time.Time) EmailTestReport {
	var report EmailTestReport
	if n.sender == nil {
		report.Verify.Error = msgEmailNotConfigured
		return report
	}

	if err := n.sender.Verify(ctx); err != nil {
		report.Verify = StepResult{Success: false, Error: err.Error()}
		return report
	}
	report.Verify = StepResult{Success: true, Details: n.sender.Provider() + " connection verified successfully"}

	if len(n.businessTo) == 0 {
		report.Send.Error = "No business recipients configured"
		return report
	}

	msg := TestEmail(now)
	msg.To = n.businessTo[0]
	report.Send.Recipient = msg.To
	if err := n.sender.Send(ctx, msg); err != nil {
		report.Send.Error = err.Error()
		return report
	}
	report.Send.Success = true
	return report
}
