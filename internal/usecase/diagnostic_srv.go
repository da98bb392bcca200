package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"branch-locator/internal/dto/response"
	"branch-locator/internal/notify"
	"branch-locator/pkg/clock"
	"branch-locator/pkg/utils"

	"go.uber.org/zap"
)

var ErrEmailNotConfigured = errors.New("email not configured")

const (
	msgEmailNotConfigured = "Email not configured"
	msgEmailTestOK        = "✅ Email is working correctly! Check your inbox."
	msgEmailTestFailed    = "❌ Email test failed. Check the errors above."
	msgGmailWarning       = "⚠️ Using Gmail SMTP with non-Gmail email. This may not work. Use Gmail account or change EMAIL_HOST to your email provider SMTP."
	refreshNote           = "This is a test endpoint. Token has been refreshed and email notification sent."
	tokenMaskLength       = 20
)

// EmailDiagnostics is the part of the email notifier the diagnostics use.
type EmailDiagnostics interface {
	Configured() bool
	Provider() string
	AlertRecipient() string
	RunSelfTest(ctx context.Context, now time.Time) notify.EmailTestReport
	SendTokenRefreshAlert(ctx context.Context, alert notify.TokenAlert) (string, error)
}

type TokenRefresher interface {
	ForceRefresh(ctx context.Context) (*notify.RefreshResult, error)
}

type DiagnosticService interface {
	EmailTest(ctx context.Context) (*response.EmailTestResponse, error)
	RefreshTest(ctx context.Context) (*response.TokenRefreshResponse, error)
}

type diagnosticService struct {
	email    EmailDiagnostics
	emailCfg utils.EmailConfig
	tokens   TokenRefresher
	clock    clock.Clock
	log      *zap.Logger
}

func NewDiagnosticService(email EmailDiagnostics, emailCfg utils.EmailConfig, tokens TokenRefresher, clk clock.Clock, log *zap.Logger) DiagnosticService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &diagnosticService{
		email:    email,
		emailCfg: emailCfg,
		tokens:   tokens,
		clock:    clk,
		log:      log.With(zap.String("service", "diagnostic")),
	}
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// EmailConfigFlags reports which email settings are present without revealing them.
func EmailConfigFlags(cfg utils.EmailConfig) response.EmailConfigReport {
	report := response.EmailConfigReport{
		EmailHost:         mark(cfg.Host != ""),
		EmailUser:         mark(cfg.User != ""),
		EmailPass:         mark(cfg.PassSet),
		EmailPassword:     mark(cfg.PasswordSet),
		PasswordAvailable: mark(cfg.Password != ""),
		BusinessEmailTo:   mark(false),
		Recipients:        cfg.BusinessTo,
		Provider:          cfg.Provider,
	}
	if n := len(cfg.BusinessTo); n > 0 {
		report.BusinessEmailTo = fmt.Sprintf("✓ (%d recipients)", n)
	}
	if report.Recipients == nil {
		report.Recipients = []string{}
	}
	if cfg.Host == "smtp.gmail.com" && cfg.User != "" && !strings.Contains(cfg.User, "@gmail.com") {
		report.Warning = strPtr(msgGmailWarning)
	}
	return report
}

func (s *diagnosticService) EmailTest(ctx context.Context) (*response.EmailTestResponse, error) {
	resp := &response.EmailTestResponse{Config: EmailConfigFlags(s.emailCfg)}
	if !s.email.Configured() {
		resp.Error = msgEmailNotConfigured
		return resp, ErrEmailNotConfigured
	}

	report := s.email.RunSelfTest(ctx, s.clock.Now())
	resp.Tests = &response.EmailTests{
		SMTPVerification: response.EmailStep{
			Success: report.Verify.Success,
			Error:   strPtr(report.Verify.Error),
			Details: strPtr(report.Verify.Details),
		},
		EmailSending: response.EmailStep{
			Success:   report.Send.Success,
			Error:     strPtr(report.Send.Error),
			Recipient: report.Send.Recipient,
		},
	}
	resp.Success = report.Verify.Success && report.Send.Success
	if resp.Success {
		resp.Message = msgEmailTestOK
	} else {
		resp.Message = msgEmailTestFailed
	}

	s.log.Info("Email self test finished",
		zap.String("provider", s.email.Provider()),
		zap.Bool("verify", report.Verify.Success),
		zap.Bool("send", report.Send.Success))
	return resp, nil
}

func (s *diagnosticService) RefreshTest(ctx context.Context) (*response.TokenRefreshResponse, error) {
	res, err := s.tokens.ForceRefresh(ctx)
	if err != nil {
		s.log.Warn("Diagnostic token refresh failed", zap.Error(err))
		return nil, err
	}

	now := s.clock.Now()
	resp := &response.TokenRefreshResponse{
		Success: true,
		Message: "Token refresh test completed",
		TokenInfo: response.TokenInfo{
			AccessToken:    utils.MaskToken(res.Cache.AccessToken, tokenMaskLength),
			ExpiresIn:      res.ExpiresIn,
			ExpiresInHours: strconv.FormatFloat(float64(res.ExpiresIn)/3600, 'f', 1, 64),
			ExpiresAt:      time.UnixMilli(res.Cache.ExpiresAt).UTC().Format("2006-01-02T15:04:05.000Z07:00"),
			SavedToCache:   res.Persisted,
			Store:          res.Store,
		},
		Note: refreshNote,
	}

	recipient, err := s.email.SendTokenRefreshAlert(ctx, notify.TokenAlert{
		Cache:     res.Cache,
		Persisted: res.Persisted,
		Store:     res.Store,
		Trigger:   "diagnostic",
		Now:       now,
	})
	resp.EmailNotification = response.EmailNotification{Sent: err == nil, Recipient: recipient}
	if err != nil {
		msg := err.Error()
		if errors.Is(err, notify.ErrEmailDisabled) {
			msg = msgEmailNotConfigured
		}
		resp.EmailNotification.Error = &msg
	}

	return resp, nil
}

// TokenRefreshAlert builds the hook the token manager runs after an automatic
// refresh. Failures are logged only.
func TokenRefreshAlert(email EmailDiagnostics, clk clock.Clock, log *zap.Logger) func(ctx context.Context, res notify.RefreshResult) {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	log = log.With(zap.String("service", "token_alert"))
	return func(ctx context.Context, res notify.RefreshResult) {
		to, err := email.SendTokenRefreshAlert(ctx, notify.TokenAlert{
			Cache:     res.Cache,
			Persisted: res.Persisted,
			Store:     res.Store,
			Trigger:   "auto",
			Now:       clk.Now(),
		})
		if err != nil {
			log.Warn("Token refresh notification skipped", zap.String("to", to), zap.Error(err))
		}

		// The old refresh token is spent, so without these values the next
		// restart has nothing that works.
		if !res.Persisted {
			log.Warn("Refreshed token exists only in memory, set ZALO_OA_ACCESS_TOKEN and ZALO_OA_REFRESH_TOKEN manually",
				zap.String("store", res.Store),
				zap.String("access_token", res.Cache.AccessToken),
				zap.String("refresh_token", res.Cache.RefreshToken),
				zap.Time("expires_at", time.UnixMilli(res.Cache.ExpiresAt).UTC()),
			)
		}
	}
}
