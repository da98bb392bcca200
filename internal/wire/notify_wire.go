package wire

import (
	"context"
	"fmt"
	"net/http"

	"branch-locator/internal/data/repository"
	"branch-locator/internal/notify"
	"branch-locator/internal/usecase"
	"branch-locator/pkg/clock"
	"branch-locator/pkg/metrics"
	"branch-locator/pkg/utils"

	"go.uber.org/zap"
)

type notifiers struct {
	Channels usecase.Channels
	Email    *notify.EmailNotifier
	Tokens   *notify.TokenManager
}

// buildNotifiers creates every booking channel. A channel without settings is
// still built and reports itself as not configured.
func buildNotifiers(
	ctx context.Context,
	repo *repository.Repository,
	config *utils.Config,
	httpClient *http.Client,
	clk clock.Clock,
	m *metrics.BookingMetrics,
	log *zap.Logger,
) (*notifiers, error) {
	sender, err := notify.NewEmailSender(ctx, config.Email, log)
	if err != nil {
		return nil, fmt.Errorf("email sender: %w", err)
	}
	if sender == nil {
		log.Warn("Email not configured, booking mails disabled")
	}
	email := notify.NewEmailNotifier(sender, config.Email.BusinessTo, config.Zalo.NotifyEmail, log)

	relay := notify.NewSheetsRelay(config.Sheets.WebAppURL, config.Sheets.DefaultTab, httpClient, log)

	var sheetsAPI notify.SpreadsheetAPI
	if config.Sheets.SheetsAPIEnabled() {
		sheetsAPI, err = notify.NewGoogleSheets(ctx, config.Sheets.CredentialsJSON)
		if err != nil {
			return nil, fmt.Errorf("google sheets: %w", err)
		}
	}
	sheets := notify.NewSheetsWriter(sheetsAPI, config.Sheets.SpreadsheetID, config.Sheets.DefaultTab, clk.Now, log)

	zalo := notify.NewZaloClient(config.Zalo, httpClient, log)
	tokens := notify.NewTokenManager(zalo, repo.Token, notify.TokenManagerConfig{
		AccessToken:  config.Zalo.AccessToken,
		RefreshToken: config.Zalo.RefreshToken,
		OnRefresh:    usecase.TokenRefreshAlert(email, clk, log),
	}, clk, m, log)
	chat := notify.NewChatNotifier(zalo, tokens, config.Zalo.AdminIDs, config.Zalo.Enabled(), log)

	log.Info("Notification channels ready",
		zap.Bool("email", email.Configured()),
		zap.Bool("gas", relay.Configured()),
		zap.Bool("sheets", sheets.Configured()),
		zap.Bool("zalo", chat.Configured()),
	)

	return &notifiers{
		Channels: usecase.Channels{
			Email:  email,
			Relay:  relay,
			Sheets: sheets,
			Chat:   chat,
		},
		Email:  email,
		Tokens: tokens,
	}, nil
}
