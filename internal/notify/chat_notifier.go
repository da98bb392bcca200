package notify

import (
	"context"

	"branch-locator/internal/data/entity"
	"branch-locator/pkg/fanout"

	"go.uber.org/zap"
)

const msgNoChatToken = "Unable to get valid Zalo access token"

// TokenSource supplies a usable access token.
type TokenSource interface {
	ValidToken(ctx context.Context) (string, error)
}

// ChatSender posts a text message to one OA follower.
type ChatSender interface {
	SendText(ctx context.Context, accessToken, userID, text string) error
}

type ChatNotifier struct {
	sender   ChatSender
	tokens   TokenSource
	adminIDs []string
	enabled  bool
	log      *zap.Logger
}

// NewChatNotifier is disabled when enabled is false or no admin ids are given.
func NewChatNotifier(sender ChatSender, tokens TokenSource, adminIDs []string, enabled bool, log *zap.Logger) *ChatNotifier {
	return &ChatNotifier{
		sender:   sender,
		tokens:   tokens,
		adminIDs: adminIDs,
		enabled:  enabled && len(adminIDs) > 0,
		log:      log.With(zap.String("service", "chat_notifier")),
	}
}

func (n *ChatNotifier) Configured() bool { return n.enabled }

// NotifyAdmins sends the same booking text to every admin in parallel.
func (n *ChatNotifier) NotifyAdmins(ctx context.Context, b *entity.Booking) entity.ChatDetails {
	if !n.enabled {
		return entity.ChatDetails{Attempted: false}
	}

	details := entity.ChatDetails{Attempted: true}

	token, err := n.tokens.ValidToken(ctx)
	if err != nil {
		n.log.Warn("No usable chat token, skipping admin notification", zap.String("booking_id", b.ID), zap.Error(err))
		details.Error = msgNoChatToken
		return details
	}

	text := ChatText(b)
	results := fanout.Each(ctx, n.adminIDs, func(ctx context.Context, userID string) (struct{}, error) {
		return struct{}{}, n.sender.SendText(ctx, token, userID, text)
	})

	details.Results = make([]entity.ChatRecipientResult, 0, len(results))
	for i, res := range results {
		r := entity.ChatRecipientResult{UserID: n.adminIDs[i], Success: res.Err == nil}
		if res.Err != nil {
			r.Error = res.Err.Error()
			details.Failed++
		} else {
			details.Sent++
		}
		details.Results = append(details.Results, r)
	}

	n.log.Info("Chat notifications processed",
		zap.String("booking_id", b.ID),
		zap.Int("sent", details.Sent),
		zap.Int("failed", details.Failed),
	)
	return details
}
