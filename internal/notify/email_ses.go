package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"
)

// SESAPI is the subset of the SES v2 client used here.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
	GetAccount(ctx context.Context, params *sesv2.GetAccountInput, optFns ...func(*sesv2.Options)) (*sesv2.GetAccountOutput, error)
}

type SESConfig struct {
	FromEmail string
	FromName  string
}

type SESSender struct {
	client    SESAPI
	fromEmail string
	fromName  string
	log       *zap.Logger
}

// NewSESClient loads credentials from the default AWS chain.
func NewSESClient(ctx context.Context, region string) (*sesv2.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return sesv2.NewFromConfig(awsCfg), nil
}

func NewSESSender(client SESAPI, cfg SESConfig, log *zap.Logger) *SESSender {
	if client == nil {
		return nil
	}
	return &SESSender{
		client:    client,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		log:       log.With(zap.String("service", "ses")),
	}
}

func (s *SESSender) Provider() string { return "ses" }

func (s *SESSender) Verify(ctx context.Context) error {
	if _, err := s.client.GetAccount(ctx, &sesv2.GetAccountInput{}); err != nil {
		return fmt.Errorf("notify: SES account check failed: %w", err)
	}
	return nil
}

func (s *SESSender) Send(ctx context.Context, msg EmailMessage) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(msg.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{},
			},
		},
	}

	if msg.Body != "" {
		input.Content.Simple.Body.Text = &types.Content{
			Data:    aws.String(msg.Body),
			Charset: aws.String("UTF-8"),
		}
	}
	if msg.HTML != "" {
		input.Content.Simple.Body.Html = &types.Content{
			Data:    aws.String(msg.HTML),
			Charset: aws.String("UTF-8"),
		}
	}

	output, err := s.client.SendEmail(ctx, input)
	if err != nil {
		s.log.Error("SES send failed", zap.String("to", msg.To), zap.Error(err))
		return fmt.Errorf("notify: SES send failed: %w", err)
	}

	s.log.Info("email sent via SES", zap.String("to", msg.To), zap.String("message_id", aws.ToString(output.MessageId)))
	return nil
}

var _ EmailSender = (*SESSender)(nil)
