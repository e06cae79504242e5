package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	pkglogger "github.com/rmendiola/belleza/pkg/logger"
)

// Mailer is the outbound notification capability the identity flows need.
// Implementations report failure through the error; callers decide whether
// a failed send is fatal for their flow.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, email, token string) error
	SendWelcomeEmail(ctx context.Context, email, firstName string) error
}

// SESMailer sends transactional email through AWS SES.
type SESMailer struct {
	client      *ses.Client
	fromAddress string
	baseURL     string
	logger      *slog.Logger
}

func NewSESMailer(region, fromAddress, baseURL string, logger *slog.Logger) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESMailer{
		client:      ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		baseURL:     baseURL,
		logger:      logger,
	}, nil
}

// SendVerificationEmail delivers the email-ownership verification link.
// The plaintext ticket goes only into the mail body, never into logs.
func (m *SESMailer) SendVerificationEmail(ctx context.Context, email, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", m.baseURL, token)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1>Confirm your email</h1>
    <p>Welcome to Belleza! Please confirm your email address to finish setting up your account:</p>
    <p><a href="%s" style="display:inline-block;background:#b3517e;color:#fff;padding:12px 24px;border-radius:4px;text-decoration:none;">Confirm email</a></p>
    <p>Or copy this link into your browser:<br><code>%s</code></p>
    <p>This link expires in 24 hours. If you didn't create an account, you can ignore this email.</p>
  </div>
</body>
</html>
`, link, link)

	textBody := fmt.Sprintf(`Confirm your email

Welcome to Belleza! Please confirm your email address to finish setting up your account:

%s

This link expires in 24 hours. If you didn't create an account, you can ignore this email.
`, link)

	return m.send(ctx, email, "Confirm your Belleza account", htmlBody, textBody)
}

// SendWelcomeEmail delivers the post-verification welcome note.
func (m *SESMailer) SendWelcomeEmail(ctx context.Context, email, firstName string) error {
	greeting := "Hi"
	if firstName != "" {
		greeting = "Hi " + firstName
	}

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1>You're all set</h1>
    <p>%s, your email is confirmed. You can now book services with any of our professionals.</p>
  </div>
</body>
</html>
`, greeting)

	textBody := fmt.Sprintf(`%s, your email is confirmed. You can now book services with any of our professionals.
`, greeting)

	return m.send(ctx, email, "Welcome to Belleza", htmlBody, textBody)
}

func (m *SESMailer) send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(m.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(htmlBody),
				},
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	result, err := m.client.SendEmail(ctx, input)
	if err != nil {
		m.logger.Error("failed to send email via SES",
			slog.String("email", pkglogger.SanitizedEmail(to)),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info("email sent",
		slog.String("email", pkglogger.SanitizedEmail(to)),
		slog.String("message_id", aws.ToString(result.MessageId)))

	return nil
}
