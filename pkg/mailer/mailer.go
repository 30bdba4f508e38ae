package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/shopstack-labs/shopstack-backend/pkg/logger"
)

// Mailer delivers transactional account emails.
type Mailer interface {
	SendVerificationCode(ctx context.Context, toEmail, toName, code string) error
	SendPasswordReset(ctx context.Context, toEmail, toName, resetURL string) error
}

// SendGridMailer sends mail through the SendGrid v3 API.
type SendGridMailer struct {
	apiKey   string
	fromAddr string
	fromName string
}

// NewSendGrid builds a SendGrid-backed mailer.
func NewSendGrid(apiKey, fromAddr, fromName string) *SendGridMailer {
	return &SendGridMailer{
		apiKey:   apiKey,
		fromAddr: fromAddr,
		fromName: fromName,
	}
}

func (m *SendGridMailer) SendVerificationCode(ctx context.Context, toEmail, toName, code string) error {
	subject := "Verify your email address"
	plain := fmt.Sprintf("Your verification code is %s. It expires in 15 minutes.", code)
	html := fmt.Sprintf("<p>Your verification code is <strong>%s</strong>.</p><p>It expires in 15 minutes.</p>", code)
	return m.send(ctx, toEmail, toName, subject, plain, html)
}

func (m *SendGridMailer) SendPasswordReset(ctx context.Context, toEmail, toName, resetURL string) error {
	subject := "Reset your password"
	plain := fmt.Sprintf("Open the following link to reset your password: %s", resetURL)
	html := fmt.Sprintf(`<p>Click <a href="%s">here</a> to reset your password.</p><p>The link expires in 15 minutes.</p>`, resetURL)
	return m.send(ctx, toEmail, toName, subject, plain, html)
}

func (m *SendGridMailer) send(ctx context.Context, toEmail, toName, subject, plain, html string) error {
	from := sgmail.NewEmail(m.fromName, m.fromAddr)
	to := sgmail.NewEmail(toName, toEmail)
	message := sgmail.NewSingleEmail(from, subject, to, plain, html)

	client := sendgrid.NewSendClient(m.apiKey)
	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogMailer writes mail contents to the log instead of sending them. Used
// in development when no SendGrid key is configured.
type LogMailer struct {
	Log *logger.Logger
}

func (m LogMailer) SendVerificationCode(ctx context.Context, toEmail, _ string, code string) error {
	ctx = m.Log.WithFields(ctx, map[string]any{"email": toEmail, "code": code})
	m.Log.Info(ctx, "mailer disabled, verification code logged")
	return nil
}

func (m LogMailer) SendPasswordReset(ctx context.Context, toEmail, _ string, resetURL string) error {
	ctx = m.Log.WithFields(ctx, map[string]any{"email": toEmail, "reset_url": resetURL})
	m.Log.Info(ctx, "mailer disabled, password reset link logged")
	return nil
}
