package mail

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	orderdom "caterhub/internal/domain/order"
)

// SendGridMailer implements usecase.Mailer on the SendGrid v3 API.
type SendGridMailer struct {
	apiKey   string
	from     string
	fromName string
}

func NewSendGridMailer(apiKey, from, fromName string) *SendGridMailer {
	if fromName == "" {
		fromName = "CaterHub"
	}
	return &SendGridMailer{apiKey: apiKey, from: from, fromName: fromName}
}

func (m *SendGridMailer) SendSellerApproved(ctx context.Context, toEmail, toName string) error {
	subject := "Your seller account has been approved"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour request to sell on CaterHub has been approved. You can now list products from your dashboard.\n",
		displayName(toName),
	)
	return m.send(ctx, toEmail, toName, subject, body)
}

func (m *SendGridMailer) SendOrderStatus(ctx context.Context, toEmail, toName, orderID string, st orderdom.Status) error {
	subject := fmt.Sprintf("Order %s is now %s", orderID, st)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour order %s has moved to status: %s.\n",
		displayName(toName), orderID, st,
	)
	return m.send(ctx, toEmail, toName, subject, body)
}

func (m *SendGridMailer) SendVerificationLink(ctx context.Context, toEmail, toName, link string) error {
	subject := "Verify your email address"
	body := fmt.Sprintf(
		"Hi %s,\n\nPlease verify your email address to activate your account:\n\n%s\n",
		displayName(toName), link,
	)
	return m.send(ctx, toEmail, toName, subject, body)
}

func (m *SendGridMailer) SendPasswordResetLink(ctx context.Context, toEmail, link string) error {
	subject := "Reset your password"
	body := fmt.Sprintf(
		"A password reset was requested for this address. Use the link below to set a new password:\n\n%s\n\nIf this wasn't you, ignore this mail.\n",
		link,
	)
	return m.send(ctx, toEmail, "", subject, body)
}

func (m *SendGridMailer) send(_ context.Context, to, toName, subject, body string) error {
	if m == nil || m.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if m.from == "" {
		return fmt.Errorf("from address is empty")
	}
	if to == "" {
		return fmt.Errorf("to address is empty")
	}

	fromEmail := sgmail.NewEmail(m.fromName, m.from)
	toEmail := sgmail.NewEmail(toName, to)
	htmlContent := fmt.Sprintf("<pre>%s</pre>", body)

	message := sgmail.NewSingleEmail(fromEmail, subject, toEmail, body, htmlContent)

	client := sendgrid.NewSendClient(m.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		log.Printf("[sendgrid] error status=%d body=%s", response.StatusCode, response.Body)
		return fmt.Errorf("sendgrid send failed: status=%d body=%s", response.StatusCode, response.Body)
	}

	log.Printf("[sendgrid] mail sent status=%d to=%s subject=%s", response.StatusCode, to, subject)
	return nil
}

func displayName(name string) string {
	if name == "" {
		return "there"
	}
	return name
}
