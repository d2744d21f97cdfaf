package usecase

import (
	"context"

	orderdom "caterhub/internal/domain/order"
)

// Mailer is the outbound port for transactional mail.
// All sends are best-effort: callers log failures and continue; mail never
// fails the triggering operation.
type Mailer interface {
	SendSellerApproved(ctx context.Context, toEmail, toName string) error
	SendOrderStatus(ctx context.Context, toEmail, toName, orderID string, status orderdom.Status) error
	SendVerificationLink(ctx context.Context, toEmail, toName, link string) error
	SendPasswordResetLink(ctx context.Context, toEmail, link string) error
}
