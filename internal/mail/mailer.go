// Package mail defines the outbound email boundary. Implementations live
// under internal/platform.
package mail

import (
	"context"
	"log/slog"

	"github.com/phrazzld/contacts-api/internal/platform/logger"
)

// Mailer sends account-lifecycle email. Dispatch is fire-and-forget from the
// caller's perspective; delivery failures surface only in logs.
type Mailer interface {
	// SendVerificationEmail sends the email-ownership verification message
	// containing the one-time token link to the given address.
	SendVerificationEmail(ctx context.Context, email, token string) error
}

// LogMailer is a Mailer that writes the verification link to the log instead
// of sending mail. It backs local development and tests, where Mailgun
// credentials are not configured.
type LogMailer struct {
	BaseURL string
	Logger  *slog.Logger
}

// SendVerificationEmail implements Mailer by logging the verification link.
func (m *LogMailer) SendVerificationEmail(ctx context.Context, email, token string) error {
	log := logger.FromContextOrDefault(ctx, m.Logger)
	log.Info("verification email suppressed (mail disabled)",
		slog.String("to", email),
		slog.String("link", m.BaseURL+"/api/users/verify/"+token))
	return nil
}
