// Package mailgun implements the mail.Mailer interface using the Mailgun
// messaging API.
package mailgun

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/phrazzld/contacts-api/internal/config"
	"github.com/phrazzld/contacts-api/internal/mail"
	"github.com/phrazzld/contacts-api/internal/platform/logger"
)

// sendTimeout bounds a single delivery attempt to the Mailgun API.
const sendTimeout = 10 * time.Second

// Mailer sends verification email through Mailgun.
type Mailer struct {
	client  *mailgun.MailgunImpl
	sender  string
	baseURL string
	logger  *slog.Logger
}

// Ensure Mailer implements mail.Mailer interface
var _ mail.Mailer = (*Mailer)(nil)

// New creates a Mailgun-backed mailer from configuration.
// If log is nil, a default logger will be used.
func New(cfg config.MailConfig, log *slog.Logger) *Mailer {
	if log == nil {
		log = slog.Default()
	}

	return &Mailer{
		client:  mailgun.NewMailgun(cfg.Domain, cfg.APIKey),
		sender:  cfg.Sender,
		baseURL: cfg.BaseURL,
		logger:  log.With(slog.String("component", "mailgun_mailer")),
	}
}

// SendVerificationEmail implements mail.Mailer.
func (m *Mailer) SendVerificationEmail(ctx context.Context, email, token string) error {
	log := logger.FromContextOrDefault(ctx, m.logger)

	link := m.baseURL + "/api/users/verify/" + token
	message := m.client.NewMessage(
		m.sender,
		"Email Verification",
		"Please verify your email by clicking the link: "+link,
		email,
	)

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, id, err := m.client.Send(ctx, message)
	if err != nil {
		log.Error("failed to send verification email",
			slog.String("error", err.Error()),
			slog.String("to", email))
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	log.Info("verification email dispatched",
		slog.String("to", email),
		slog.String("message_id", id))
	return nil
}
