package task

import (
	"context"

	"github.com/google/uuid"

	"github.com/phrazzld/contacts-api/internal/mail"
)

// VerificationEmailTask sends an account verification email in the
// background. A failed send is logged by the runner's error handler and is
// not retried; the created account stays pending until the user requests a
// resend.
type VerificationEmailTask struct {
	id     uuid.UUID
	email  string
	token  string
	mailer mail.Mailer
}

// Ensure VerificationEmailTask implements Task interface
var _ Task = (*VerificationEmailTask)(nil)

// NewVerificationEmailTask creates a task that delivers the verification
// token link to the given address.
func NewVerificationEmailTask(email, token string, mailer mail.Mailer) *VerificationEmailTask {
	return &VerificationEmailTask{
		id:     uuid.New(),
		email:  email,
		token:  token,
		mailer: mailer,
	}
}

// ID implements Task.
func (t *VerificationEmailTask) ID() uuid.UUID {
	return t.id
}

// Type implements Task.
func (t *VerificationEmailTask) Type() string {
	return TaskTypeVerificationEmail
}

// Execute implements Task.
func (t *VerificationEmailTask) Execute(ctx context.Context) error {
	return t.mailer.SendVerificationEmail(ctx, t.email, t.token)
}
