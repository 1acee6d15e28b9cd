package task

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubMailer records the last verification email request.
type stubMailer struct {
	email string
	token string
	err   error
}

func (m *stubMailer) SendVerificationEmail(ctx context.Context, email, token string) error {
	m.email = email
	m.token = token
	return m.err
}

func TestVerificationEmailTask(t *testing.T) {
	t.Parallel()

	mailer := &stubMailer{}
	task := NewVerificationEmailTask("a@example.com", "token-123", mailer)

	assert.NotEqual(t, uuid.Nil, task.ID())
	assert.Equal(t, TaskTypeVerificationEmail, task.Type())

	require.NoError(t, task.Execute(context.Background()))
	assert.Equal(t, "a@example.com", mailer.email)
	assert.Equal(t, "token-123", mailer.token)
}

func TestVerificationEmailTask_PropagatesSendError(t *testing.T) {
	t.Parallel()

	boom := errors.New("mailgun down")
	task := NewVerificationEmailTask("a@example.com", "token-123", &stubMailer{err: boom})
	assert.ErrorIs(t, task.Execute(context.Background()), boom)
}
