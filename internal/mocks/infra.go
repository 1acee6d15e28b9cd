package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/contacts-api/internal/task"
)

// SentEmail records one SendVerificationEmail call.
type SentEmail struct {
	Email string
	Token string
}

// MockMailer implements mail.Mailer for testing, recording every send.
type MockMailer struct {
	SendVerificationEmailFn func(ctx context.Context, email, token string) error

	mu   sync.Mutex
	Sent []SentEmail
}

// SendVerificationEmail implements the Mailer interface.
func (m *MockMailer) SendVerificationEmail(ctx context.Context, email, token string) error {
	if m.SendVerificationEmailFn != nil {
		return m.SendVerificationEmailFn(ctx, email, token)
	}

	m.mu.Lock()
	m.Sent = append(m.Sent, SentEmail{Email: email, Token: token})
	m.mu.Unlock()
	return nil
}

// MockTaskSubmitter implements the handler-side task submission interface,
// recording submitted tasks instead of running them.
type MockTaskSubmitter struct {
	SubmitFn func(t task.Task) error

	mu        sync.Mutex
	Submitted []task.Task
}

// Submit records the task, or delegates to SubmitFn when set.
func (m *MockTaskSubmitter) Submit(t task.Task) error {
	if m.SubmitFn != nil {
		return m.SubmitFn(t)
	}

	m.mu.Lock()
	m.Submitted = append(m.Submitted, t)
	m.mu.Unlock()
	return nil
}

// SubmittedCount returns how many tasks were recorded.
func (m *MockTaskSubmitter) SubmittedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Submitted)
}

// MockAvatarProcessor implements avatar.Processor for testing without
// touching the filesystem or decoding images.
type MockAvatarProcessor struct {
	ProcessFn func(ctx context.Context, userID uuid.UUID, upload io.Reader, originalName string) (string, error)
}

// Process delegates to ProcessFn, or returns a deterministic URL.
func (m *MockAvatarProcessor) Process(
	ctx context.Context,
	userID uuid.UUID,
	upload io.Reader,
	originalName string,
) (string, error) {
	if m.ProcessFn != nil {
		return m.ProcessFn(ctx, userID, upload, originalName)
	}
	return "/avatars/" + userID.String() + ".jpg", nil
}
