package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/contacts-api/internal/domain"
	"github.com/phrazzld/contacts-api/internal/mocks"
	"github.com/phrazzld/contacts-api/internal/service/auth"
)

// newAuthFixture returns a middleware wired to mocks, a verified user with
// an active session, and the live token for that session.
func newAuthFixture(t *testing.T) (*AuthMiddleware, *mocks.MockUserStore, *domain.User, string) {
	t.Helper()

	userStore := mocks.NewMockUserStore()
	jwtService := mocks.NewMockJWTService()

	user, err := domain.NewUser("user@example.com", "abcdef")
	require.NoError(t, err)
	user.Verified = true
	userStore.AddUser(user)

	token, err := jwtService.GenerateToken(context.Background(), user.ID)
	require.NoError(t, err)
	user.SessionToken = &token

	return NewAuthMiddleware(jwtService, userStore, nil), userStore, user, token
}

// echoUserHandler writes the authenticated user's email, proving the user
// reached the context.
func echoUserHandler(t *testing.T) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		require.True(t, ok)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(user.Email))
	})
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body["message"]
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	t.Run("valid live token passes the user through", func(t *testing.T) {
		t.Parallel()

		mw, _, _, token := newAuthFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		mw.Authenticate(echoUserHandler(t)).ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "user@example.com", rr.Body.String())
	})

	t.Run("header failures", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name   string
			header string
		}{
			{name: "missing header", header: ""},
			{name: "wrong scheme", header: "Basic dXNlcjpwYXNz"},
			{name: "no token after scheme", header: "Bearer"},
			{name: "garbage token", header: "Bearer not-a-real-token"},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				mw, _, _, _ := newAuthFixture(t)

				req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
				if tc.header != "" {
					req.Header.Set("Authorization", tc.header)
				}
				rr := httptest.NewRecorder()

				mw.Authenticate(rejectAllHandler(t)).ServeHTTP(rr, req)

				assert.Equal(t, http.StatusUnauthorized, rr.Code)
				assert.Equal(t, "Not authorized", errorMessage(t, rr))
			})
		}
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		mw, _, _, token := newAuthFixture(t)
		jwtService := mocks.NewMockJWTService()
		jwtService.ValidateTokenFn = func(_ context.Context, _ string) (*auth.Claims, error) {
			return nil, auth.ErrExpiredToken
		}
		mw.jwtService = jwtService

		req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		mw.Authenticate(rejectAllHandler(t)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Not authorized", errorMessage(t, rr))
	})

	t.Run("token subject no longer exists", func(t *testing.T) {
		t.Parallel()

		mw, userStore, user, token := newAuthFixture(t)
		delete(userStore.Users, user.Email)

		req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		mw.Authenticate(rejectAllHandler(t)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("logged-out session is rejected even with a valid token", func(t *testing.T) {
		t.Parallel()

		mw, _, user, token := newAuthFixture(t)
		user.SessionToken = nil

		req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		mw.Authenticate(rejectAllHandler(t)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Not authorized", errorMessage(t, rr))
	})

	t.Run("superseded session is rejected", func(t *testing.T) {
		t.Parallel()

		mw, _, user, token := newAuthFixture(t)
		newer := "a-newer-session-token"
		user.SessionToken = &newer

		req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		mw.Authenticate(rejectAllHandler(t)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unexpected store failure is a 500, not a 401", func(t *testing.T) {
		t.Parallel()

		mw, userStore, _, token := newAuthFixture(t)
		userStore.GetByIDFn = func(_ context.Context, _ uuid.UUID) (*domain.User, error) {
			return nil, errors.New("connection refused")
		}

		req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		mw.Authenticate(rejectAllHandler(t)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Authentication error", errorMessage(t, rr))
	})
}

// rejectAllHandler fails the test if the request reaches it.
func rejectAllHandler(t *testing.T) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not reach the handler")
	})
}

func TestCurrentUser(t *testing.T) {
	t.Parallel()

	t.Run("absent user", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		user, ok := CurrentUser(req)
		assert.False(t, ok)
		assert.Nil(t, user)
	})
}
