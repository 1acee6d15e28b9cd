package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/contacts-api/internal/api/shared"
	"github.com/phrazzld/contacts-api/internal/domain"
	"github.com/phrazzld/contacts-api/internal/mocks"
	"github.com/phrazzld/contacts-api/internal/task"
)

// usersTestEnv bundles a handler with the mocks behind it.
type usersTestEnv struct {
	handler   *UsersHandler
	userStore *mocks.MockUserStore
	jwt       *mocks.MockJWTService
	tasks     *mocks.MockTaskSubmitter
	mailer    *mocks.MockMailer
	avatars   *mocks.MockAvatarProcessor
}

func newUsersTestEnv() *usersTestEnv {
	env := &usersTestEnv{
		userStore: mocks.NewMockUserStore(),
		jwt:       mocks.NewMockJWTService(),
		tasks:     &mocks.MockTaskSubmitter{},
		mailer:    &mocks.MockMailer{},
		avatars:   &mocks.MockAvatarProcessor{},
	}
	env.handler = NewUsersHandler(
		env.userStore,
		env.jwt,
		&mocks.MockPasswordHasher{},
		&mocks.MockPasswordVerifier{},
		env.avatars,
		env.mailer,
		env.tasks,
		nil,
	)
	return env
}

// seedUser creates a stored user in the given state.
func seedUser(t *testing.T, env *usersTestEnv, email, password string, verified bool) *domain.User {
	t.Helper()

	user, err := domain.NewUser(email, password)
	require.NoError(t, err)
	user.HashedPassword = "hashed:" + password
	user.Password = ""
	user.Verified = verified
	if verified {
		user.VerificationToken = nil
	}
	env.userStore.AddUser(user)
	return user
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asCurrentUser attaches the user the way the auth middleware does.
func asCurrentUser(r *http.Request, user *domain.User) *http.Request {
	ctx := context.WithValue(r.Context(), shared.CurrentUserContextKey, user)
	return r.WithContext(ctx)
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestSignup(t *testing.T) {
	t.Parallel()

	t.Run("creates pending user and queues verification email", func(t *testing.T) {
		t.Parallel()

		env := newUsersTestEnv()
		req := jsonRequest(t, http.MethodPost, "/api/users/signup", SignupRequest{
			Email:    "new@example.com",
			Password: "abcdef",
		})
		rr := httptest.NewRecorder()

		env.handler.Signup(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)

		var resp SignupResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "new@example.com", resp.User.Email)
		assert.Equal(t, "starter", resp.User.Subscription)
		assert.Contains(t, resp.User.AvatarURL, "gravatar.com/avatar/")

		stored, err := env.userStore.GetByEmail(req.Context(), "new@example.com")
		require.NoError(t, err)
		assert.False(t, stored.Verified)
		assert.NotNil(t, stored.VerificationToken)
		assert.Equal(t, "hashed:abcdef", stored.HashedPassword)
		assert.Empty(t, stored.Password)

		assert.Equal(t, 1, env.tasks.SubmittedCount())
	})

	t.Run("normalizes email casing", func(t *testing.T) {
		t.Parallel()

		env := newUsersTestEnv()
		req := jsonRequest(t, http.MethodPost, "/api/users/signup", SignupRequest{
			Email:    "MiXeD@Example.COM",
			Password: "abcdef",
		})
		rr := httptest.NewRecorder()

		env.handler.Signup(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		_, err := env.userStore.GetByEmail(req.Context(), "mixed@example.com")
		assert.NoError(t, err)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		t.Parallel()

		env := newUsersTestEnv()
		seedUser(t, env, "taken@example.com", "abcdef", true)

		req := jsonRequest(t, http.MethodPost, "/api/users/signup", SignupRequest{
			Email:    "taken@example.com",
			Password: "abcdef",
		})
		rr := httptest.NewRecorder()

		env.handler.Signup(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "Email in use", decodeBody(t, rr)["message"])
		assert.Equal(t, 0, env.tasks.SubmittedCount())
	})

	t.Run("validation failures", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name        string
			body        SignupRequest
			wantMessage string
		}{
			{
				name:        "missing email",
				body:        SignupRequest{Password: "abcdef"},
				wantMessage: "missing required email field",
			},
			{
				name:        "missing password",
				body:        SignupRequest{Email: "a@example.com"},
				wantMessage: "missing required password field",
			},
			{
				name:        "malformed email",
				body:        SignupRequest{Email: "not-an-email", Password: "abcdef"},
				wantMessage: "invalid email field",
			},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				env := newUsersTestEnv()
				req := jsonRequest(t, http.MethodPost, "/api/users/signup", tc.body)
				rr := httptest.NewRecorder()

				env.handler.Signup(rr, req)

				assert.Equal(t, http.StatusBadRequest, rr.Code)
				assert.Equal(t, tc.wantMessage, decodeBody(t, rr)["message"])
			})
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		env := newUsersTestEnv()
		req := httptest.NewRequest(http.MethodPost, "/api/users/signup", strings.NewReader("{not json"))
		rr := httptest.NewRecorder()

		env.handler.Signup(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("signup succeeds when email queue is full", func(t *testing.T) {
		t.Parallel()

		env := newUsersTestEnv()
		env.tasks.SubmitFn = func(_ task.Task) error {
			return errors.New("task queue is full")
		}

		req := jsonRequest(t, http.MethodPost, "/api/users/signup", SignupRequest{
			Email:    "busy@example.com",
			Password: "abcdef",
		})
		rr := httptest.NewRecorder()

		env.handler.Signup(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("issues and stores session token", func(t *testing.T) {
		t.Parallel()

		env := newUsersTestEnv()
		user := seedUser(t, env, "user@example.com", "abcdef", true)

		req := jsonRequest(t, http.MethodPost, "/api/users/login", LoginRequest{
			Email:    "user@example.com",
			Password: "abcdef",
		})
		rr := httptest.NewRecorder()

		env.handler.Login(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp LoginResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "user@example.com", resp.User.Email)
		assert.Equal(t, "starter", resp.User.Subscription)

		require.NotNil(t, user.SessionToken)
		assert.Equal(t, resp.Token, *user.SessionToken)
	})

	t.Run("credential failures share one message", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			seed func(t *testing.T, env *usersTestEnv)
			body LoginRequest
		}{
			{
				name: "unknown email",
				seed: func(t *testing.T, env *usersTestEnv) {},
				body: LoginRequest{Email: "ghost@example.com", Password: "abcdef"},
			},
			{
				name: "wrong password",
				seed: func(t *testing.T, env *usersTestEnv) {
					seedUser(t, env, "user@example.com", "abcdef", true)
				},
				body: LoginRequest{Email: "user@example.com", Password: "wrong!"},
			},
			{
				name: "unverified account",
				seed: func(t *testing.T, env *usersTestEnv) {
					seedUser(t, env, "user@example.com", "abcdef", false)
				},
				body: LoginRequest{Email: "user@example.com", Password: "abcdef"},
			},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				env := newUsersTestEnv()
				tc.seed(t, env)

				req := jsonRequest(t, http.MethodPost, "/api/users/login", tc.body)
				rr := httptest.NewRecorder()

				env.handler.Login(rr, req)

				assert.Equal(t, http.StatusUnauthorized, rr.Code)
				assert.Equal(t, "Email or password is wrong", decodeBody(t, rr)["message"])
			})
		}
	})

	t.Run("missing password is a validation error", func(t *testing.T) {
		t.Parallel()

		env := newUsersTestEnv()
		req := jsonRequest(t, http.MethodPost, "/api/users/login", LoginRequest{
			Email: "user@example.com",
		})
		rr := httptest.NewRecorder()

		env.handler.Login(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "missing required password field", decodeBody(t, rr)["message"])
	})

	t.Run("login replaces an existing session", func(t *testing.T) {
		t.Parallel()

		env := newUsersTestEnv()
		user := seedUser(t, env, "user@example.com", "abcdef", true)
		old := "stale-token"
		user.SessionToken = &old

		req := jsonRequest(t, http.MethodPost, "/api/users/login", LoginRequest{
			Email:    "user@example.com",
			Password: "abcdef",
		})
		rr := httptest.NewRecorder()

		env.handler.Login(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, user.SessionToken)
		assert.NotEqual(t, "stale-token", *user.SessionToken)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	t.Run("clears the stored session token", func(t *testing.T) {
		t.Parallel()

		env := newUsersTestEnv()
		user := seedUser(t, env, "user@example.com", "abcdef", true)
		token := "live-token"
		user.SessionToken = &token

		req := asCurrentUser(httptest.NewRequest(http.MethodGet, "/api/users/logout", nil), user)
		rr := httptest.NewRecorder()

		env.handler.Logout(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
		assert.Nil(t, user.SessionToken)
	})

	t.Run("rejects requests without an authenticated user", func(t *testing.T) {
		t.Parallel()

		env := newUsersTestEnv()
		req := httptest.NewRequest(http.MethodGet, "/api/users/logout", nil)
		rr := httptest.NewRecorder()

		env.handler.Logout(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Not authorized", decodeBody(t, rr)["message"])
	})
}

func TestCurrent(t *testing.T) {
	t.Parallel()

	t.Run("returns the authenticated user's projection", func(t *testing.T) {
		t.Parallel()

		env := newUsersTestEnv()
		user := seedUser(t, env, "user@example.com", "abcdef", true)

		req := asCurrentUser(httptest.NewRequest(http.MethodGet, "/api/users/current", nil), user)
		rr := httptest.NewRecorder()

		env.handler.Current(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, "user@example.com", body["email"])
		assert.Equal(t, "starter", body["subscription"])
		assert.NotContains(t, body, "password")
	})

	t.Run("rejects requests without an authenticated user", func(t *testing.T) {
		t.Parallel()

		env := newUsersTestEnv()
		req := httptest.NewRequest(http.MethodGet, "/api/users/current", nil)
		rr := httptest.NewRecorder()

		env.handler.Current(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

// verifyRequest builds a GET verify request with the token bound as a chi
// URL parameter, the way the router delivers it.
func verifyRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/users/verify/"+token, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("verificationToken", token)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestVerify(t *testing.T) {
	t.Parallel()

	t.Run("marks the account verified and consumes the token", func(t *testing.T) {
		t.Parallel()

		env := newUsersTestEnv()
		user := seedUser(t, env, "user@example.com", "abcdef", false)
		require.NotNil(t, user.VerificationToken)
		token := *user.VerificationToken

		rr := httptest.NewRecorder()
		env.handler.Verify(rr, verifyRequest(token))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Verification successful", decodeBody(t, rr)["message"])
		assert.True(t, user.Verified)
		assert.Nil(t, user.VerificationToken)

		// The consumed token no longer resolves.
		rr = httptest.NewRecorder()
		env.handler.Verify(rr, verifyRequest(token))
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "User not found", decodeBody(t, rr)["message"])
	})

	t.Run("unknown token", func(t *testing.T) {
		t.Parallel()

		env := newUsersTestEnv()
		rr := httptest.NewRecorder()

		env.handler.Verify(rr, verifyRequest("no-such-token"))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "User not found", decodeBody(t, rr)["message"])
	})
}

func TestResendVerification(t *testing.T) {
	t.Parallel()

	t.Run("queues another verification email", func(t *testing.T) {
		t.Parallel()

		env := newUsersTestEnv()
		seedUser(t, env, "user@example.com", "abcdef", false)

		req := jsonRequest(t, http.MethodPost, "/api/users/verify/resend", ResendVerificationRequest{
			Email: "user@example.com",
		})
		rr := httptest.NewRecorder()

		env.handler.ResendVerification(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Verification email sent", decodeBody(t, rr)["message"])
		assert.Equal(t, 1, env.tasks.SubmittedCount())
	})

	t.Run("already verified", func(t *testing.T) {
		t.Parallel()

		env := newUsersTestEnv()
		seedUser(t, env, "user@example.com", "abcdef", true)

		req := jsonRequest(t, http.MethodPost, "/api/users/verify/resend", ResendVerificationRequest{
			Email: "user@example.com",
		})
		rr := httptest.NewRecorder()

		env.handler.ResendVerification(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Verification has already been passed", decodeBody(t, rr)["message"])
		assert.Equal(t, 0, env.tasks.SubmittedCount())
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()

		env := newUsersTestEnv()
		req := jsonRequest(t, http.MethodPost, "/api/users/verify/resend", ResendVerificationRequest{
			Email: "ghost@example.com",
		})
		rr := httptest.NewRecorder()

		env.handler.ResendVerification(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "User not found", decodeBody(t, rr)["message"])
	})

	t.Run("missing email", func(t *testing.T) {
		t.Parallel()

		env := newUsersTestEnv()
		req := jsonRequest(t, http.MethodPost, "/api/users/verify/resend", ResendVerificationRequest{})
		rr := httptest.NewRecorder()

		env.handler.ResendVerification(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "missing required email field", decodeBody(t, rr)["message"])
	})
}

// multipartAvatarRequest builds a PATCH avatars request carrying the given
// field name as a file part.
func multipartAvatarRequest(t *testing.T, fieldName string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(fieldName, "me.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPatch, "/api/users/avatars", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpdateAvatar(t *testing.T) {
	t.Parallel()

	t.Run("processes upload and stores the new URL", func(t *testing.T) {
		t.Parallel()

		env := newUsersTestEnv()
		user := seedUser(t, env, "user@example.com", "abcdef", true)

		req := asCurrentUser(multipartAvatarRequest(t, "avatar"), user)
		rr := httptest.NewRecorder()

		env.handler.UpdateAvatar(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		wantURL := "/avatars/" + user.ID.String() + ".jpg"
		assert.Equal(t, wantURL, decodeBody(t, rr)["avatarURL"])
		assert.Equal(t, wantURL, user.AvatarURL)
	})

	t.Run("missing avatar field", func(t *testing.T) {
		t.Parallel()

		env := newUsersTestEnv()
		user := seedUser(t, env, "user@example.com", "abcdef", true)

		req := asCurrentUser(multipartAvatarRequest(t, "picture"), user)
		rr := httptest.NewRecorder()

		env.handler.UpdateAvatar(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "missing avatar file", decodeBody(t, rr)["message"])
	})

	t.Run("rejects requests without an authenticated user", func(t *testing.T) {
		t.Parallel()

		env := newUsersTestEnv()
		req := multipartAvatarRequest(t, "avatar")
		rr := httptest.NewRecorder()

		env.handler.UpdateAvatar(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
