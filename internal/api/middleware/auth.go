package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/contacts-api/internal/api/shared"
	"github.com/phrazzld/contacts-api/internal/domain"
	"github.com/phrazzld/contacts-api/internal/service/auth"
	"github.com/phrazzld/contacts-api/internal/store"
)

// notAuthorizedMessage is the single message body for every authentication
// failure. A missing header, a bad signature, an expired token, an unknown
// user, and a revoked session are deliberately indistinguishable to clients.
const notAuthorizedMessage = "Not authorized"

// AuthMiddleware provides bearer-token authentication for routes.
//
// A token is accepted only if it passes signature and expiry verification
// AND equals the session token currently stored on the resolved user record.
// The stored-token match gives the server immediate revocation on logout,
// which token expiry alone cannot.
type AuthMiddleware struct {
	jwtService auth.JWTService
	userStore  store.UserStore
	logger     *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
// If log is nil, a default logger will be used.
func NewAuthMiddleware(jwtService auth.JWTService, userStore store.UserStore, log *slog.Logger) *AuthMiddleware {
	if log == nil {
		log = slog.Default()
	}

	return &AuthMiddleware{
		jwtService: jwtService,
		userStore:  userStore,
		logger:     log.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate validates bearer tokens from the Authorization header,
// resolves the token's subject to a user record, checks the stored session
// token, and adds the user to the request context for authorized requests.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, notAuthorizedMessage, auth.ErrMissingToken)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, notAuthorizedMessage,
				fmt.Errorf("%w: malformed authorization header", auth.ErrInvalidToken))
			return
		}

		token := parts[1]

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken),
				errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrTokenNotYetValid):
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, notAuthorizedMessage, err)
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			}
			return
		}

		user, err := m.userStore.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if store.IsNotFoundError(err) {
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, notAuthorizedMessage, err)
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			return
		}

		// Logout or a newer login invalidates previously issued tokens.
		if user.SessionToken == nil || *user.SessionToken != token {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, notAuthorizedMessage, auth.ErrSessionRevoked)
			return
		}

		ctx := context.WithValue(r.Context(), shared.CurrentUserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentUser extracts the authenticated user from the request context.
// Returns the user and a boolean indicating if it was found.
func CurrentUser(r *http.Request) (*domain.User, bool) {
	user, ok := r.Context().Value(shared.CurrentUserContextKey).(*domain.User)
	return user, ok && user != nil
}
