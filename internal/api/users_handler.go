package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/contacts-api/internal/api/shared"
	"github.com/phrazzld/contacts-api/internal/domain"
	"github.com/phrazzld/contacts-api/internal/mail"
	"github.com/phrazzld/contacts-api/internal/platform/avatar"
	"github.com/phrazzld/contacts-api/internal/platform/gravatar"
	"github.com/phrazzld/contacts-api/internal/platform/logger"
	"github.com/phrazzld/contacts-api/internal/service/auth"
	"github.com/phrazzld/contacts-api/internal/store"
	"github.com/phrazzld/contacts-api/internal/task"
)

// maxAvatarBytes bounds the multipart memory buffer for avatar uploads.
const maxAvatarBytes = 10 << 20

// invalidCredentialsMessage is returned for every login failure: unknown
// email, wrong password, and an unverified account. Distinguishing them
// would leak account existence and state.
const invalidCredentialsMessage = "Email or password is wrong"

// TaskSubmitter enqueues background work. It is satisfied by *task.Runner.
type TaskSubmitter interface {
	Submit(t task.Task) error
}

// UsersHandler handles account lifecycle API requests: signup, login,
// logout, verification, and avatar upload.
type UsersHandler struct {
	userStore        store.UserStore
	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier
	avatarProcessor  avatar.Processor
	mailer           mail.Mailer
	tasks            TaskSubmitter
	validator        *validator.Validate
	logger           *slog.Logger
}

// NewUsersHandler creates a new UsersHandler with the given dependencies.
// If log is nil, a default logger will be used.
func NewUsersHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	passwordHasher auth.PasswordHasher,
	passwordVerifier auth.PasswordVerifier,
	avatarProcessor avatar.Processor,
	mailer mail.Mailer,
	tasks TaskSubmitter,
	log *slog.Logger,
) *UsersHandler {
	if log == nil {
		log = slog.Default()
	}

	return &UsersHandler{
		userStore:        userStore,
		jwtService:       jwtService,
		passwordHasher:   passwordHasher,
		passwordVerifier: passwordVerifier,
		avatarProcessor:  avatarProcessor,
		mailer:           mailer,
		tasks:            tasks,
		validator:        newValidator(),
		logger:           log.With(slog.String("component", "users_handler")),
	}
}

// Signup handles POST /api/users/signup.
// It creates a pending-verification account and dispatches the verification
// email without waiting on delivery.
func (h *UsersHandler) Signup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SignupRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, ValidationMessage(err))
		return
	}

	user, err := domain.NewUser(req.Email, req.Password)
	if err != nil {
		respondWithMappedError(w, r, err, "Failed to create user")
		return
	}

	hash, err := h.passwordHasher.Hash(user.Password)
	if err != nil {
		respondWithMappedError(w, r, err, "Failed to create user")
		return
	}
	user.HashedPassword = hash
	user.Password = ""
	user.AvatarURL = gravatar.URL(user.Email)

	if err := h.userStore.Create(r.Context(), user); err != nil {
		respondWithMappedError(w, r, err, "Failed to create user")
		return
	}

	// Fire-and-forget: the response does not wait on delivery, and a full
	// queue only costs the mail, not the signup.
	emailTask := task.NewVerificationEmailTask(user.Email, *user.VerificationToken, h.mailer)
	if err := h.tasks.Submit(emailTask); err != nil {
		log.Error("failed to enqueue verification email",
			"error", err,
			"user_id", user.ID)
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, SignupResponse{
		User: UserResponse{
			Email:        user.Email,
			Subscription: string(user.Subscription),
			AvatarURL:    user.AvatarURL,
		},
	})
}

// Login handles POST /api/users/login.
// On success the issued token is stored on the user record, revoking any
// previously issued session.
func (h *UsersHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, ValidationMessage(err))
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		// An unknown email reads like a credential mismatch; only genuine
		// store failures go through the mapper.
		if store.IsNotFoundError(err) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, invalidCredentialsMessage)
			return
		}
		respondWithMappedError(w, r, err, "Failed to authenticate user")
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, invalidCredentialsMessage)
		return
	}

	if !user.Verified {
		shared.RespondWithError(w, r, http.StatusUnauthorized, invalidCredentialsMessage)
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		respondWithMappedError(w, r, err, "Failed to generate authentication token")
		return
	}

	if err := h.userStore.UpdateSessionToken(r.Context(), user.ID, &token); err != nil {
		respondWithMappedError(w, r, err, "Failed to authenticate user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		Token: token,
		User: UserResponse{
			Email:        user.Email,
			Subscription: string(user.Subscription),
		},
	})
}

// Logout handles GET /api/users/logout.
// Clearing the stored session token immediately revokes the presented one.
func (h *UsersHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := requireCurrentUser(w, r)
	if !ok {
		return
	}

	if err := h.userStore.UpdateSessionToken(r.Context(), user.ID, nil); err != nil {
		// The account vanishing between middleware and here reads as an
		// authorization failure, not a missing resource.
		if store.IsNotFoundError(err) {
			err = domain.ErrUnauthorized
		}
		respondWithMappedError(w, r, err, "Failed to log out")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Current handles GET /api/users/current.
func (h *UsersHandler) Current(w http.ResponseWriter, r *http.Request) {
	user, ok := requireCurrentUser(w, r)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UserResponse{
		Email:        user.Email,
		Subscription: string(user.Subscription),
	})
}

// Verify handles GET /api/users/verify/{verificationToken}.
// Consuming a token clears it, so a second attempt with the same token is
// indistinguishable from an unknown one.
func (h *UsersHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "verificationToken")

	user, err := h.userStore.GetByVerificationToken(r.Context(), token)
	if err != nil {
		respondWithMappedError(w, r, err, "Failed to verify email")
		return
	}

	if err := h.userStore.MarkVerified(r.Context(), user.ID); err != nil {
		respondWithMappedError(w, r, err, "Failed to verify email")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Verification successful"})
}

// ResendVerification handles POST /api/users/verify/resend.
func (h *UsersHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req ResendVerificationRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, ValidationMessage(err))
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		respondWithMappedError(w, r, err, "Failed to resend verification email")
		return
	}

	if user.Verified {
		respondWithMappedError(w, r, domain.ErrAlreadyVerified, "")
		return
	}

	if user.VerificationToken == nil {
		respondWithMappedError(w, r,
			fmt.Errorf("pending user %s has no verification token", user.ID),
			"Failed to resend verification email")
		return
	}

	emailTask := task.NewVerificationEmailTask(user.Email, *user.VerificationToken, h.mailer)
	if err := h.tasks.Submit(emailTask); err != nil {
		respondWithMappedError(w, r, err, "Failed to resend verification email")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Verification email sent"})
}

// UpdateAvatar handles PATCH /api/users/avatars.
// It accepts a multipart upload in the "avatar" field, processes it into
// the public avatars directory, and updates the user's avatar reference.
func (h *UsersHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := requireCurrentUser(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "missing avatar file")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "missing avatar file")
		return
	}
	defer func() { _ = file.Close() }()

	avatarURL, err := h.avatarProcessor.Process(r.Context(), user.ID, file, header.Filename)
	if err != nil {
		respondWithMappedError(w, r, err, "Failed to process avatar")
		return
	}

	if err := h.userStore.UpdateAvatarURL(r.Context(), user.ID, avatarURL); err != nil {
		respondWithMappedError(w, r, err, "Failed to process avatar")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AvatarResponse{AvatarURL: avatarURL})
}
