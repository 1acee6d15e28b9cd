package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/contacts-api/internal/api/middleware"
	"github.com/phrazzld/contacts-api/internal/api/shared"
	"github.com/phrazzld/contacts-api/internal/domain"
)

// requireCurrentUser extracts the authenticated user placed in the context
// by the auth middleware, writing a 401 response if it is absent.
// Returns the user and true on success.
func requireCurrentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		respondWithMappedError(w, r, domain.ErrUnauthorized, "")
		return nil, false
	}
	return user, true
}

// contactIDFromPath extracts the contact ID path parameter. A malformed ID
// cannot reference any contact, so it is reported as the same "Not found"
// a missing contact yields; the malformed value only reaches the log.
func contactIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "contactId")
	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusNotFound, "Not found",
			fmt.Errorf("%w: %q", domain.ErrInvalidID, raw))
		return uuid.Nil, false
	}
	return id, true
}
