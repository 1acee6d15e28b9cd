package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/contacts-api/internal/api/shared"
	"github.com/phrazzld/contacts-api/internal/domain"
	"github.com/phrazzld/contacts-api/internal/store"
)

// ContactsHandler handles the contact collection API requests. Every
// operation is scoped to the authenticated owner; a contact belonging to
// someone else is reported exactly like a missing one.
type ContactsHandler struct {
	contactStore store.ContactStore
	validator    *validator.Validate
	logger       *slog.Logger
}

// NewContactsHandler creates a new ContactsHandler with the given
// dependencies. If log is nil, a default logger will be used.
func NewContactsHandler(contactStore store.ContactStore, log *slog.Logger) *ContactsHandler {
	if log == nil {
		log = slog.Default()
	}

	return &ContactsHandler{
		contactStore: contactStore,
		validator:    newValidator(),
		logger:       log.With(slog.String("component", "contacts_handler")),
	}
}

// List handles GET /api/contacts.
func (h *ContactsHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := requireCurrentUser(w, r)
	if !ok {
		return
	}

	contacts, err := h.contactStore.ListByOwner(r.Context(), user.ID)
	if err != nil {
		respondWithMappedError(w, r, err, "Failed to list contacts")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, contacts)
}

// Get handles GET /api/contacts/{contactId}.
func (h *ContactsHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := requireCurrentUser(w, r)
	if !ok {
		return
	}

	contactID, ok := contactIDFromPath(w, r)
	if !ok {
		return
	}

	contact, err := h.contactStore.GetByID(r.Context(), contactID, user.ID)
	if err != nil {
		respondWithMappedError(w, r, err, "Failed to get contact")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, contact)
}

// Create handles POST /api/contacts.
func (h *ContactsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireCurrentUser(w, r)
	if !ok {
		return
	}

	var req CreateContactRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, ValidationMessage(err))
		return
	}

	contact, err := domain.NewContact(user.ID, req.Name, req.Email, req.Phone)
	if err != nil {
		respondWithMappedError(w, r, err, "Failed to create contact")
		return
	}

	if err := h.contactStore.Create(r.Context(), contact); err != nil {
		respondWithMappedError(w, r, err, "Failed to create contact")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, contact)
}

// Update handles PUT /api/contacts/{contactId}.
// Absent fields keep their stored values; a body carrying no recognized
// field is rejected before touching the store.
func (h *ContactsHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := requireCurrentUser(w, r)
	if !ok {
		return
	}

	contactID, ok := contactIDFromPath(w, r)
	if !ok {
		return
	}

	var req UpdateContactRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.IsEmpty() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "missing fields")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, ValidationMessage(err))
		return
	}

	update := domain.ContactUpdate{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}

	contact, err := h.contactStore.Update(r.Context(), contactID, user.ID, update)
	if err != nil {
		respondWithMappedError(w, r, err, "Failed to update contact")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, contact)
}

// Favorite handles PATCH /api/contacts/{contactId}/favorite.
func (h *ContactsHandler) Favorite(w http.ResponseWriter, r *http.Request) {
	user, ok := requireCurrentUser(w, r)
	if !ok {
		return
	}

	contactID, ok := contactIDFromPath(w, r)
	if !ok {
		return
	}

	var req FavoriteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		// A non-boolean favorite fails decoding; report it the same way as
		// an absent one.
		shared.RespondWithError(w, r, http.StatusBadRequest, "missing field favorite")
		return
	}

	if req.Favorite == nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "missing field favorite")
		return
	}

	contact, err := h.contactStore.UpdateFavorite(r.Context(), contactID, user.ID, *req.Favorite)
	if err != nil {
		respondWithMappedError(w, r, err, "Failed to update contact")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, contact)
}

// Delete handles DELETE /api/contacts/{contactId}.
func (h *ContactsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := requireCurrentUser(w, r)
	if !ok {
		return
	}

	contactID, ok := contactIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.contactStore.Delete(r.Context(), contactID, user.ID); err != nil {
		respondWithMappedError(w, r, err, "Failed to delete contact")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "contact deleted"})
}
