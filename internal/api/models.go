package api

// Common request/response structures

// SignupRequest defines the payload for the user signup endpoint.
type SignupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ResendVerificationRequest defines the payload for the verification
// resend endpoint.
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UserResponse is the public projection of a user account.
type UserResponse struct {
	Email        string `json:"email"`
	Subscription string `json:"subscription"`
	AvatarURL    string `json:"avatarURL,omitempty"`
}

// SignupResponse defines the successful response for the signup endpoint.
type SignupResponse struct {
	User UserResponse `json:"user"`
}

// LoginResponse defines the successful response for the login endpoint.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// AvatarResponse defines the successful response for the avatar upload
// endpoint.
type AvatarResponse struct {
	AvatarURL string `json:"avatarURL"`
}

// MessageResponse is the generic confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateContactRequest defines the payload for contact creation.
type CreateContactRequest struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

// UpdateContactRequest defines the payload for a partial contact replace.
// Each field is optional but at least one must be present; a field that is
// present must not be empty.
type UpdateContactRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,min=1"`
}

// IsEmpty reports whether the request carries no recognized field.
func (r UpdateContactRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && r.Phone == nil
}

// FavoriteRequest defines the payload for the favorite toggle. The pointer
// distinguishes an absent field from an explicit false.
type FavoriteRequest struct {
	Favorite *bool `json:"favorite"`
}
