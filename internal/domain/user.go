package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common user validation errors. Each wraps ErrValidation so callers can
// classify without matching individual sentinels.
var (
	ErrEmptyUserID         = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	ErrEmptyEmail          = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrEmptyPassword       = fmt.Errorf("%w: password cannot be empty", ErrValidation)
	ErrPasswordTooLong     = fmt.Errorf("%w: password must be at most 72 characters long", ErrValidation)
	ErrEmptyHashedPassword = fmt.Errorf("%w: hashed password cannot be empty", ErrValidation)
)

// Subscription is the plan tag attached to a user account.
type Subscription string

// Known subscription plans. New accounts start on SubscriptionStarter.
const (
	SubscriptionStarter  Subscription = "starter"
	SubscriptionPro      Subscription = "pro"
	SubscriptionBusiness Subscription = "business"
)

// IsValid reports whether s is one of the known plan tags.
func (s Subscription) IsValid() bool {
	switch s {
	case SubscriptionStarter, SubscriptionPro, SubscriptionBusiness:
		return true
	}
	return false
}

// User represents a registered account.
//
// SessionToken holds the currently issued JWT; it is nil when the user is
// logged out. VerificationToken is an opaque one-time value that is present
// while the account is pending verification and nil afterwards.
type User struct {
	ID                uuid.UUID    `json:"id"`
	Email             string       `json:"email"`
	Password          string       `json:"-"` // Plaintext password, transient during signup
	HashedPassword    string       `json:"-"` // Never exposed in JSON
	AvatarURL         string       `json:"avatarURL"`
	Subscription      Subscription `json:"subscription"`
	Verified          bool         `json:"verify"`
	VerificationToken *string      `json:"-"`
	SessionToken      *string      `json:"-"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// NewUser creates a User from signup input. It generates the ID and a fresh
// verification token, defaults the subscription, and leaves the account
// unverified. The caller is responsible for hashing the plaintext password
// before the user is stored, and for deriving the default avatar URL.
func NewUser(email, password string) (*User, error) {
	token := uuid.NewString()
	now := time.Now().UTC()
	user := &User{
		ID:                uuid.New(),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		Password:          password,
		Subscription:      SubscriptionStarter,
		Verified:          false,
		VerificationToken: &token,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if !u.Subscription.IsValid() {
		return ErrInvalidSubscription
	}

	if u.Password != "" {
		// bcrypt silently truncates beyond 72 bytes
		if len(u.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Existing users loaded from the store must carry a hash.
		return ErrEmptyPassword
	}

	return nil
}

// validEmailFormat performs basic validation of email shape: a local part,
// a single @, and a dotted domain. Handlers additionally validate request
// emails with the declarative schema layer.
func validEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
