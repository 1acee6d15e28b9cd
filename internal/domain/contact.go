package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common contact validation errors. Each wraps ErrValidation so callers can
// classify without matching individual sentinels.
var (
	ErrEmptyContactID = fmt.Errorf("%w: contact ID cannot be empty", ErrValidation)
	ErrEmptyOwnerID   = fmt.Errorf("%w: contact owner ID cannot be empty", ErrValidation)
	ErrEmptyName      = fmt.Errorf("%w: name cannot be empty", ErrValidation)
	ErrEmptyPhone     = fmt.Errorf("%w: phone cannot be empty", ErrValidation)
)

// Contact is a single phone-book entry. Every contact belongs to exactly one
// owner; stores never return, update, or delete a contact across an
// ownership boundary.
type Contact struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Favorite  bool      `json:"favorite"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewContact creates a Contact bound to the given owner.
// Favorite defaults to false. Returns an error if validation fails.
func NewContact(ownerID uuid.UUID, name, email, phone string) (*Contact, error) {
	now := time.Now().UTC()
	contact := &Contact{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		Email:     email,
		Phone:     phone,
		Favorite:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := contact.Validate(); err != nil {
		return nil, err
	}

	return contact, nil
}

// Validate checks if the Contact has valid data.
// Returns an error if any field fails validation.
func (c *Contact) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyContactID
	}

	if c.OwnerID == uuid.Nil {
		return ErrEmptyOwnerID
	}

	if c.Name == "" {
		return ErrEmptyName
	}

	if c.Email == "" {
		return ErrEmptyEmail
	}

	if !validEmailFormat(c.Email) {
		return ErrInvalidEmail
	}

	if c.Phone == "" {
		return ErrEmptyPhone
	}

	return nil
}

// ContactUpdate carries the fields of a partial contact replace. A nil field
// means "leave unchanged". At least one field must be set.
type ContactUpdate struct {
	Name  *string
	Email *string
	Phone *string
}

// IsEmpty reports whether the update carries no recognized field.
func (u ContactUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil
}

// Apply overlays the update onto the contact and bumps UpdatedAt.
func (u ContactUpdate) Apply(c *Contact) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Email != nil {
		c.Email = *u.Email
	}
	if u.Phone != nil {
		c.Phone = *u.Phone
	}
	c.UpdatedAt = time.Now().UTC()
}
