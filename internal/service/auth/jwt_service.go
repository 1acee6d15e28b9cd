// Package auth provides token issuance/verification and password hashing
// for the contacts API.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations for managing JWT session tokens.
//
// Token expiry is enforced here; session revocation (the stored-token match)
// is enforced separately by the auth middleware. Both must pass for a
// request to be authenticated.
type JWTService interface {
	// GenerateToken creates a signed JWT embedding the user's identifier
	// and an absolute expiry. Returns the token string or an error if
	// signing fails.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken validates the provided token string and extracts the
	// claims. Returns ErrExpiredToken if the expiry has passed and
	// ErrInvalidToken if the signature or structure is invalid.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the claims carried by a session token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
