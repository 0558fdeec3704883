package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrPasswordMismatch = errors.New("passwords do not match")
var ErrResetTokenInvalid = errors.New("reset link is invalid or has expired")

// User models a seller/shopper account. PasswordHash is a bcrypt digest and
// never leaves the process. ResetToken and ResetTokenExpiry are set together
// while a password-reset window is open and cleared together when it closes.
type User struct {
	ID               string    `json:"id" bson:"_id,omitempty"`
	Email            string    `json:"email" bson:"email"`
	PasswordHash     string    `json:"-" bson:"password_hash"`
	ResetToken       string    `json:"-" bson:"reset_token,omitempty"`
	ResetTokenExpiry time.Time `json:"-" bson:"reset_token_expiry,omitempty"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"`
}

// HasActiveResetToken reports whether a reset window is open at the given time.
func (u *User) HasActiveResetToken(now time.Time) bool {
	return u.ResetToken != "" && now.Before(u.ResetTokenExpiry)
}

// NormalizeEmail canonicalises an address so lookups and the unique index
// agree on what "the same email" means.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
