package ports

import (
	"context"

	"github.com/minutemart/storefront/internal/core/domain"
)

// SessionManager issues, validates and destroys server-side sessions.
type SessionManager interface {
	// Resolve returns the session for a client token, or a freshly created
	// anonymous session when the token is absent, unknown or expired. It
	// never rejects a request: no identity is a valid state, not an error.
	Resolve(ctx context.Context, clientToken string) (*domain.Session, error)

	// Authenticate binds userID to the session. Callers must have verified
	// the password first.
	Authenticate(ctx context.Context, sess *domain.Session, userID string) error

	// CurrentUser resolves the session identity against the credential
	// store. An anonymous session, or one whose user has since vanished,
	// yields (nil, nil).
	CurrentUser(ctx context.Context, sess *domain.Session) (*domain.User, error)

	// Save persists non-identity session mutations (e.g. the cart).
	Save(ctx context.Context, sess *domain.Session) error

	// Destroy removes the server-side session state entirely, so a captured
	// token cannot be replayed after logout.
	Destroy(ctx context.Context, sess *domain.Session) error
}
