package ports

import (
	"context"
	"errors"

	"github.com/minutemart/storefront/internal/core/domain"
)

// ErrSessionNotFound is returned for unknown or expired session tokens.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists sessions with a store-enforced inactivity expiry:
// Save (re)arms the expiry window, so any resolve that saves the session
// keeps it alive.
type SessionStore interface {
	Find(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, sess *domain.Session) error
	Delete(ctx context.Context, id string) error
}
