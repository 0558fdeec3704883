package ports

import (
	"context"
	"time"

	"github.com/minutemart/storefront/internal/core/domain"
)

// UserRepository is the credential store boundary. Lookups are equality-only;
// the implementation must enforce email uniqueness.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// SetResetToken opens a reset window: both token and expiry are written
	// in one update.
	SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error

	// FindByResetToken matches a stored token whose expiry is still after
	// now. Expired and unknown tokens are both domain.ErrUserNotFound.
	FindByResetToken(ctx context.Context, token string, now time.Time) (*domain.User, error)

	// CompletePasswordReset writes the new hash and clears both reset fields
	// in a single persistence operation.
	CompletePasswordReset(ctx context.Context, userID, passwordHash string) error
}
