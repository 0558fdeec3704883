package ports

import (
	"context"

	"github.com/minutemart/storefront/internal/core/domain"
)

// SignupInput carries the signup form fields.
type SignupInput struct {
	Email           string
	Password        string
	ConfirmPassword string
}

// AuthService orchestrates signup, login, logout and the password-reset
// token lifecycle.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	Login(ctx context.Context, sess *domain.Session, email, password string) (*domain.User, error)
	Logout(ctx context.Context, sess *domain.Session) error

	// RequestPasswordReset issues a time-boxed token and hands the retrieval
	// link to the notifier. An unknown email is a silent no-op.
	RequestPasswordReset(ctx context.Context, email string) error

	// CompletePasswordReset consumes a token: expired and unknown tokens are
	// one outcome, and a consumed token is never accepted again.
	CompletePasswordReset(ctx context.Context, token, password, confirmPassword string) error
}
