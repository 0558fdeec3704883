package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/minutemart/storefront/internal/api/metrics"
	"github.com/minutemart/storefront/internal/core/domain"
	"github.com/minutemart/storefront/internal/core/ports"
)

const resetTokenBytes = 32

// AuthService implements signup, login, logout and the password-reset token
// lifecycle. All credential failures surface as domain.ErrInvalidCredentials
// or domain.ErrResetTokenInvalid with no distinguishing detail, so callers
// cannot probe which accounts exist.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionManager
	notifier ports.ResetNotifier
	baseURL  string
	resetTTL time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionManager, notifier ports.ResetNotifier, baseURL string, resetTTL time.Duration, log zerolog.Logger) *AuthService {
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		notifier: notifier,
		baseURL:  baseURL,
		resetTTL: resetTTL,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	email := domain.NormalizeEmail(in.Email)
	if in.Password != in.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}

	// Pre-check for a friendly failure; the unique index backstops races.
	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	created, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	metrics.SignupsTotal.Inc()
	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	// No session is attached here: the user logs in explicitly.
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, sess *domain.Session, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.sessions.Authenticate(ctx, sess, user.ID); err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Str("session_id", sess.ID).Msg("user logged in")
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, sess *domain.Session) error {
	if !sess.Authenticated() {
		return domain.ErrNotAuthenticated
	}
	return s.sessions.Destroy(ctx, sess)
}

func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Silent no-op: responding differently would confirm which
			// addresses have accounts.
			s.log.Debug().Msg("reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := newResetToken()
	if err != nil {
		return err
	}

	expiry := s.now().Add(s.resetTTL)
	if err := s.users.SetResetToken(ctx, user.ID, token, expiry); err != nil {
		return err
	}

	link := s.baseURL + "/auth/reset/" + token
	if err := s.notifier.SendResetLink(ctx, user.Email, link); err != nil {
		return fmt.Errorf("send reset link: %w", err)
	}

	metrics.ResetTokensTotal.WithLabelValues("issued").Inc()
	s.log.Info().Str("user_id", user.ID).Time("expiry", expiry).Msg("password reset token issued")
	return nil
}

func (s *AuthService) CompletePasswordReset(ctx context.Context, token, password, confirmPassword string) error {
	if password != confirmPassword {
		return domain.ErrPasswordMismatch
	}

	user, err := s.users.FindByResetToken(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Unknown and expired tokens collapse into one outcome.
			return domain.ErrResetTokenInvalid
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	// Hash write and token clear happen in one persistence operation so an
	// expired-but-uncleared token can never be replayed.
	if err := s.users.CompletePasswordReset(ctx, user.ID, string(hash)); err != nil {
		return err
	}

	metrics.ResetTokensTotal.WithLabelValues("consumed").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("password reset completed")
	return nil
}

func newResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
