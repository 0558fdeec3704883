package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/minutemart/storefront/internal/core/domain"
	"github.com/minutemart/storefront/internal/core/ports"
)

const csrfSecretBytes = 32

// SessionManager implements ports.SessionManager on top of a TTL-enforcing
// session store. Session mutation is last-writer-wins: changes are rare and
// per-user, so no locking is applied.
type SessionManager struct {
	store ports.SessionStore
	users ports.UserRepository
	log   zerolog.Logger
}

func NewSessionManager(store ports.SessionStore, users ports.UserRepository, log zerolog.Logger) *SessionManager {
	return &SessionManager{store: store, users: users, log: log}
}

func (m *SessionManager) Resolve(ctx context.Context, clientToken string) (*domain.Session, error) {
	if clientToken != "" {
		sess, err := m.store.Find(ctx, clientToken)
		switch {
		case err == nil:
			// Saving slides the inactivity window.
			if err := m.store.Save(ctx, sess); err != nil {
				return nil, err
			}
			return sess, nil
		case !errors.Is(err, ports.ErrSessionNotFound):
			return nil, err
		}
		// Unknown or expired token: fall through to a fresh session.
	}

	secret, err := newCSRFSecret()
	if err != nil {
		return nil, err
	}
	sess := &domain.Session{
		ID:         uuid.NewString(),
		CSRFSecret: secret,
		CreatedAt:  time.Now().UTC(),
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	m.log.Debug().Str("session_id", sess.ID).Msg("session created")
	return sess, nil
}

func (m *SessionManager) Authenticate(ctx context.Context, sess *domain.Session, userID string) error {
	sess.UserID = userID
	return m.store.Save(ctx, sess)
}

func (m *SessionManager) CurrentUser(ctx context.Context, sess *domain.Session) (*domain.User, error) {
	if !sess.Authenticated() {
		return nil, nil
	}
	user, err := m.users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// The account vanished after login; treat the session as
			// anonymous rather than failing the request.
			m.log.Warn().Str("session_id", sess.ID).Str("user_id", sess.UserID).Msg("session references missing user")
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (m *SessionManager) Save(ctx context.Context, sess *domain.Session) error {
	return m.store.Save(ctx, sess)
}

func (m *SessionManager) Destroy(ctx context.Context, sess *domain.Session) error {
	if err := m.store.Delete(ctx, sess.ID); err != nil {
		return err
	}
	sess.UserID = ""
	sess.Cart = domain.Cart{}
	return nil
}

func newCSRFSecret() (string, error) {
	b := make([]byte, csrfSecretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate csrf secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
