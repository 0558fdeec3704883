package domain

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

var ErrNotAuthenticated = errors.New("authentication required")
var ErrCSRFTokenInvalid = errors.New("invalid csrf token")

// Session is the server-side state behind the opaque cookie token. Only the
// ID travels to the client; everything else lives in the session store and
// expires with it. A session with an empty UserID is anonymous and grants
// no access to authenticated resources.
type Session struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id,omitempty"`
	CSRFSecret string    `json:"csrf_secret"`
	Cart       Cart      `json:"cart"`
	CreatedAt  time.Time `json:"created_at"`
}

// Authenticated reports whether a user identity is bound to the session.
func (s *Session) Authenticated() bool {
	return s.UserID != ""
}

// CSRFToken derives the anti-forgery token for this session. The derivation
// is deterministic per session secret, so the token embedded in a form stays
// valid for the whole session but is worthless to any other session.
func (s *Session) CSRFToken() string {
	mac := hmac.New(sha256.New, []byte(s.CSRFSecret))
	mac.Write([]byte(s.ID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyCSRF checks a client-supplied token against the derivable one.
func (s *Session) VerifyCSRF(token string) bool {
	if token == "" || s.CSRFSecret == "" {
		return false
	}
	return hmac.Equal([]byte(s.CSRFToken()), []byte(token))
}
