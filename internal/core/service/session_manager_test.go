package service

import (
	"context"
	"testing"

	"github.com/minutemart/storefront/internal/core/domain"
)

func TestSessionManager_Resolve_NewSession(t *testing.T) {
	store := newStubSessionStore()
	m := NewSessionManager(store, newStubUserRepo(), testLogger())

	sess, err := m.Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if sess.ID == "" || sess.CSRFSecret == "" {
		t.Fatalf("new session must carry an id and a csrf secret")
	}
	if sess.Authenticated() {
		t.Fatalf("new session must be anonymous")
	}
	if _, ok := store.sessions[sess.ID]; !ok {
		t.Fatalf("new session must be persisted immediately")
	}
}

func TestSessionManager_Resolve_ExistingSlidesWindow(t *testing.T) {
	store := newStubSessionStore()
	m := NewSessionManager(store, newStubUserRepo(), testLogger())

	first, err := m.Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	savesAfterCreate := store.saves

	again, err := m.Resolve(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("resolve with known token failed: %v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("known token must return the same session, got %q", again.ID)
	}
	if store.saves != savesAfterCreate+1 {
		t.Fatalf("resolving an existing session must re-save it to slide the TTL")
	}
}

func TestSessionManager_Resolve_UnknownTokenGetsFreshSession(t *testing.T) {
	store := newStubSessionStore()
	m := NewSessionManager(store, newStubUserRepo(), testLogger())

	sess, err := m.Resolve(context.Background(), "expired-or-forged")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if sess.ID == "expired-or-forged" {
		t.Fatalf("unknown tokens must never be adopted as session ids")
	}
	if sess.Authenticated() {
		t.Fatalf("replacement session must be anonymous")
	}
}

func TestSessionManager_CSRFTokenStablePerSession(t *testing.T) {
	store := newStubSessionStore()
	m := NewSessionManager(store, newStubUserRepo(), testLogger())
	ctx := context.Background()

	a, _ := m.Resolve(ctx, "")
	b, _ := m.Resolve(ctx, "")

	if a.CSRFToken() != a.CSRFToken() {
		t.Fatalf("csrf token must be deterministic for a session")
	}
	if a.CSRFToken() == b.CSRFToken() {
		t.Fatalf("distinct sessions must not share csrf tokens")
	}
	if !a.VerifyCSRF(a.CSRFToken()) {
		t.Fatalf("a session must accept its own token")
	}
	if a.VerifyCSRF(b.CSRFToken()) {
		t.Fatalf("a token minted for another session must be rejected")
	}
}

func TestSessionManager_CurrentUser(t *testing.T) {
	store := newStubSessionStore()
	users := newStubUserRepo()
	m := NewSessionManager(store, users, testLogger())
	ctx := context.Background()

	sess, _ := m.Resolve(ctx, "")

	user, err := m.CurrentUser(ctx, sess)
	if err != nil || user != nil {
		t.Fatalf("anonymous session must yield nil user, got %v %v", user, err)
	}

	created, _ := users.Create(ctx, &domain.User{Email: "a@x.com", PasswordHash: "h"})
	if err := m.Authenticate(ctx, sess, created.ID); err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}

	user, err = m.CurrentUser(ctx, sess)
	if err != nil {
		t.Fatalf("current user failed: %v", err)
	}
	if user == nil || user.ID != created.ID {
		t.Fatalf("expected user %s, got %+v", created.ID, user)
	}
}

func TestSessionManager_CurrentUser_MissingAccount(t *testing.T) {
	store := newStubSessionStore()
	m := NewSessionManager(store, newStubUserRepo(), testLogger())
	ctx := context.Background()

	sess, _ := m.Resolve(ctx, "")
	sess.UserID = "deleted-account"

	// A session pointing at a removed account degrades to anonymous
	// instead of failing the request.
	user, err := m.CurrentUser(ctx, sess)
	if err != nil {
		t.Fatalf("expected graceful degradation, got %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil user for a missing account, got %+v", user)
	}
}

func TestSessionManager_Destroy(t *testing.T) {
	store := newStubSessionStore()
	m := NewSessionManager(store, newStubUserRepo(), testLogger())
	ctx := context.Background()

	sess, _ := m.Resolve(ctx, "")
	sess.Cart.Add("p1")
	if err := m.Authenticate(ctx, sess, "u1"); err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}

	if err := m.Destroy(ctx, sess); err != nil {
		t.Fatalf("destroy failed: %v", err)
	}
	if _, ok := store.sessions[sess.ID]; ok {
		t.Fatalf("destroyed session must be removed from the store")
	}
	if sess.Authenticated() || len(sess.Cart.Items) != 0 {
		t.Fatalf("destroyed session must lose its identity and cart")
	}
}
