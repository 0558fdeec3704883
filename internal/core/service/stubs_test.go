package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/minutemart/storefront/internal/core/domain"
	"github.com/minutemart/storefront/internal/core/ports"
)

// errStoreDown stands in for any infrastructure failure in the stubs below.
var errStoreDown = errors.New("store unavailable")

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// ── credential store stub ─────────────────────────────────────────────────────

type stubUserRepo struct {
	users  map[string]*domain.User // by id
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		r.nextID++
		copy.ID = "u" + strconv.Itoa(r.nextID)
	}
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) SetResetToken(_ context.Context, userID, token string, expiry time.Time) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ResetToken = token
	u.ResetTokenExpiry = expiry
	return nil
}

func (r *stubUserRepo) FindByResetToken(_ context.Context, token string, now time.Time) (*domain.User, error) {
	for _, u := range r.users {
		if u.ResetToken == token && now.Before(u.ResetTokenExpiry) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) CompletePasswordReset(_ context.Context, userID, passwordHash string) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetToken = ""
	u.ResetTokenExpiry = time.Time{}
	return nil
}

// ── session store stub ────────────────────────────────────────────────────────

type stubSessionStore struct {
	sessions map[string]*domain.Session
	saves    int
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func cloneSession(s *domain.Session) *domain.Session {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Cart.Items = append([]domain.CartItem(nil), s.Cart.Items...)
	return &clone
}

func (s *stubSessionStore) Find(_ context.Context, id string) (*domain.Session, error) {
	if sess, ok := s.sessions[id]; ok {
		return cloneSession(sess), nil
	}
	return nil, ports.ErrSessionNotFound
}

func (s *stubSessionStore) Save(_ context.Context, sess *domain.Session) error {
	s.saves++
	s.sessions[sess.ID] = cloneSession(sess)
	return nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

// ── product store stub ────────────────────────────────────────────────────────

type stubProductRepo struct {
	products  map[string]*domain.Product
	nextID    int
	failWrite bool
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*domain.Product)}
}

func cloneProduct(p *domain.Product) *domain.Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	if r.failWrite {
		return nil, errStoreDown
	}
	copy := cloneProduct(p)
	if copy.ID == "" {
		r.nextID++
		copy.ID = "p" + strconv.Itoa(r.nextID)
	}
	r.products[copy.ID] = cloneProduct(copy)
	return cloneProduct(copy), nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := r.products[id]; ok {
		return cloneProduct(p), nil
	}
	return nil, domain.ErrProductNotFound
}

func (r *stubProductRepo) FindByOwner(_ context.Context, ownerID string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range r.products {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) FindPage(_ context.Context, page, perPage int64) ([]domain.Product, int64, error) {
	var out []domain.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(r.products)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *domain.Product) error {
	if r.failWrite {
		return errStoreDown
	}
	if _, ok := r.products[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) ListImageRefs(_ context.Context) ([]string, error) {
	var refs []string
	for _, p := range r.products {
		refs = append(refs, p.ImageRef)
	}
	return refs, nil
}

// ── order store stub ──────────────────────────────────────────────────────────

type stubOrderRepo struct {
	orders []domain.Order
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	copy := *o
	copy.ID = "o" + strconv.Itoa(len(r.orders)+1)
	r.orders = append(r.orders, copy)
	return &copy, nil
}

func (r *stubOrderRepo) FindByUser(_ context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

// ── file store / notifier stubs ───────────────────────────────────────────────

type stubFileStore struct {
	stored    map[string]bool
	nextRef   int
	failStore bool
	failRemove bool
	removed   []string
}

func newStubFileStore() *stubFileStore {
	return &stubFileStore{stored: make(map[string]bool)}
}

func (f *stubFileStore) Store(_ context.Context, _ ports.Upload) (string, error) {
	if f.failStore {
		return "", errStoreDown
	}
	f.nextRef++
	ref := "img" + strconv.Itoa(f.nextRef) + ".png"
	f.stored[ref] = true
	return ref, nil
}

func (f *stubFileStore) Remove(_ context.Context, ref string) error {
	if f.failRemove {
		return errStoreDown
	}
	delete(f.stored, ref)
	f.removed = append(f.removed, ref)
	return nil
}

type stubOrphanSink struct {
	refs []string
}

func (s *stubOrphanSink) Enqueue(ref string) {
	s.refs = append(s.refs, ref)
}

type stubNotifier struct {
	emails []string
	links  []string
	fail   bool
}

func (n *stubNotifier) SendResetLink(_ context.Context, email, link string) error {
	if n.fail {
		return errStoreDown
	}
	n.emails = append(n.emails, email)
	n.links = append(n.links, link)
	return nil
}
