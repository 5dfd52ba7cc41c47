package session

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"rollbook/internal/schoolapi"
)

// API is the slice of the backend client the manager needs.
type API interface {
	Login(ctx context.Context, username, password string) (*schoolapi.LoginResult, error)
	Logout(ctx context.Context, token, refreshToken string) error
	Profile(ctx context.Context, token string) (*schoolapi.User, error)
}

// Config controls cookie issuance.
type Config struct {
	CookieName string
	Issuer     string
	SigningKey string
	TTL        time.Duration
	Secure     bool
}

// Manager owns the login-session lifecycle: created on login, destroyed on
// logout or when the backend rejects the stored token.
type Manager struct {
	api   API
	store Store
	cfg   Config
}

// NewManager wires the backend client and session store.
func NewManager(api API, store Store, cfg Config) *Manager {
	return &Manager{api: api, store: store, cfg: cfg}
}

// CookieName is the name under which the signed session cookie is set.
func (m *Manager) CookieName() string { return m.cfg.CookieName }

// Secure reports whether cookies should carry the Secure attribute.
func (m *Manager) Secure() bool { return m.cfg.Secure }

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration { return m.cfg.TTL }

// Login authenticates against the backend, stores the token pair and user,
// and returns the session plus the signed cookie value.
func (m *Manager) Login(ctx context.Context, username, password string) (Session, string, error) {
	res, err := m.api.Login(ctx, username, password)
	if err != nil {
		return Session{}, "", err
	}
	s := Session{
		ID:           uuid.NewString(),
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         res.User,
	}
	if err := m.store.Save(ctx, s); err != nil {
		return Session{}, "", err
	}
	cookie, err := signCookie(s.ID, m.cfg.Issuer, m.cfg.SigningKey, m.cfg.TTL)
	if err != nil {
		return Session{}, "", err
	}
	return s, cookie, nil
}

// Current resolves a cookie value to the stored session. Any parse or lookup
// failure reads as ErrNoSession so callers fall through to the login screen.
func (m *Manager) Current(ctx context.Context, cookieValue string) (Session, error) {
	if cookieValue == "" {
		return Session{}, ErrNoSession
	}
	id, err := parseCookie(cookieValue, m.cfg.SigningKey, m.cfg.Issuer)
	if err != nil {
		return Session{}, ErrNoSession
	}
	return m.store.Get(ctx, id)
}

// Verify checks the stored access token against the profile endpoint. On
// rejection the session is deleted so stale credentials cannot linger.
func (m *Manager) Verify(ctx context.Context, s Session) (*schoolapi.User, error) {
	user, err := m.api.Profile(ctx, s.AccessToken)
	if err != nil {
		if derr := m.store.Delete(ctx, s.ID); derr != nil {
			log.Printf("session %s: delete after failed verify: %v", s.ID, derr)
		}
		return nil, err
	}
	return user, nil
}

// Logout revokes the refresh token server-side, then always deletes the
// local session. Revoke failures are logged, never surfaced.
func (m *Manager) Logout(ctx context.Context, s Session) error {
	if s.RefreshToken != "" {
		if err := m.api.Logout(ctx, s.AccessToken, s.RefreshToken); err != nil {
			log.Printf("logout revoke failed: %v", err)
		}
	}
	return m.store.Delete(ctx, s.ID)
}
